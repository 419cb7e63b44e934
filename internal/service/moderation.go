package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nextsystem/dropgate/internal/domain"
	"github.com/nextsystem/dropgate/internal/logger"
	"github.com/nextsystem/dropgate/internal/repository"
	"github.com/nextsystem/dropgate/internal/sequence"
)

type moderationService struct {
	proofs repository.ProofRepository
	queue  repository.QueueRepository
	seq    *sequence.Allocator

	// Held across the submission-write/queue-mirror pair (and the
	// decision/mirror pair) so the two row writes appear atomic to
	// other moderation operations.
	mu sync.Mutex
}

func NewModerationService(
	proofs repository.ProofRepository,
	queue repository.QueueRepository,
	seq *sequence.Allocator,
) ModerationService {
	return &moderationService{
		proofs: proofs,
		queue:  queue,
		seq:    seq,
	}
}

// Submit records a pending submission and moves the referenced queue entry
// to PROOF_SENT. A queueID with no matching row is accepted: the submission
// is written and the mirror is skipped. Ownership of the queue entry is not
// verified: reviewers see the sender on the review card and judge there.
func (s *moderationService) Submit(ctx context.Context, queueID, participantID int64, offerID, evidenceRef, evidenceKind string) (*domain.ProofSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proof := &domain.ProofSubmission{
		ProofID:       s.seq.Next(ProofCollection),
		QueueID:       queueID,
		ParticipantID: participantID,
		OfferID:       offerID,
		EvidenceRef:   evidenceRef,
		EvidenceKind:  evidenceKind,
		SubmittedAt:   time.Now().UTC(),
		Decision:      domain.DecisionPending,
	}
	if err := s.proofs.Append(ctx, proof); err != nil {
		return nil, fmt.Errorf("failed to append proof: %w", err)
	}

	if err := s.queue.UpdateStatus(ctx, queueID, domain.QueueStatusProofSent); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Warn("Proof references unknown queue entry",
				"proof_id", proof.ProofID, "queue_id", queueID)
		} else {
			return nil, fmt.Errorf("failed to update queue status: %w", err)
		}
	}

	logger.Info("Proof submitted",
		"proof_id", proof.ProofID, "queue_id", queueID, "participant_id", participantID)
	return proof, nil
}

// Decide applies a reviewer decision and mirrors it onto the parent queue
// entry. REPEAT_REQUIRED loops the entry back; the participant must submit
// a fresh proof to reach PROOF_SENT again.
func (s *moderationService) Decide(ctx context.Context, proofID int64, decision domain.Decision, note string) (*domain.ProofSubmission, error) {
	status, ok := decision.QueueStatus()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDecision, decision)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	proof, err := s.proofs.GetByID(ctx, proofID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("proof %d: %w", proofID, ErrNotFound)
		}
		return nil, err
	}

	if err := s.proofs.UpdateDecision(ctx, proofID, decision, note); err != nil {
		return nil, fmt.Errorf("failed to update decision: %w", err)
	}
	proof.Decision = decision
	if note != "" {
		proof.ReviewerNote = note
	}

	if err := s.queue.UpdateStatus(ctx, proof.QueueID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Dangling reference: decision stands, nothing to mirror onto.
			logger.Warn("Decided proof references unknown queue entry",
				"proof_id", proofID, "queue_id", proof.QueueID)
		} else {
			return nil, fmt.Errorf("failed to mirror decision onto queue entry: %w", err)
		}
	}

	logger.Info("Proof decided",
		"proof_id", proofID, "decision", decision, "queue_id", proof.QueueID)
	return proof, nil
}

func (s *moderationService) PendingProofs(ctx context.Context) ([]domain.ProofSubmission, error) {
	proofs, err := s.proofs.List(ctx)
	if err != nil {
		return nil, err
	}

	var pending []domain.ProofSubmission
	for _, p := range proofs {
		if p.Decision == domain.DecisionPending {
			pending = append(pending, p)
		}
	}
	return pending, nil
}
