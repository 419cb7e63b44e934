package service

import (
	"context"

	"github.com/nextsystem/dropgate/internal/domain"
)

// Allocator collection keys, matching the worksheet titles the entries
// land in. The sequencer is seeded from each collection's stored maximum.
const (
	QueueCollection = "Queue"
	ProofCollection = "Proofs"
)

type AdmissionService interface {
	// RegisterParticipant creates the participant on first contact.
	// Calling it again for the same ID is a no-op.
	RegisterParticipant(ctx context.Context, id int64, displayName string) error
	ListActiveOffers(ctx context.Context) ([]domain.Offer, error)
	// CapacityRemaining is the offer's daily cap minus today's
	// capacity-consuming entries, measured on the UTC calendar date.
	CapacityRemaining(ctx context.Context, offerID string) (int, error)
	Join(ctx context.Context, participantID int64, offerID string) (*domain.QueueEntry, error)
	// TodayQueueCounts returns capacity-consuming entry counts per offer
	// for the current UTC day.
	TodayQueueCounts(ctx context.Context) (map[string]int, error)
}

type ModerationService interface {
	Submit(ctx context.Context, queueID, participantID int64, offerID, evidenceRef, evidenceKind string) (*domain.ProofSubmission, error)
	Decide(ctx context.Context, proofID int64, decision domain.Decision, note string) (*domain.ProofSubmission, error)
	PendingProofs(ctx context.Context) ([]domain.ProofSubmission, error)
}
