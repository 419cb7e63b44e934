package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/nextsystem/dropgate/internal/domain"
	"github.com/nextsystem/dropgate/internal/repository"
)

// Thread-safe in-memory repositories. The real adapter offers no isolation
// either, so these mimic its read-all/append/update-cell behavior closely
// enough for workflow and interleaving tests.

type fakeOfferRepo struct {
	mu     sync.Mutex
	offers []domain.Offer
}

func (r *fakeOfferRepo) ListActive(_ context.Context) ([]domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Offer
	for _, o := range r.offers {
		if o.Active {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) GetByID(_ context.Context, id string) (*domain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.offers {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("offer %s: %w", id, repository.ErrNotFound)
}

type fakeParticipantRepo struct {
	mu   sync.Mutex
	rows []domain.Participant
}

func (r *fakeParticipantRepo) Create(_ context.Context, p *domain.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *p)
	return nil
}

func (r *fakeParticipantRepo) GetByID(_ context.Context, id int64) (*domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("participant %d: %w", id, repository.ErrNotFound)
}

type fakeQueueRepo struct {
	mu        sync.Mutex
	rows      []domain.QueueEntry
	appendErr error
}

func (r *fakeQueueRepo) Append(_ context.Context, e *domain.QueueEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.rows = append(r.rows, *e)
	return nil
}

func (r *fakeQueueRepo) List(_ context.Context) ([]domain.QueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.QueueEntry, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *fakeQueueRepo) GetByID(_ context.Context, queueID int64) (*domain.QueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.rows {
		if e.QueueID == queueID {
			cp := e
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("queue entry %d: %w", queueID, repository.ErrNotFound)
}

func (r *fakeQueueRepo) UpdateStatus(_ context.Context, queueID int64, status domain.QueueStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].QueueID == queueID {
			r.rows[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("queue entry %d: %w", queueID, repository.ErrNotFound)
}

func (r *fakeQueueRepo) MaxID(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var max int64
	for _, e := range r.rows {
		if e.QueueID > max {
			max = e.QueueID
		}
	}
	return max, nil
}

type fakeProofRepo struct {
	mu   sync.Mutex
	rows []domain.ProofSubmission
}

func (r *fakeProofRepo) Append(_ context.Context, p *domain.ProofSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *p)
	return nil
}

func (r *fakeProofRepo) List(_ context.Context) ([]domain.ProofSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ProofSubmission, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *fakeProofRepo) GetByID(_ context.Context, proofID int64) (*domain.ProofSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.ProofID == proofID {
			cp := p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("proof %d: %w", proofID, repository.ErrNotFound)
}

func (r *fakeProofRepo) UpdateDecision(_ context.Context, proofID int64, decision domain.Decision, note string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ProofID == proofID {
			r.rows[i].Decision = decision
			if note != "" {
				r.rows[i].ReviewerNote = note
			}
			return nil
		}
	}
	return fmt.Errorf("proof %d: %w", proofID, repository.ErrNotFound)
}

func (r *fakeProofRepo) MaxID(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var max int64
	for _, p := range r.rows {
		if p.ProofID > max {
			max = p.ProofID
		}
	}
	return max, nil
}
