package repository

import (
	"context"
	"errors"

	"github.com/nextsystem/dropgate/internal/domain"
)

// Store-level failures. The backing service is an external spreadsheet:
// every call is a synchronous round-trip that may be throttled or time out.
var (
	ErrStoreUnavailable = errors.New("record store unavailable")
	ErrStoreRateLimited = errors.New("record store rate limited")
	ErrNotFound         = errors.New("record not found")
)

type OfferRepository interface {
	ListActive(ctx context.Context) ([]domain.Offer, error)
	GetByID(ctx context.Context, id string) (*domain.Offer, error)
}

type ParticipantRepository interface {
	Create(ctx context.Context, p *domain.Participant) error
	GetByID(ctx context.Context, id int64) (*domain.Participant, error)
}

type QueueRepository interface {
	Append(ctx context.Context, e *domain.QueueEntry) error
	List(ctx context.Context) ([]domain.QueueEntry, error)
	GetByID(ctx context.Context, queueID int64) (*domain.QueueEntry, error)
	UpdateStatus(ctx context.Context, queueID int64, status domain.QueueStatus) error
	MaxID(ctx context.Context) (int64, error)
}

type ProofRepository interface {
	Append(ctx context.Context, p *domain.ProofSubmission) error
	List(ctx context.Context) ([]domain.ProofSubmission, error)
	GetByID(ctx context.Context, proofID int64) (*domain.ProofSubmission, error)
	UpdateDecision(ctx context.Context, proofID int64, decision domain.Decision, note string) error
	MaxID(ctx context.Context) (int64, error)
}
