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

type admissionService struct {
	offers       repository.OfferRepository
	participants repository.ParticipantRepository
	queue        repository.QueueRepository
	seq          *sequence.Allocator

	// The store cannot make count-then-append atomic, so all admission
	// decisions for one offer funnel through that offer's mutex.
	offerMu map[string]*sync.Mutex
	mapMu   sync.Mutex

	registerMu sync.Mutex
}

func NewAdmissionService(
	offers repository.OfferRepository,
	participants repository.ParticipantRepository,
	queue repository.QueueRepository,
	seq *sequence.Allocator,
) AdmissionService {
	return &admissionService{
		offers:       offers,
		participants: participants,
		queue:        queue,
		seq:          seq,
		offerMu:      make(map[string]*sync.Mutex),
	}
}

func (s *admissionService) offerLock(offerID string) *sync.Mutex {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()
	mu, ok := s.offerMu[offerID]
	if !ok {
		mu = &sync.Mutex{}
		s.offerMu[offerID] = mu
	}
	return mu
}

func (s *admissionService) RegisterParticipant(ctx context.Context, id int64, displayName string) error {
	// Serialized so two concurrent first contacts cannot both append.
	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	_, err := s.participants.GetByID(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to look up participant: %w", err)
	}

	p := &domain.Participant{
		ID:           id,
		DisplayName:  displayName,
		RegisteredAt: time.Now().UTC(),
		Status:       domain.ParticipantStatusActive,
	}
	if err := s.participants.Create(ctx, p); err != nil {
		return fmt.Errorf("failed to register participant: %w", err)
	}
	logger.Info("Registered participant", "participant_id", id)
	return nil
}

func (s *admissionService) ListActiveOffers(ctx context.Context) ([]domain.Offer, error) {
	return s.offers.ListActive(ctx)
}

func (s *admissionService) CapacityRemaining(ctx context.Context, offerID string) (int, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrOfferInactive
		}
		return 0, err
	}
	if !offer.Active {
		return 0, ErrOfferInactive
	}

	used, err := s.todayCount(ctx, offerID)
	if err != nil {
		return 0, err
	}
	return offer.DailyCap - used, nil
}

func (s *admissionService) Join(ctx context.Context, participantID int64, offerID string) (*domain.QueueEntry, error) {
	mu := s.offerLock(offerID)
	mu.Lock()
	defer mu.Unlock()

	remaining, err := s.CapacityRemaining(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if remaining <= 0 {
		return nil, ErrCapacityExceeded
	}

	entry := &domain.QueueEntry{
		QueueID:       s.seq.Next(QueueCollection),
		ParticipantID: participantID,
		OfferID:       offerID,
		QueuedAt:      time.Now().UTC(),
		Status:        domain.QueueStatusInQueue,
	}
	if err := s.queue.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append queue entry: %w", err)
	}

	logger.Info("Participant joined queue",
		"participant_id", participantID, "offer_id", offerID, "queue_id", entry.QueueID)
	return entry, nil
}

func (s *admissionService) TodayQueueCounts(ctx context.Context) (map[string]int, error) {
	entries, err := s.queue.List(ctx)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Format("2006-01-02")
	counts := make(map[string]int)
	for _, e := range entries {
		if e.Status.ConsumesCapacity() && e.QueuedAt.UTC().Format("2006-01-02") == today {
			counts[e.OfferID]++
		}
	}
	return counts, nil
}

func (s *admissionService) todayCount(ctx context.Context, offerID string) (int, error) {
	entries, err := s.queue.List(ctx)
	if err != nil {
		return 0, err
	}

	today := time.Now().UTC().Format("2006-01-02")
	count := 0
	for _, e := range entries {
		if e.OfferID != offerID {
			continue
		}
		if e.Status.ConsumesCapacity() && e.QueuedAt.UTC().Format("2006-01-02") == today {
			count++
		}
	}
	return count, nil
}
