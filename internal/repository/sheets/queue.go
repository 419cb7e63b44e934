package sheets

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nextsystem/dropgate/internal/domain"
	"github.com/nextsystem/dropgate/internal/repository"
)

type queueRepository struct {
	c *Client
}

func NewQueueRepository(c *Client) repository.QueueRepository {
	return &queueRepository{c: c}
}

func (r *queueRepository) Append(ctx context.Context, e *domain.QueueEntry) error {
	row := []string{
		strconv.FormatInt(e.QueueID, 10),
		strconv.FormatInt(e.ParticipantID, 10),
		e.OfferID,
		formatTime(e.QueuedAt),
		string(e.Status),
	}
	return r.c.appendRow(ctx, collectionQueue, row)
}

func (r *queueRepository) List(ctx context.Context) ([]domain.QueueEntry, error) {
	rows, err := r.c.readAll(ctx, collectionQueue)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.QueueEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, parseQueueEntry(row))
	}
	return entries, nil
}

func (r *queueRepository) GetByID(ctx context.Context, queueID int64) (*domain.QueueEntry, error) {
	rows, err := r.c.readAll(ctx, collectionQueue)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if parseID(row[0]) == queueID {
			e := parseQueueEntry(row)
			return &e, nil
		}
	}
	return nil, fmt.Errorf("queue entry %d: %w", queueID, repository.ErrNotFound)
}

func (r *queueRepository) UpdateStatus(ctx context.Context, queueID int64, status domain.QueueStatus) error {
	rows, err := r.c.readAll(ctx, collectionQueue)
	if err != nil {
		return err
	}

	col := columnIndex(collectionQueue, "status")
	for idx, row := range rows {
		if parseID(row[0]) == queueID {
			return r.c.updateCell(ctx, collectionQueue, idx, col, string(status))
		}
	}
	return fmt.Errorf("queue entry %d: %w", queueID, repository.ErrNotFound)
}

func (r *queueRepository) MaxID(ctx context.Context) (int64, error) {
	rows, err := r.c.readAll(ctx, collectionQueue)
	if err != nil {
		return 0, err
	}

	var max int64
	for _, row := range rows {
		if id := parseID(row[0]); id > max {
			max = id
		}
	}
	return max, nil
}

func parseQueueEntry(row []string) domain.QueueEntry {
	return domain.QueueEntry{
		QueueID:       parseID(row[0]),
		ParticipantID: parseID(row[1]),
		OfferID:       row[2],
		QueuedAt:      parseTime(row[3]),
		Status:        domain.QueueStatus(row[4]),
	}
}
