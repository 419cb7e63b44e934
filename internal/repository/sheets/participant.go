package sheets

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nextsystem/dropgate/internal/domain"
	"github.com/nextsystem/dropgate/internal/repository"
)

type participantRepository struct {
	c *Client
}

func NewParticipantRepository(c *Client) repository.ParticipantRepository {
	return &participantRepository{c: c}
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	row := []string{
		strconv.FormatInt(p.ID, 10),
		p.DisplayName,
		formatTime(p.RegisteredAt),
		string(p.Status),
	}
	return r.c.appendRow(ctx, collectionParticipants, row)
}

func (r *participantRepository) GetByID(ctx context.Context, id int64) (*domain.Participant, error) {
	rows, err := r.c.readAll(ctx, collectionParticipants)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if parseID(row[0]) == id {
			p := parseParticipant(row)
			return &p, nil
		}
	}
	return nil, fmt.Errorf("participant %d: %w", id, repository.ErrNotFound)
}

func parseParticipant(row []string) domain.Participant {
	return domain.Participant{
		ID:           parseID(row[0]),
		DisplayName:  row[1],
		RegisteredAt: parseTime(row[2]),
		Status:       domain.ParticipantStatus(row[3]),
	}
}
