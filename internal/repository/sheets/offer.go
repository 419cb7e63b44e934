package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nextsystem/dropgate/internal/domain"
	"github.com/nextsystem/dropgate/internal/repository"
)

type offerRepository struct {
	c *Client
}

func NewOfferRepository(c *Client) repository.OfferRepository {
	return &offerRepository{c: c}
}

func (r *offerRepository) ListActive(ctx context.Context) ([]domain.Offer, error) {
	rows, err := r.c.readAll(ctx, collectionOffers)
	if err != nil {
		return nil, err
	}

	var offers []domain.Offer
	for _, row := range rows {
		o := parseOffer(row)
		if o.Active && o.ID != "" {
			offers = append(offers, o)
		}
	}
	return offers, nil
}

func (r *offerRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	rows, err := r.c.readAll(ctx, collectionOffers)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		o := parseOffer(row)
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, fmt.Errorf("offer %s: %w", id, repository.ErrNotFound)
}

func parseOffer(row []string) domain.Offer {
	dailyCap, _ := strconv.Atoi(strings.TrimSpace(row[2]))
	return domain.Offer{
		ID:       strings.TrimSpace(row[0]),
		Name:     strings.TrimSpace(row[1]),
		DailyCap: dailyCap,
		Active:   activeFlag(row[3]),
	}
}

// activeFlag accepts the spellings human sheet editors actually type.
func activeFlag(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE", "1", "YES", "Y":
		return true
	}
	return false
}
