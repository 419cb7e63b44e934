package sheets

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nextsystem/dropgate/internal/domain"
	"github.com/nextsystem/dropgate/internal/repository"
)

type proofRepository struct {
	c *Client
}

func NewProofRepository(c *Client) repository.ProofRepository {
	return &proofRepository{c: c}
}

func (r *proofRepository) Append(ctx context.Context, p *domain.ProofSubmission) error {
	row := []string{
		strconv.FormatInt(p.ProofID, 10),
		strconv.FormatInt(p.QueueID, 10),
		strconv.FormatInt(p.ParticipantID, 10),
		p.OfferID,
		p.EvidenceRef,
		p.EvidenceKind,
		formatTime(p.SubmittedAt),
		p.ReviewerNote,
		string(p.Decision),
	}
	return r.c.appendRow(ctx, collectionProofs, row)
}

func (r *proofRepository) List(ctx context.Context) ([]domain.ProofSubmission, error) {
	rows, err := r.c.readAll(ctx, collectionProofs)
	if err != nil {
		return nil, err
	}

	proofs := make([]domain.ProofSubmission, 0, len(rows))
	for _, row := range rows {
		proofs = append(proofs, parseProof(row))
	}
	return proofs, nil
}

func (r *proofRepository) GetByID(ctx context.Context, proofID int64) (*domain.ProofSubmission, error) {
	rows, err := r.c.readAll(ctx, collectionProofs)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if parseID(row[0]) == proofID {
			p := parseProof(row)
			return &p, nil
		}
	}
	return nil, fmt.Errorf("proof %d: %w", proofID, repository.ErrNotFound)
}

// UpdateDecision writes the decision cell and, when a note is provided, the
// reviewer_note cell of the matching row.
func (r *proofRepository) UpdateDecision(ctx context.Context, proofID int64, decision domain.Decision, note string) error {
	rows, err := r.c.readAll(ctx, collectionProofs)
	if err != nil {
		return err
	}

	decisionCol := columnIndex(collectionProofs, "decision")
	noteCol := columnIndex(collectionProofs, "reviewer_note")

	for idx, row := range rows {
		if parseID(row[0]) != proofID {
			continue
		}
		if err := r.c.updateCell(ctx, collectionProofs, idx, decisionCol, string(decision)); err != nil {
			return err
		}
		if note != "" {
			if err := r.c.updateCell(ctx, collectionProofs, idx, noteCol, note); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("proof %d: %w", proofID, repository.ErrNotFound)
}

func (r *proofRepository) MaxID(ctx context.Context) (int64, error) {
	rows, err := r.c.readAll(ctx, collectionProofs)
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

func parseProof(row []string) domain.ProofSubmission {
	return domain.ProofSubmission{
		ProofID:       parseID(row[0]),
		QueueID:       parseID(row[1]),
		ParticipantID: parseID(row[2]),
		OfferID:       row[3],
		EvidenceRef:   row[4],
		EvidenceKind:  row[5],
		SubmittedAt:   parseTime(row[6]),
		ReviewerNote:  row[7],
		Decision:      domain.Decision(row[8]),
	}
}
