package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextsystem/dropgate/internal/domain"
	"github.com/nextsystem/dropgate/internal/sequence"
)

func newModerationFixture() (ModerationService, *fakeProofRepo, *fakeQueueRepo) {
	proofRepo := &fakeProofRepo{}
	queueRepo := &fakeQueueRepo{}
	seq := sequence.NewAllocator()
	svc := NewModerationService(proofRepo, queueRepo, seq)
	return svc, proofRepo, queueRepo
}

func TestSubmit_MarksQueueProofSent(t *testing.T) {
	svc, proofs, queue := newModerationFixture()
	ctx := context.Background()

	queue.rows = []domain.QueueEntry{
		{QueueID: 7, ParticipantID: 42, OfferID: "1", QueuedAt: time.Now().UTC(), Status: domain.QueueStatusInQueue},
	}

	proof, err := svc.Submit(ctx, 7, 42, "1", "file-abc", "photo")
	require.NoError(t, err)

	assert.Equal(t, int64(1), proof.ProofID)
	assert.Equal(t, domain.DecisionPending, proof.Decision)
	assert.Len(t, proofs.rows, 1)
	assert.Equal(t, domain.QueueStatusProofSent, queue.rows[0].Status)
}

func TestSubmit_ToleratesDanglingQueueReference(t *testing.T) {
	svc, proofs, _ := newModerationFixture()
	ctx := context.Background()

	proof, err := svc.Submit(ctx, 999, 42, "1", "file-abc", "photo")
	require.NoError(t, err)

	assert.Equal(t, int64(999), proof.QueueID)
	assert.Len(t, proofs.rows, 1)
}

func TestDecide_MirrorsOntoQueueEntry(t *testing.T) {
	cases := []struct {
		decision domain.Decision
		status   domain.QueueStatus
	}{
		{domain.DecisionApproved, domain.QueueStatusApproved},
		{domain.DecisionRejected, domain.QueueStatusRejected},
		{domain.DecisionRepeatRequired, domain.QueueStatusRepeatRequired},
	}

	for _, tc := range cases {
		t.Run(string(tc.decision), func(t *testing.T) {
			svc, proofs, queue := newModerationFixture()
			ctx := context.Background()

			queue.rows = []domain.QueueEntry{
				{QueueID: 7, ParticipantID: 42, OfferID: "1", Status: domain.QueueStatusProofSent},
			}
			proofs.rows = []domain.ProofSubmission{
				{ProofID: 3, QueueID: 7, ParticipantID: 42, OfferID: "1", Decision: domain.DecisionPending},
			}

			proof, err := svc.Decide(ctx, 3, tc.decision, "checked")
			require.NoError(t, err)

			assert.Equal(t, tc.decision, proof.Decision)
			assert.Equal(t, "checked", proof.ReviewerNote)
			assert.Equal(t, tc.decision, proofs.rows[0].Decision)
			assert.Equal(t, tc.status, queue.rows[0].Status)
		})
	}
}

func TestDecide_NotFound(t *testing.T) {
	svc, _, _ := newModerationFixture()
	_, err := svc.Decide(context.Background(), 404, domain.DecisionApproved, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecide_RejectsUnknownDecision(t *testing.T) {
	svc, _, _ := newModerationFixture()
	_, err := svc.Decide(context.Background(), 1, domain.DecisionPending, "")
	assert.ErrorIs(t, err, ErrInvalidDecision)
}

func TestPendingProofs(t *testing.T) {
	svc, proofs, _ := newModerationFixture()

	proofs.rows = []domain.ProofSubmission{
		{ProofID: 1, Decision: domain.DecisionPending},
		{ProofID: 2, Decision: domain.DecisionApproved},
		{ProofID: 3, Decision: domain.DecisionPending},
	}

	pending, err := svc.PendingProofs(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, int64(1), pending[0].ProofID)
	assert.Equal(t, int64(3), pending[1].ProofID)
}

// Full workflow: join under a cap of one, submit, loop through a repeat
// decision, approve.
func TestWorkflow_EndToEnd(t *testing.T) {
	ctx := context.Background()

	offerRepo := &fakeOfferRepo{offers: []domain.Offer{
		{ID: "1", Name: "Casino-X", DailyCap: 1, Active: true},
	}}
	participantRepo := &fakeParticipantRepo{}
	queueRepo := &fakeQueueRepo{}
	proofRepo := &fakeProofRepo{}
	seq := sequence.NewAllocator()

	admission := NewAdmissionService(offerRepo, participantRepo, queueRepo, seq)
	moderation := NewModerationService(proofRepo, queueRepo, seq)

	// A joins, B is refused.
	entry, err := admission.Join(ctx, 100, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.QueueStatusInQueue, entry.Status)

	_, err = admission.Join(ctx, 200, "1")
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// A submits proof.
	proof, err := moderation.Submit(ctx, entry.QueueID, 100, "1", "file-1", "photo")
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionPending, proof.Decision)
	got, err := queueRepo.GetByID(ctx, entry.QueueID)
	require.NoError(t, err)
	assert.Equal(t, domain.QueueStatusProofSent, got.Status)

	// Reviewer demands a repeat.
	_, err = moderation.Decide(ctx, proof.ProofID, domain.DecisionRepeatRequired, "")
	require.NoError(t, err)
	got, err = queueRepo.GetByID(ctx, entry.QueueID)
	require.NoError(t, err)
	assert.Equal(t, domain.QueueStatusRepeatRequired, got.Status)

	// A submits a fresh proof; the entry loops back to PROOF_SENT.
	proof2, err := moderation.Submit(ctx, entry.QueueID, 100, "1", "file-2", "photo")
	require.NoError(t, err)
	assert.NotEqual(t, proof.ProofID, proof2.ProofID)
	got, err = queueRepo.GetByID(ctx, entry.QueueID)
	require.NoError(t, err)
	assert.Equal(t, domain.QueueStatusProofSent, got.Status)

	// Approval is terminal.
	_, err = moderation.Decide(ctx, proof2.ProofID, domain.DecisionApproved, "")
	require.NoError(t, err)
	got, err = queueRepo.GetByID(ctx, entry.QueueID)
	require.NoError(t, err)
	assert.Equal(t, domain.QueueStatusApproved, got.Status)
	assert.True(t, got.Status.Terminal())
}
