package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextsystem/dropgate/internal/domain"
)

func TestColLetter(t *testing.T) {
	assert.Equal(t, "A", colLetter(0))
	assert.Equal(t, "E", colLetter(4))
	assert.Equal(t, "I", colLetter(8))
}

func TestColumnIndex(t *testing.T) {
	assert.Equal(t, 4, columnIndex(collectionQueue, "status"))
	assert.Equal(t, 8, columnIndex(collectionProofs, "decision"))
	assert.Equal(t, 7, columnIndex(collectionProofs, "reviewer_note"))
	assert.Equal(t, -1, columnIndex(collectionQueue, "nonexistent"))
}

func TestHeaderMatches(t *testing.T) {
	want := collectionHeaders[collectionOffers]

	assert.True(t, headerMatches([]interface{}{"offer_id", "name", "cap_daily", "is_active"}, want))
	assert.False(t, headerMatches([]interface{}{"offer_id", "name"}, want), "short header")
	assert.False(t, headerMatches([]interface{}{"offer_id", "title", "cap_daily", "is_active"}, want), "drifted header")
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, int64(42), parseID("42"))
	assert.Equal(t, int64(0), parseID("oops"))
	assert.Equal(t, int64(0), parseID(""))

	now := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, now, parseTime(formatTime(now)))
	assert.True(t, parseTime("not-a-time").IsZero())
}

func TestParseOffer(t *testing.T) {
	o := parseOffer([]string{" 1 ", "Casino-X", "10", "TRUE"})
	assert.Equal(t, domain.Offer{ID: "1", Name: "Casino-X", DailyCap: 10, Active: true}, o)

	o = parseOffer([]string{"2", "Crypto-Y", "bad", "no"})
	assert.Equal(t, 0, o.DailyCap)
	assert.False(t, o.Active)
}

func TestActiveFlag(t *testing.T) {
	for _, s := range []string{"TRUE", "true", " 1 ", "YES", "y"} {
		assert.True(t, activeFlag(s), "%q should be active", s)
	}
	for _, s := range []string{"", "FALSE", "0", "no", "maybe"} {
		assert.False(t, activeFlag(s), "%q should be inactive", s)
	}
}

func TestParseQueueEntry(t *testing.T) {
	queuedAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	e := parseQueueEntry([]string{"12", "100", "1", formatTime(queuedAt), "IN_QUEUE"})

	assert.Equal(t, int64(12), e.QueueID)
	assert.Equal(t, int64(100), e.ParticipantID)
	assert.Equal(t, "1", e.OfferID)
	assert.Equal(t, queuedAt, e.QueuedAt)
	assert.Equal(t, domain.QueueStatusInQueue, e.Status)
}

func TestParseProof(t *testing.T) {
	submittedAt := time.Date(2025, 6, 1, 9, 5, 0, 0, time.UTC)
	p := parseProof([]string{"3", "12", "100", "1", "file-abc", "photo", formatTime(submittedAt), "", "PENDING"})

	require.Equal(t, int64(3), p.ProofID)
	assert.Equal(t, int64(12), p.QueueID)
	assert.Equal(t, "file-abc", p.EvidenceRef)
	assert.Equal(t, "photo", p.EvidenceKind)
	assert.Equal(t, submittedAt, p.SubmittedAt)
	assert.Equal(t, domain.DecisionPending, p.Decision)
}
