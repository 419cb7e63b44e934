package domain

import "time"

type Decision string

const (
	DecisionPending        Decision = "PENDING"
	DecisionApproved       Decision = "APPROVED"
	DecisionRejected       Decision = "REJECTED"
	DecisionRepeatRequired Decision = "REPEAT_REQUIRED"
)

// QueueStatus returns the queue-entry status this decision mirrors onto
// the parent entry. PENDING mirrors nothing.
func (d Decision) QueueStatus() (QueueStatus, bool) {
	switch d {
	case DecisionApproved:
		return QueueStatusApproved, true
	case DecisionRejected:
		return QueueStatusRejected, true
	case DecisionRepeatRequired:
		return QueueStatusRepeatRequired, true
	}
	return "", false
}

// ProofSubmission is evidence submitted against a queue entry. Immutable
// once written except for ReviewerNote and Decision.
type ProofSubmission struct {
	ProofID       int64     `json:"proof_id"`
	QueueID       int64     `json:"queue_id"`
	ParticipantID int64     `json:"participant_id"`
	OfferID       string    `json:"offer_id"`
	EvidenceRef   string    `json:"evidence_ref"`
	EvidenceKind  string    `json:"evidence_kind"`
	SubmittedAt   time.Time `json:"submitted_at"`
	ReviewerNote  string    `json:"reviewer_note"`
	Decision      Decision  `json:"decision"`
}
