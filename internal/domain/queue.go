package domain

import "time"

type QueueStatus string

const (
	QueueStatusInQueue        QueueStatus = "IN_QUEUE"
	QueueStatusAssigned       QueueStatus = "ASSIGNED"
	QueueStatusProofRequired  QueueStatus = "PROOF_REQUIRED"
	QueueStatusProofSent      QueueStatus = "PROOF_SENT"
	QueueStatusRepeatRequired QueueStatus = "REPEAT_REQUIRED"
	QueueStatusApproved       QueueStatus = "APPROVED"
	QueueStatusRejected       QueueStatus = "REJECTED"
)

// Terminal reports whether no further transitions occur from this status.
func (s QueueStatus) Terminal() bool {
	return s == QueueStatusApproved || s == QueueStatusRejected
}

// ConsumesCapacity reports whether an entry in this status counts against
// the offer's daily cap. ASSIGNED and PROOF_REQUIRED are reserved for
// future admission steps; nothing transitions into them yet but they are
// counted so a future workflow cannot overrun the cap.
func (s QueueStatus) ConsumesCapacity() bool {
	switch s {
	case QueueStatusInQueue, QueueStatusAssigned, QueueStatusProofRequired,
		QueueStatusProofSent, QueueStatusRepeatRequired:
		return true
	}
	return false
}

// QueueEntry is a participant's admission record against one offer.
type QueueEntry struct {
	QueueID       int64       `json:"queue_id"`
	ParticipantID int64       `json:"participant_id"`
	OfferID       string      `json:"offer_id"`
	QueuedAt      time.Time   `json:"queued_at"`
	Status        QueueStatus `json:"status"`
}
