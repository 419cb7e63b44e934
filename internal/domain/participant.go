package domain

import "time"

type ParticipantStatus string

const (
	ParticipantStatusNew    ParticipantStatus = "new"
	ParticipantStatusActive ParticipantStatus = "active"
	ParticipantStatusBanned ParticipantStatus = "banned"
)

// Participant is created on first contact and never deleted.
type Participant struct {
	ID           int64             `json:"participant_id"`
	DisplayName  string            `json:"display_name"`
	RegisteredAt time.Time         `json:"created_at"`
	Status       ParticipantStatus `json:"status"`
}
