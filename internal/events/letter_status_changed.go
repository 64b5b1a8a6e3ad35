package events

import "time"

const LetterLifecycleTopic = "hrms.letter.lifecycle.v1"

// LetterStatusChangedEvent is emitted through the outbox when an offer letter
// is generated or transitions state.
type LetterStatusChangedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LetterID       string    `json:"letter_id"`
	CompanyID      string    `json:"company_id"`
	Reference      string    `json:"reference"`
	CandidateName  string    `json:"candidate_name"`
	CandidateEmail string    `json:"candidate_email"`
	Designation    string    `json:"designation"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}
