package events

import "time"

const LeaveLifecycleTopic = "hrms.leave.lifecycle.v1"

// LeaveStatusChangedEvent is emitted through the outbox whenever a leave
// request is created or transitions state. The employee email is snapshotted
// so downstream consumers never need a directory lookup.
type LeaveStatusChangedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	LeaveID       string    `json:"leave_id"`
	CompanyID     string    `json:"company_id"`
	EmployeeID    string    `json:"employee_id"`
	EmployeeEmail string    `json:"employee_email"`
	Status        string    `json:"status"`
	ActionBy      string    `json:"action_by,omitempty"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	OccurredAt    time.Time `json:"occurred_at"`
}
