package leave

import (
	"time"

	"github.com/google/uuid"
)

type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_company_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`

	// Snapshot taken at creation so downstream consumers never need a
	// directory lookup, and history survives employee edits.
	EmployeeEmail string `gorm:"type:varchar(255);not null"`

	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Reason    string    `gorm:"type:text;not null"`

	Status     string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_company_status"`
	ApproverID *uuid.UUID `gorm:"type:uuid;index:idx_leave_requests_approver"`
	ActionBy   *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
