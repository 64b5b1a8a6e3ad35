package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification types. One row is written per recipient as a side effect of a
// workflow transition; the enum mirrors the transitions that fan out.
const (
	TypeLeaveApplication   = "leave_application"
	TypeLeaveApproved      = "leave_approved"
	TypeLeaveRejected      = "leave_rejected"
	TypeLeaveCancelled     = "leave_cancelled"
	TypeOnboardingReminder = "onboarding_reminder"
	TypeDocumentSubmitted  = "document_submitted"
	TypeGeneric            = "generic"
)

type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_recipient"`

	Type    string `gorm:"type:varchar(30);not null;default:'generic'"`
	Title   string `gorm:"type:varchar(255);not null"`
	Message string `gorm:"type:text"`

	IsRead bool       `gorm:"not null;default:false;index:idx_notifications_recipient"`
	ReadAt *time.Time `gorm:"type:timestamptz"`

	CreatedAt time.Time
}
