package onboarding

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

type Task struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_onboarding_tasks_company"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_onboarding_tasks_employee"`

	Title       string     `gorm:"type:varchar(255);not null"`
	Description string     `gorm:"type:text"`
	DueDate     *time.Time `gorm:"type:date"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending'"`
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Task) TableName() string { return "onboarding_tasks" }

// SubmittedDocument records that an employee handed in an onboarding
// document; the file itself lives in external storage and is referenced by
// URL only.
type SubmittedDocument struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_submitted_documents_company"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_submitted_documents_employee"`

	Name    string `gorm:"type:varchar(255);not null"`
	FileURL string `gorm:"type:text"`

	CreatedAt time.Time
}

func (SubmittedDocument) TableName() string { return "submitted_documents" }
