package offerletter

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	LetterStatusDraft    = "draft"
	LetterStatusSent     = "sent"
	LetterStatusAccepted = "accepted"
	LetterStatusRejected = "rejected"
)

// Template is never hard-deleted; retiring one flips is_active so letters
// generated from it keep a resolvable ancestor.
type Template struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_letter_templates_company"`

	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`
	Content     string `gorm:"type:text;not null"`
	Version     int    `gorm:"not null;default:1"`
	IsActive    bool   `gorm:"not null;default:true"`

	// Declared placeholder names, informational only; the renderer works off
	// the content itself.
	Variables datatypes.JSON `gorm:"type:jsonb"`

	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Template) TableName() string { return "offer_letter_templates" }

type GeneratedLetter struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_generated_letters_company;uniqueIndex:uq_generated_letters_reference"`

	TemplateID   uuid.UUID `gorm:"type:uuid;not null"`
	TemplateName string    `gorm:"type:varchar(255);not null"`

	// Counter-issued per company, so uniqueness is company-scoped.
	Reference string `gorm:"type:varchar(20);not null;uniqueIndex:uq_generated_letters_reference"`

	CandidateName  string `gorm:"type:varchar(255);not null"`
	CandidateEmail string `gorm:"type:varchar(255);not null"`
	Designation    string `gorm:"type:varchar(255)"`

	// Snapshot of the fields the letter was rendered from, kept so edits can
	// merge instead of starting over.
	FormData    datatypes.JSON `gorm:"type:jsonb;not null"`
	HTMLContent string         `gorm:"type:text;not null"`

	Status string `gorm:"type:varchar(20);not null;default:'draft';index:idx_generated_letters_status"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (GeneratedLetter) TableName() string { return "generated_letters" }
