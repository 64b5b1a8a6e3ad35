package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_employees_company"`

	FullName string `gorm:"type:varchar(255);not null"`
	Email    string `gorm:"type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	JobTitle string `gorm:"type:varchar(100)"`

	// ApproverID points at the employee who decides this employee's leave
	// requests. When nil, fan-out falls back to the company's HR admins.
	ApproverID *uuid.UUID `gorm:"type:uuid"`
	IsHRAdmin  bool       `gorm:"not null;default:false"`

	HireDate         time.Time `gorm:"type:date"`
	EmploymentStatus string    `gorm:"type:varchar(20);not null;default:'ACTIVE'"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_employees_deleted_at"`
}
