package employee

import (
	"context"

	"go-hrms/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, e *Employee) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error)
	FindApproversForEmployee(ctx context.Context, companyID, employeeID string) ([]Employee, error)
	FindHRAdminsByCompany(ctx context.Context, companyID string) ([]Employee, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, companyID, id string) error
	BelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Select("id", "company_id", "full_name", "email", "job_title", "is_hr_admin").
		Where("employment_status = ?", "ACTIVE").
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&e, "id = ?", id).Error
	return &e, err
}

// FindApproversForEmployee resolves the recipients of approval-directed
// notifications: the employee's own approver when one is assigned, the
// company's HR admins otherwise.
func (r *repository) FindApproversForEmployee(ctx context.Context, companyID, employeeID string) ([]Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&e, "id = ?", employeeID).Error
	if err != nil {
		return nil, err
	}

	var approvers []Employee
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if e.ApproverID != nil {
		q = q.Where("id = ?", *e.ApproverID)
	} else {
		q = q.Where("is_hr_admin = TRUE")
	}
	err = q.Find(&approvers).Error
	return approvers, err
}

func (r *repository) FindHRAdminsByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var admins []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("is_hr_admin = TRUE").
		Find(&admins).Error
	return admins, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Employee{}, "id = ?", id).Error
}

func (r *repository) BelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}
