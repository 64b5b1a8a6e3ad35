package leave

import (
	"context"
	"database/sql"

	"go-hrms/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindAllByCompany(ctx context.Context, companyID string, filter ListLeaveFilter) ([]LeaveRequest, error)
	FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveRequest, error)
	FindPendingByApprover(ctx context.Context, companyID, approverID string) ([]LeaveRequest, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	UpdateStatusCAS(ctx context.Context, companyID, id, fromStatus, toStatus, actionBy string) (int64, error)
	Delete(ctx context.Context, companyID, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// Create inserts through the execer so the request lands in the same
// transaction as its notification fan-out and outbox event.
func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	query := `
        INSERT INTO leave_requests (
            id, company_id, employee_id, employee_email,
            start_date, end_date, reason, status, approver_id
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `

	exec := r.execer()
	_, err := exec.ExecContext(
		ctx, query,
		l.ID, l.CompanyID, l.EmployeeID, l.EmployeeEmail,
		l.StartDate, l.EndDate, l.Reason, l.Status, l.ApproverID,
	)
	return err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListLeaveFilter) ([]LeaveRequest, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC")

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}

	var leaves []LeaveRequest
	err := q.Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindPendingByApprover(ctx context.Context, companyID, approverID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("approver_id = ?", approverID).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&l, "id = ?", id).Error
	return &l, err
}

// UpdateStatusCAS performs the compare-and-swap that makes transitions safe
// under concurrent approvers: the row only changes if it is still in
// fromStatus, and the affected-row count tells the caller whether it won.
func (r *repository) UpdateStatusCAS(ctx context.Context, companyID, id, fromStatus, toStatus, actionBy string) (int64, error) {
	query := `
        UPDATE leave_requests
        SET status = $4, action_by = $5, updated_at = NOW()
        WHERE company_id = $1 AND id = $2 AND status = $3
    `

	exec := r.execer()
	res, err := exec.ExecContext(ctx, query, companyID, id, fromStatus, toStatus, actionBy)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&LeaveRequest{}, "id = ?", id).Error
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db.ConnPool
}
