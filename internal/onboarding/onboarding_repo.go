package onboarding

import (
	"context"
	"database/sql"

	"go-hrms/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=onboarding_repo.go -destination=mock/onboarding_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateTask(ctx context.Context, t *Task) error
	FindTasksByEmployee(ctx context.Context, companyID, employeeID string) ([]Task, error)
	FindTaskByIDAndCompany(ctx context.Context, companyID, id string) (*Task, error)
	CompleteTaskCAS(ctx context.Context, companyID, id string) (int64, error)
	CreateDocument(ctx context.Context, d *SubmittedDocument) error
	FindDocumentsByEmployee(ctx context.Context, companyID, employeeID string) ([]SubmittedDocument, error)
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

func (r *repository) CreateTask(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindTasksByEmployee(ctx context.Context, companyID, employeeID string) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) FindTaskByIDAndCompany(ctx context.Context, companyID, id string) (*Task, error) {
	var t Task
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&t, "id = ?", id).Error
	return &t, err
}

// CompleteTaskCAS flips a pending task to completed; a zero row count means
// the task was missing or already done.
func (r *repository) CompleteTaskCAS(ctx context.Context, companyID, id string) (int64, error) {
	query := `
        UPDATE onboarding_tasks
        SET status = $3, completed_at = NOW(), updated_at = NOW()
        WHERE company_id = $1 AND id = $2 AND status = $4
    `

	exec := r.execer()
	res, err := exec.ExecContext(ctx, query, companyID, id, TaskStatusCompleted, TaskStatusPending)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CreateDocument inserts through the execer so the record commits together
// with its HR-admin notification fan-out.
func (r *repository) CreateDocument(ctx context.Context, d *SubmittedDocument) error {
	query := `
        INSERT INTO submitted_documents (
            id, company_id, employee_id, name, file_url
        ) VALUES ($1, $2, $3, $4, $5)
    `

	exec := r.execer()
	_, err := exec.ExecContext(ctx, query, d.ID, d.CompanyID, d.EmployeeID, d.Name, d.FileURL)
	return err
}

func (r *repository) FindDocumentsByEmployee(ctx context.Context, companyID, employeeID string) ([]SubmittedDocument, error) {
	var docs []SubmittedDocument
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db.ConnPool
}
