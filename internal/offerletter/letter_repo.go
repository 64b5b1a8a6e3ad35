package offerletter

import (
	"context"
	"database/sql"

	"go-hrms/internal/tenant"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

//go:generate mockgen -source=letter_repo.go -destination=mock/letter_repo_mock.go -package=mock
type LetterRepository interface {
	WithTx(tx *sql.Tx) LetterRepository
	Create(ctx context.Context, l *GeneratedLetter) error
	FindAllByCompany(ctx context.Context, companyID string) ([]GeneratedLetter, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*GeneratedLetter, error)
	UpdateContent(ctx context.Context, companyID, id string, formData datatypes.JSON, htmlContent string) (int64, error)
	UpdateStatusCAS(ctx context.Context, companyID, id, fromStatus, toStatus string) (int64, error)
	Delete(ctx context.Context, companyID, id string) error
}

type letterRepository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewLetterRepository(db *gorm.DB) LetterRepository {
	return &letterRepository{db: db}
}

func (r *letterRepository) WithTx(tx *sql.Tx) LetterRepository {
	return &letterRepository{db: r.db, tx: tx}
}

// Create inserts through the execer so the letter and its lifecycle outbox
// event commit together.
func (r *letterRepository) Create(ctx context.Context, l *GeneratedLetter) error {
	query := `
        INSERT INTO generated_letters (
            id, company_id, template_id, template_name, reference,
            candidate_name, candidate_email, designation,
            form_data, html_content, status
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `

	exec := r.execer()
	_, err := exec.ExecContext(
		ctx, query,
		l.ID, l.CompanyID, l.TemplateID, l.TemplateName, l.Reference,
		l.CandidateName, l.CandidateEmail, l.Designation,
		l.FormData, l.HTMLContent, l.Status,
	)
	return err
}

func (r *letterRepository) FindAllByCompany(ctx context.Context, companyID string) ([]GeneratedLetter, error) {
	var letters []GeneratedLetter
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC").
		Find(&letters).Error
	return letters, err
}

func (r *letterRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*GeneratedLetter, error) {
	var l GeneratedLetter
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *letterRepository) UpdateContent(ctx context.Context, companyID, id string, formData datatypes.JSON, htmlContent string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&GeneratedLetter{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Updates(map[string]any{
			"form_data":    formData,
			"html_content": htmlContent,
		})
	return res.RowsAffected, res.Error
}

// UpdateStatusCAS only advances the letter if it is still in fromStatus, so
// concurrent send/accept calls cannot both win.
func (r *letterRepository) UpdateStatusCAS(ctx context.Context, companyID, id, fromStatus, toStatus string) (int64, error) {
	query := `
        UPDATE generated_letters
        SET status = $4, updated_at = NOW()
        WHERE company_id = $1 AND id = $2 AND status = $3
    `

	exec := r.execer()
	res, err := exec.ExecContext(ctx, query, companyID, id, fromStatus, toStatus)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *letterRepository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&GeneratedLetter{}, "id = ?", id).Error
}

func (r *letterRepository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db.ConnPool
}
