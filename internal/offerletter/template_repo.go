package offerletter

import (
	"context"

	"go-hrms/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=template_repo.go -destination=mock/template_repo_mock.go -package=mock
type TemplateRepository interface {
	Create(ctx context.Context, t *Template) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Template, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Template, error)
	FindActiveByIDAndCompany(ctx context.Context, companyID, id string) (*Template, error)
	Deactivate(ctx context.Context, companyID, id string) (int64, error)
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(ctx context.Context, t *Template) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *templateRepository) FindAllByCompany(ctx context.Context, companyID string) ([]Template, error) {
	var templates []Template
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC").
		Find(&templates).Error
	return templates, err
}

// FindByIDAndCompany ignores is_active: existing letters re-render from
// retired templates too.
func (r *templateRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Template, error) {
	var t Template
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *templateRepository) FindActiveByIDAndCompany(ctx context.Context, companyID, id string) (*Template, error) {
	var t Template
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("is_active = ?", true).
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *templateRepository) Deactivate(ctx context.Context, companyID, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Template{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}
