package notification

import (
	"context"
	"database/sql"

	"go-hrms/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, n *Notification) error
	FindAllByRecipient(ctx context.Context, companyID, recipientID string) ([]Notification, error)
	MarkRead(ctx context.Context, companyID, id string) (string, error)
	MarkAllRead(ctx context.Context, companyID, recipientID string) error
	CountUnread(ctx context.Context, companyID, recipientID string) (int64, error)
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

// Create uses raw SQL through the execer so fan-out rows land in the same
// transaction as the state change that caused them.
func (r *repository) Create(ctx context.Context, n *Notification) error {
	query := `
        INSERT INTO notifications (
            id, company_id, recipient_id, type, title, message, is_read
        ) VALUES ($1, $2, $3, $4, $5, $6, FALSE)
    `

	exec := r.execer()
	_, err := exec.ExecContext(
		ctx, query,
		n.ID, n.CompanyID, n.RecipientID, n.Type, n.Title, n.Message,
	)
	return err
}

func (r *repository) FindAllByRecipient(ctx context.Context, companyID, recipientID string) ([]Notification, error) {
	var notifications []Notification
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// MarkRead is idempotent: marking an already-read notification keeps its
// original read_at. The returned recipient id is empty when the id is absent,
// and lets the service invalidate the right unread-count cache key.
func (r *repository) MarkRead(ctx context.Context, companyID, id string) (string, error) {
	var recipientID string
	err := r.db.WithContext(ctx).Raw(`
			UPDATE notifications
			SET is_read = TRUE, read_at = COALESCE(read_at, NOW())
			WHERE company_id = ? AND id = ?
			RETURNING recipient_id::text
		`, companyID, id).Scan(&recipientID).Error
	return recipientID, err
}

func (r *repository) MarkAllRead(ctx context.Context, companyID, recipientID string) error {
	return r.db.WithContext(ctx).
		Exec(`
			UPDATE notifications
			SET is_read = TRUE, read_at = COALESCE(read_at, NOW())
			WHERE company_id = ? AND recipient_id = ? AND is_read = FALSE
		`, companyID, recipientID).Error
}

func (r *repository) CountUnread(ctx context.Context, companyID, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Scopes(tenant.Scope(companyID)).
		Where("recipient_id = ?", recipientID).
		Where("is_read = FALSE").
		Count(&count).Error
	return count, err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db.ConnPool
}
