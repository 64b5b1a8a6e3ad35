package notification

import (
	"context"
	"strconv"
	"time"

	notificationerrors "go-hrms/internal/notification/errors"
	"go-hrms/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const UnreadCountKeyPrefix = "notifications:unread:"

// UnreadCountKey is the cache key for one recipient's unread badge. Services
// that fan out notifications delete it after their transaction commits.
func UnreadCountKey(companyID, recipientID string) string {
	return UnreadCountKeyPrefix + companyID + ":" + recipientID
}

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	GetAllByRecipient(ctx context.Context, companyID, recipientID string) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, companyID, id string) error
	MarkAllRead(ctx context.Context, companyID, recipientID string) error
	UnreadCount(ctx context.Context, companyID, recipientID string) (int64, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetAllByRecipient(ctx context.Context, companyID, recipientID string) ([]NotificationResponse, error) {
	if _, err := uuid.Parse(recipientID); err != nil {
		return nil, notificationerrors.ErrInvalidRecipientID
	}

	notifications, err := s.repo.FindAllByRecipient(ctx, companyID, recipientID)
	if err != nil {
		s.logger.Error("list notifications failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}

	return mapToListResponse(notifications), nil
}

// MarkRead never fails on an already-read notification; only a missing id is
// an error.
func (s *service) MarkRead(ctx context.Context, companyID, id string) error {
	recipientID, err := s.repo.MarkRead(ctx, companyID, id)
	if err != nil {
		s.logger.Error("mark notification read failed",
			zap.String("notification_id", id),
			zap.Error(err),
		)
		return apperror.Storage(err)
	}
	if recipientID == "" {
		return notificationerrors.ErrNotificationNotFound
	}

	s.invalidateUnreadCount(ctx, companyID, recipientID)
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, companyID, recipientID string) error {
	if _, err := uuid.Parse(recipientID); err != nil {
		return notificationerrors.ErrInvalidRecipientID
	}

	if err := s.repo.MarkAllRead(ctx, companyID, recipientID); err != nil {
		s.logger.Error("mark all notifications read failed",
			zap.String("recipient_id", recipientID),
			zap.Error(err),
		)
		return apperror.Storage(err)
	}

	s.invalidateUnreadCount(ctx, companyID, recipientID)
	return nil
}

func (s *service) UnreadCount(ctx context.Context, companyID, recipientID string) (int64, error) {
	if _, err := uuid.Parse(recipientID); err != nil {
		return 0, notificationerrors.ErrInvalidRecipientID
	}

	cacheKey := UnreadCountKey(companyID, recipientID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return count, nil
			}
		}
	}

	// Collapse concurrent badge polls into one query per key.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		count, err := s.repo.CountUnread(ctx, companyID, recipientID)
		if err != nil {
			return int64(0), apperror.Storage(err)
		}

		if s.rdb != nil {
			s.rdb.Set(ctx, cacheKey, strconv.FormatInt(count, 10), 5*time.Minute)
		}

		return count, nil
	})

	if err != nil {
		return 0, err
	}

	return v.(int64), nil
}

func (s *service) invalidateUnreadCount(ctx context.Context, companyID, recipientID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := UnreadCountKey(companyID, recipientID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("invalidate unread count cache failed",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:          n.ID.String(),
		RecipientID: n.RecipientID.String(),
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		v := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &v
	}
	return resp
}

func mapToListResponse(notifications []Notification) []NotificationResponse {
	resp := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		resp[i] = mapToResponse(n)
	}
	return resp
}
