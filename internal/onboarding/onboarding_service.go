package onboarding

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-hrms/internal/employee"
	"go-hrms/internal/notification"
	onboardingerrors "go-hrms/internal/onboarding/errors"
	"go-hrms/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=onboarding_service.go -destination=mock/onboarding_service_mock.go -package=mock
type Service interface {
	CreateTask(ctx context.Context, companyID string, req CreateTaskRequest) (TaskResponse, error)
	GetTasksByEmployee(ctx context.Context, companyID, employeeID string) ([]TaskResponse, error)
	CompleteTask(ctx context.Context, companyID, id string) error
	Remind(ctx context.Context, companyID, taskID string) error
	SubmitDocument(ctx context.Context, companyID, employeeID string, req SubmitDocumentRequest) (DocumentResponse, error)
	GetDocumentsByEmployee(ctx context.Context, companyID, employeeID string) ([]DocumentResponse, error)
}

type service struct {
	db               *sql.DB
	repo             Repository
	employeeRepo     employee.Repository
	notificationRepo notification.Repository
	rdb              *redis.Client
	logger           *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	notificationRepo notification.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("onboarding.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("onboarding.service")
	}
	return &service{
		db:               db,
		repo:             repo,
		employeeRepo:     employeeRepo,
		notificationRepo: notificationRepo,
		rdb:              rdb,
		logger:           l,
	}
}

func (s *service) CreateTask(ctx context.Context, companyID string, req CreateTaskRequest) (TaskResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return TaskResponse{}, apperror.ErrInvalidInput
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return TaskResponse{}, apperror.InvalidField("employee_id")
	}

	ok, err := s.employeeRepo.BelongsToCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return TaskResponse{}, apperror.Storage(err)
	}
	if !ok {
		return TaskResponse{}, onboardingerrors.ErrEmployeeNotInCompany
	}

	t := &Task{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		EmployeeID:  employeeUUID,
		Title:       req.Title,
		Description: req.Description,
		Status:      TaskStatusPending,
	}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return TaskResponse{}, onboardingerrors.ErrInvalidDueDate
		}
		t.DueDate = &due
	}

	if err := s.repo.CreateTask(ctx, t); err != nil {
		s.logger.Error("create onboarding task failed", zap.Error(err))
		return TaskResponse{}, apperror.Storage(err)
	}

	s.logger.Info("onboarding task created",
		zap.String("task_id", t.ID.String()),
		zap.String("employee_id", req.EmployeeID),
	)
	return mapTaskToResponse(*t), nil
}

func (s *service) GetTasksByEmployee(ctx context.Context, companyID, employeeID string) ([]TaskResponse, error) {
	tasks, err := s.repo.FindTasksByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	resp := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		resp[i] = mapTaskToResponse(t)
	}
	return resp, nil
}

func (s *service) CompleteTask(ctx context.Context, companyID, id string) error {
	affected, err := s.repo.CompleteTaskCAS(ctx, companyID, id)
	if err != nil {
		return apperror.Storage(err)
	}
	if affected == 0 {
		if _, err := s.repo.FindTaskByIDAndCompany(ctx, companyID, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return onboardingerrors.ErrTaskNotFound
			}
			return apperror.Storage(err)
		}
		return onboardingerrors.ErrTaskAlreadyCompleted
	}

	s.logger.Info("onboarding task completed", zap.String("task_id", id))
	return nil
}

// Remind nudges the task's employee with an onboarding_reminder notification.
func (s *service) Remind(ctx context.Context, companyID, taskID string) error {
	t, err := s.repo.FindTaskByIDAndCompany(ctx, companyID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return onboardingerrors.ErrTaskNotFound
		}
		return apperror.Storage(err)
	}
	if t.Status == TaskStatusCompleted {
		return onboardingerrors.ErrTaskAlreadyCompleted
	}

	message := fmt.Sprintf("Reminder: onboarding task %q is still pending", t.Title)
	if t.DueDate != nil {
		message = fmt.Sprintf("Reminder: onboarding task %q is due by %s", t.Title, t.DueDate.Format("2006-01-02"))
	}

	n := &notification.Notification{
		ID:          uuid.New(),
		CompanyID:   t.CompanyID,
		RecipientID: t.EmployeeID,
		Type:        notification.TypeOnboardingReminder,
		Title:       "Onboarding task reminder",
		Message:     message,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Error("onboarding reminder persist failed", zap.Error(err))
		return apperror.Storage(err)
	}

	s.invalidateUnreadCount(ctx, companyID, t.EmployeeID.String())
	s.logger.Info("onboarding reminder sent",
		zap.String("task_id", taskID),
		zap.String("employee_id", t.EmployeeID.String()),
	)
	return nil
}

// SubmitDocument stores the document record and notifies every HR admin in
// one transaction.
func (s *service) SubmitDocument(ctx context.Context, companyID, employeeID string, req SubmitDocumentRequest) (DocumentResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return DocumentResponse{}, apperror.ErrInvalidInput
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return DocumentResponse{}, apperror.InvalidField("employee_id")
	}

	emp, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DocumentResponse{}, onboardingerrors.ErrEmployeeNotInCompany
		}
		return DocumentResponse{}, apperror.Storage(err)
	}

	admins, err := s.employeeRepo.FindHRAdminsByCompany(ctx, companyID)
	if err != nil {
		return DocumentResponse{}, apperror.Storage(err)
	}

	d := &SubmittedDocument{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		Name:       req.Name,
		FileURL:    req.FileURL,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DocumentResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).CreateDocument(ctx, d); err != nil {
		s.logger.Error("submit document persist failed", zap.Error(err))
		return DocumentResponse{}, apperror.Storage(err)
	}

	nqtx := s.notificationRepo.WithTx(tx)
	for _, admin := range admins {
		n := &notification.Notification{
			ID:          uuid.New(),
			CompanyID:   companyUUID,
			RecipientID: admin.ID,
			Type:        notification.TypeDocumentSubmitted,
			Title:       "Onboarding document submitted",
			Message:     fmt.Sprintf("%s submitted %q", emp.FullName, req.Name),
		}
		if err := nqtx.Create(ctx, n); err != nil {
			s.logger.Error("submit document notification fan-out failed", zap.Error(err))
			return DocumentResponse{}, apperror.Storage(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return DocumentResponse{}, apperror.Storage(err)
	}

	for _, admin := range admins {
		s.invalidateUnreadCount(ctx, companyID, admin.ID.String())
	}

	s.logger.Info("onboarding document submitted",
		zap.String("document_id", d.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("notified_admins", len(admins)),
	)
	return mapDocumentToResponse(*d), nil
}

func (s *service) GetDocumentsByEmployee(ctx context.Context, companyID, employeeID string) ([]DocumentResponse, error) {
	docs, err := s.repo.FindDocumentsByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	resp := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		resp[i] = mapDocumentToResponse(d)
	}
	return resp, nil
}

func (s *service) invalidateUnreadCount(ctx context.Context, companyID, recipientID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := notification.UnreadCountKey(companyID, recipientID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Warn("invalidate unread count cache failed",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func mapTaskToResponse(t Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID.String(),
		CompanyID:   t.CompanyID.String(),
		EmployeeID:  t.EmployeeID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
	if t.DueDate != nil {
		resp.DueDate = t.DueDate.Format("2006-01-02")
	}
	if t.CompletedAt != nil {
		resp.CompletedAt = t.CompletedAt.Format(time.RFC3339)
	}
	return resp
}

func mapDocumentToResponse(d SubmittedDocument) DocumentResponse {
	return DocumentResponse{
		ID:         d.ID.String(),
		CompanyID:  d.CompanyID.String(),
		EmployeeID: d.EmployeeID.String(),
		Name:       d.Name,
		FileURL:    d.FileURL,
		CreatedAt:  d.CreatedAt.Format(time.RFC3339),
	}
}
