package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-hrms/internal/employee"
	"go-hrms/internal/events"
	leaveerrors "go-hrms/internal/leave/errors"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/notification"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

const minReasonLength = 10

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, companyID string, filter ListLeaveFilter) ([]LeaveResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error)
	GetByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveResponse, error)
	GetPendingByApprover(ctx context.Context, companyID, approverID string) ([]LeaveResponse, error)
	Decide(ctx context.Context, companyID, actorID, id, decision string) (LeaveResponse, error)
	Cancel(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db               *sql.DB
	repo             Repository
	employeeRepo     employee.Repository
	notificationRepo notification.Repository
	outbox           kafka.OutboxRepository
	rdb              *redis.Client
	logger           *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	notificationRepo notification.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:               db,
		repo:             repo,
		employeeRepo:     employeeRepo,
		notificationRepo: notificationRepo,
		outbox:           outboxRepo,
		rdb:              rdb,
		logger:           l,
	}
}

// Create persists a new request together with its approver notifications and
// the outbox event in one transaction. The caller-supplied status is ignored:
// a new request is always pending.
func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
	)

	companyUUID, employeeUUID, startDate, endDate, err := validateCreateRequest(companyID, req)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	emp, err := s.employeeRepo.FindByIDAndCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrEmployeeNotInCompany
		}
		s.logger.Error("create leave employee lookup failed", zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}

	approvers, err := s.employeeRepo.FindApproversForEmployee(ctx, companyID, req.EmployeeID)
	if err != nil {
		s.logger.Error("create leave approver lookup failed", zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	l := &LeaveRequest{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		EmployeeID:    employeeUUID,
		EmployeeEmail: emp.Email,
		StartDate:     startDate,
		EndDate:       endDate,
		Reason:        strings.TrimSpace(req.Reason),
		Status:        StatusPending,
		ApproverID:    emp.ApproverID,
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}

	title := "New leave request"
	message := fmt.Sprintf("%s requested leave from %s to %s",
		emp.FullName, req.StartDate, req.EndDate)
	if err := s.fanOut(ctx, tx, l.CompanyID, approvers, notification.TypeLeaveApplication, title, message); err != nil {
		s.logger.Error("create leave notification fan-out failed", zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}

	if err := s.queueLifecycleEvent(ctx, tx, rid, l, "leave_requested", ""); err != nil {
		s.logger.Error("create leave outbox persist failed", zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}

	s.invalidateUnreadCounts(ctx, companyID, approvers)
	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.Int("notified_approvers", len(approvers)),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListLeaveFilter) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, apperror.Storage(err)
	}
	return mapToResponse(*l), nil
}

func (s *service) GetByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetPendingByApprover(ctx context.Context, companyID, approverID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindPendingByApprover(ctx, companyID, approverID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return mapToListResponse(leaves), nil
}

// Decide moves a pending request to approved or rejected. The transition is
// a compare-and-swap: when two approvers race, exactly one update matches the
// pending row and the loser gets an invalid-transition error.
func (s *service) Decide(ctx context.Context, companyID, actorID, id, decision string) (LeaveResponse, error) {
	if decision != StatusApproved && decision != StatusRejected {
		return LeaveResponse{}, apperror.ErrInvalidInput
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, apperror.Storage(err)
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	var title, message, notifType string
	if decision == StatusApproved {
		notifType = notification.TypeLeaveApproved
		title = "Leave request approved"
		message = fmt.Sprintf("Your leave from %s to %s was approved",
			l.StartDate.Format("2006-01-02"), l.EndDate.Format("2006-01-02"))
	} else {
		notifType = notification.TypeLeaveRejected
		title = "Leave request rejected"
		message = fmt.Sprintf("Your leave from %s to %s was rejected",
			l.StartDate.Format("2006-01-02"), l.EndDate.Format("2006-01-02"))
	}

	recipient := employee.Employee{ID: l.EmployeeID, CompanyID: l.CompanyID}
	updated, err := s.transition(ctx, l, decision, actorUUID, []employee.Employee{recipient}, notifType, title, message)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*updated), nil
}

// Cancel is owner-only and follows the same CAS discipline as Decide.
func (s *service) Cancel(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, apperror.Storage(err)
	}
	if l.EmployeeID != actorUUID {
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	approvers, err := s.employeeRepo.FindApproversForEmployee(ctx, companyID, l.EmployeeID.String())
	if err != nil {
		s.logger.Error("cancel leave approver lookup failed", zap.Error(err))
		return LeaveResponse{}, apperror.Storage(err)
	}

	title := "Leave request cancelled"
	message := fmt.Sprintf("Leave from %s to %s was cancelled by the requester",
		l.StartDate.Format("2006-01-02"), l.EndDate.Format("2006-01-02"))

	updated, err := s.transition(ctx, l, StatusCancelled, actorUUID, approvers, notification.TypeLeaveCancelled, title, message)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*updated), nil
}

// transition runs the CAS update, the notification fan-out and the outbox
// insert in one transaction.
func (s *service) transition(
	ctx context.Context,
	l *LeaveRequest,
	toStatus string,
	actor uuid.UUID,
	recipients []employee.Employee,
	notifType, title, message string,
) (*LeaveRequest, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave transition begin tx failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	affected, err := qtx.UpdateStatusCAS(ctx, l.CompanyID.String(), l.ID.String(), StatusPending, toStatus, actor.String())
	if err != nil {
		s.logger.Error("leave transition cas failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
		return nil, apperror.Storage(err)
	}
	if affected == 0 {
		// Lost the race: the row left pending between our read and the update.
		s.logger.Warn("leave transition cas lost",
			zap.String("leave_id", l.ID.String()),
			zap.String("to_status", toStatus),
		)
		return nil, leaveerrors.ErrInvalidStatusTransition
	}

	if err := s.fanOut(ctx, tx, l.CompanyID, recipients, notifType, title, message); err != nil {
		s.logger.Error("leave transition notification fan-out failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}

	l.Status = toStatus
	l.ActionBy = &actor
	if err := s.queueLifecycleEvent(ctx, tx, rid, l, "leave_"+toStatus, actor.String()); err != nil {
		s.logger.Error("leave transition outbox persist failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave transition commit failed", zap.Error(err))
		return nil, apperror.Storage(err)
	}

	s.invalidateUnreadCounts(ctx, l.CompanyID.String(), recipients)
	s.logger.Info("leave transition success",
		zap.String("leave_id", l.ID.String()),
		zap.String("status", toStatus),
	)

	return l, nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	// Administrative removal; absent rows are not an error.
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return apperror.Storage(err)
	}
	s.logger.Info("leave deleted",
		zap.String("company_id", companyID),
		zap.String("leave_id", id),
	)
	return nil
}

func (s *service) fanOut(
	ctx context.Context,
	tx *sql.Tx,
	companyID uuid.UUID,
	recipients []employee.Employee,
	notifType, title, message string,
) error {
	nqtx := s.notificationRepo.WithTx(tx)
	for _, recipient := range recipients {
		n := &notification.Notification{
			ID:          uuid.New(),
			CompanyID:   companyID,
			RecipientID: recipient.ID,
			Type:        notifType,
			Title:       title,
			Message:     message,
		}
		if err := nqtx.Create(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) queueLifecycleEvent(ctx context.Context, tx *sql.Tx, rid string, l *LeaveRequest, eventType, actionBy string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveStatusChangedEvent{
		EventType:     eventType,
		RequestID:     rid,
		LeaveID:       l.ID.String(),
		CompanyID:     l.CompanyID.String(),
		EmployeeID:    l.EmployeeID.String(),
		EmployeeEmail: l.EmployeeEmail,
		Status:        l.Status,
		ActionBy:      actionBy,
		StartDate:     l.StartDate.Format("2006-01-02"),
		EndDate:       l.EndDate.Format("2006-01-02"),
		OccurredAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) invalidateUnreadCounts(ctx context.Context, companyID string, recipients []employee.Employee) {
	if s.rdb == nil {
		return
	}
	for _, recipient := range recipients {
		cacheKey := notification.UnreadCountKey(companyID, recipient.ID.String())
		if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
			s.logger.Warn("invalidate unread count cache failed",
				zap.String("key", cacheKey),
				zap.Error(err),
			)
		}
	}
}

func validateCreateRequest(companyID string, req CreateLeaveRequest) (uuid.UUID, uuid.UUID, time.Time, time.Time, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, apperror.ErrInvalidInput
	}
	if req.EmployeeID == "" {
		return uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrMissingEmployeeID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrMissingEmployeeID
	}
	if req.StartDate == "" || req.EndDate == "" {
		return uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrMissingDates
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	if len(strings.TrimSpace(req.Reason)) < minReasonLength {
		return uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrReasonTooShort
	}
	return companyUUID, employeeUUID, startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:            l.ID.String(),
		CompanyID:     l.CompanyID.String(),
		EmployeeID:    l.EmployeeID.String(),
		EmployeeEmail: l.EmployeeEmail,
		StartDate:     l.StartDate.Format("2006-01-02"),
		EndDate:       l.EndDate.Format("2006-01-02"),
		Reason:        l.Reason,
		Status:        l.Status,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     l.UpdatedAt.Format(time.RFC3339),
	}
	if l.ApproverID != nil {
		v := l.ApproverID.String()
		resp.ApproverID = &v
	}
	if l.ActionBy != nil {
		v := l.ActionBy.String()
		resp.ActionBy = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
