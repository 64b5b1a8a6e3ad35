package offerletter

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-hrms/internal/bootstrap"
	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka"
	offerlettererrors "go-hrms/internal/offerletter/errors"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/contextutil"
	"go-hrms/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	referenceCounterType = "offer_letter"
	referenceFormat      = "OL-%06d"
)

// letterTransitions is the whole state machine: draft -> sent -> accepted or
// rejected, never backward.
var letterTransitions = map[string]string{
	LetterStatusSent:     LetterStatusDraft,
	LetterStatusAccepted: LetterStatusSent,
	LetterStatusRejected: LetterStatusSent,
}

//go:generate mockgen -source=offerletter_service.go -destination=mock/offerletter_service_mock.go -package=mock
type Service interface {
	CreateTemplate(ctx context.Context, companyID, actorID string, req CreateTemplateRequest) (TemplateResponse, error)
	GetTemplates(ctx context.Context, companyID string) ([]TemplateResponse, error)
	DeactivateTemplate(ctx context.Context, companyID, id string) error
	Generate(ctx context.Context, companyID, templateID string, form FormData) (LetterResponse, error)
	GetLetters(ctx context.Context, companyID string) ([]LetterResponse, error)
	GetLetter(ctx context.Context, companyID, id string) (LetterResponse, error)
	Update(ctx context.Context, companyID, id string, form FormData) (LetterResponse, error)
	Transition(ctx context.Context, companyID, id, toStatus string) (LetterResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db             *sql.DB
	templateRepo   TemplateRepository
	letterRepo     LetterRepository
	counterRepo    counter.Repository
	outbox         kafka.OutboxRepository
	auditLogger    bootstrap.AuditLogger
	currencySymbol string
	logger         *zap.Logger
}

func NewService(
	db *sql.DB,
	templateRepo TemplateRepository,
	letterRepo LetterRepository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	auditLogger bootstrap.AuditLogger,
	currencySymbol string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("offerletter.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("offerletter.service")
	}
	if currencySymbol == "" {
		currencySymbol = "₹"
	}
	return &service{
		db:             db,
		templateRepo:   templateRepo,
		letterRepo:     letterRepo,
		counterRepo:    counterRepo,
		outbox:         outboxRepo,
		auditLogger:    auditLogger,
		currencySymbol: currencySymbol,
		logger:         l,
	}
}

func (s *service) CreateTemplate(ctx context.Context, companyID, actorID string, req CreateTemplateRequest) (TemplateResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return TemplateResponse{}, apperror.ErrInvalidInput
	}
	if req.Content == "" {
		return TemplateResponse{}, offerlettererrors.ErrEmptyTemplateContent
	}

	variables, err := json.Marshal(Placeholders(req.Content))
	if err != nil {
		return TemplateResponse{}, apperror.Storage(err)
	}

	t := &Template{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
		Version:     1,
		IsActive:    true,
		Variables:   variables,
	}
	if actorUUID, err := uuid.Parse(actorID); err == nil {
		t.CreatedBy = &actorUUID
	}

	if err := s.templateRepo.Create(ctx, t); err != nil {
		s.logger.Error("create template failed", zap.Error(err))
		return TemplateResponse{}, apperror.Storage(err)
	}

	s.logger.Info("template created",
		zap.String("template_id", t.ID.String()),
		zap.String("company_id", companyID),
	)
	return mapTemplateToResponse(*t), nil
}

func (s *service) GetTemplates(ctx context.Context, companyID string) ([]TemplateResponse, error) {
	templates, err := s.templateRepo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	resp := make([]TemplateResponse, len(templates))
	for i, t := range templates {
		resp[i] = mapTemplateToResponse(t)
	}
	return resp, nil
}

func (s *service) DeactivateTemplate(ctx context.Context, companyID, id string) error {
	affected, err := s.templateRepo.Deactivate(ctx, companyID, id)
	if err != nil {
		return apperror.Storage(err)
	}
	if affected == 0 {
		return offerlettererrors.ErrTemplateNotFound
	}
	s.logger.Info("template deactivated",
		zap.String("template_id", id),
		zap.String("company_id", companyID),
	)
	return nil
}

// Generate renders the active template with the supplied form data and
// persists the draft letter together with its lifecycle outbox event.
// Unresolved placeholders are kept literal in the output and logged.
func (s *service) Generate(ctx context.Context, companyID, templateID string, form FormData) (LetterResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LetterResponse{}, apperror.ErrInvalidInput
	}

	tpl, err := s.templateRepo.FindActiveByIDAndCompany(ctx, companyID, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LetterResponse{}, offerlettererrors.ErrTemplateNotFound
		}
		return LetterResponse{}, apperror.Storage(err)
	}

	if form.BasicSalary != "" || form.Allowances != "" {
		form, err = form.DeriveNetSalary(s.currencySymbol)
		if err != nil {
			return LetterResponse{}, err
		}
	}

	rendered, unresolved := Render(tpl.Content, form.ToMap())
	if len(unresolved) > 0 {
		s.logger.Warn("letter rendered with unresolved placeholders",
			zap.String("request_id", rid),
			zap.String("template_id", templateID),
			zap.Strings("placeholders", unresolved),
		)
	}

	seq, err := s.counterRepo.GetNextValue(ctx, companyID, referenceCounterType)
	if err != nil {
		s.logger.Error("generate letter reference counter failed", zap.Error(err))
		return LetterResponse{}, apperror.Storage(err)
	}

	formJSON, err := form.ToJSON()
	if err != nil {
		return LetterResponse{}, apperror.Storage(err)
	}

	l := &GeneratedLetter{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		TemplateID:     tpl.ID,
		TemplateName:   tpl.Name,
		Reference:      fmt.Sprintf(referenceFormat, seq),
		CandidateName:  form.CandidateName,
		CandidateEmail: form.CandidateEmail,
		Designation:    form.Designation,
		FormData:       formJSON,
		HTMLContent:    rendered,
		Status:         LetterStatusDraft,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LetterResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	if err := s.letterRepo.WithTx(tx).Create(ctx, l); err != nil {
		s.logger.Error("generate letter persist failed", zap.Error(err))
		return LetterResponse{}, apperror.Storage(err)
	}
	if err := s.queueLifecycleEvent(ctx, tx, rid, l, "letter_generated"); err != nil {
		s.logger.Error("generate letter outbox persist failed", zap.Error(err))
		return LetterResponse{}, apperror.Storage(err)
	}
	if err := tx.Commit(); err != nil {
		return LetterResponse{}, apperror.Storage(err)
	}

	s.logger.Info("letter generated",
		zap.String("request_id", rid),
		zap.String("letter_id", l.ID.String()),
		zap.String("reference", l.Reference),
	)
	return mapLetterToResponse(*l)
}

func (s *service) GetLetters(ctx context.Context, companyID string) ([]LetterResponse, error) {
	letters, err := s.letterRepo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	resp := make([]LetterResponse, 0, len(letters))
	for _, l := range letters {
		r, err := mapLetterToResponse(l)
		if err != nil {
			return nil, err
		}
		resp = append(resp, r)
	}
	return resp, nil
}

func (s *service) GetLetter(ctx context.Context, companyID, id string) (LetterResponse, error) {
	l, err := s.letterRepo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LetterResponse{}, offerlettererrors.ErrLetterNotFound
		}
		return LetterResponse{}, apperror.Storage(err)
	}
	return mapLetterToResponse(*l)
}

// Update merges the new form data over the stored snapshot, re-derives
// net_salary when a salary component changed, re-renders and persists.
func (s *service) Update(ctx context.Context, companyID, id string, form FormData) (LetterResponse, error) {
	l, err := s.letterRepo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LetterResponse{}, offerlettererrors.ErrLetterNotFound
		}
		return LetterResponse{}, apperror.Storage(err)
	}

	stored, err := FormDataFromJSON(l.FormData)
	if err != nil {
		return LetterResponse{}, apperror.Storage(err)
	}

	merged := stored.Merge(form)
	if merged.BasicSalary != stored.BasicSalary || merged.Allowances != stored.Allowances {
		merged, err = merged.DeriveNetSalary(s.currencySymbol)
		if err != nil {
			return LetterResponse{}, err
		}
	}

	tpl, err := s.templateRepo.FindByIDAndCompany(ctx, companyID, l.TemplateID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LetterResponse{}, offerlettererrors.ErrTemplateNotFound
		}
		return LetterResponse{}, apperror.Storage(err)
	}

	rendered, unresolved := Render(tpl.Content, merged.ToMap())
	if len(unresolved) > 0 {
		s.logger.Warn("letter re-rendered with unresolved placeholders",
			zap.String("letter_id", id),
			zap.Strings("placeholders", unresolved),
		)
	}

	mergedJSON, err := merged.ToJSON()
	if err != nil {
		return LetterResponse{}, apperror.Storage(err)
	}

	affected, err := s.letterRepo.UpdateContent(ctx, companyID, id, mergedJSON, rendered)
	if err != nil {
		s.logger.Error("update letter persist failed", zap.Error(err))
		return LetterResponse{}, apperror.Storage(err)
	}
	if affected == 0 {
		return LetterResponse{}, offerlettererrors.ErrLetterNotFound
	}

	l.FormData = mergedJSON
	l.HTMLContent = rendered
	l.CandidateName = merged.CandidateName
	l.CandidateEmail = merged.CandidateEmail
	l.Designation = merged.Designation

	s.logger.Info("letter updated", zap.String("letter_id", id))
	return mapLetterToResponse(*l)
}

// Transition advances the letter along draft -> sent -> accepted/rejected
// using a status CAS, and queues the lifecycle event in the same transaction.
func (s *service) Transition(ctx context.Context, companyID, id, toStatus string) (LetterResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	fromStatus, ok := letterTransitions[toStatus]
	if !ok {
		return LetterResponse{}, offerlettererrors.ErrInvalidStatusTransition
	}

	l, err := s.letterRepo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LetterResponse{}, offerlettererrors.ErrLetterNotFound
		}
		return LetterResponse{}, apperror.Storage(err)
	}
	if l.Status != fromStatus {
		return LetterResponse{}, offerlettererrors.ErrInvalidStatusTransition
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LetterResponse{}, apperror.Storage(err)
	}
	defer tx.Rollback()

	affected, err := s.letterRepo.WithTx(tx).UpdateStatusCAS(ctx, companyID, id, fromStatus, toStatus)
	if err != nil {
		s.logger.Error("letter transition cas failed", zap.Error(err))
		return LetterResponse{}, apperror.Storage(err)
	}
	if affected == 0 {
		s.logger.Warn("letter transition cas lost",
			zap.String("letter_id", id),
			zap.String("to_status", toStatus),
		)
		return LetterResponse{}, offerlettererrors.ErrInvalidStatusTransition
	}

	l.Status = toStatus
	if err := s.queueLifecycleEvent(ctx, tx, rid, l, "letter_"+toStatus); err != nil {
		s.logger.Error("letter transition outbox persist failed", zap.Error(err))
		return LetterResponse{}, apperror.Storage(err)
	}
	if err := tx.Commit(); err != nil {
		return LetterResponse{}, apperror.Storage(err)
	}

	s.logger.Info("letter transitioned",
		zap.String("letter_id", id),
		zap.String("status", toStatus),
	)
	return mapLetterToResponse(*l)
}

// Delete removes the letter and succeeds even when it is already gone.
// Deleting a decided letter is audit-relevant.
func (s *service) Delete(ctx context.Context, companyID, id string) error {
	l, err := s.letterRepo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperror.Storage(err)
	}

	if err := s.letterRepo.Delete(ctx, companyID, id); err != nil {
		return apperror.Storage(err)
	}

	if l.Status == LetterStatusAccepted || l.Status == LetterStatusRejected {
		s.auditLogger.Log(ctx, bootstrap.AuditLog{
			Action:  "offer_letter_deleted",
			Message: "decided offer letter deleted",
			Meta: map[string]any{
				"letter_id":  id,
				"company_id": companyID,
				"reference":  l.Reference,
				"status":     l.Status,
			},
		})
	}

	s.logger.Info("letter deleted",
		zap.String("letter_id", id),
		zap.String("status", l.Status),
	)
	return nil
}

func (s *service) queueLifecycleEvent(ctx context.Context, tx *sql.Tx, rid string, l *GeneratedLetter, eventType string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LetterStatusChangedEvent{
		EventType:      eventType,
		RequestID:      rid,
		LetterID:       l.ID.String(),
		CompanyID:      l.CompanyID.String(),
		Reference:      l.Reference,
		CandidateName:  l.CandidateName,
		CandidateEmail: l.CandidateEmail,
		Designation:    l.Designation,
		Status:         l.Status,
		OccurredAt:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "generated_letter",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LetterLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapTemplateToResponse(t Template) TemplateResponse {
	var variables []string
	if len(t.Variables) > 0 {
		// Best effort: a malformed variables column never blocks a read.
		_ = json.Unmarshal(t.Variables, &variables)
	}
	return TemplateResponse{
		ID:          t.ID.String(),
		CompanyID:   t.CompanyID.String(),
		Name:        t.Name,
		Description: t.Description,
		Content:     t.Content,
		Version:     t.Version,
		IsActive:    t.IsActive,
		Variables:   variables,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

func mapLetterToResponse(l GeneratedLetter) (LetterResponse, error) {
	form, err := FormDataFromJSON(l.FormData)
	if err != nil {
		return LetterResponse{}, apperror.Storage(err)
	}
	return LetterResponse{
		ID:             l.ID.String(),
		CompanyID:      l.CompanyID.String(),
		TemplateID:     l.TemplateID.String(),
		TemplateName:   l.TemplateName,
		Reference:      l.Reference,
		CandidateName:  l.CandidateName,
		CandidateEmail: l.CandidateEmail,
		Designation:    l.Designation,
		FormData:       form,
		HTMLContent:    l.HTMLContent,
		Status:         l.Status,
		CreatedAt:      l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      l.UpdatedAt.Format(time.RFC3339),
	}, nil
}
