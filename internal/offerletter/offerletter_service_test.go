package offerletter

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"go-hrms/internal/bootstrap"
	"go-hrms/internal/messaging/kafka"
	offerlettererrors "go-hrms/internal/offerletter/errors"
)

type fakeTemplateRepo struct {
	templates map[string]*Template

	created      []*Template
	deactivated  []string
	deactivateFn func(ctx context.Context, companyID, id string) (int64, error)
}

func (f *fakeTemplateRepo) Create(ctx context.Context, t *Template) error {
	f.created = append(f.created, t)
	return nil
}

func (f *fakeTemplateRepo) FindAllByCompany(ctx context.Context, companyID string) ([]Template, error) {
	var out []Template
	for _, t := range f.templates {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTemplateRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Template, error) {
	if t, ok := f.templates[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTemplateRepo) FindActiveByIDAndCompany(ctx context.Context, companyID, id string) (*Template, error) {
	if t, ok := f.templates[id]; ok && t.IsActive {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTemplateRepo) Deactivate(ctx context.Context, companyID, id string) (int64, error) {
	if f.deactivateFn != nil {
		return f.deactivateFn(ctx, companyID, id)
	}
	f.deactivated = append(f.deactivated, id)
	return 1, nil
}

type fakeLetterRepo struct {
	letters map[string]*GeneratedLetter

	created        []*GeneratedLetter
	updatedForm    datatypes.JSON
	updatedHTML    string
	deleted        []string
	updateStatusFn func(ctx context.Context, companyID, id, fromStatus, toStatus string) (int64, error)
}

func (f *fakeLetterRepo) WithTx(tx *sql.Tx) LetterRepository { return f }

func (f *fakeLetterRepo) Create(ctx context.Context, l *GeneratedLetter) error {
	f.created = append(f.created, l)
	return nil
}

func (f *fakeLetterRepo) FindAllByCompany(ctx context.Context, companyID string) ([]GeneratedLetter, error) {
	var out []GeneratedLetter
	for _, l := range f.letters {
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeLetterRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*GeneratedLetter, error) {
	if l, ok := f.letters[id]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLetterRepo) UpdateContent(ctx context.Context, companyID, id string, formData datatypes.JSON, htmlContent string) (int64, error) {
	if _, ok := f.letters[id]; !ok {
		return 0, nil
	}
	f.updatedForm = formData
	f.updatedHTML = htmlContent
	return 1, nil
}

func (f *fakeLetterRepo) UpdateStatusCAS(ctx context.Context, companyID, id, fromStatus, toStatus string) (int64, error) {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, companyID, id, fromStatus, toStatus)
	}
	l, ok := f.letters[id]
	if !ok || l.Status != fromStatus {
		return 0, nil
	}
	l.Status = toStatus
	return 1, nil
}

func (f *fakeLetterRepo) Delete(ctx context.Context, companyID, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.letters, id)
	return nil
}

type fakeCounterRepo struct {
	next int64
}

func (f *fakeCounterRepo) GetNextValue(ctx context.Context, companyID, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeLetterOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeLetterOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeLetterOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeLetterOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeLetterOutbox) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeLetterOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeAuditLogger struct {
	entries []bootstrap.AuditLog
}

func (f *fakeAuditLogger) Log(ctx context.Context, entry bootstrap.AuditLog) {
	f.entries = append(f.entries, entry)
}

type letterFixture struct {
	db           *sql.DB
	mock         sqlmock.Sqlmock
	templateRepo *fakeTemplateRepo
	letterRepo   *fakeLetterRepo
	counterRepo  *fakeCounterRepo
	outbox       *fakeLetterOutbox
	audit        *fakeAuditLogger
	svc          Service
}

func newLetterFixture(t *testing.T) *letterFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &letterFixture{
		db:           db,
		mock:         mock,
		templateRepo: &fakeTemplateRepo{templates: map[string]*Template{}},
		letterRepo:   &fakeLetterRepo{letters: map[string]*GeneratedLetter{}},
		counterRepo:  &fakeCounterRepo{},
		outbox:       &fakeLetterOutbox{},
		audit:        &fakeAuditLogger{},
	}
	f.svc = NewService(db, f.templateRepo, f.letterRepo, f.counterRepo, f.outbox, f.audit, "₹", zap.NewNop())
	return f
}

func (f *letterFixture) addTemplate(content string, active bool) *Template {
	t := &Template{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		Name:      "Standard Offer",
		Content:   content,
		Version:   1,
		IsActive:  active,
	}
	f.templateRepo.templates[t.ID.String()] = t
	return t
}

func (f *letterFixture) addLetter(tpl *Template, form FormData, status string) *GeneratedLetter {
	raw, _ := form.ToJSON()
	rendered, _ := Render(tpl.Content, form.ToMap())
	l := &GeneratedLetter{
		ID:             uuid.New(),
		CompanyID:      tpl.CompanyID,
		TemplateID:     tpl.ID,
		TemplateName:   tpl.Name,
		Reference:      "OL-000001",
		CandidateName:  form.CandidateName,
		CandidateEmail: form.CandidateEmail,
		Designation:    form.Designation,
		FormData:       raw,
		HTMLContent:    rendered,
		Status:         status,
	}
	f.letterRepo.letters[l.ID.String()] = l
	return l
}

func TestGenerateLetter_Success(t *testing.T) {
	f := newLetterFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	tpl := f.addTemplate("Dear {{candidate_name}}, we offer you {{designation}}.", true)

	resp, err := f.svc.Generate(context.Background(), tpl.CompanyID.String(), tpl.ID.String(), FormData{
		CandidateName:  "Sam Varghese",
		CandidateEmail: "sam@example.test",
		Designation:    "Backend Engineer",
	})
	require.NoError(t, err)

	assert.Equal(t, LetterStatusDraft, resp.Status)
	assert.Equal(t, "OL-000001", resp.Reference)
	assert.Equal(t, "Dear Sam Varghese, we offer you Backend Engineer.", resp.HTMLContent)
	assert.Equal(t, tpl.Name, resp.TemplateName)

	require.Len(t, f.letterRepo.created, 1)
	require.Len(t, f.outbox.created, 1)
	assert.Equal(t, "letter_generated", f.outbox.created[0].EventType)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGenerateLetter_SequentialReferences(t *testing.T) {
	f := newLetterFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	tpl := f.addTemplate("Hello {{candidate_name}}", true)

	first, err := f.svc.Generate(context.Background(), tpl.CompanyID.String(), tpl.ID.String(), FormData{CandidateName: "A"})
	require.NoError(t, err)
	second, err := f.svc.Generate(context.Background(), tpl.CompanyID.String(), tpl.ID.String(), FormData{CandidateName: "B"})
	require.NoError(t, err)

	assert.Equal(t, "OL-000001", first.Reference)
	assert.Equal(t, "OL-000002", second.Reference)
}

func TestGenerateLetter_UnresolvedPlaceholderKeptLiteral(t *testing.T) {
	f := newLetterFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	tpl := f.addTemplate("Dear {{candidate_name}}, salary {{amt}}", true)

	resp, err := f.svc.Generate(context.Background(), tpl.CompanyID.String(), tpl.ID.String(), FormData{CandidateName: "Sam"})
	require.NoError(t, err)
	assert.Equal(t, "Dear Sam, salary {{amt}}", resp.HTMLContent)
}

func TestGenerateLetter_InactiveTemplate(t *testing.T) {
	f := newLetterFixture(t)
	tpl := f.addTemplate("Hello {{candidate_name}}", false)

	_, err := f.svc.Generate(context.Background(), tpl.CompanyID.String(), tpl.ID.String(), FormData{CandidateName: "Sam"})
	assert.ErrorIs(t, err, offerlettererrors.ErrTemplateNotFound)
}

func TestGenerateLetter_MissingTemplate(t *testing.T) {
	f := newLetterFixture(t)
	_, err := f.svc.Generate(context.Background(), uuid.New().String(), uuid.New().String(), FormData{})
	assert.ErrorIs(t, err, offerlettererrors.ErrTemplateNotFound)
}

func TestUpdateLetter_DerivesNetSalary(t *testing.T) {
	f := newLetterFixture(t)
	tpl := f.addTemplate("Dear {{candidate_name}}, your net salary is {{net_salary}}.", true)
	l := f.addLetter(tpl, FormData{
		CandidateName: "Sam Varghese",
		BasicSalary:   "20000",
		Allowances:    "2000",
		NetSalary:     "₹22,000",
	}, LetterStatusDraft)

	resp, err := f.svc.Update(context.Background(), l.CompanyID.String(), l.ID.String(), FormData{
		BasicSalary: "30000",
		Allowances:  "5000",
	})
	require.NoError(t, err)

	assert.Equal(t, "₹35,000", resp.FormData.NetSalary)
	assert.Contains(t, resp.HTMLContent, "35,000")
	assert.NotContains(t, resp.HTMLContent, "22,000")
	// Untouched fields survive the merge.
	assert.Equal(t, "Sam Varghese", resp.FormData.CandidateName)
}

func TestUpdateLetter_NoSalaryChangeKeepsNetSalary(t *testing.T) {
	f := newLetterFixture(t)
	tpl := f.addTemplate("{{candidate_name}}: {{net_salary}}", true)
	l := f.addLetter(tpl, FormData{
		CandidateName: "Sam",
		BasicSalary:   "20000",
		Allowances:    "2000",
		NetSalary:     "₹22,000",
	}, LetterStatusDraft)

	resp, err := f.svc.Update(context.Background(), l.CompanyID.String(), l.ID.String(), FormData{
		CandidateName: "Samir",
	})
	require.NoError(t, err)
	assert.Equal(t, "₹22,000", resp.FormData.NetSalary)
	assert.Contains(t, resp.HTMLContent, "Samir")
}

func TestUpdateLetter_NotFound(t *testing.T) {
	f := newLetterFixture(t)
	_, err := f.svc.Update(context.Background(), uuid.New().String(), uuid.New().String(), FormData{})
	assert.ErrorIs(t, err, offerlettererrors.ErrLetterNotFound)
}

func TestUpdateLetter_BadSalaryAmount(t *testing.T) {
	f := newLetterFixture(t)
	tpl := f.addTemplate("{{net_salary}}", true)
	l := f.addLetter(tpl, FormData{BasicSalary: "20000"}, LetterStatusDraft)

	_, err := f.svc.Update(context.Background(), l.CompanyID.String(), l.ID.String(), FormData{
		BasicSalary: "thirty grand",
	})
	assert.ErrorIs(t, err, offerlettererrors.ErrInvalidSalaryAmount)
}

func TestTransitionLetter_DraftToSent(t *testing.T) {
	f := newLetterFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	tpl := f.addTemplate("x", true)
	l := f.addLetter(tpl, FormData{CandidateName: "Sam"}, LetterStatusDraft)

	resp, err := f.svc.Transition(context.Background(), l.CompanyID.String(), l.ID.String(), LetterStatusSent)
	require.NoError(t, err)
	assert.Equal(t, LetterStatusSent, resp.Status)

	require.Len(t, f.outbox.created, 1)
	assert.Equal(t, "letter_sent", f.outbox.created[0].EventType)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestTransitionLetter_FullLifecycle(t *testing.T) {
	f := newLetterFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	tpl := f.addTemplate("x", true)
	l := f.addLetter(tpl, FormData{}, LetterStatusDraft)

	_, err := f.svc.Transition(context.Background(), l.CompanyID.String(), l.ID.String(), LetterStatusSent)
	require.NoError(t, err)
	resp, err := f.svc.Transition(context.Background(), l.CompanyID.String(), l.ID.String(), LetterStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, LetterStatusAccepted, resp.Status)
}

func TestTransitionLetter_InvalidTransitions(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
	}{
		{"draft cannot be accepted", LetterStatusDraft, LetterStatusAccepted},
		{"draft cannot be rejected", LetterStatusDraft, LetterStatusRejected},
		{"sent cannot return to draft", LetterStatusSent, LetterStatusDraft},
		{"accepted is terminal", LetterStatusAccepted, LetterStatusSent},
		{"rejected is terminal", LetterStatusRejected, LetterStatusSent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newLetterFixture(t)
			tpl := f.addTemplate("x", true)
			l := f.addLetter(tpl, FormData{}, tc.from)

			_, err := f.svc.Transition(context.Background(), l.CompanyID.String(), l.ID.String(), tc.to)
			assert.ErrorIs(t, err, offerlettererrors.ErrInvalidStatusTransition)
		})
	}
}

func TestTransitionLetter_CASLost(t *testing.T) {
	f := newLetterFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	tpl := f.addTemplate("x", true)
	l := f.addLetter(tpl, FormData{}, LetterStatusDraft)
	f.letterRepo.updateStatusFn = func(ctx context.Context, companyID, id, fromStatus, toStatus string) (int64, error) {
		return 0, nil
	}

	_, err := f.svc.Transition(context.Background(), l.CompanyID.String(), l.ID.String(), LetterStatusSent)
	assert.ErrorIs(t, err, offerlettererrors.ErrInvalidStatusTransition)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestDeleteLetter_IdempotentWhenAbsent(t *testing.T) {
	f := newLetterFixture(t)
	err := f.svc.Delete(context.Background(), uuid.New().String(), uuid.New().String())
	assert.NoError(t, err)
	assert.Empty(t, f.audit.entries)
}

func TestDeleteLetter_DecidedLetterIsAudited(t *testing.T) {
	f := newLetterFixture(t)
	tpl := f.addTemplate("x", true)
	l := f.addLetter(tpl, FormData{}, LetterStatusAccepted)

	require.NoError(t, f.svc.Delete(context.Background(), l.CompanyID.String(), l.ID.String()))

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "offer_letter_deleted", f.audit.entries[0].Action)
	assert.Equal(t, LetterStatusAccepted, f.audit.entries[0].Meta["status"])
}

func TestDeleteLetter_DraftNotAudited(t *testing.T) {
	f := newLetterFixture(t)
	tpl := f.addTemplate("x", true)
	l := f.addLetter(tpl, FormData{}, LetterStatusDraft)

	require.NoError(t, f.svc.Delete(context.Background(), l.CompanyID.String(), l.ID.String()))
	assert.Empty(t, f.audit.entries)
	assert.Len(t, f.letterRepo.deleted, 1)
}

func TestCreateTemplate_ExtractsVariables(t *testing.T) {
	f := newLetterFixture(t)

	resp, err := f.svc.CreateTemplate(context.Background(), uuid.New().String(), uuid.New().String(), CreateTemplateRequest{
		Name:    "Standard Offer",
		Content: "Dear {{candidate_name}}, pay {{net_salary}}",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"candidate_name", "net_salary"}, resp.Variables)
	assert.True(t, resp.IsActive)
	assert.Equal(t, 1, resp.Version)
}

func TestCreateTemplate_EmptyContent(t *testing.T) {
	f := newLetterFixture(t)
	_, err := f.svc.CreateTemplate(context.Background(), uuid.New().String(), "", CreateTemplateRequest{Name: "x"})
	assert.ErrorIs(t, err, offerlettererrors.ErrEmptyTemplateContent)
}
