package onboarding

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-hrms/internal/employee"
	"go-hrms/internal/notification"
	onboardingerrors "go-hrms/internal/onboarding/errors"
)

type fakeOnboardingRepo struct {
	tasks     map[string]*Task
	documents []*SubmittedDocument
}

func (f *fakeOnboardingRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeOnboardingRepo) CreateTask(ctx context.Context, t *Task) error {
	f.tasks[t.ID.String()] = t
	return nil
}

func (f *fakeOnboardingRepo) FindTasksByEmployee(ctx context.Context, companyID, employeeID string) ([]Task, error) {
	var out []Task
	for _, t := range f.tasks {
		if t.EmployeeID.String() == employeeID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeOnboardingRepo) FindTaskByIDAndCompany(ctx context.Context, companyID, id string) (*Task, error) {
	if t, ok := f.tasks[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOnboardingRepo) CompleteTaskCAS(ctx context.Context, companyID, id string) (int64, error) {
	t, ok := f.tasks[id]
	if !ok || t.Status != TaskStatusPending {
		return 0, nil
	}
	t.Status = TaskStatusCompleted
	return 1, nil
}

func (f *fakeOnboardingRepo) CreateDocument(ctx context.Context, d *SubmittedDocument) error {
	f.documents = append(f.documents, d)
	return nil
}

func (f *fakeOnboardingRepo) FindDocumentsByEmployee(ctx context.Context, companyID, employeeID string) ([]SubmittedDocument, error) {
	var out []SubmittedDocument
	for _, d := range f.documents {
		out = append(out, *d)
	}
	return out, nil
}

type fakeEmployeeDirectory struct {
	employee.Repository

	byID   map[string]*employee.Employee
	admins []employee.Employee
}

func (f *fakeEmployeeDirectory) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeDirectory) FindHRAdminsByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return f.admins, nil
}

func (f *fakeEmployeeDirectory) BelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	_, ok := f.byID[employeeID]
	return ok, nil
}

type fakeNotificationSink struct {
	notification.Repository

	created []notification.Notification
}

func (f *fakeNotificationSink) WithTx(tx *sql.Tx) notification.Repository { return f }

func (f *fakeNotificationSink) Create(ctx context.Context, n *notification.Notification) error {
	f.created = append(f.created, *n)
	return nil
}

type onboardingFixture struct {
	db            *sql.DB
	mock          sqlmock.Sqlmock
	repo          *fakeOnboardingRepo
	directory     *fakeEmployeeDirectory
	notifications *fakeNotificationSink
	svc           Service
}

func newOnboardingFixture(t *testing.T) *onboardingFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &onboardingFixture{
		db:            db,
		mock:          mock,
		repo:          &fakeOnboardingRepo{tasks: map[string]*Task{}},
		directory:     &fakeEmployeeDirectory{byID: map[string]*employee.Employee{}},
		notifications: &fakeNotificationSink{},
	}
	f.svc = NewService(db, f.repo, f.directory, f.notifications, nil, zap.NewNop())
	return f
}

func (f *onboardingFixture) addEmployee(companyID uuid.UUID, name string) *employee.Employee {
	e := &employee.Employee{
		ID:        uuid.New(),
		CompanyID: companyID,
		FullName:  name,
		Email:     name + "@acme.test",
	}
	f.directory.byID[e.ID.String()] = e
	return e
}

func (f *onboardingFixture) addTask(companyID, employeeID uuid.UUID, status string) *Task {
	t := &Task{
		ID:         uuid.New(),
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Title:      "Sign NDA",
		Status:     status,
	}
	f.repo.tasks[t.ID.String()] = t
	return t
}

func TestCreateTask_Success(t *testing.T) {
	f := newOnboardingFixture(t)
	companyID := uuid.New()
	emp := f.addEmployee(companyID, "asha")

	resp, err := f.svc.CreateTask(context.Background(), companyID.String(), CreateTaskRequest{
		EmployeeID: emp.ID.String(),
		Title:      "Submit ID proof",
		DueDate:    "2026-09-15",
	})
	require.NoError(t, err)

	assert.Equal(t, TaskStatusPending, resp.Status)
	assert.Equal(t, "2026-09-15", resp.DueDate)
	assert.Len(t, f.repo.tasks, 1)
}

func TestCreateTask_UnknownEmployee(t *testing.T) {
	f := newOnboardingFixture(t)
	_, err := f.svc.CreateTask(context.Background(), uuid.New().String(), CreateTaskRequest{
		EmployeeID: uuid.New().String(),
		Title:      "Submit ID proof",
	})
	assert.ErrorIs(t, err, onboardingerrors.ErrEmployeeNotInCompany)
}

func TestCreateTask_BadDueDate(t *testing.T) {
	f := newOnboardingFixture(t)
	companyID := uuid.New()
	emp := f.addEmployee(companyID, "asha")

	_, err := f.svc.CreateTask(context.Background(), companyID.String(), CreateTaskRequest{
		EmployeeID: emp.ID.String(),
		Title:      "Submit ID proof",
		DueDate:    "15-09-2026",
	})
	assert.ErrorIs(t, err, onboardingerrors.ErrInvalidDueDate)
}

func TestRemind_NotifiesTaskOwner(t *testing.T) {
	f := newOnboardingFixture(t)
	companyID := uuid.New()
	emp := f.addEmployee(companyID, "asha")
	task := f.addTask(companyID, emp.ID, TaskStatusPending)

	require.NoError(t, f.svc.Remind(context.Background(), companyID.String(), task.ID.String()))

	require.Len(t, f.notifications.created, 1)
	n := f.notifications.created[0]
	assert.Equal(t, notification.TypeOnboardingReminder, n.Type)
	assert.Equal(t, emp.ID, n.RecipientID)
	assert.Contains(t, n.Message, "Sign NDA")
}

func TestRemind_CompletedTask(t *testing.T) {
	f := newOnboardingFixture(t)
	companyID := uuid.New()
	emp := f.addEmployee(companyID, "asha")
	task := f.addTask(companyID, emp.ID, TaskStatusCompleted)

	err := f.svc.Remind(context.Background(), companyID.String(), task.ID.String())
	assert.ErrorIs(t, err, onboardingerrors.ErrTaskAlreadyCompleted)
	assert.Empty(t, f.notifications.created)
}

func TestRemind_MissingTask(t *testing.T) {
	f := newOnboardingFixture(t)
	err := f.svc.Remind(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, onboardingerrors.ErrTaskNotFound)
}

func TestCompleteTask_Idempotency(t *testing.T) {
	f := newOnboardingFixture(t)
	companyID := uuid.New()
	emp := f.addEmployee(companyID, "asha")
	task := f.addTask(companyID, emp.ID, TaskStatusPending)

	require.NoError(t, f.svc.CompleteTask(context.Background(), companyID.String(), task.ID.String()))

	err := f.svc.CompleteTask(context.Background(), companyID.String(), task.ID.String())
	assert.ErrorIs(t, err, onboardingerrors.ErrTaskAlreadyCompleted)
}

func TestSubmitDocument_FansOutToHRAdmins(t *testing.T) {
	f := newOnboardingFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	companyID := uuid.New()
	emp := f.addEmployee(companyID, "asha")
	f.directory.admins = []employee.Employee{
		{ID: uuid.New(), CompanyID: companyID, IsHRAdmin: true},
		{ID: uuid.New(), CompanyID: companyID, IsHRAdmin: true},
	}

	resp, err := f.svc.SubmitDocument(context.Background(), companyID.String(), emp.ID.String(), SubmitDocumentRequest{
		Name:    "Passport copy",
		FileURL: "https://files.acme.test/passport.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "Passport copy", resp.Name)
	require.Len(t, f.repo.documents, 1)

	require.Len(t, f.notifications.created, 2)
	for _, n := range f.notifications.created {
		assert.Equal(t, notification.TypeDocumentSubmitted, n.Type)
		assert.Contains(t, n.Message, "asha")
		assert.Contains(t, n.Message, "Passport copy")
	}

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSubmitDocument_UnknownEmployee(t *testing.T) {
	f := newOnboardingFixture(t)
	_, err := f.svc.SubmitDocument(context.Background(), uuid.New().String(), uuid.New().String(), SubmitDocumentRequest{
		Name: "Passport copy",
	})
	assert.ErrorIs(t, err, onboardingerrors.ErrEmployeeNotInCompany)
}
