package employee

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	employeeerrors "go-hrms/internal/employee/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeEmployeeRepo struct {
	Repository
	createFn           func(ctx context.Context, e *Employee) error
	findAllFn          func(ctx context.Context, companyID string) ([]Employee, error)
	findOptionsFn      func(ctx context.Context, companyID string) ([]Employee, error)
	findByIDFn         func(ctx context.Context, companyID, id string) (*Employee, error)
	updateFn           func(ctx context.Context, e *Employee) error
	deleteFn           func(ctx context.Context, companyID, id string) error
	belongsToCompanyFn func(ctx context.Context, companyID, employeeID string) (bool, error)
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, e *Employee) error {
	return f.createFn(ctx, e)
}

func (f *fakeEmployeeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	return f.findAllFn(ctx, companyID)
}

func (f *fakeEmployeeRepo) FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	return f.findOptionsFn(ctx, companyID)
}

func (f *fakeEmployeeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error) {
	return f.findByIDFn(ctx, companyID, id)
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, e *Employee) error {
	return f.updateFn(ctx, e)
}

func (f *fakeEmployeeRepo) Delete(ctx context.Context, companyID, id string) error {
	return f.deleteFn(ctx, companyID, id)
}

func (f *fakeEmployeeRepo) BelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	return f.belongsToCompanyFn(ctx, companyID, employeeID)
}

func TestCreateEmployee_Success(t *testing.T) {
	companyID := uuid.New().String()
	approverID := uuid.New().String()

	rdb, mock := redismock.NewClientMock()
	mock.ExpectDel(GetEmployeeOptionsKey(companyID)).SetVal(1)

	var created *Employee
	repo := &fakeEmployeeRepo{
		createFn: func(ctx context.Context, e *Employee) error {
			created = e
			return nil
		},
		belongsToCompanyFn: func(ctx context.Context, gotCompany, gotEmployee string) (bool, error) {
			assert.Equal(t, companyID, gotCompany)
			assert.Equal(t, approverID, gotEmployee)
			return true, nil
		},
	}

	svc := NewService(repo, rdb)

	resp, err := svc.Create(context.Background(), companyID, CreateEmployeeRequest{
		FullName:   "Priya Sharma",
		Email:      "priya@acme.test",
		JobTitle:   "Backend Engineer",
		ApproverID: &approverID,
		HireDate:   "2026-02-01",
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, "ACTIVE", created.EmploymentStatus)
	require.NotNil(t, created.ApproverID)
	assert.Equal(t, approverID, created.ApproverID.String())

	assert.Equal(t, "2026-02-01", resp.HireDate)
	assert.Equal(t, "Priya Sharma", resp.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEmployee_BadHireDate(t *testing.T) {
	svc := NewService(&fakeEmployeeRepo{}, nil)

	_, err := svc.Create(context.Background(), uuid.New().String(), CreateEmployeeRequest{
		FullName: "Priya Sharma",
		Email:    "priya@acme.test",
		HireDate: "01-02-2026",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidHireDate)
}

func TestCreateEmployee_ApproverOutsideCompany(t *testing.T) {
	approverID := uuid.New().String()

	repo := &fakeEmployeeRepo{
		belongsToCompanyFn: func(ctx context.Context, companyID, employeeID string) (bool, error) {
			return false, nil
		},
	}

	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), uuid.New().String(), CreateEmployeeRequest{
		FullName:   "Priya Sharma",
		Email:      "priya@acme.test",
		ApproverID: &approverID,
		HireDate:   "2026-02-01",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrApproverNotInCompany)
}

func TestGetByID_NotFoundMapped(t *testing.T) {
	repo := &fakeEmployeeRepo{
		findByIDFn: func(ctx context.Context, companyID, id string) (*Employee, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc := NewService(repo, nil)

	_, err := svc.GetByID(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func TestGetOptions_CacheHitSkipsRepo(t *testing.T) {
	companyID := uuid.New().String()
	cached := []EmployeeResponse{{
		ID:       uuid.New().String(),
		FullName: "Priya Sharma",
	}}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(GetEmployeeOptionsKey(companyID)).SetVal(string(payload))

	repo := &fakeEmployeeRepo{
		findOptionsFn: func(ctx context.Context, companyID string) ([]Employee, error) {
			t.Fatal("repo should not be hit on a cache hit")
			return nil, nil
		},
	}

	svc := NewService(repo, rdb)

	resp, err := svc.GetOptions(context.Background(), companyID)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "Priya Sharma", resp[0].FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOptions_CacheMissFillsCache(t *testing.T) {
	companyID := uuid.New()
	hireDate := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := []Employee{{
		ID:               uuid.New(),
		CompanyID:        companyID,
		FullName:         "Priya Sharma",
		Email:            "priya@acme.test",
		HireDate:         hireDate,
		EmploymentStatus: "ACTIVE",
	}}
	payload, err := json.Marshal(mapToListResponse(rows))
	require.NoError(t, err)

	rdb, mock := redismock.NewClientMock()
	key := GetEmployeeOptionsKey(companyID.String())
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, payload, time.Hour).SetVal("OK")

	repo := &fakeEmployeeRepo{
		findOptionsFn: func(ctx context.Context, gotCompany string) ([]Employee, error) {
			assert.Equal(t, companyID.String(), gotCompany)
			return rows, nil
		},
	}

	svc := NewService(repo, rdb)

	resp, err := svc.GetOptions(context.Background(), companyID.String())
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "2026-02-01", resp[0].HireDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEmployee_InvalidatesOptionsCache(t *testing.T) {
	companyID := uuid.New()
	employeeID := uuid.New()

	rdb, mock := redismock.NewClientMock()
	mock.ExpectDel(GetEmployeeOptionsKey(companyID.String())).SetVal(1)

	repo := &fakeEmployeeRepo{
		findByIDFn: func(ctx context.Context, gotCompany, gotID string) (*Employee, error) {
			return &Employee{
				ID:               employeeID,
				CompanyID:        companyID,
				FullName:         "Priya Sharma",
				Email:            "priya@acme.test",
				HireDate:         time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
				EmploymentStatus: "ACTIVE",
			}, nil
		},
		updateFn: func(ctx context.Context, e *Employee) error {
			assert.Equal(t, "Priya S. Sharma", e.FullName)
			assert.Equal(t, "INACTIVE", e.EmploymentStatus)
			return nil
		},
	}

	svc := NewService(repo, rdb)

	resp, err := svc.Update(context.Background(), companyID.String(), employeeID.String(), UpdateEmployeeRequest{
		FullName:         "Priya S. Sharma",
		Email:            "priya@acme.test",
		EmploymentStatus: "INACTIVE",
	})
	require.NoError(t, err)
	assert.Equal(t, "Priya S. Sharma", resp.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEmployee_InvalidatesOptionsCache(t *testing.T) {
	companyID := uuid.New().String()

	rdb, mock := redismock.NewClientMock()
	mock.ExpectDel(GetEmployeeOptionsKey(companyID)).SetVal(1)

	repo := &fakeEmployeeRepo{
		deleteFn: func(ctx context.Context, gotCompany, gotID string) error {
			return nil
		},
	}

	svc := NewService(repo, rdb)

	require.NoError(t, svc.Delete(context.Background(), companyID, uuid.New().String()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
