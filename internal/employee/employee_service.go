package employee

import (
	"context"
	"encoding/json"
	"time"

	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const EmployeeOptionsKeyPrefix = "employees:options:"

func GetEmployeeOptionsKey(companyID string) string {
	return EmployeeOptionsKeyPrefix + companyID
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("email", req.Email),
	)

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
	}

	approverID, err := s.resolveApprover(ctx, companyID, req.ApproverID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	status := req.EmploymentStatus
	if status == "" {
		status = "ACTIVE"
	}

	e := &Employee{
		ID:               uuid.New(),
		CompanyID:        uuid.MustParse(companyID),
		FullName:         req.FullName,
		Email:            req.Email,
		JobTitle:         req.JobTitle,
		ApproverID:       approverID,
		IsHRAdmin:        req.IsHRAdmin,
		HireDate:         hireDate,
		EmploymentStatus: status,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx, companyID)
	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", e.ID.String()),
	)

	return mapToResponse(*e), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(employees), nil
}

// GetOptions serves the dropdown read model: Redis first, singleflight to
// collapse concurrent fills when the cache is cold.
func (s *service) GetOptions(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	cacheKey := GetEmployeeOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		employees, err := s.repo.FindOptionsByCompany(ctx, companyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(employees)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error) {
	e, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*e), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	e, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	approverID, err := s.resolveApprover(ctx, companyID, req.ApproverID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	e.FullName = req.FullName
	e.Email = req.Email
	e.JobTitle = req.JobTitle
	e.ApproverID = approverID
	e.IsHRAdmin = req.IsHRAdmin
	if req.EmploymentStatus != "" {
		e.EmploymentStatus = req.EmploymentStatus
	}

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("update employee persist failed",
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx, companyID)
	return mapToResponse(*e), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}
	s.invalidateOptionsCache(ctx, companyID)
	return nil
}

func (s *service) resolveApprover(ctx context.Context, companyID string, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	approverUUID, err := uuid.Parse(*raw)
	if err != nil {
		return nil, employeeerrors.ErrInvalidApproverID
	}

	belongs, err := s.repo.BelongsToCompany(ctx, companyID, *raw)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if !belongs {
		return nil, employeeerrors.ErrApproverNotInCompany
	}

	return &approverUUID, nil
}

func (s *service) invalidateOptionsCache(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeOptionsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("invalidate employee options cache failed",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:               e.ID.String(),
		CompanyID:        e.CompanyID.String(),
		FullName:         e.FullName,
		Email:            e.Email,
		JobTitle:         e.JobTitle,
		IsHRAdmin:        e.IsHRAdmin,
		HireDate:         e.HireDate.Format("2006-01-02"),
		EmploymentStatus: e.EmploymentStatus,
	}
	if e.ApproverID != nil {
		v := e.ApproverID.String()
		resp.ApproverID = &v
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}
