package rbac

import (
	"errors"
	"sync"

	"go-hrms/internal/shared/apperror"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadCompanyPolicy(companyID string) error
	Enforce(req EnforceRequest) (bool, error)

	ListRoles(companyID string) ([]RoleResponse, error)
	GetRole(companyID, id string) (RoleResponse, error)
	CreateRole(companyID string, req CreateRoleRequest) (RoleResponse, error)
	UpdateRole(companyID, id string, req UpdateRoleRequest) (RoleResponse, error)
	DeleteRole(companyID, id string) error
	ListPermissions() ([]PermissionResponse, error)
}

// service rebuilds the in-memory policy from the database for the requesting
// company before every check. The enforcer is shared, hence the mutex; policy
// volume per company is small so the reload stays cheap.
type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) LoadCompanyPolicy(companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCompanyPolicyUnlocked(companyID)
}

func (s *service) loadCompanyPolicyUnlocked(companyID string) error {
	s.enforcer.ClearPolicy()

	employeeRoles, err := s.repo.GetEmployeeRoles(companyID)
	if err != nil {
		return err
	}
	for _, er := range employeeRoles {
		if _, err := s.enforcer.AddGroupingPolicy(er.EmployeeID, er.RoleID, companyID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(companyID)
	if err != nil {
		return err
	}
	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, companyID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Debug("company policy loaded",
		zap.String("company_id", companyID),
		zap.Int("employee_roles", len(employeeRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)
	return nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadCompanyPolicyUnlocked(req.CompanyID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.EmployeeID, req.CompanyID, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("enforce failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("company_id", req.CompanyID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("enforce",
		zap.String("employee_id", req.EmployeeID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) ListRoles(companyID string) ([]RoleResponse, error) {
	roles, err := s.repo.ListRoles(companyID)
	if err != nil {
		return nil, apperror.Storage(err)
	}

	resp := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		r, err := s.mapRole(role)
		if err != nil {
			return nil, err
		}
		resp = append(resp, r)
	}
	return resp, nil
}

func (s *service) GetRole(companyID, id string) (RoleResponse, error) {
	role, err := s.repo.GetRoleByID(companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleResponse{}, apperror.ErrNotFound
		}
		return RoleResponse{}, apperror.Storage(err)
	}
	return s.mapRole(*role)
}

func (s *service) CreateRole(companyID string, req CreateRoleRequest) (RoleResponse, error) {
	role := &RoleRow{
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.CreateRole(role); err != nil {
		return RoleResponse{}, apperror.Storage(err)
	}
	if len(req.Permissions) > 0 {
		if err := s.repo.ReplaceRolePermissions(role.ID, req.Permissions); err != nil {
			return RoleResponse{}, apperror.Storage(err)
		}
	}

	s.logger.Info("role created",
		zap.String("role_id", role.ID),
		zap.String("company_id", companyID),
	)
	return s.mapRole(*role)
}

func (s *service) UpdateRole(companyID, id string, req UpdateRoleRequest) (RoleResponse, error) {
	role, err := s.repo.GetRoleByID(companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleResponse{}, apperror.ErrNotFound
		}
		return RoleResponse{}, apperror.Storage(err)
	}

	if req.Name != "" {
		role.Name = req.Name
	}
	if req.Description != "" {
		role.Description = req.Description
	}
	if err := s.repo.UpdateRole(role); err != nil {
		return RoleResponse{}, apperror.Storage(err)
	}
	if req.Permissions != nil {
		if err := s.repo.ReplaceRolePermissions(role.ID, req.Permissions); err != nil {
			return RoleResponse{}, apperror.Storage(err)
		}
	}

	return s.mapRole(*role)
}

func (s *service) DeleteRole(companyID, id string) error {
	if _, err := s.repo.GetRoleByID(companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return apperror.Storage(err)
	}
	if err := s.repo.DeleteRole(companyID, id); err != nil {
		return apperror.Storage(err)
	}
	s.logger.Info("role deleted", zap.String("role_id", id))
	return nil
}

func (s *service) ListPermissions() ([]PermissionResponse, error) {
	perms, err := s.repo.ListPermissions()
	if err != nil {
		return nil, apperror.Storage(err)
	}
	resp := make([]PermissionResponse, len(perms))
	for i, p := range perms {
		resp[i] = PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		}
	}
	return resp, nil
}

func (s *service) mapRole(role RoleRow) (RoleResponse, error) {
	perms, err := s.repo.GetPermissionsByRoleID(role.ID)
	if err != nil {
		return RoleResponse{}, apperror.Storage(err)
	}
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = p.Resource + ":" + p.Action
	}
	return RoleResponse{
		ID:          role.ID,
		CompanyID:   role.CompanyID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: names,
	}, nil
}
