package rbac

import (
	"testing"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePolicyRepo struct {
	Repository

	employeeRoles   []EmployeeRoleRow
	rolePermissions []RolePermissionRow
}

func (f *fakePolicyRepo) GetEmployeeRoles(companyID string) ([]EmployeeRoleRow, error) {
	return f.employeeRoles, nil
}

func (f *fakePolicyRepo) GetRolePermissions(companyID string) ([]RolePermissionRow, error) {
	return f.rolePermissions, nil
}

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()

	modelText := `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub, r.dom) && r.dom == p.dom && r.obj == p.obj && r.act == p.act
`

	m, err := model.NewModelFromString(modelText)
	require.NoError(t, err)

	e, err := casbin.NewEnforcer(m)
	require.NoError(t, err)
	return e
}

func TestEnforce_GrantedThroughRole(t *testing.T) {
	repo := &fakePolicyRepo{
		employeeRoles: []EmployeeRoleRow{
			{EmployeeID: "emp-1", RoleID: "role-hr"},
		},
		rolePermissions: []RolePermissionRow{
			{RoleID: "role-hr", Resource: "leave", Action: "approve"},
		},
	}
	svc := NewService(repo, newTestEnforcer(t), zap.NewNop())

	allowed, err := svc.Enforce(EnforceRequest{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Resource:   "leave",
		Action:     "approve",
	})
	require.NoError(t, err)
	assert.True(t, allowed)

	denied, err := svc.Enforce(EnforceRequest{
		EmployeeID: "emp-1",
		CompanyID:  "company-1",
		Resource:   "leave",
		Action:     "delete",
	})
	require.NoError(t, err)
	assert.False(t, denied)
}

func TestEnforce_NoRolesDenied(t *testing.T) {
	svc := NewService(&fakePolicyRepo{}, newTestEnforcer(t), zap.NewNop())

	allowed, err := svc.Enforce(EnforceRequest{
		EmployeeID: "emp-unknown",
		CompanyID:  "company-1",
		Resource:   "employee",
		Action:     "read",
	})
	require.NoError(t, err)
	assert.False(t, allowed)
}
