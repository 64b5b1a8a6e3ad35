package rbac

type EnforceRequest struct {
	EmployeeID string `json:"employee_id"`
	CompanyID  string `json:"company_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,uuid"`
}

type UpdateRoleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions" binding:"omitempty,dive,uuid"`
}

type RoleResponse struct {
	ID          string   `json:"id"`
	CompanyID   string   `json:"company_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
}

type PermissionResponse struct {
	ID       string `json:"id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Label    string `json:"label,omitempty"`
	Category string `json:"category,omitempty"`
}
