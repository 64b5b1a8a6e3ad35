package leave

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
	// Accepted but ignored: a new request always starts out pending no
	// matter what the caller claims.
	Status string `json:"status"`
}

type UpdateLeaveStatusRequest struct {
	Status   string `json:"status" binding:"required,oneof=approved rejected cancelled"`
	ActionBy string `json:"action_by" binding:"omitempty,uuid"`
}

type ListLeaveFilter struct {
	Status     string
	EmployeeID string
}

type LeaveResponse struct {
	ID            string  `json:"id"`
	CompanyID     string  `json:"company_id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeEmail string  `json:"employee_email"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	ApproverID    *string `json:"approver_id,omitempty"`
	ActionBy      *string `json:"action_by,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}
