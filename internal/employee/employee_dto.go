package employee

type CreateEmployeeRequest struct {
	FullName         string  `json:"full_name" binding:"required"`
	Email            string  `json:"email" binding:"required,email"`
	JobTitle         string  `json:"job_title"`
	ApproverID       *string `json:"approver_id" binding:"omitempty,uuid"`
	IsHRAdmin        bool    `json:"is_hr_admin"`
	HireDate         string  `json:"hire_date" binding:"required"`
	EmploymentStatus string  `json:"employment_status" binding:"omitempty,oneof=ACTIVE INACTIVE TERMINATED"`
}

type UpdateEmployeeRequest struct {
	FullName         string  `json:"full_name" binding:"required"`
	Email            string  `json:"email" binding:"required,email"`
	JobTitle         string  `json:"job_title"`
	ApproverID       *string `json:"approver_id" binding:"omitempty,uuid"`
	IsHRAdmin        bool    `json:"is_hr_admin"`
	EmploymentStatus string  `json:"employment_status" binding:"omitempty,oneof=ACTIVE INACTIVE TERMINATED"`
}

type EmployeeResponse struct {
	ID               string  `json:"id"`
	CompanyID        string  `json:"company_id"`
	FullName         string  `json:"full_name"`
	Email            string  `json:"email"`
	JobTitle         string  `json:"job_title,omitempty"`
	ApproverID       *string `json:"approver_id,omitempty"`
	IsHRAdmin        bool    `json:"is_hr_admin"`
	HireDate         string  `json:"hire_date"`
	EmploymentStatus string  `json:"employment_status"`
}
