package onboarding

type CreateTaskRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date" binding:"omitempty"`
}

type TaskResponse struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	EmployeeID  string `json:"employee_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Status      string `json:"status"`
	CompletedAt string `json:"completed_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type SubmitDocumentRequest struct {
	Name    string `json:"name" binding:"required"`
	FileURL string `json:"file_url" binding:"omitempty,url"`
}

type DocumentResponse struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	FileURL    string `json:"file_url,omitempty"`
	CreatedAt  string `json:"created_at"`
}
