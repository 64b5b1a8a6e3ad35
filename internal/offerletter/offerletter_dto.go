package offerletter

type CreateTemplateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Content     string `json:"content" binding:"required"`
}

type TemplateResponse struct {
	ID          string   `json:"id"`
	CompanyID   string   `json:"company_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Content     string   `json:"content"`
	Version     int      `json:"version"`
	IsActive    bool     `json:"is_active"`
	Variables   []string `json:"variables"`
	CreatedAt   string   `json:"created_at"`
}

type GenerateLetterRequest struct {
	FormData FormData `json:"form_data" binding:"required"`
}

type UpdateLetterRequest struct {
	FormData FormData `json:"form_data" binding:"required"`
}

type UpdateLetterStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=sent accepted rejected"`
}

type LetterResponse struct {
	ID             string   `json:"id"`
	CompanyID      string   `json:"company_id"`
	TemplateID     string   `json:"template_id"`
	TemplateName   string   `json:"template_name"`
	Reference      string   `json:"reference"`
	CandidateName  string   `json:"candidate_name"`
	CandidateEmail string   `json:"candidate_email"`
	Designation    string   `json:"designation,omitempty"`
	FormData       FormData `json:"form_data"`
	HTMLContent    string   `json:"html_content"`
	Status         string   `json:"status"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}
