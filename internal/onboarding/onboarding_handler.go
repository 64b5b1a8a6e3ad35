package onboarding

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("onboarding.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("onboarding.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("onboarding request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		details := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request body", details)
		return
	}

	resp, err := h.service.CreateTask(ctx, companyID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetTasksByEmployee(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	employeeID := c.Param("id")

	resp, err := h.service.GetTasksByEmployee(ctx, companyID, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CompleteTask(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	id := c.Param("id")

	if err := h.service.CompleteTask(ctx, companyID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"completed": true}, nil)
}

func (h *Handler) Remind(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	id := c.Param("id")

	if err := h.service.Remind(ctx, companyID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reminded": true}, nil)
}

func (h *Handler) SubmitDocument(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	employeeID := c.Param("id")

	var req SubmitDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		details := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request body", details)
		return
	}

	resp, err := h.service.SubmitDocument(ctx, companyID, employeeID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetDocumentsByEmployee(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	employeeID := c.Param("id")

	resp, err := h.service.GetDocumentsByEmployee(ctx, companyID, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
