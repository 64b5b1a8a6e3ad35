package offerletter

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
	l := zap.L().Named("offerletter.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("offerletter.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("offer letter request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) CreateTemplate(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	actorID := c.GetString("employee_id")

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		details := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request body", details)
		return
	}

	resp, err := h.service.CreateTemplate(ctx, companyID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetTemplates(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")

	resp, err := h.service.GetTemplates(ctx, companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DeactivateTemplate(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	id := c.Param("id")

	if err := h.service.DeactivateTemplate(ctx, companyID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deactivated": true}, nil)
}

func (h *Handler) Generate(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	templateID := c.Param("id")

	var req GenerateLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		details := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request body", details)
		return
	}

	resp, err := h.service.Generate(ctx, companyID, templateID, req.FormData)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetLetters(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")

	resp, err := h.service.GetLetters(ctx, companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetLetter(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	id := c.Param("id")

	resp, err := h.service.GetLetter(ctx, companyID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	id := c.Param("id")

	var req UpdateLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		details := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request body", details)
		return
	}

	resp, err := h.service.Update(ctx, companyID, id, req.FormData)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	id := c.Param("id")

	var req UpdateLetterStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		details := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request body", details)
		return
	}

	resp, err := h.service.Transition(ctx, companyID, id, req.Status)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	id := c.Param("id")

	if err := h.service.Delete(ctx, companyID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
