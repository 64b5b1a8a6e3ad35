package rbac

import (
	"net/http"
	"strings"

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
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("rbac request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Enforce(c *gin.Context) {
	var req EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request body", nil)
		return
	}

	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	req.CompanyID = strings.TrimSpace(req.CompanyID)
	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)
	if req.EmployeeID == "" || req.CompanyID == "" || req.Resource == "" || req.Action == "" {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput,
			"employee_id, company_id, resource, and action are required", nil)
		return
	}

	allowed, err := h.service.Enforce(req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, EnforceResponse{Allowed: allowed}, nil)
}

func (h *Handler) ListRoles(c *gin.Context) {
	resp, err := h.service.ListRoles(c.GetString("company_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetRole(c *gin.Context) {
	resp, err := h.service.GetRole(c.GetString("company_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CreateRole(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		details := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request body", details)
		return
	}

	resp, err := h.service.CreateRole(c.GetString("company_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		details := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request body", details)
		return
	}

	resp, err := h.service.UpdateRole(c.GetString("company_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DeleteRole(c *gin.Context) {
	if err := h.service.DeleteRole(c.GetString("company_id"), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) ListPermissions(c *gin.Context) {
	resp, err := h.service.ListPermissions()
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
