package leave

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
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	actorID := c.GetString("employee_id")

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request body", nil)
		return
	}

	resp, err := h.service.Create(ctx, companyID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	filter := ListLeaveFilter{
		Status:     c.Query("status"),
		EmployeeID: c.Query("employee_id"),
	}

	resp, err := h.service.GetAll(ctx, companyID, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	id := c.Param("id")

	resp, err := h.service.GetByID(ctx, companyID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	employeeID := c.Param("id")

	resp, err := h.service.GetByEmployee(ctx, companyID, employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetPendingByApprover(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	approverID := c.Param("id")

	resp, err := h.service.GetPendingByApprover(ctx, companyID, approverID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// UpdateStatus routes cancellations through the owner-only path and
// approve/reject through the approver path.
func (h *Handler) UpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	id := c.Param("id")

	var req UpdateLeaveStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		details := apperror.MapValidationError(err)
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid request body", details)
		return
	}

	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = req.ActionBy
	}

	var (
		resp LeaveResponse
		err  error
	)
	if req.Status == StatusCancelled {
		resp, err = h.service.Cancel(ctx, companyID, actorID, id)
	} else {
		resp, err = h.service.Decide(ctx, companyID, actorID, id, req.Status)
	}
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
