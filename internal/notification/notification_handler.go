package notification

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
	l := zap.L().Named("notification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("notification request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetAllByRecipient(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	recipientID := c.Param("id")

	resp, err := h.service.GetAllByRecipient(ctx, companyID, recipientID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MarkRead(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	id := c.Param("id")

	if err := h.service.MarkRead(ctx, companyID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"read": true}, nil)
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	recipientID := c.Param("id")

	if err := h.service.MarkAllRead(ctx, companyID, recipientID); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"read": true}, nil)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	recipientID := c.Param("id")

	count, err := h.service.UnreadCount(ctx, companyID, recipientID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, UnreadCountResponse{Count: count}, nil)
}
