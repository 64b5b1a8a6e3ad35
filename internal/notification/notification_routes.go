package notification

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	// One wildcard name throughout: gin rejects mixed names at the same
	// position. The :id segment is a recipient id on the list/count/read-all
	// routes and a notification id on the single-read route.
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("/:id", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.GetAllByRecipient)
		notifications.GET("/:id/unread-count", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.UnreadCount)
		notifications.PATCH("/:id/read-all", middleware.RBACAuthorize(rbacService, "notification", "update"), handler.MarkAllRead)
		notifications.PATCH("/:id/read", middleware.RBACAuthorize(rbacService, "notification", "update"), handler.MarkRead)
	}
}
