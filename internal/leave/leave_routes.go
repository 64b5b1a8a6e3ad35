package leave

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
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Create)
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByID)
		leaves.GET("/employee/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByEmployee)
		leaves.GET("/approver/:id", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.GetPendingByApprover)
		// Both decisions and owner cancellations come through here; the policy
		// grants leave:update to employees and approvers alike, and the
		// service enforces who may do what.
		leaves.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, "leave", "update"), handler.UpdateStatus)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave", "delete"), handler.Delete)
	}
}
