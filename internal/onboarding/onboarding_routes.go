package onboarding

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
	onboarding := r.Group("/onboarding")
	onboarding.Use(middleware.AuthMiddleware())
	{
		tasks := onboarding.Group("/tasks")
		{
			tasks.POST("", middleware.RBACAuthorize(rbacService, "onboarding", "create"), handler.CreateTask)
			tasks.GET("/employee/:id", middleware.RBACAuthorize(rbacService, "onboarding", "read"), handler.GetTasksByEmployee)
			tasks.PATCH("/:id/complete", middleware.RBACAuthorize(rbacService, "onboarding", "update"), handler.CompleteTask)
			tasks.POST("/:id/remind", middleware.RBACAuthorize(rbacService, "onboarding", "update"), handler.Remind)
		}

		employees := onboarding.Group("/employees")
		{
			employees.POST("/:id/documents", middleware.RBACAuthorize(rbacService, "onboarding", "create"), handler.SubmitDocument)
			employees.GET("/:id/documents", middleware.RBACAuthorize(rbacService, "onboarding", "read"), handler.GetDocumentsByEmployee)
		}
	}
}
