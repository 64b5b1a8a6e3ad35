package employee

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
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetAll)
		employees.GET("/options", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetOptions)
		employees.GET("/:id", middleware.RBACAuthorize(rbacService, "employee", "read"), handler.GetById)
		employees.POST("", middleware.RBACAuthorize(rbacService, "employee", "create"), handler.Create)
		employees.PUT("/:id", middleware.RBACAuthorize(rbacService, "employee", "update"), handler.Update)
		employees.DELETE("/:id", middleware.RBACAuthorize(rbacService, "employee", "delete"), handler.Delete)
	}
}
