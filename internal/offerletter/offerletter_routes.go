package offerletter

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	letters := r.Group("/offer-letters")
	letters.Use(middleware.AuthMiddleware())
	{
		templates := letters.Group("/templates")
		{
			templates.POST("", middleware.RBACAuthorize(rbacService, "letter", "create"), handler.CreateTemplate)
			templates.GET("", middleware.RBACAuthorize(rbacService, "letter", "read"), handler.GetTemplates)
			templates.DELETE("/:id", middleware.RBACAuthorize(rbacService, "letter", "delete"), handler.DeactivateTemplate)
			// Generation is guarded by an idempotency key so a retried POST
			// cannot issue two reference numbers.
			templates.POST("/:id/generate",
				middleware.RBACAuthorize(rbacService, "letter", "create"),
				middleware.Idempotency(rdb),
				handler.Generate,
			)
		}

		generated := letters.Group("/generated")
		{
			generated.GET("", middleware.RBACAuthorize(rbacService, "letter", "read"), handler.GetLetters)
			generated.GET("/:id", middleware.RBACAuthorize(rbacService, "letter", "read"), handler.GetLetter)
			generated.PUT("/:id", middleware.RBACAuthorize(rbacService, "letter", "update"), handler.Update)
			generated.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, "letter", "update"), handler.UpdateStatus)
			generated.DELETE("/:id", middleware.RBACAuthorize(rbacService, "letter", "delete"), handler.Delete)
		}
	}
}
