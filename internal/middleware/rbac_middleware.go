package middleware

import (
	"net/http"

	"go-hrms/internal/rbac"
	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is the slice of the rbac service this middleware needs.
type RBACService interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
}

// RBACAuthorize enforces resource:action for the authenticated employee
// within their company. AuthMiddleware must run first.
func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID := c.GetString("employee_id")
		companyID := c.GetString("company_id")

		if employeeID == "" || companyID == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(rbac.EnforceRequest{
			EmployeeID: employeeID,
			CompanyID:  companyID,
			Resource:   resource,
			Action:     action,
		})
		if err != nil {
			response.Error(c, http.StatusInternalServerError, apperror.CodeInternalError, "authorization check failed", nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden,
				"you do not have permission to access this resource",
				gin.H{"required": resource + ":" + action},
			)
			c.Abort()
			return
		}

		c.Next()
	}
}
