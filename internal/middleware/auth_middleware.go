package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware verifies the bearer token (or access_token cookie) and puts
// the tenant identity on the gin context. Tokens are issued elsewhere; this
// service only verifies them.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			code, message := "INVALID_TOKEN", "invalid token"
			if err != nil && strings.Contains(err.Error(), "expired") {
				code, message = "TOKEN_EXPIRED", "token has expired"
			}
			response.Error(c, http.StatusUnauthorized, code, message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "invalid token claims", nil)
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "user id not found in token", nil)
			c.Abort()
			return
		}

		companyID, ok := claims["company_id"].(string)
		if !ok || companyID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "company id not found in token", nil)
			c.Abort()
			return
		}

		employeeID, ok := claims["employee_id"].(string)
		if !ok || employeeID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "employee id not found in token", nil)
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)

		c.Set("user_id", userID)
		c.Set("employee_id", employeeID)
		c.Set("company_id", companyID)
		c.Set("role", role)

		c.Next()
	}
}
