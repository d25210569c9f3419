package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/response"
)

// RequireInstructor only lets instructors through.
func RequireInstructor() gin.HandlerFunc {
	return requireRole(model.RoleInstructor, response.ErrInstructorAccessOnly)
}

// RequireStudent only lets students through.
func RequireStudent() gin.HandlerFunc {
	return requireRole(model.RoleStudent, response.ErrStudentAccessOnly)
}

func requireRole(role model.Role, denied response.ErrCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}
		if claims.Role != role {
			response.AbortFail(c, http.StatusForbidden, denied)
			return
		}
		c.Next()
	}
}
