package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ethleaf/internal/domain"
	"ethleaf/internal/pkg/response"
)

// RequireReviewer ensures the authenticated user may act on KYC review
// endpoints (admin or support).
func RequireReviewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.AbortErrors(c, http.StatusUnauthorized, "Unauthorized - role not found")
			return
		}

		if !domain.UserRole(role.(int)).IsReviewer() {
			response.AbortErrors(c, http.StatusForbidden, "Forbidden")
			return
		}

		c.Next()
	}
}
