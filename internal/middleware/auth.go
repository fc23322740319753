package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ethleaf/internal/domain"
	jwtsvc "ethleaf/internal/pkg/jwt"
	"ethleaf/internal/pkg/response"
)

// userGetter is the slice of the user repository the middleware needs.
type userGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Auth validates the access token and loads the caller. The token is read
// from the Authorization header, the "token" query parameter, or the
// X-Access-Token header, in that order.
func Auth(jwt *jwtsvc.Service, users userGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.AbortErrors(c, http.StatusUnauthorized, "Unauthorized - token missing")
			return
		}

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			response.AbortErrors(c, http.StatusUnauthorized, "Unauthorized - invalid token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.AbortErrors(c, http.StatusUnauthorized, "Unauthorized - user not found")
			return
		}

		c.Set("user_id", user.ID)
		c.Set("role", int(user.Role))

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		if t := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); t != "" {
			return t
		}
	}
	if t := c.Query("token"); t != "" {
		return t
	}
	return c.GetHeader("X-Access-Token")
}
