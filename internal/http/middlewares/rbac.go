package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/wrestlepro/wrestlepro/internal/domain/user"
)

// RequireRole gates a route on role membership. Must run after
// RequireAuth so the resolved user is already on the context.
func (m *AuthMiddleware) RequireRole(allowed ...user.Role) gin.HandlerFunc {
	allowedSet := make(map[user.Role]struct{}, len(allowed))

	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		u, ok := CurrentUser(c)

		if !ok {
			abortUnauthorized(c, "Missing identity context")
			return
		}

		if _, ok := allowedSet[u.Role]; !ok {
			abortForbidden(c, "Insufficient role")
			return
		}

		c.Next()
	}
}
