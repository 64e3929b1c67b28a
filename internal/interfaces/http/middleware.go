package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/limepath/pathsys/internal/application/service"
)

const claimsKey = "auth_claims"

// authMiddleware validates the bearer token and stores the claims on
// the request context.
func authMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing bearer token",
			})
			return
		}

		claims, err := authService.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "invalid or expired token",
			})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// requireRole rejects requests whose token does not carry one of the
// allowed roles. Must run after authMiddleware.
func requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFrom(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
				Success: false,
				Error:   "missing bearer token",
			})
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, Response{
			Success: false,
			Error:   "insufficient role",
		})
	}
}

func claimsFrom(c *gin.Context) *service.Claims {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// actorFrom returns the authenticated username, empty when the route
// is unauthenticated.
func actorFrom(c *gin.Context) string {
	if claims := claimsFrom(c); claims != nil {
		return claims.Username
	}
	return ""
}
