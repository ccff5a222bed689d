package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/models"
	appErrors "github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/errors"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/response"
)

// RequireRoles gates a route to the given roles. It runs after TokenAuth and
// short-circuits with 403 when the verified role is not in the set.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly gates a route to administrators.
func AdminOnly() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}

// ProfesorOrAdmin gates a route to content contributors.
func ProfesorOrAdmin() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin, models.RoleProfesor)
}
