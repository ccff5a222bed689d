package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/service"
	appErrors "github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/errors"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/response"
)

// ContextUserKey is the gin context key storing verified token claims.
const ContextUserKey = "currentUser"

// TokenHeader is the request header carrying the access token.
const TokenHeader = "x-auth-token"

// TokenAuth protects routes by requiring a valid token in the x-auth-token
// header. A missing token is 401; a malformed, expired or badly signed one
// is 400.
func TokenAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}
