package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/benhaham/findscooter/internal/auth"
	"github.com/benhaham/findscooter/pkg/errors"
	"github.com/benhaham/findscooter/pkg/response"
)

const (
	CtxClaimsKey    = "authClaims"
	CtxAccountIDKey = "accountID"
)

// Auth enforces JWT authentication using the supplied JWT service.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			// Expired and tampered tokens alike surface as invalid
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrInvalidToken)
			c.Abort()
			return
		}

		// Propagate identity into request context
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxAccountIDKey, claims.AccountID)

		c.Next()
	}
}
