package middleware

import (
	"net/http"
	"strings"

	"github.com/ASHISH26940/fablemaze-api/pkg/services"
	"github.com/ASHISH26940/fablemaze-api/pkg/utils"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Gin context key for storing user claims.
const UserClaimsContextKey = "userClaims"

// TokenValidator is the part of services.TokenService the middleware needs.
type TokenValidator interface {
	ValidateToken(token string) (*services.Claims, error)
}

// AuthMiddleware authenticates requests carrying "Authorization: Bearer <token>".
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Debug("AuthMiddleware: Missing Authorization header.")
			utils.ResponseWithError(c, http.StatusUnauthorized, services.ErrNotLoggedIn.Error(), "Authorization header required")
			c.Abort()
			return
		}

		scheme, tokenString, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(tokenString) == "" {
			log.Debugf("AuthMiddleware: Invalid Authorization header format: %s", authHeader)
			utils.ResponseWithError(c, http.StatusUnauthorized, "Invalid Authorization header format", nil)
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(tokenString))
		if err != nil {
			log.Debugf("AuthMiddleware: Invalid or expired JWT token: %v", err)
			utils.ResponseWithError(c, http.StatusUnauthorized, "Invalid or expired token", err.Error())
			c.Abort()
			return
		}

		c.Set(UserClaimsContextKey, claims)
		log.Debugf("AuthMiddleware: User %s (ID: %d) authenticated.", claims.Username, claims.UserID)
		c.Next()
	}
}

// GetUserClaimsFromContext extracts user claims from Gin context.
func GetUserClaimsFromContext(c *gin.Context) (*services.Claims, bool) {
	claims, exists := c.Get(UserClaimsContextKey)
	if !exists {
		return nil, false
	}
	userClaims, ok := claims.(*services.Claims)
	return userClaims, ok
}
