package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MemberKey holds the verified member id in the gin context.
const MemberKey = "memberID"

// MemberMiddleware reads an optional bearer token. Requests without one
// pass through as guests; a malformed or invalid token is rejected, as is
// any token when signer is nil.
func MemberMiddleware(signer *Signer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Header Format"})
			return
		}

		if signer == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Membership tokens are not enabled"})
			return
		}
		claims, err := signer.ValidateToken(parts[1])
		if err != nil {
			logger.Warn("member token rejected", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or Expired Token"})
			return
		}

		c.Set(MemberKey, claims.MemberID)
		c.Next()
	}
}

// MemberID returns the verified member id, if any.
func MemberID(c *gin.Context) (string, bool) {
	id := c.GetString(MemberKey)
	return id, id != ""
}
