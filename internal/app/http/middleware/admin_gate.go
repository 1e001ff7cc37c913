package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminGate compares a presented key with the shared admin secret. When a
// bcrypt hash is configured it takes precedence over the plain secret.
type AdminGate struct {
	Secret string
	Hash   string
}

func (g AdminGate) Check(key string) bool {
	if key == "" {
		return false
	}
	if g.Hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(g.Hash), []byte(key)) == nil
	}
	if g.Secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(g.Secret)) == 1
}

// RequireAdminKey rejects requests without a valid X-Admin-Key header.
func RequireAdminKey(g AdminGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.Check(c.GetHeader(AdminKeyHeader)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
