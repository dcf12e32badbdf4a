package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxUsernameKey = "username"
const CtxIsWriterKey = "is_writer"

func RequireJWT(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(h, "Bearer ")
		claims, err := ParseJWT(secret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(CtxUsernameKey, claims.Username)
		c.Set(CtxIsWriterKey, claims.IsWriter)
		c.Next()
	}
}

// RequireWriter must run after RequireJWT.
func RequireWriter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsWriterKey) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "writer account required"})
			return
		}
		c.Next()
	}
}
