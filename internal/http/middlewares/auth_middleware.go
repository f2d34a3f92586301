package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerPrefixLen = len("bearer ")

// TokenExtractor copies a bearer token from the Authorization header onto the
// context. It does not verify anything; protected operations do that.
func TokenExtractor() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if len(authHeader) >= bearerPrefixLen && strings.HasPrefix(strings.ToLower(authHeader), "bearer") {
			c.Set(CtxToken, authHeader[bearerPrefixLen:])
		}

		c.Next()
	}
}

// TokenFromContext returns the extracted token or "" when none was sent.
func TokenFromContext(c *gin.Context) string {
	v, ok := c.Get(CtxToken)
	if !ok {
		return ""
	}
	token, _ := v.(string)
	return token
}
