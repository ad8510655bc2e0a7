// README: Firebase auth middleware (optional; anonymous requests pass through).
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"roam/internal/infra"
)

const uidKey = "auth.uid"

// Auth verifies a Bearer ID token when one is supplied and stores the caller
// uid in the request context. Requests without an Authorization header proceed
// anonymously. A nil verifier disables verification entirely.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}
		token, err := verifier.VerifyIDToken(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(uidKey, token.UID)
		c.Next()
	}
}

// UID returns the verified caller uid, if any.
func UID(c *gin.Context) (string, bool) {
	v, ok := c.Get(uidKey)
	if !ok {
		return "", false
	}
	uid, ok := v.(string)
	return uid, ok && uid != ""
}
