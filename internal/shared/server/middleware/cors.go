package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS sets CORS headers and handles preflight requests.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	origins := make(map[string]struct{})
	allowAll := false
	for _, o := range allowedOrigins {
		trimmed := strings.TrimSpace(o)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			allowAll = true
			continue
		}
		origins[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			_, ok := origins[origin]
			if ok || allowAll {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Vary", "Origin")
				h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, X-LLM-API-Key, X-Request-Id")
				h.Set("Access-Control-Expose-Headers", "X-Request-Id, Content-Disposition")
				h.Set("Access-Control-Max-Age", "600")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		c.Next()
	}
}
