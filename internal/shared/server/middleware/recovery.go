package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/shared/server/respond"
	"jobmatch-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 error envelope. When the handler
// already wrote a response only the connection state is aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			telemetry.Error("http.panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"panic":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
