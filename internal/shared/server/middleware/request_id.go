package middleware

import (
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-Id"
	requestIDKey    = "requestId"
	maxRequestIDLen = 128
)

// RequestID reuses a well-formed caller-supplied X-Request-Id or mints a UUID,
// and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFromContext fetches the request ID stored by RequestID.
func RequestIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(requestIDKey)
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
