package respond

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Attachment streams body as a downloadable file named fileName.
func Attachment(c *gin.Context, fileName, contentType string, body io.Reader) {
	name := strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(fileName)
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		_ = c.Error(err)
	}
}
