package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		Error(c, http.StatusUnsupportedMediaType, "unsupported_format", "nope", gin.H{"mimeType": "image/png"})
	})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	if resp.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", resp.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "unsupported_format" || body.Error.Message != "nope" {
		t.Fatalf("unexpected envelope %+v", body.Error)
	}
}

func TestAttachmentStripsQuotes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/file", func(c *gin.Context) {
		Attachment(c, `we"ird.json`, "application/json", strings.NewReader(`{"ok":true}`))
	})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/file", nil))

	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="weird.json"` {
		t.Fatalf("unexpected Content-Disposition %q", got)
	}
	if resp.Body.String() != `{"ok":true}` {
		t.Fatalf("unexpected body %q", resp.Body.String())
	}
}
