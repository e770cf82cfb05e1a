package analysis

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/extract"
	"jobmatch-backend/internal/shared/metrics"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
)

const (
	defaultMaxUploadBytes = 10 << 20 // 10MB
	// formOverhead leaves room for the text fields sent next to the file.
	formOverhead = 1 << 20

	apiKeyHeader = "X-LLM-API-Key"
)

var errFileTooLarge = errors.New("file too large")

// Handler wires HTTP handlers to the analysis service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler. A non-positive limit selects 10MB.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyzeUpload)
	rg.POST("/analyze/text", h.analyzeText)
	rg.POST("/extract", h.extract)
}

func (h *Handler) analyzeUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+formOverhead)

	data, header, err := h.readUpload(c)
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		h.uploadError(c, err)
		return
	}

	req := Request{
		JobDescription: c.PostForm("jobDescription"),
		CoverLetter:    c.PostForm("coverLetter"),
		APIKey:         apiKeyFrom(c, c.PostForm("apiKey")),
		Provider:       c.PostForm("provider"),
		SaveReport:     parseBool(c.PostForm("saveReport")),
		Document:       data,
	}
	if header != nil {
		req.FileName = header.Filename
		req.MimeType = header.Header.Get("Content-Type")
	}
	h.run(c, req)
}

type analyzeTextRequest struct {
	JobDescription string `json:"jobDescription"`
	ResumeText     string `json:"resumeText"`
	CoverLetter    string `json:"coverLetter"`
	APIKey         string `json:"apiKey"`
	Provider       string `json:"provider"`
	SaveReport     bool   `json:"saveReport"`
}

func (h *Handler) analyzeText(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+formOverhead)

	var body analyzeTextRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		if isTooLarge(err) {
			h.uploadError(c, errFileTooLarge)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	h.run(c, Request{
		JobDescription: body.JobDescription,
		ResumeText:     body.ResumeText,
		CoverLetter:    body.CoverLetter,
		APIKey:         apiKeyFrom(c, body.APIKey),
		Provider:       body.Provider,
		SaveReport:     body.SaveReport,
	})
}

func (h *Handler) run(c *gin.Context, req Request) {
	result, err := h.Svc.Analyze(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", missingInputMessage(err), nil)
		case errors.Is(err, ErrUnsupportedFormat):
			unsupported(c, req.MimeType, req.FileName, req.Document)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze resume", nil)
		}
		return
	}

	c.Set(middleware.AnalysisSourceKey, result.Source)
	if result.ReportID != "" {
		c.Set(middleware.ReportIDKey, result.ReportID)
	}
	respond.OK(c, result)
}

func (h *Handler) extract(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+formOverhead)

	data, header, err := h.readUpload(c)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
			return
		}
		h.uploadError(c, err)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	normalized := extract.NormalizeMimeType(mimeType, header.Filename, data)
	text, err := extract.ExtractTextFromBytes(c.Request.Context(), data, mimeType, header.Filename)
	resp := gin.H{"mimeType": normalized}
	switch {
	case errors.Is(err, extract.ErrUnsupportedType):
		metrics.IncRejected()
		unsupported(c, mimeType, header.Filename, data)
		return
	case errors.Is(err, extract.ErrExtractionFailed):
		metrics.IncExtractionFailed()
		resp["warnings"] = []string{WarnExtractionFailed}
		text = ""
	case err != nil:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to extract text", nil)
		return
	}

	resp["text"] = text
	resp["chars"] = len([]rune(text))
	respond.OK(c, resp)
}

// readUpload returns the "file" part. It returns http.ErrMissingFile when the
// request has none.
func (h *Handler) readUpload(c *gin.Context) ([]byte, *multipart.FileHeader, error) {
	header, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			return nil, nil, errFileTooLarge
		}
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, http.ErrMissingFile
		}
		return nil, nil, err
	}
	if header.Size > h.MaxUploadBytes {
		return nil, nil, errFileTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.MaxUploadBytes+1))
	if err != nil {
		return nil, nil, err
	}
	if int64(len(data)) > h.MaxUploadBytes {
		return nil, nil, errFileTooLarge
	}
	return data, header, nil
}

func (h *Handler) uploadError(c *gin.Context, err error) {
	if errors.Is(err, errFileTooLarge) {
		metrics.IncRejected()
		respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "file exceeds the upload limit", gin.H{
			"maxBytes": h.MaxUploadBytes,
		})
		return
	}
	respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
}

func unsupported(c *gin.Context, mimeType, fileName string, data []byte) {
	respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_format", "Unsupported file type. Upload a PDF, DOCX or TXT file.", gin.H{
		"mimeType":       extract.NormalizeMimeType(mimeType, fileName, data),
		"supportedTypes": extract.SupportedTypes,
	})
}

func missingInputMessage(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}

func apiKeyFrom(c *gin.Context, bodyKey string) string {
	if key := strings.TrimSpace(bodyKey); key != "" {
		return key
	}
	return strings.TrimSpace(c.GetHeader(apiKeyHeader))
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
