package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

var (
	// ErrUnsupportedType is returned for files that are not PDF, DOCX or plain text.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrExtractionFailed is returned when a supported file cannot be read.
	ErrExtractionFailed = errors.New("text extraction failed")
)

// SupportedTypes lists the accepted MIME types in display order.
var SupportedTypes = []string{MimePDF, MimeDOCX, MimeText}

// ExtractTextFromBytes extracts plain text from an in-memory payload.
// Libraries used: github.com/ledongthuc/pdf (PDF) and github.com/nguyenthenguyen/docx (DOCX).
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	normalized := NormalizeMimeType(mimeType, fileName, data)
	switch normalized {
	case MimePDF:
		return extractPDF(data)
	case MimeDOCX:
		return extractDOCX(data)
	case MimeText:
		return extractPlain(data), nil
	default:
		if normalized == "" {
			normalized = "unknown"
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, normalized)
	}
}

// NormalizeMimeType resolves the declared type of an upload to one of the
// supported types where possible. Generic or missing declarations are resolved
// by sniffing the content, then by file extension.
func NormalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := cleanMime(mimeType)
	switch clean {
	case MimePDF, "application/x-pdf":
		return MimePDF
	case MimeDOCX:
		return MimeDOCX
	case MimeText:
		return MimeText
	case "", "application/octet-stream", "binary/octet-stream", "application/zip", "application/x-zip-compressed":
	default:
		return clean
	}

	if len(data) > 0 {
		switch sniffed := cleanMime(mimetype.Detect(data).String()); sniffed {
		case MimePDF, MimeDOCX, MimeText:
			return sniffed
		}
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	case ".txt":
		return MimeText
	}
	return clean
}

func cleanMime(raw string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(raw, ";")[0]))
}

// extractPDF concatenates per-page text in page order. Pages without
// extractable text contribute nothing.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		// ledongthuc/pdf panics on some malformed inputs.
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: pdf: %v", ErrExtractionFailed, rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrExtractionFailed, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}

// extractDOCX writes one line per paragraph in document order.
func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty docx data", ErrExtractionFailed)
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrExtractionFailed, err)
	}
	defer doc.Close()

	text, err := paragraphsFromDocumentXML(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrExtractionFailed, err)
	}
	return text, nil
}

func paragraphsFromDocumentXML(raw string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var (
		buf    strings.Builder
		inText bool
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				buf.WriteString("\t")
			case "br", "cr":
				buf.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				buf.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}
	return buf.String(), nil
}

func extractPlain(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	return strings.ToValidUTF8(string(data), "�")
}
