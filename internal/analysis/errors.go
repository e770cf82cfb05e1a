package analysis

import "errors"

var (
	// ErrMissingInput is returned when the job description or resume is absent.
	ErrMissingInput = errors.New("missing required input")
	// ErrUnsupportedFormat is returned when the resume file type is not accepted.
	ErrUnsupportedFormat = errors.New("unsupported resume format")
)

// User-visible notices attached to results.
const (
	WarnNoCredential      = "No AI credential was provided; showing keyword-based analysis."
	WarnInvalidCredential = "Invalid API credential; showing keyword-based analysis."
	WarnAIUnavailable     = "AI analysis was unavailable; showing keyword-based analysis."
	WarnUnstructured      = "AI response was not structured; scores come from keyword analysis."
	WarnExtractionFailed  = "Could not read text from the resume file; it was analyzed as empty."
	WarnNoText            = "No text was found in the resume file."
	WarnReportNotSaved    = "The report could not be saved."
)
