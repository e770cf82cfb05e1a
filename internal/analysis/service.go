package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobmatch-backend/internal/extract"
	"jobmatch-backend/internal/heuristic"
	"jobmatch-backend/internal/llm"
	"jobmatch-backend/internal/shared/metrics"
	"jobmatch-backend/internal/shared/telemetry"
)

// ClientFactory builds an LLM client for a provider and caller-supplied key.
// It returns llm.ErrMissingCredential when no key is available.
type ClientFactory interface {
	New(ctx context.Context, provider, apiKey string) (llm.Client, error)
}

// ReportSaver persists a finished analysis and returns the report ID.
type ReportSaver interface {
	SaveResult(ctx context.Context, result AnalysisResult) (string, error)
}

// Service runs the extraction, model call and fallback pipeline.
type Service struct {
	Clients       ClientFactory
	Reports       ReportSaver
	PromptVersion string
}

// NewService constructs a Service. reports may be nil.
func NewService(clients ClientFactory, reports ReportSaver, promptVersion string) *Service {
	return &Service{Clients: clients, Reports: reports, PromptVersion: promptVersion}
}

// Analyze validates the request, extracts the resume text and scores it with
// the model when a credential is available, else with the keyword heuristic.
// External service failures never surface as errors.
func (s *Service) Analyze(ctx context.Context, req Request) (AnalysisResult, error) {
	started := time.Now()

	if strings.TrimSpace(req.JobDescription) == "" {
		metrics.IncRejected()
		return AnalysisResult{}, fmt.Errorf("%w: job description is required", ErrMissingInput)
	}
	if len(req.Document) == 0 && strings.TrimSpace(req.ResumeText) == "" {
		metrics.IncRejected()
		return AnalysisResult{}, fmt.Errorf("%w: resume file is required", ErrMissingInput)
	}

	var warnings []string
	resumeText := req.ResumeText
	if len(req.Document) > 0 {
		text, err := extract.ExtractTextFromBytes(ctx, req.Document, req.MimeType, req.FileName)
		switch {
		case errors.Is(err, extract.ErrUnsupportedType):
			metrics.IncRejected()
			return AnalysisResult{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		case errors.Is(err, extract.ErrExtractionFailed):
			metrics.IncExtractionFailed()
			telemetry.Warn("analysis.extraction_failed", map[string]any{
				"file_name": req.FileName,
				"mime_type": req.MimeType,
				"error":     err,
			})
			warnings = append(warnings, WarnExtractionFailed)
			text = ""
		case err != nil:
			return AnalysisResult{}, err
		case strings.TrimSpace(text) == "":
			warnings = append(warnings, WarnNoText)
		}
		resumeText = text
	}

	result, modelWarnings := s.score(ctx, req, resumeText)
	warnings = append(warnings, modelWarnings...)
	result.Warnings = warnings

	if req.SaveReport && s.Reports != nil {
		id, err := s.Reports.SaveResult(ctx, result)
		if err != nil {
			telemetry.Error("analysis.report_save_failed", map[string]any{"error": err})
			result.Warnings = append(result.Warnings, WarnReportNotSaved)
		} else {
			result.ReportID = id
		}
	}

	elapsed := time.Since(started)
	metrics.IncAnalysis(result.Source)
	metrics.ObserveAnalysisDurationMs(float64(elapsed.Milliseconds()))
	telemetry.Info("analysis.complete", map[string]any{
		"source":         result.Source,
		"overall_score":  result.OverallScore,
		"recommendation": result.Recommendation,
		"warnings":       len(result.Warnings),
		"resume_chars":   len(resumeText),
		"has_cover":      strings.TrimSpace(req.CoverLetter) != "",
		"duration_ms":    elapsed.Milliseconds(),
		"report_id":      result.ReportID,
		"prompt_version": s.PromptVersion,
		"provider":       req.Provider,
	})
	return result, nil
}

// score returns the model result when one can be obtained and parsed, and the
// heuristic result otherwise.
func (s *Service) score(ctx context.Context, req Request, resumeText string) (AnalysisResult, []string) {
	fallback := func() AnalysisResult {
		return fromHeuristic(heuristic.Score(req.JobDescription, resumeText))
	}

	if s.Clients == nil {
		return fallback(), []string{WarnNoCredential}
	}
	client, err := s.Clients.New(ctx, req.Provider, req.APIKey)
	if err != nil {
		if !errors.Is(err, llm.ErrMissingCredential) {
			telemetry.Warn("analysis.client_unavailable", map[string]any{"error": err})
			metrics.IncFallback()
			return fallback(), []string{WarnAIUnavailable}
		}
		return fallback(), []string{WarnNoCredential}
	}

	prompt := llm.BuildPrompt(llm.PromptInput{
		JobDescription: req.JobDescription,
		ResumeText:     resumeText,
		CoverLetter:    req.CoverLetter,
		Version:        s.PromptVersion,
	})
	text, err := client.Complete(ctx, prompt)
	if err != nil {
		metrics.IncFallback()
		telemetry.Warn("analysis.model_failed", map[string]any{
			"provider": req.Provider,
			"error":    err,
		})
		if errors.Is(err, llm.ErrInvalidCredential) {
			return fallback(), []string{WarnInvalidCredential}
		}
		return fallback(), []string{WarnAIUnavailable}
	}

	if parsed, ok := ParseModelResponse(text); ok {
		return parsed, nil
	}

	metrics.IncFallback()
	telemetry.Info("analysis.model_unstructured", map[string]any{"chars": len(text)})
	result := fallback()
	result.ModelText = text
	return result, []string{WarnUnstructured}
}
