package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"jobmatch-backend/internal/analysis"
	"jobmatch-backend/internal/llm/provider"
	"jobmatch-backend/internal/reports"
	localstore "jobmatch-backend/internal/shared/storage/object/local"
)

type analyzeOptions struct {
	resumePath    string
	jdPath        string
	jdText        string
	coverPath     string
	provider      string
	apiKey        string
	promptVersion string
	reportDir     string
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a resume file against a job description",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.resumePath, "resume", "", "path to the resume (pdf, docx or txt)")
	cmd.Flags().StringVar(&opts.jdPath, "jd", "", "path to a job description file")
	cmd.Flags().StringVar(&opts.jdText, "jd-text", "", "job description text")
	cmd.Flags().StringVar(&opts.coverPath, "cover", "", "path to a cover letter file")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "LLM provider (gemini or openai)")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "LLM API key; overrides the configured key")
	cmd.Flags().StringVar(&opts.promptVersion, "prompt-version", "", "prompt template version")
	cmd.Flags().StringVar(&opts.reportDir, "report-dir", "", "directory to write the JSON report to")
	_ = cmd.MarkFlagRequired("resume")
	return cmd
}

func runAnalyze(cmd *cobra.Command, opts analyzeOptions) error {
	cfg := loadConfig()
	ctx := cmd.Context()

	data, err := os.ReadFile(opts.resumePath)
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}

	jd := opts.jdText
	if strings.TrimSpace(opts.jdPath) != "" {
		raw, err := os.ReadFile(opts.jdPath)
		if err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
		jd = string(raw)
	}

	var cover string
	if strings.TrimSpace(opts.coverPath) != "" {
		raw, err := os.ReadFile(opts.coverPath)
		if err != nil {
			return fmt.Errorf("read cover letter: %w", err)
		}
		cover = string(raw)
	}

	version := cfg.PromptVersion
	if strings.TrimSpace(opts.promptVersion) != "" {
		version = opts.promptVersion
	}

	svc := analysis.NewService(provider.NewFactory(cfg), nil, version)
	result, err := svc.Analyze(ctx, analysis.Request{
		JobDescription: jd,
		CoverLetter:    cover,
		Document:       data,
		FileName:       filepath.Base(opts.resumePath),
		APIKey:         opts.apiKey,
		Provider:       opts.provider,
	})
	if err != nil {
		return err
	}

	if strings.TrimSpace(opts.reportDir) != "" {
		reportSvc := reports.NewService(reports.NewMemoryRepo(), localstore.New(opts.reportDir))
		report, err := reportSvc.Save(ctx, result)
		if err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		result.ReportID = report.ID
		fmt.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", filepath.Join(opts.reportDir, filepath.FromSlash(report.StorageKey)))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
