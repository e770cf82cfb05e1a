package main

import (
	"github.com/spf13/cobra"

	"jobmatch-backend/internal/shared/config"
)

// loadConfig is replaced in tests.
var loadConfig = config.Load

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "jobmatch",
		Short:        "Score a resume against a job description",
		SilenceUsage: true,
	}
	root.AddCommand(newAnalyzeCmd(), newExtractCmd(), newPromptCmd())
	return root
}
