package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jobmatch-backend/internal/llm"
)

func newPromptCmd() *cobra.Command {
	var (
		jdPath     string
		resumePath string
		coverPath  string
		version    string
	)
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Render the analysis prompt without calling a model",
		RunE: func(cmd *cobra.Command, args []string) error {
			jd, err := readOptional(jdPath)
			if err != nil {
				return err
			}
			resume, err := readOptional(resumePath)
			if err != nil {
				return err
			}
			cover, err := readOptional(coverPath)
			if err != nil {
				return err
			}
			if strings.TrimSpace(version) == "" {
				version = loadConfig().PromptVersion
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), llm.BuildPrompt(llm.PromptInput{
				JobDescription: jd,
				ResumeText:     resume,
				CoverLetter:    cover,
				Version:        version,
			}))
			return err
		},
	}
	cmd.Flags().StringVar(&jdPath, "jd", "", "path to a job description file")
	cmd.Flags().StringVar(&resumePath, "resume-text", "", "path to a plain-text resume")
	cmd.Flags().StringVar(&coverPath, "cover", "", "path to a cover letter file")
	cmd.Flags().StringVar(&version, "prompt-version", "", "prompt template version")
	return cmd
}

func readOptional(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(raw), nil
}
