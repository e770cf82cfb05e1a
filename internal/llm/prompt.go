package llm

import (
	_ "embed"
	"strings"

	"jobmatch-backend/internal/shared/telemetry"
)

const DefaultPromptVersion = "v2"

var (
	//go:embed prompts/v1.txt
	promptV1 string
	//go:embed prompts/v2.txt
	promptV2 string
)

// PromptInput holds the texts rendered into the prompt.
type PromptInput struct {
	JobDescription string
	ResumeText     string
	CoverLetter    string
	Version        string
}

// PromptTemplate returns the prompt template text and whether the version was recognized.
func PromptTemplate(version string) (string, bool) {
	switch strings.TrimSpace(version) {
	case "v2":
		return promptV2, true
	case "v1":
		return promptV1, true
	default:
		return promptV2, false
	}
}

// BuildPrompt renders the template for input.Version. Unknown versions use v2.
func BuildPrompt(input PromptInput) string {
	template, ok := PromptTemplate(input.Version)
	if !ok {
		telemetry.Warn("llm.prompt_version_unknown", map[string]any{
			"requested": input.Version,
			"used":      DefaultPromptVersion,
		})
	}

	coverSection := ""
	if letter := strings.TrimSpace(input.CoverLetter); letter != "" {
		coverSection = "\nCover Letter:\n" + letter + "\n"
	}

	replacer := strings.NewReplacer(
		"{{JOB_DESCRIPTION}}", strings.TrimSpace(input.JobDescription),
		"{{RESUME_TEXT}}", strings.TrimSpace(input.ResumeText),
		"{{COVER_LETTER_SECTION}}", coverSection,
	)
	return replacer.Replace(template)
}
