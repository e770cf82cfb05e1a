package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"jobmatch-backend/internal/llm"
	"jobmatch-backend/internal/shared/telemetry"
)

const DefaultModel = "gemini-1.5-flash"

// Client implements llm.Client on the Gemini API.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// Options tune a Gemini client. BaseURL is only set in tests.
type Options struct {
	Model   string
	Timeout time.Duration
	BaseURL string
}

// NewClient creates a Gemini client for apiKey. An empty model selects DefaultModel.
func NewClient(ctx context.Context, apiKey string, opts Options) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", llm.ErrMissingCredential)
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{client: client, model: model, timeout: timeout}, nil
}

// Complete sends the prompt as a single user turn and returns the response text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0),
		},
	)
	if err != nil {
		return "", llm.ClassifyError(llm.ProviderGemini, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: %w", llm.ErrEmptyResponse)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: %w", llm.ErrEmptyResponse)
	}

	fields := map[string]any{
		"provider": llm.ProviderGemini,
		"model":    c.model,
	}
	if usage := resp.UsageMetadata; usage != nil {
		fields["prompt_tokens"] = usage.PromptTokenCount
		fields["completion_tokens"] = usage.CandidatesTokenCount
		fields["total_tokens"] = usage.TotalTokenCount
	}
	telemetry.Info("llm.response", fields)
	return text, nil
}

var _ llm.Client = (*Client)(nil)
