package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jobmatch-backend/internal/llm"
	"jobmatch-backend/internal/shared/telemetry"
)

const (
	apiURL       = "https://api.openai.com/v1/chat/completions"
	DefaultModel = "gpt-4o-mini"
)

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client. An empty model selects DefaultModel.
func NewClient(apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("openai: %w", llm.ErrMissingCredential)
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:   strings.TrimSpace(apiKey),
		model:    strings.TrimSpace(model),
		endpoint: apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float32        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Complete returns the raw model response for the prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	if !isGPT5(c.model) {
		temp := float32(0)
		reqBody.Temperature = &temp
	}
	// json_object mode is rejected unless the prompt mentions JSON.
	if strings.Contains(prompt, "JSON") {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 400 {
			return "", llm.ClassifyStatus(llm.ProviderOpenAI, resp.StatusCode, string(body))
		}
		return "", fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		status := resp.StatusCode
		if status < 400 && parsed.Error.Code == "invalid_api_key" {
			status = http.StatusUnauthorized
		}
		return "", llm.ClassifyStatus(llm.ProviderOpenAI, status, fmt.Sprintf("%s (%s)", parsed.Error.Message, parsed.Error.Type))
	}
	if resp.StatusCode >= 400 {
		return "", llm.ClassifyStatus(llm.ProviderOpenAI, resp.StatusCode, string(body))
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices: %w", llm.ErrEmptyResponse)
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai: %w", llm.ErrEmptyResponse)
	}
	logUsage(c.model, parsed)
	return content, nil
}

func logUsage(model string, parsed chatResponse) {
	fields := map[string]any{
		"provider": llm.ProviderOpenAI,
		"model":    model,
	}
	if parsed.Usage != nil {
		fields["prompt_tokens"] = parsed.Usage.PromptTokens
		fields["completion_tokens"] = parsed.Usage.CompletionTokens
		fields["total_tokens"] = parsed.Usage.TotalTokens
	}
	telemetry.Info("llm.response", fields)
}

func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

var _ llm.Client = (*Client)(nil)
