package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Client abstracts LLM providers. Complete sends one prompt and returns the
// raw model text; it never retries.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrInvalidCredential is returned when the provider rejects the API key.
	ErrInvalidCredential = errors.New("invalid API credential")
	// ErrMissingCredential is returned when a client is requested without a key.
	ErrMissingCredential = errors.New("API credential is required")
	// ErrEmptyResponse is returned when the provider answers without content.
	ErrEmptyResponse = errors.New("empty model response")
)

var credentialMarkers = []string{
	"api key not valid",
	"invalid api key",
	"incorrect api key",
	"invalid_api_key",
	"unauthenticated",
	"permission_denied",
}

// ClassifyStatus wraps a provider failure, marking 401/403 responses as
// credential errors.
func ClassifyStatus(provider string, status int, message string) error {
	message = strings.TrimSpace(message)
	if status == 401 || status == 403 || hasCredentialMarker(message) {
		return fmt.Errorf("%s: %w: %s", provider, ErrInvalidCredential, message)
	}
	return fmt.Errorf("%s http status %d: %s", provider, status, message)
}

// ClassifyError marks errors whose text identifies a rejected credential.
// Other errors are returned unchanged.
func ClassifyError(provider string, err error) error {
	if err == nil || errors.Is(err, ErrInvalidCredential) {
		return err
	}
	if hasCredentialMarker(err.Error()) {
		return fmt.Errorf("%s: %w: %v", provider, ErrInvalidCredential, err)
	}
	return fmt.Errorf("%s: %w", provider, err)
}

func hasCredentialMarker(message string) bool {
	lower := strings.ToLower(message)
	for _, marker := range credentialMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
