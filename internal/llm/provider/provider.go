// Package provider builds llm.Client values for a provider name and API key.
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobmatch-backend/internal/llm"
	"jobmatch-backend/internal/llm/gemini"
	"jobmatch-backend/internal/llm/openai"
	"jobmatch-backend/internal/shared/config"
)

// Factory creates clients per request so callers may supply their own key.
type Factory struct {
	DefaultProvider string
	Model           string
	Timeout         time.Duration
	Keys            map[string]string
}

// NewFactory reads provider defaults and server-side keys from cfg.
func NewFactory(cfg config.Config) *Factory {
	return &Factory{
		DefaultProvider: cfg.LLMProvider,
		Model:           cfg.LLMModel,
		Timeout:         time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
		Keys: map[string]string{
			llm.ProviderGemini: cfg.GeminiAPIKey,
			llm.ProviderOpenAI: cfg.OpenAIAPIKey,
		},
	}
}

// Resolve returns the provider to use and the key for it. A request key wins
// over the server key. An empty key means no credential is available.
func (f *Factory) Resolve(providerName, apiKey string) (string, string) {
	name := f.DefaultProvider
	if strings.TrimSpace(providerName) != "" {
		name = providerName
	}
	name = config.NormalizeProvider(name)
	if key := strings.TrimSpace(apiKey); key != "" {
		return name, key
	}
	return name, strings.TrimSpace(f.Keys[name])
}

// New builds a client. It returns llm.ErrMissingCredential when no key is available.
func (f *Factory) New(ctx context.Context, providerName, apiKey string) (llm.Client, error) {
	name, key := f.Resolve(providerName, apiKey)
	if key == "" {
		return nil, fmt.Errorf("%s: %w", name, llm.ErrMissingCredential)
	}
	switch name {
	case llm.ProviderOpenAI:
		client, err := openai.NewClient(key, f.modelFor(name), f.Timeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		client, err := gemini.NewClient(ctx, key, gemini.Options{Model: f.modelFor(name), Timeout: f.Timeout})
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// modelFor applies the configured model only to the default provider, so a
// request switching providers does not send a foreign model name.
func (f *Factory) modelFor(name string) string {
	if config.NormalizeProvider(f.DefaultProvider) != name {
		return ""
	}
	return f.Model
}
