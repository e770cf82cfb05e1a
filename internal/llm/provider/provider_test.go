package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobmatch-backend/internal/llm"
	"jobmatch-backend/internal/llm/gemini"
	"jobmatch-backend/internal/llm/openai"
	"jobmatch-backend/internal/shared/config"
)

func TestResolvePrefersRequestKey(t *testing.T) {
	f := NewFactory(config.Config{LLMProvider: "gemini", GeminiAPIKey: "server-key", LLMTimeoutSeconds: 10})

	name, key := f.Resolve("", "user-key")
	if name != llm.ProviderGemini || key != "user-key" {
		t.Fatalf("unexpected resolve result %q %q", name, key)
	}
	name, key = f.Resolve("", "")
	if name != llm.ProviderGemini || key != "server-key" {
		t.Fatalf("unexpected server key resolve %q %q", name, key)
	}
	name, key = f.Resolve("openai", "")
	if name != llm.ProviderOpenAI || key != "" {
		t.Fatalf("expected no openai key, got %q %q", name, key)
	}
}

func TestNewWithoutKey(t *testing.T) {
	f := NewFactory(config.Config{LLMProvider: "openai"})
	if _, err := f.New(context.Background(), "", ""); !errors.Is(err, llm.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestNewBuildsProviderClient(t *testing.T) {
	f := &Factory{DefaultProvider: "gemini", Model: "gemini-2.0-flash", Timeout: time.Second}

	client, err := f.New(context.Background(), "gpt", "sk-test")
	if err != nil {
		t.Fatalf("new openai client: %v", err)
	}
	if _, ok := client.(*openai.Client); !ok {
		t.Fatalf("expected *openai.Client, got %T", client)
	}

	client, err = f.New(context.Background(), "", "g-test")
	if err != nil {
		t.Fatalf("new gemini client: %v", err)
	}
	if _, ok := client.(*gemini.Client); !ok {
		t.Fatalf("expected *gemini.Client, got %T", client)
	}
}

func TestModelForOnlyAppliesToDefaultProvider(t *testing.T) {
	f := &Factory{DefaultProvider: "gemini", Model: "gemini-2.0-flash"}
	if got := f.modelFor(llm.ProviderGemini); got != "gemini-2.0-flash" {
		t.Fatalf("expected configured model, got %q", got)
	}
	if got := f.modelFor(llm.ProviderOpenAI); got != "" {
		t.Fatalf("expected provider default for openai, got %q", got)
	}
}
