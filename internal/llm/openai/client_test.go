package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobmatch-backend/internal/llm"
)

func TestIsGPT5(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  bool
	}{
		{name: "gpt5", model: "gpt-5", want: true},
		{name: "gpt5 variant", model: "gpt-5-mini", want: true},
		{name: "gpt5 uppercase", model: " GPT-5o ", want: true},
		{name: "gpt4", model: "gpt-4o", want: false},
		{name: "empty", model: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := isGPT5(tt.model); got != tt.want {
				t.Fatalf("isGPT5(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient("sk-test", "", 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.endpoint = srv.URL
	return client
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(" ", "gpt-4o", 0); !errors.Is(err, llm.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestCompleteReturnsContent(t *testing.T) {
	var captured chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","model":"gpt-4o-mini","choices":[{"message":{"role":"assistant","content":"  {\"overallScore\": 70}  "}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	})

	got, err := client.Complete(context.Background(), "Respond with JSON only")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != `{"overallScore": 70}` {
		t.Fatalf("unexpected content %q", got)
	}
	if captured.Model != DefaultModel {
		t.Fatalf("expected default model, got %q", captured.Model)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Fatalf("expected json_object response format, got %+v", captured.ResponseFormat)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Fatalf("unexpected messages %+v", captured.Messages)
	}
}

func TestCompleteFreeFormPromptOmitsJSONMode(t *testing.T) {
	var captured chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Match score: 70"}}]}`))
	})

	if _, err := client.Complete(context.Background(), "Compare the resume"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if captured.ResponseFormat != nil {
		t.Fatalf("expected no response format, got %+v", captured.ResponseFormat)
	}
}

func TestCompleteUnauthorizedIsInvalidCredential(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	})

	_, err := client.Complete(context.Background(), "prompt")
	if !errors.Is(err, llm.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestCompleteServerErrorIsGeneric(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream unavailable`))
	})

	_, err := client.Complete(context.Background(), "prompt")
	if err == nil || errors.Is(err, llm.ErrInvalidCredential) {
		t.Fatalf("expected generic error, got %v", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	if _, err := client.Complete(context.Background(), "prompt"); !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}
