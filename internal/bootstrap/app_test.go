package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobmatch-backend/internal/reports"
	"jobmatch-backend/internal/shared/config"
)

func TestBuildWithoutDatabaseUsesMemoryRepo(t *testing.T) {
	app, err := Build(context.Background(), config.Config{
		Env:            "dev",
		LocalStoreDir:  t.TempDir(),
		LLMProvider:    "gemini",
		PromptVersion:  "v2",
		MaxUploadBytes: 1 << 20,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer app.Close()

	if app.DB != nil {
		t.Fatalf("expected no database")
	}
	if _, ok := app.ReportsRepo.(*reports.MemoryRepo); !ok {
		t.Fatalf("expected memory repo, got %T", app.ReportsRepo)
	}
	if app.Config.ObjectStoreType != "local" {
		t.Fatalf("expected local store default, got %q", app.Config.ObjectStoreType)
	}

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestBuildS3RequiresBucket(t *testing.T) {
	_, err := Build(context.Background(), config.Config{
		Env:             "dev",
		ObjectStoreType: "s3",
	})
	if err == nil {
		t.Fatalf("expected error for missing bucket")
	}
}

func TestIsDevLike(t *testing.T) {
	for _, env := range []string{"dev", "LOCAL", " test "} {
		if !isDevLike(env) {
			t.Fatalf("expected %q to be dev-like", env)
		}
	}
	if isDevLike("production") {
		t.Fatalf("production must not be dev-like")
	}
}
