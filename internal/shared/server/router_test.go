package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobmatch-backend/internal/analysis"
	"jobmatch-backend/internal/reports"
	"jobmatch-backend/internal/shared/config"
	"jobmatch-backend/internal/shared/server/middleware"
	localstore "jobmatch-backend/internal/shared/storage/object/local"
)

func newTestRouter(t *testing.T, perMin int) http.Handler {
	t.Helper()
	now := time.Date(2026, time.March, 4, 5, 6, 7, 0, time.UTC)
	reportSvc := reports.NewService(reports.NewMemoryRepo(), localstore.New(t.TempDir()))
	return NewRouter(RouterDeps{
		Config: config.Config{
			CORSAllowOrigin:        []string{"http://localhost:5173"},
			RateLimitAnalyzePerMin: perMin,
		},
		AnalysisHandler: analysis.NewHandler(analysis.NewService(nil, reportSvc, "v2"), 0),
		ReportsHandler:  reports.NewHandler(reportSvc),
		Limiter:         middleware.NewRateLimiter(func() time.Time { return now }),
	})
}

func analyzeTextRequest() *http.Request {
	body := `{"jobDescription":"Python developer with SQL","resumeText":"Python and SQL engineer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/text", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, 30)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"ok":true`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, 30)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "analysis_total") {
		t.Fatalf("expected analysis counters, got %s", resp.Body.String())
	}
}

func TestAnalyzeTextRoute(t *testing.T) {
	r := newTestRouter(t, 30)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, analyzeTextRequest())
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var result analysis.AnalysisResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Source != analysis.SourceHeuristic {
		t.Fatalf("expected heuristic source, got %q", result.Source)
	}
}

func TestAnalyzeIsRateLimited(t *testing.T) {
	r := newTestRouter(t, 1)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, analyzeTextRequest())
	if first.Code != http.StatusOK {
		t.Fatalf("first request expected 200, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	r.ServeHTTP(second, analyzeTextRequest())
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request expected 429, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	health := httptest.NewRecorder()
	r.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if health.Code != http.StatusOK {
		t.Fatalf("health should not be throttled, got %d", health.Code)
	}
}

func TestReportsRouteMounted(t *testing.T) {
	r := newTestRouter(t, 30)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9090": ":9090", ":7000": ":7000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
