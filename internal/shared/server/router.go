package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/analysis"
	"jobmatch-backend/internal/reports"
	"jobmatch-backend/internal/shared/config"
	"jobmatch-backend/internal/shared/metrics"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
)

const (
	apiPrefix    = "/api/v1"
	analyzeGroup = "ANALYZE"
)

// RouterDeps carries the handlers mounted on the engine. Nil handlers are skipped.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analysis.Handler
	ReportsHandler  *reports.Handler
	Limiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(rateLimitConfig(deps.Config, deps.Limiter)),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group(apiPrefix)
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}
	if deps.ReportsHandler != nil {
		deps.ReportsHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitConfig throttles the model-backed endpoints only. A non-positive
// per-minute limit disables throttling.
func rateLimitConfig(cfg config.Config, limiter *middleware.RateLimiter) middleware.RateLimitConfig {
	rules := map[string]middleware.RateLimitRule{}
	if perMin := cfg.RateLimitAnalyzePerMin; perMin > 0 {
		rules[analyzeGroup] = middleware.RateLimitRule{
			Rate:  float64(perMin) / 60,
			Burst: perMin,
		}
	}
	return middleware.RateLimitConfig{
		Rules:    rules,
		GroupFor: groupFor,
		Limiter:  limiter,
	}
}

func groupFor(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	path := c.Request.URL.Path
	if strings.HasPrefix(path, apiPrefix+"/analyze") || path == apiPrefix+"/extract" {
		return analyzeGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
