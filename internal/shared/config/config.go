package config

import (
	"os"
	"strconv"
	"strings"

	"jobmatch-backend/internal/shared/telemetry"
)

const (
	defaultMaxUploadBytes = 10 << 20 // 10MB
	defaultLLMTimeoutSec  = 120
)

// Config holds application configuration.
type Config struct {
	Port                   string
	CORSAllowOrigin        []string
	ObjectStoreType        string
	LocalStoreDir          string
	AWSRegion              string
	S3Bucket               string
	S3Prefix               string
	SSEKMSKeyID            string
	LLMProvider            string
	LLMModel               string
	GeminiAPIKey           string
	OpenAIAPIKey           string
	LLMTimeoutSeconds      int
	PromptVersion          string
	MaxUploadBytes         int64
	RateLimitAnalyzePerMin int
	DatabaseURL            string
	Env                    string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{
			"env":    env,
			"detail": "reports are kept in memory",
		})
	}

	geminiKey := getEnv("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY"))

	return Config{
		Port:                   getEnv("PORT", "8080"),
		CORSAllowOrigin:        splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType:        normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:          getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:              getEnv("AWS_REGION", ""),
		S3Bucket:               getEnv("S3_BUCKET", ""),
		S3Prefix:               getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:            getEnv("SSE_KMS_KEY_ID", ""),
		LLMProvider:            NormalizeProvider(getEnv("LLM_PROVIDER", "gemini")),
		LLMModel:               getEnv("LLM_MODEL", ""),
		GeminiAPIKey:           geminiKey,
		OpenAIAPIKey:           getEnv("OPENAI_API_KEY", ""),
		LLMTimeoutSeconds:      getEnvInt("LLM_TIMEOUT_SECONDS", defaultLLMTimeoutSec),
		PromptVersion:          getEnv("PROMPT_VERSION", "v2"),
		MaxUploadBytes:         int64(getEnvInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
		RateLimitAnalyzePerMin: getEnvInt("RATE_LIMIT_ANALYZE_PER_MIN", 30),
		DatabaseURL:            dbURL,
		Env:                    env,
	}
}

// APIKeyFor returns the configured credential for the provider, if any.
func (c Config) APIKeyFor(provider string) string {
	switch NormalizeProvider(provider) {
	case "openai":
		return c.OpenAIAPIKey
	default:
		return c.GeminiAPIKey
	}
}

// NormalizeProvider maps user input onto a supported provider name.
func NormalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai", "gpt":
		return "openai"
	default:
		return "gemini"
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		telemetry.Warn("config.invalid_int", map[string]any{
			"key":      key,
			"value":    raw,
			"fallback": def,
		})
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
