package bootstrap

import (
	"context"
	"database/sql"
	"strings"

	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/analysis"
	"jobmatch-backend/internal/llm/provider"
	"jobmatch-backend/internal/reports"
	"jobmatch-backend/internal/shared/config"
	"jobmatch-backend/internal/shared/server"
	"jobmatch-backend/internal/shared/storage/db"
	"jobmatch-backend/internal/shared/storage/object"
	localstore "jobmatch-backend/internal/shared/storage/object/local"
	s3store "jobmatch-backend/internal/shared/storage/object/s3"
	"jobmatch-backend/internal/shared/telemetry"
)

// App holds shared dependencies and the configured router.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	ReportsRepo     reports.Repo
	ReportsService  *reports.Service
	Clients         *provider.Factory
	AnalysisService *analysis.Service
	AnalysisHandler *analysis.Handler
	ReportsHandler  *reports.Handler
}

// Build prepares dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		AnalysisHandler: app.AnalysisHandler,
		ReportsHandler:  app.ReportsHandler,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":            cfg.Env,
		"object_store":   cfg.ObjectStoreType,
		"database":       sqlDB != nil,
		"llm_provider":   cfg.LLMProvider,
		"prompt_version": cfg.PromptVersion,
	})
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// buildDB returns nil when reports should be kept in memory.
func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		telemetry.Info("bootstrap.database_disabled", map[string]any{
			"detail": "DATABASE_URL empty; using in-memory report repository",
		})
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.database_connect_failed", map[string]any{
				"error":  err,
				"detail": "using in-memory report repository",
			})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.migrations_failed", map[string]any{
				"error":  err,
				"detail": "using in-memory report repository",
			})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.ReportsRepo = &reports.PGRepo{DB: app.DB}
	} else {
		app.ReportsRepo = reports.NewMemoryRepo()
	}

	app.ReportsService = reports.NewService(app.ReportsRepo, app.Store)
	app.Clients = provider.NewFactory(app.Config)
	app.AnalysisService = analysis.NewService(app.Clients, app.ReportsService, app.Config.PromptVersion)
	app.AnalysisHandler = analysis.NewHandler(app.AnalysisService, app.Config.MaxUploadBytes)
	app.ReportsHandler = reports.NewHandler(app.ReportsService)
}
