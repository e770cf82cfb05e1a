package main

import (
	"context"
	"os"

	"jobmatch-backend/internal/bootstrap"
	"jobmatch-backend/internal/shared/config"
	"jobmatch-backend/internal/shared/server"
	"jobmatch-backend/internal/shared/telemetry"
)

func main() {
	defer telemetry.Sync()

	cfg := config.Load()
	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		telemetry.Error("api.bootstrap_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	telemetry.Info("api.listening", map[string]any{"addr": addr, "env": app.Config.Env})

	if err := app.Router.Run(addr); err != nil {
		telemetry.Error("api.server_error", map[string]any{"error": err})
		os.Exit(1)
	}
}
