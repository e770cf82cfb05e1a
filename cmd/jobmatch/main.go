// Command jobmatch scores a resume against a job description from the shell.
package main

import (
	"os"

	"go.uber.org/zap"

	"jobmatch-backend/internal/shared/telemetry"
)

func main() {
	// stdout carries the JSON result, so logs go to stderr.
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stderr"}
	logCfg.DisableStacktrace = true
	if l, err := logCfg.Build(); err == nil {
		telemetry.SetLogger(l)
	}
	defer telemetry.Sync()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
