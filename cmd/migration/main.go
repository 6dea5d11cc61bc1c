package main

import (
	"os"

	"github.com/riskibarqy/castaway-league/internal/platform/logging"
)

func main() {
	logger := logging.NewJSON(logging.ParseLevel(os.Getenv("APP_LOG_LEVEL")))
	if err := newRootCmd(logger).Execute(); err != nil {
		logger.Error("migration command failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}
