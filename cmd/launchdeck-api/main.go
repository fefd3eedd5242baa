// Command launchdeck-api serves the /v4/launches API
package main

import (
	"context"

	"launchdeck/internal/platform/config"
	"launchdeck/internal/platform/logger"

	"launchdeck/internal/services/api"
)

func main() {
	// bring up logging early
	logger.Init(logger.FromEnv())
	l := logger.Get()

	if err := api.Serve(context.Background(), config.New()); err != nil {
		l.Fatal().Err(err).Msg("launchdeck api stopped")
	}
}
