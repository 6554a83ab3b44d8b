package main

import (
	"context"
	"log"

	"github.com/mkarev/healthpulse/internal/client/cli"
	"github.com/mkarev/healthpulse/internal/client/config"
	"github.com/mkarev/healthpulse/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.NewDefault()

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
