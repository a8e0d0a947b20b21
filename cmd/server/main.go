package main

import (
	"context"
	"log"

	"github.com/artistkatta/jobservice/internal/server"
	"github.com/artistkatta/jobservice/internal/server/config"
)

// buildVersion is set with -ldflags "-X main.buildVersion=...".
var buildVersion = "dev"

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg, buildVersion)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
