package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/artistkatta/jobservice/internal/client/cli"
	"github.com/artistkatta/jobservice/internal/client/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	cli.NewApp(cfg).Run(ctx)
}
