// Package server wires configuration, storage, services and the HTTP API
// into a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/artistkatta/jobservice/internal/logging"
	"github.com/artistkatta/jobservice/internal/server/config"
	"github.com/artistkatta/jobservice/internal/server/repositories/repomanager"
	"github.com/artistkatta/jobservice/internal/server/rest"
	"github.com/artistkatta/jobservice/internal/server/services"
	"github.com/gin-gonic/gin"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	server *rest.Server
	flush  func()
}

// seams for tests
var (
	openRepositories = repomanager.New
	newS3Client      = func(ctx context.Context, opts services.UploadOptions) (services.ObjectPutter, error) {
		return services.NewS3Client(ctx, opts)
	}
)

func NewApp(ctx context.Context, c *config.Config, release string) (*App, error) {
	sl, flush, err := logging.Setup(os.Stdout, logging.Options{
		Level:     c.LogLevel,
		SentryDSN: c.SentryDSN,
		Release:   release,
	})
	if err != nil {
		return nil, fmt.Errorf("logging init error: %w", err)
	}
	logger := logging.NewSlogLogger(sl)

	repos, err := openRepositories(ctx, c)
	if err != nil {
		flush()
		return nil, fmt.Errorf("store init error: %w", err)
	}

	uploadOpts := services.UploadOptions{
		Bucket:          c.S3Bucket,
		Region:          c.AWSRegion,
		AccessKeyID:     c.AWSAccessKeyID,
		SecretAccessKey: c.AWSSecretAccessKey,
		BaseEndpoint:    c.S3BaseEndpoint,
		PublicURL:       c.S3PublicURL,
		MaxBytes:        c.UploadMaxBytes,
		Folders:         c.UploadFolders,
	}
	s3c, err := newS3Client(ctx, uploadOpts)
	if err != nil {
		_ = repos.Close()
		flush()
		return nil, fmt.Errorf("s3 init error: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	srv := rest.NewServer(rest.Options{
		Address:            c.EndpointAddrHTTP,
		SecretKey:          c.SecretKey,
		CORSAllowedOrigins: c.CORSAllowedOrigins,
		ShutdownTimeout:    c.ShutdownTimeout,
		UploadMaxBytes:     c.UploadMaxBytes,
	}, logger,
		services.NewJobService(repos.Jobs()),
		services.NewUserService(repos.Users()),
		services.NewUploadService(s3c, uploadOpts),
	)

	return &App{config: c, logger: logger, repos: repos, server: srv, flush: flush}, nil
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the store and flushes pending error reports.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := app.initSignalHandler(ctx)
	defer stop()
	defer app.flush()

	app.logger.Info(ctx, "Starting app...", "store", app.config.StoreBackend)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
	}

	if cerr := app.repos.Close(); cerr != nil {
		app.logger.Error(ctx, "closing store failed", "error", cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
