// Package rest serves the job service's JSON API over HTTP using gin.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/artistkatta/jobservice/internal/logging"
	"github.com/artistkatta/jobservice/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options configure the HTTP server.
type Options struct {
	Address            string
	SecretKey          string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
	UploadMaxBytes     int64
}

type Server struct {
	opts      Options
	jobs      *services.JobService
	users     *services.UserService
	uploads   *services.UploadService
	logger    logging.Logger
	jwtSecret []byte
	engine    *gin.Engine
}

func NewServer(opts Options, l logging.Logger, js *services.JobService, us *services.UserService, ups *services.UploadService) *Server {
	s := &Server{
		opts:      opts,
		jobs:      js,
		users:     us,
		uploads:   ups,
		logger:    l.With("module", "http_server"),
		jwtSecret: []byte(opts.SecretKey),
	}
	registerValidators()
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.recovery(), s.requestLogger(), cors.New(s.corsConfig()))

	r.GET("/health", s.health)
	r.GET("/jobs/date-range", s.listJobsByDateRange)
	r.GET("/jobs/:jobId", s.getJob)
	r.GET("/users/:userId", s.getUser)

	mut := r.Group("", s.authenticate())
	mut.POST("/jobs", s.createJob)
	mut.PUT("/jobs/:jobId", s.editJob)
	mut.PUT("/users", s.editUser)
	mut.POST("/uploads", s.limitBody(uploadBodyLimit(s.opts.UploadMaxBytes)), s.upload)

	return r
}

func (s *Server) corsConfig() cors.Config {
	config := cors.DefaultConfig()
	if len(s.opts.CORSAllowedOrigins) == 0 || (len(s.opts.CORSAllowedOrigins) == 1 && s.opts.CORSAllowedOrigins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = s.opts.CORSAllowedOrigins
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	return config
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.opts.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
