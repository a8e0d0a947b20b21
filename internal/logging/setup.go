package logging

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry"
)

// Options configure the process-wide slog handler.
type Options struct {
	Level     string
	SentryDSN string
	Release   string
}

// Setup builds the root logger writing JSON to w. When a Sentry DSN is
// configured, error records are also forwarded to Sentry. The returned flush
// func must be called before the process exits.
func Setup(w io.Writer, opts Options) (*slog.Logger, func(), error) {
	var level slog.Level
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	flush := func() {}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:           opts.SentryDSN,
			Release:       opts.Release,
			EnableTracing: false,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("error initiating sentry client: %w", err)
		}

		handler = slogmulti.Fanout(
			handler,
			slogsentry.Option{Level: slog.LevelError}.NewSentryHandler(),
		)
		flush = func() { sentry.Flush(2 * time.Second) }
	}

	logger := slog.New(handler)
	if opts.Release != "" {
		logger = logger.With("release", opts.Release)
	}

	return logger, flush, nil
}
