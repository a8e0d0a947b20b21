package config

import (
	"flag"
	"os"
	"time"

	"github.com/artistkatta/jobservice/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// os.Args is filtered with flagx.FilterArgs so unrelated flags are ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-s", "-k", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the job service")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	ttl := fs.Int("s", int(cfg.SessionTTL.Minutes()), "profile cache lifetime (in minutes)")
	fs.StringVar(&cfg.Token, "k", cfg.Token, "bearer token")
	fs.StringVar(&cfg.SigningKey, "x", cfg.SigningKey, "server signing key, login mints a token with it")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.SessionTTL = time.Duration(*ttl) * time.Minute
}
