package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/artistkatta/jobservice/internal/client/api"
	"github.com/artistkatta/jobservice/internal/client/config"
	"github.com/artistkatta/jobservice/internal/client/services"
	"github.com/artistkatta/jobservice/internal/client/session"
	"github.com/artistkatta/jobservice/internal/server/auth"
)

// readFileFn is a test seam for reading local files to upload.
var readFileFn = os.ReadFile

type App struct {
	config   *config.Config
	api      *api.Client
	profiles services.ProfileService
	userID   string
}

func NewApp(c *config.Config) *App {
	client := api.New(c.ServerURL, c.Token, c.RequestTimeout)
	return &App{
		config:   c,
		api:      client,
		profiles: services.NewProfileService(client, session.New(c.SessionTTL)),
	}
}

// Run reads commands from stdin until EOF, exit, or ctx is done.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to the Artist Katta CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.userID != ""
}

func (a *App) getStatus() string {
	if a.userID == "" {
		return "guest"
	}
	return a.userID
}

// Login loads the user's profile and makes it the current session. With a
// signing key configured it also mints the bearer token for that user.
func (a *App) Login(ctx context.Context, userID string) error {
	u, err := a.profiles.Load(ctx, userID)
	if err != nil {
		return err
	}

	if a.config.SigningKey != "" {
		ttl := a.config.SessionTTL
		if ttl <= 0 {
			ttl = session.DefaultTTL
		}
		token, err := auth.GenerateToken(u.UserID, []byte(a.config.SigningKey), ttl)
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}
		a.api.SetToken(token)
	}

	a.userID = u.UserID
	printlnFn(fmt.Sprintf("Logged in as %s", displayName(u.UserID, u.FullName)))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.profiles.Logout()
	a.api.SetToken(a.config.Token)
	a.userID = ""
	printlnFn("Logged out")
	return nil
}

func (a *App) Health(ctx context.Context) error {
	if err := a.api.Health(ctx); err != nil {
		return err
	}
	printlnFn("Server is up")
	return nil
}

func displayName(id, name string) string {
	if name == "" {
		return id
	}
	return fmt.Sprintf("%s (%s)", name, id)
}
