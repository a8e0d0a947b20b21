package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/artistkatta/jobservice/internal/common"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	err      error

	calls []string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context, userID string) error {
	f.loggedIn = true
	return f.record("login", []string{userID})
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) Health(ctx context.Context) error      { return f.record("health", nil) }
func (f *fakeExec) ProfileShow(ctx context.Context) error { return f.record("profile show", nil) }
func (f *fakeExec) ProfileEdit(ctx context.Context, args []string) error {
	return f.record("profile edit", args)
}
func (f *fakeExec) JobCreate(ctx context.Context, args []string) error {
	return f.record("job create", args)
}
func (f *fakeExec) JobGet(ctx context.Context, args []string) error {
	return f.record("job get", args)
}
func (f *fakeExec) JobEdit(ctx context.Context, args []string) error {
	return f.record("job edit", args)
}
func (f *fakeExec) JobList(ctx context.Context, args []string) error {
	return f.record("job list", args)
}
func (f *fakeExec) Upload(ctx context.Context, args []string) error {
	return f.record("upload", args)
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_Dispatch(t *testing.T) {
	captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"profile show",
		"login u1",
		"profile show",
		`profile edit city=Goa about="Painter and muralist"`,
		`job create title="Mural Artist" postedDate=2024-03-01`,
		"job get j1",
		"job edit j1 postedDate=2024-03-01 salary=40k",
		"job list 2024-02-01 2024-03-31",
		"upload images ./me.png",
		"health",
		"logout",
		"exit",
		"job get never",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(input))

	assert.Equal(t, []string{
		"login u1",
		"profile show",
		"profile edit city=Goa about=Painter and muralist",
		"job create title=Mural Artist postedDate=2024-03-01",
		"job get j1",
		"job edit j1 postedDate=2024-03-01 salary=40k",
		"job list 2024-02-01 2024-03-31",
		"upload images ./me.png",
		"health",
		"logout",
	}, exec.calls)
}

func TestRunREPL_UsageAndErrors(t *testing.T) {
	out := captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"login",
		"job",
		"frobnicate",
		`job create title="unterminated`,
		"job get j1",
		"quit",
	}, "\n"))

	exec := &fakeExec{err: common.ErrNotFound}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(input))

	assert.Equal(t, []string{"job get j1"}, exec.calls)
	assert.Contains(t, *out, "Usage: login <userId>")
	assert.Contains(t, *out, "Usage: job create|get|edit|list")
	assert.Contains(t, *out, "Unknown command: frobnicate")
	assert.Contains(t, *out, "Error: not found")
	assert.Contains(t, *out, "Bye!")
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	captureOutput(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("health\n")))

	assert.Empty(t, exec.calls)
}
