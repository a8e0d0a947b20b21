package cli

import (
	"bufio"
	"context"
	"fmt"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, userID string) error
	Logout(ctx context.Context) error
	Health(ctx context.Context) error
	ProfileShow(ctx context.Context) error
	ProfileEdit(ctx context.Context, args []string) error
	JobCreate(ctx context.Context, args []string) error
	JobGet(ctx context.Context, args []string) error
	JobEdit(ctx context.Context, args []string) error
	JobList(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  login <userId>                     load a profile and start a session
  logout                             drop the cached profile
  profile show                       print the current profile
  profile edit key=value...          save profile fields, key=@path uploads an image
  job create key=value...            create a job (title required)
  job get <jobId>                    print a job
  job edit <jobId> key=value...      edit a job (postedDate required)
  job list <start> <end>             list jobs posted between two dates
  upload <folder> <path>             upload a file and print its public URL
  health                             check the server
  exit | quit                        leave the program`

// runREPL reads a line from scanner, splits it into arguments and dispatches
// to a. Errors returned by commands are printed and the loop continues. The
// loop exits on scanner EOF, on "exit" or "quit", or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("katta (%s)> ", statusFn()))
		if !scanner.Scan() {
			return
		}

		parts, err := splitArgs(scanner.Text())
		if err != nil {
			printlnFn("Error:", err)
			continue
		}
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "login":
			if len(args) != 1 {
				printlnFn("Usage: login <userId>")
				continue
			}
			err = a.Login(ctx, args[0])

		case "logout":
			err = a.Logout(ctx)

		case "health":
			err = a.Health(ctx)

		case "profile":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			switch sub(args) {
			case "show":
				err = a.ProfileShow(ctx)
			case "edit":
				err = a.ProfileEdit(ctx, args[1:])
			default:
				printlnFn("Usage: profile show|edit")
				continue
			}

		case "job":
			switch sub(args) {
			case "create":
				err = a.JobCreate(ctx, args[1:])
			case "get":
				err = a.JobGet(ctx, args[1:])
			case "edit":
				err = a.JobEdit(ctx, args[1:])
			case "list":
				err = a.JobList(ctx, args[1:])
			default:
				printlnFn("Usage: job create|get|edit|list")
				continue
			}

		case "upload":
			err = a.Upload(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

func sub(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
