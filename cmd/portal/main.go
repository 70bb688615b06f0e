// Command portal is the terminal client for the student clearance system:
// operator login, student and staff administration, RFID tag management and
// live scanner sessions.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/clearance-asce/portal/config"
	"github.com/clearance-asce/portal/internal/bootstrap"
	apperrors "github.com/clearance-asce/portal/internal/errors"
)

type commandFn func(cmdCtx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Portal *bootstrap.Portal
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2)
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	logger := bootstrap.InitLogger(cfg.IsDev)

	portal, err := bootstrap.New(bootstrap.Options{
		Config: cfg,
		Logger: logger,
		OnLogout: func() {
			fmt.Fprintln(os.Stderr, "Session ended. Run `portal login` to sign in again.")
		},
	})
	if err != nil {
		logger.Error("wire portal", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := portal.Close(); closeErr != nil {
			logger.Warn("close portal", "error", closeErr)
		}
	}()

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
		Portal: portal,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		fmt.Fprintln(os.Stderr, "Error:", apperrors.UserMessage(runErr))
		os.Exit(1)
	}
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Sign in and cache the session",
			run:         runLogin,
		},
		"logout": {
			name:        "logout",
			description: "End the session and clear the cache",
			run:         runLogout,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the signed-in account",
			run:         runWhoami,
		},
		"students": {
			name:        "students",
			description: "Manage student records: list, get, create, update, delete, lookup",
			run:         runStudents,
		},
		"users": {
			name:        "users",
			description: "Manage staff and admin accounts: list, create, update, delete, lookup",
			run:         runUsers,
		},
		"devices": {
			name:        "devices",
			description: "Manage scanner devices: list, create, delete",
			run:         runDevices,
		},
		"tags": {
			name:        "tags",
			description: "Manage RFID tags: link, unlink, info",
			run:         runTags,
		},
		"clearance": {
			name:        "clearance",
			description: "Clearance operations: my, update, summary",
			run:         runClearance,
		},
		"scan": {
			name:        "scan",
			description: "Run a live scanner session on a device",
			run:         runScan,
		},
	}
}

func printUsage() {
	fmt.Println("Usage: portal <command> [flags]")
	fmt.Println()
	fmt.Println("Available commands:")
	names := []string{
		"login", "logout", "whoami",
		"students", "users", "devices",
		"tags", "clearance", "scan",
	}
	cmds := commands()
	for _, name := range names {
		fmt.Printf("  %-12s %s\n", name, cmds[name].description)
	}
}

// restoreSession loads the cached session and revalidates it. Commands that
// talk to the backend call this first so a dead session fails fast with a
// clear message instead of a string of 401s.
func restoreSession(cmdCtx *commandContext) error {
	if _, err := cmdCtx.Portal.Session.Restore(cmdCtx.Ctx); err != nil {
		if apperrors.IsNotFound(err) || apperrors.IsUnauthorized(err) {
			return apperrors.Unauthorized("Not signed in. Run `portal login` first.")
		}
		return err
	}
	return nil
}
