// Package cli implements the terminal console: cobra commands wrapping the
// console application core, with a file-backed session that survives
// between invocations the way the browser session survived a reload.
package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stansns/crud/internal/console"
	"github.com/stansns/crud/internal/console/directory"
	"github.com/stansns/crud/internal/console/guard"
	"github.com/stansns/crud/internal/console/session"
	"github.com/stansns/crud/internal/console/storage"
	"github.com/stansns/crud/pkg/logger"
)

var (
	serverURL string
	statePath string

	app *console.Console
)

// errNotFound is what an unauthorized command reports. Unauthorized and
// nonexistent are deliberately indistinguishable.
var errNotFound = errors.New("not found")

var rootCmd = &cobra.Command{
	Use:   "crud",
	Short: "User management console",
	Long: `crud is the terminal console for the user-management service.

Log in once and the session is kept, obfuscated, in a local state file;
subsequent commands reuse it until you log out. Every server operation
re-authenticates with the stored credentials.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Init(logger.Options{Level: "warn", Pretty: true})

		kv, err := storage.NewFileStore(statePath)
		if err != nil {
			return err
		}
		app = console.New(
			directory.NewClient(serverURL, nil, log),
			session.NewStore(kv),
			log,
		)
		return nil
	},
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// requireLoggedIn gates a command the way screen navigation was gated.
func requireLoggedIn(cmd *cobra.Command, args []string) error {
	if app.Navigate(guard.LoggedIn) != guard.Allow {
		return errNotFound
	}
	return nil
}

// requireLoggedOut gates the anonymous-only commands (register, login).
func requireLoggedOut(cmd *cobra.Command, args []string) error {
	if app.Navigate(guard.LoggedOut) != guard.Allow {
		return errNotFound
	}
	return nil
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".crud/session.json"
	}
	return filepath.Join(home, ".crud", "session.json")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "backend base URL")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", defaultStatePath(), "session state file")
}
