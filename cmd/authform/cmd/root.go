package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/nfrund/authform/internal/app"
	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// errFailed marks a command that already reported its failure to the user.
var errFailed = errors.New("failed")

// cfg is loaded before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "authform",
	Short: "Register and log in against an auth backend",
	Long: `authform submits registration and login forms to an auth backend.

Available commands:
  register    Create an account
  login       Obtain an access token and store it
  token       Inspect, clear or watch the stored access token

Configuration is read from the environment (and a .env file); flags take
precedence. Use "authform [command] --help" for more information.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute executes the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("base-url", "", "backend origin (AUTH_BASE_URL)")
	flags.Bool("include-credentials", true, "keep and send backend cookies (AUTH_INCLUDE_CREDENTIALS)")
	flags.String("login-failure-detail", "", "extract or raw (AUTH_LOGIN_FAILURE_DETAIL)")
	flags.Duration("timeout", 0, "HTTP timeout, 0 disables (AUTH_HTTP_TIMEOUT)")
	flags.String("storage-dir", "", "directory for persistent storage (AUTH_STORAGE_DIR)")
	flags.String("alert", "", "console, prompt or log (AUTH_ALERT_MODE)")
	flags.String("lang", "", "message language, e.g. en or uk (AUTH_LANG)")
}

// loadConfig reads the environment, applies flags that were set explicitly
// and initializes logging.
func loadConfig(cmd *cobra.Command, _ []string) error {
	logging.New()

	c, err := config.New()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		c.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("include-credentials") {
		c.IncludeCredentials, _ = flags.GetBool("include-credentials")
	}
	if flags.Changed("login-failure-detail") {
		c.LoginFailureDetail, _ = flags.GetString("login-failure-detail")
	}
	if flags.Changed("timeout") {
		c.HTTPTimeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("storage-dir") {
		c.StorageDir, _ = flags.GetString("storage-dir")
	}
	if flags.Changed("alert") {
		c.AlertMode, _ = flags.GetString("alert")
	}
	if flags.Changed("lang") {
		c.Lang, _ = flags.GetString("lang")
	}

	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

// newDependencies wires the runtime for cmd's input and output.
func newDependencies(cmd *cobra.Command) (*app.Dependencies, error) {
	return app.New(cfg, afero.NewOsFs(), cmd.OutOrStdout(), cmd.InOrStdin())
}
