// Command accessbot runs the allow-list gated Telegram bot and offers
// operator commands against the same store.
//
// @title                       Access Bot API
// @version                     1.0
// @description                 Allow-list gated Telegram bot: Mini App access check and interaction API.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-access-bot/internal/config"
	"github.com/tbourn/go-access-bot/internal/sysutil"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once the root pre-run has loaded it.
type app struct {
	cfg     config.Config
	envFile string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "accessbot",
		Short:         "Allow-list gated Telegram bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load %s: %w", a.envFile, err)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			sysutil.ConfigureLogger(cfg.LogLevel, cfg.LogPretty, cmd.ErrOrStderr())
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to seed the environment from")

	root.AddCommand(
		newServeCmd(a),
		newAllowlistCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skip config loading.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "accessbot %s (commit: %s)\n", appVersion(), commit)
			return err
		},
	}
}

func appVersion() string {
	return sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
}
