// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/kcprofile/kcprofile/internal/config"
	"github.com/kcprofile/kcprofile/internal/daemon"
	"github.com/kcprofile/kcprofile/internal/logger"
)

var (
	configPath string // Path to the configuration directory

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "kcprofile",
		Short: "kcprofile links local users to Keycloak identities",
		Long: `kcprofile reconciles OpenID Connect ID tokens issued by Keycloak
with local user records and OIDC profiles, and manages the
access and refresh tokens stored on those profiles.`,
		Args:         cobra.OnlyValidArgs,
		SilenceUsage: true,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Directory holding main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration and initialises the logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}

// withDaemon runs fn against a daemon built from the loaded configuration.
func withDaemon(fn func(cmd *cobra.Command, d *daemon.Daemon, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		d, err := daemon.New(&cfg)
		if err != nil {
			return err
		}

		defer func() { _ = d.Close() }()

		return fn(cmd, d, args)
	}
}
