package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kcprofile/kcprofile/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Migrate the database schema and seed the configured realm and client",
	PreRunE: loadConfig,
	RunE: withDaemon(func(cmd *cobra.Command, d *daemon.Daemon, _ []string) error {
		if err := d.Migrate(cmd.Context()); err != nil {
			return err
		}

		log.Info().Str("engine", cfg.DB.GormEngine).Msg("database migrated")

		return nil
	}),
}
