package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kcprofile/kcprofile/internal/daemon"
	"github.com/kcprofile/kcprofile/internal/keycloak"
)

func init() { //nolint: gochecknoinits
	realmCmd.AddCommand(realmRefreshCmd)
	rootCmd.AddCommand(realmCmd)
}

var (
	realmCmd = &cobra.Command{
		Use:   "realm",
		Short: "Manage the stored Keycloak realm",
	}

	realmRefreshCmd = &cobra.Command{
		Use:     "refresh",
		Short:   "Refresh the realm's discovery document and certs from Keycloak",
		PreRunE: loadConfig,
		RunE: withDaemon(func(cmd *cobra.Command, d *daemon.Daemon, _ []string) error {
			r, err := d.RefreshRealm(cmd.Context())
			if err != nil {
				return err
			}

			issuer, err := keycloak.Issuer(r)
			if err != nil {
				return err
			}

			set, err := keycloak.Certs(r)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "realm %s: issuer %s, %d keys\n", r.Name, issuer, len(set.Keys))

			return err
		}),
	}
)
