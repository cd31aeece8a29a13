package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kcprofile/kcprofile/internal/daemon"
	"github.com/kcprofile/kcprofile/internal/db/models"
)

var errIDTokenEmpty = errors.New("no id token given")

func init() { //nolint: gochecknoinits
	profileSyncCmd.Flags().StringVar(&idToken, "id-token", "", "ID token to reconcile, read from stdin when empty")

	profileCodeCmd.Flags().StringVar(&code, "code", "", "Authorization code to exchange")
	profileCodeCmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "Redirect URI the code was issued for")
	_ = profileCodeCmd.MarkFlagRequired("code")
	_ = profileCodeCmd.MarkFlagRequired("redirect-uri")

	profileTokenCmd.Flags().StringVar(&sub, "sub", "", "Subject of the OIDC profile")
	_ = profileTokenCmd.MarkFlagRequired("sub")

	profileCmd.AddCommand(profileSyncCmd, profileCodeCmd, profileTokenCmd)
	rootCmd.AddCommand(profileCmd)
}

var (
	idToken     string
	code        string
	redirectURI string
	sub         string

	profileCmd = &cobra.Command{
		Use:   "profile",
		Short: "Reconcile and inspect OIDC profiles",
	}

	profileSyncCmd = &cobra.Command{
		Use:     "sync",
		Short:   "Reconcile an ID token with the local user and OIDC profile",
		PreRunE: loadConfig,
		RunE: withDaemon(func(cmd *cobra.Command, d *daemon.Daemon, _ []string) error {
			token := idToken
			if token == "" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}

				token = strings.TrimSpace(string(raw))
			}

			if token == "" {
				return errIDTokenEmpty
			}

			p, err := d.SyncIDToken(cmd.Context(), token)
			if err != nil {
				return err
			}

			return printProfile(cmd.OutOrStdout(), p)
		}),
	}

	profileCodeCmd = &cobra.Command{
		Use:     "code",
		Short:   "Exchange an authorization code and reconcile its ID token",
		PreRunE: loadConfig,
		RunE: withDaemon(func(cmd *cobra.Command, d *daemon.Daemon, _ []string) error {
			p, err := d.ExchangeCode(cmd.Context(), code, redirectURI)
			if err != nil {
				return err
			}

			return printProfile(cmd.OutOrStdout(), p)
		}),
	}

	profileTokenCmd = &cobra.Command{
		Use:     "token",
		Short:   "Print the active access token of a profile, refreshing it if expired",
		PreRunE: loadConfig,
		RunE: withDaemon(func(cmd *cobra.Command, d *daemon.Daemon, _ []string) error {
			token, err := d.AccessToken(cmd.Context(), sub)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)

			return err
		}),
	}
)

// profileView is the printed form of a profile. Tokens are left out.
type profileView struct {
	Sub                  string     `json:"sub"`
	Realm                string     `json:"realm"`
	Username             string     `json:"username,omitempty"`
	Email                string     `json:"email,omitempty"`
	Remote               bool       `json:"remote"`
	ExpiresBefore        *time.Time `json:"expires_before,omitempty"`
	RefreshExpiresBefore *time.Time `json:"refresh_expires_before,omitempty"`
}

func printProfile(w io.Writer, p *models.OIDCProfile) error {
	view := profileView{
		Sub:                  p.Sub,
		Realm:                p.Realm.Name,
		Remote:               p.IsRemote(),
		ExpiresBefore:        p.ExpiresBefore,
		RefreshExpiresBefore: p.RefreshExpiresBefore,
	}

	if p.User != nil {
		view.Username = p.User.Username
		view.Email = p.User.Email
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(view)
}
