package daemon

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kcprofile/kcprofile/internal/config"
	"github.com/kcprofile/kcprofile/internal/db/controller/client"
	"github.com/kcprofile/kcprofile/internal/db/controller/realm"
)

// seed makes sure the configured realm and client rows exist. The client
// secret is always written so a rotated secret reaches the database.
func seed(db *gorm.DB, kc *config.Keycloak) error {
	_, err := realm.Get(db, kc.Realm)
	created := errors.Is(err, realm.ErrRealmNotFound)

	r, err := realm.Ensure(db, kc.Realm, kc.ServerURL)
	if err != nil {
		return err
	}

	logSeed("realm", r.Name, created)

	_, err = client.Get(db, r.ID, kc.ClientID)
	created = errors.Is(err, client.ErrClientNotFound)

	if _, err = client.Set(db, r, kc.ClientID, kc.ClientSecret); err != nil {
		return err
	}

	logSeed("client", kc.ClientID, created)

	return nil
}

func logSeed(what, name string, created bool) {
	if created {
		log.Info().Str(what, name).Msg("seeded " + what)
	}
}
