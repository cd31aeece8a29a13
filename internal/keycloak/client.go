package keycloak

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/kcprofile/kcprofile/internal/db/controller/client"
	"github.com/kcprofile/kcprofile/internal/db/controller/realm"
	"github.com/kcprofile/kcprofile/internal/db/models"
)

// Client bundles a client row, its realm and the API used to talk to Keycloak.
type Client struct {
	Realm  *models.Realm
	Record *models.Client
	OpenID OpenIDAPI
}

// NewClient builds a Client whose OpenID API is configured from the realm's
// stored discovery document.
func NewClient(r *models.Realm, record *models.Client, scopes []string, opts ...Option) (*Client, error) {
	wk, err := ParseWellKnown(r.WellKnownOIDC)
	if err != nil {
		return nil, err
	}

	return &Client{
		Realm:  r,
		Record: record,
		OpenID: NewOpenIDConnect(wk, record.ClientID, record.Secret, scopes, opts...),
	}, nil
}

// LoadClient loads the realm and client rows and builds a Client from them.
func LoadClient(db *gorm.DB, realmName, clientID string, scopes []string, opts ...Option) (*Client, error) {
	r, err := realm.Get(db, realmName)
	if err != nil {
		return nil, fmt.Errorf("failed to load realm %s: %w", realmName, err)
	}

	record, err := client.Get(db, r.ID, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client %s: %w", clientID, err)
	}

	return NewClient(r, record, scopes, opts...)
}
