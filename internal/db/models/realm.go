// Package models contains database model definitions.
package models

import "time"

// Realm represents a Keycloak realm known to this application.
// The discovery document and the signing keys are cached on the row so ID tokens
// can be decoded without a round trip to the identity provider.
type Realm struct {
	// ID is the unique identifier for the realm.
	ID uint64 `gorm:"primaryKey"`
	// Name is the Keycloak realm name (e.g., "master").
	Name string `gorm:"unique;size:255;not null"`
	// ServerURL is the base URL of the Keycloak server, without the /realms path.
	ServerURL string `gorm:"size:255;not null"`
	// Certs is the realm's JSON Web Key Set as returned by the jwks_uri endpoint.
	Certs string `gorm:"type:text"`
	// WellKnownOIDC is the raw OpenID Connect discovery document of the realm.
	WellKnownOIDC string `gorm:"column:well_known_oidc;type:text"`
	// CreatedAt is the timestamp when the realm was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the realm was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Realm model.
func (Realm) TableName() string {
	return "realms"
}
