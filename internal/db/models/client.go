package models

import "time"

// Client represents an OpenID Connect client registered in a Keycloak realm.
type Client struct {
	// ID is the unique identifier for the client.
	ID uint64 `gorm:"primaryKey"`
	// RealmID is the ID of the realm the client belongs to.
	RealmID uint64 `gorm:"not null;uniqueIndex:idx_client_realm_client_id"`
	// Realm is the associated realm (removed together with the realm).
	Realm Realm `gorm:"foreignKey:RealmID;constraint:OnDelete:CASCADE"`
	// ClientID is the OAuth2 client identifier, unique within a realm.
	ClientID string `gorm:"size:255;not null;uniqueIndex:idx_client_realm_client_id"`
	// Secret is the OAuth2 client secret (empty for public clients).
	Secret string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Client model.
func (Client) TableName() string {
	return "clients"
}
