package models

import "time"

// OIDCProfile links a Keycloak subject to an optional local user and carries
// the most recent token set issued for that subject.
type OIDCProfile struct {
	// ID is the unique identifier for the profile.
	ID uint64 `gorm:"primaryKey"`
	// Sub is the subject identifier of the ID token.
	Sub string `gorm:"unique;size:255;not null"`
	// RealmID is the ID of the realm that issued the subject.
	RealmID uint64 `gorm:"not null"`
	// Realm is the associated realm.
	Realm Realm `gorm:"foreignKey:RealmID;constraint:OnDelete:CASCADE"`
	// UserID is the linked local user, nil for remote profiles.
	UserID *uint64 `gorm:"uniqueIndex"`
	// User is the associated local user.
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	AccessToken          string `gorm:"type:text"`
	ExpiresBefore        *time.Time
	RefreshToken         string `gorm:"type:text"`
	RefreshExpiresBefore *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the OIDCProfile model.
func (OIDCProfile) TableName() string {
	return "oidc_profiles"
}

// IsRemote reports whether the profile is not linked to a local user.
func (p *OIDCProfile) IsRemote() bool {
	return p.UserID == nil
}

// All returns every model managed by this application, in migration order.
func All() []any {
	return []any{
		&Realm{},
		&Client{},
		&User{},
		&OIDCProfile{},
	}
}
