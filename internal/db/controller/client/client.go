// Package client provides CRUD operations for OpenID Connect client rows.
package client

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kcprofile/kcprofile/internal/db/models"
)

var (
	// ErrClientNotFound is returned when a client is not found.
	ErrClientNotFound = errors.New("client not found")
	// ErrClientIDEmpty is returned when the OAuth2 client id is empty.
	ErrClientIDEmpty = errors.New("client id cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a client of a realm by its OAuth2 client id. The realm is preloaded.
func Get(db *gorm.DB, realmID uint64, clientID string) (*models.Client, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if clientID == "" {
		return nil, ErrClientIDEmpty
	}

	var c models.Client
	result := db.Preload("Realm").
		Where("realm_id = ? AND client_id = ?", realmID, clientID).
		First(&c)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, result.Error
	}

	return &c, nil
}

// Set creates or updates a client of a realm (upsert on realm + client id).
func Set(db *gorm.DB, realm *models.Realm, clientID, secret string) (*models.Client, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if clientID == "" {
		return nil, ErrClientIDEmpty
	}

	c, err := Get(db, realm.ID, clientID)
	if errors.Is(err, ErrClientNotFound) {
		c = &models.Client{
			RealmID:  realm.ID,
			ClientID: clientID,
			Secret:   secret,
		}

		if err = db.Create(c).Error; err != nil {
			return nil, err
		}

		c.Realm = *realm

		return c, nil
	}
	if err != nil {
		return nil, err
	}

	if c.Secret != secret {
		c.Secret = secret
		if err = db.Model(c).Update("secret", secret).Error; err != nil {
			return nil, err
		}
	}

	return c, nil
}
