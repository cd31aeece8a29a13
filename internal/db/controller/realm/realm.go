// Package realm provides CRUD operations for Keycloak realm rows.
package realm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kcprofile/kcprofile/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"

	// EmptyJSONDocument is stored for certs and discovery documents not fetched yet.
	EmptyJSONDocument = "{}"
)

var (
	// ErrRealmNotFound is returned when a realm is not found.
	ErrRealmNotFound = errors.New("realm not found")
	// ErrRealmNameEmpty is returned when attempting to create/look up a realm with an empty name.
	ErrRealmNameEmpty = errors.New("realm name cannot be empty")
	// ErrRealmAlreadyExists is returned when attempting to create a realm that already exists.
	ErrRealmAlreadyExists = errors.New("realm already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a realm by its name.
func Get(db *gorm.DB, name string) (*models.Realm, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrRealmNameEmpty
	}

	var realm models.Realm
	result := db.Where(nameQueryPattern, name).First(&realm)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRealmNotFound
		}
		return nil, result.Error
	}

	return &realm, nil
}

// GetByID retrieves a realm by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.Realm, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var realm models.Realm
	result := db.First(&realm, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRealmNotFound
		}
		return nil, result.Error
	}

	return &realm, nil
}

// Create creates a new realm. Certs and discovery document start out empty.
func Create(db *gorm.DB, name, serverURL string) (*models.Realm, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrRealmNameEmpty
	}

	var existing models.Realm
	result := db.Where(nameQueryPattern, name).First(&existing)
	if result.Error == nil {
		return nil, ErrRealmAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	realm := &models.Realm{
		Name:          name,
		ServerURL:     serverURL,
		Certs:         EmptyJSONDocument,
		WellKnownOIDC: EmptyJSONDocument,
	}

	if result = db.Create(realm); result.Error != nil {
		return nil, result.Error
	}

	return realm, nil
}

// Ensure returns the realm with the given name, creating it if needed.
// An existing realm gets its server URL updated when it differs.
func Ensure(db *gorm.DB, name, serverURL string) (*models.Realm, error) {
	realm, err := Get(db, name)
	if errors.Is(err, ErrRealmNotFound) {
		return Create(db, name, serverURL)
	}
	if err != nil {
		return nil, err
	}

	if serverURL != "" && realm.ServerURL != serverURL {
		realm.ServerURL = serverURL
		if err = db.Save(realm).Error; err != nil {
			return nil, err
		}
	}

	return realm, nil
}

// UpdateCerts stores a new JSON Web Key Set for the realm.
func UpdateCerts(db *gorm.DB, realm *models.Realm, certs string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(realm).Update("certs", certs)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRealmNotFound
	}

	return nil
}

// UpdateWellKnownOIDC stores a new discovery document for the realm.
func UpdateWellKnownOIDC(db *gorm.DB, realm *models.Realm, document string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(realm).Update("well_known_oidc", document)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRealmNotFound
	}

	return nil
}

// Delete deletes a realm by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Realm{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRealmNotFound
	}

	return nil
}
