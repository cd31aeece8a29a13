// Package profile provides CRUD operations for OIDC profile rows.
package profile

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kcprofile/kcprofile/internal/db/models"
)

const (
	subQueryPattern = "sub = ?"
)

var (
	// ErrProfileNotFound is returned when an OIDC profile is not found.
	ErrProfileNotFound = errors.New("oidc profile not found")
	// ErrSubEmpty is returned when the subject identifier is empty.
	ErrSubEmpty = errors.New("oidc profile sub cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetBySub retrieves a profile by subject with its realm and user preloaded.
func GetBySub(db *gorm.DB, sub string) (*models.OIDCProfile, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if sub == "" {
		return nil, ErrSubEmpty
	}

	var p models.OIDCProfile
	result := db.Preload("Realm").Preload("User").Where(subQueryPattern, sub).First(&p)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, result.Error
	}

	return &p, nil
}

// GetByUserID retrieves the profile linked to a local user.
func GetByUserID(db *gorm.DB, userID uint64) (*models.OIDCProfile, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.OIDCProfile
	result := db.Preload("Realm").Preload("User").Where("user_id = ?", userID).First(&p)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, result.Error
	}

	return &p, nil
}

// UpdateOrCreate looks up the profile by sub and links it to realmID and userID,
// creating the profile if it does not exist. A nil userID unlinks any local user.
// The returned profile has its realm and user preloaded.
func UpdateOrCreate(db *gorm.DB, sub string, realmID uint64, userID *uint64) (*models.OIDCProfile, bool, error) {
	if db == nil {
		return nil, false, ErrDBNil
	}
	if sub == "" {
		return nil, false, ErrSubEmpty
	}

	var (
		p       models.OIDCProfile
		created bool
	)

	result := db.Where(subQueryPattern, sub).First(&p)
	switch {
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		p = models.OIDCProfile{
			Sub:     sub,
			RealmID: realmID,
			UserID:  userID,
		}

		if err := db.Omit(clause.Associations).Create(&p).Error; err != nil {
			return nil, false, err
		}

		created = true
	case result.Error != nil:
		return nil, false, result.Error
	default:
		p.RealmID = realmID
		p.UserID = userID

		if err := db.Omit(clause.Associations).Save(&p).Error; err != nil {
			return nil, false, err
		}
	}

	if err := db.Preload("Realm").Preload("User").First(&p, p.ID).Error; err != nil {
		return nil, false, err
	}

	return &p, created, nil
}

// SaveTokens persists the token columns of a profile.
func SaveTokens(db *gorm.DB, p *models.OIDCProfile) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(p).Omit(clause.Associations).Select(
		"access_token",
		"expires_before",
		"refresh_token",
		"refresh_expires_before",
	).Updates(p)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}

	return nil
}
