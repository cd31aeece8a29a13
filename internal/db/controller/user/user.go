// Package user provides lookup and update-or-create operations for local users.
package user

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kcprofile/kcprofile/internal/db/models"
)

// LookupField names the user column a username claim is matched against.
type LookupField string

const (
	// FieldUsername matches against users.username.
	FieldUsername LookupField = "username"
	// FieldEmail matches against users.email.
	FieldEmail LookupField = "email"
)

var (
	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")
	// ErrMultipleUsersFound is returned when a lookup expected one user but found several.
	ErrMultipleUsersFound = errors.New("multiple users found")
	// ErrInvalidLookupField is returned for a lookup field that is not a known column.
	ErrInvalidLookupField = errors.New("invalid user lookup field")
	// ErrEmptyLookupValue is returned when the lookup value is empty.
	ErrEmptyLookupValue = errors.New("user lookup value cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Defaults are the attributes written to a user on update-or-create.
type Defaults struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// Valid reports whether f names a supported column.
func (f LookupField) Valid() bool {
	switch f {
	case FieldUsername, FieldEmail:
		return true
	default:
		return false
	}
}

// Get retrieves exactly one user where field equals value.
func Get(db *gorm.DB, field LookupField, value string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if !field.Valid() {
		return nil, ErrInvalidLookupField
	}
	if value == "" {
		return nil, ErrEmptyLookupValue
	}

	var users []models.User
	if err := db.Where(map[string]any{string(field): value}).Limit(2).Find(&users).Error; err != nil { //nolint:mnd
		return nil, err
	}

	switch len(users) {
	case 0:
		return nil, ErrUserNotFound
	case 1:
		return &users[0], nil
	default:
		return nil, ErrMultipleUsersFound
	}
}

// GetByID retrieves a user by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User
	result := db.First(&u, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &u, nil
}

// UpdateOrCreate looks up the user where field equals value and writes defaults onto it.
// If no user matches, one is created from defaults; the lookup value is kept when the
// defaults leave the lookup column empty. The boolean reports whether a user was created.
func UpdateOrCreate(db *gorm.DB, field LookupField, value string, defaults Defaults) (*models.User, bool, error) {
	u, err := Get(db, field, value)
	switch {
	case errors.Is(err, ErrUserNotFound):
		u = &models.User{
			Active:   true,
			Password: models.UnusablePassword(),
		}
		apply(u, defaults)
		keepLookupValue(u, field, value)

		if err = db.Create(u).Error; err != nil {
			return nil, false, err
		}

		return u, true, nil
	case err != nil:
		return nil, false, err
	}

	apply(u, defaults)
	keepLookupValue(u, field, value)

	if err = db.Save(u).Error; err != nil {
		return nil, false, err
	}

	return u, false, nil
}

func apply(u *models.User, d Defaults) {
	u.Username = d.Username
	u.Email = d.Email
	u.FirstName = d.FirstName
	u.LastName = d.LastName
}

func keepLookupValue(u *models.User, field LookupField, value string) {
	switch field {
	case FieldUsername:
		if u.Username == "" {
			u.Username = value
		}
	case FieldEmail:
		if u.Email == "" {
			u.Email = value
		}
	}
}
