package realm

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kcprofile/kcprofile/internal/db/models"
)

// setupTestDB creates a file backed SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Realm{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		realmName     string
		seed          bool
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			realmName:     "master",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			realmName:     "",
			expectedError: ErrRealmNameEmpty,
		},
		{
			name:          "realm not found",
			dbParam:       db,
			realmName:     "nonexistent",
			expectedError: ErrRealmNotFound,
		},
		{
			name:      "successful get",
			dbParam:   db,
			realmName: "master",
			seed:      true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.seed {
				_, err := Create(db, tc.realmName, "https://keycloak")
				require.NoError(t, err)
			}

			r, err := Get(tc.dbParam, tc.realmName)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, r)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.realmName, r.Name)
			assert.Equal(t, EmptyJSONDocument, r.Certs)
			assert.Equal(t, EmptyJSONDocument, r.WellKnownOIDC)

			byID, err := GetByID(db, r.ID)
			require.NoError(t, err)
			assert.Equal(t, r.Name, byID.Name)
		})
	}
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, "master", "https://keycloak")
	require.NoError(t, err)

	_, err = Create(db, "master", "https://keycloak")
	require.ErrorIs(t, err, ErrRealmAlreadyExists)

	_, err = Create(db, "", "https://keycloak")
	require.ErrorIs(t, err, ErrRealmNameEmpty)

	_, err = Create(nil, "master", "https://keycloak")
	require.ErrorIs(t, err, ErrDBNil)
}

func TestEnsure(t *testing.T) {
	db := setupTestDB(t)

	created, err := Ensure(db, "master", "https://old")
	require.NoError(t, err)

	same, err := Ensure(db, "master", "https://new")
	require.NoError(t, err)
	assert.Equal(t, created.ID, same.ID)
	assert.Equal(t, "https://new", same.ServerURL)

	stored, err := Get(db, "master")
	require.NoError(t, err)
	assert.Equal(t, "https://new", stored.ServerURL)
}

func TestUpdateDocuments(t *testing.T) {
	db := setupTestDB(t)

	r, err := Create(db, "master", "https://keycloak")
	require.NoError(t, err)

	require.NoError(t, UpdateCerts(db, r, `{"keys": []}`))
	require.NoError(t, UpdateWellKnownOIDC(db, r, `{"issuer": "https://issuer"}`))

	stored, err := Get(db, "master")
	require.NoError(t, err)
	assert.JSONEq(t, `{"keys": []}`, stored.Certs)
	assert.JSONEq(t, `{"issuer": "https://issuer"}`, stored.WellKnownOIDC)

	require.ErrorIs(t, UpdateCerts(db, &models.Realm{ID: 999}, "{}"), ErrRealmNotFound)
	require.ErrorIs(t, UpdateWellKnownOIDC(nil, r, "{}"), ErrDBNil)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	r, err := Create(db, "master", "https://keycloak")
	require.NoError(t, err)

	require.NoError(t, Delete(db, r.ID))
	require.ErrorIs(t, Delete(db, r.ID), ErrRealmNotFound)

	_, err = Get(db, "master")
	require.ErrorIs(t, err, ErrRealmNotFound)
}
