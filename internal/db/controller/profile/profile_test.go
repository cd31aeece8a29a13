package profile

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kcprofile/kcprofile/internal/db/models"
)

func setupTestDB(t *testing.T) (*gorm.DB, *models.Realm) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")

	realm := &models.Realm{Name: "test", ServerURL: "https://keycloak", Certs: "{}", WellKnownOIDC: "{}"}
	require.NoError(t, db.Create(realm).Error)

	return db, realm
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	u := &models.User{Username: username}
	require.NoError(t, db.Create(u).Error)

	return u
}

func TestUpdateOrCreate(t *testing.T) {
	db, realm := setupTestDB(t)
	joe := createUser(t, db, "joe")
	jane := createUser(t, db, "jane")

	p, created, err := UpdateOrCreate(db, "some-sub", realm.ID, &joe.ID)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, p.User)
	assert.Equal(t, "joe", p.User.Username)
	assert.Equal(t, "test", p.Realm.Name)

	again, created, err := UpdateOrCreate(db, "some-sub", realm.ID, &jane.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p.ID, again.ID)
	require.NotNil(t, again.User)
	assert.Equal(t, "jane", again.User.Username)

	remote, created, err := UpdateOrCreate(db, "some-sub", realm.ID, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, remote.IsRemote())
	assert.Nil(t, remote.User)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(2), users, "users are never written through a profile")
}

func TestUpdateOrCreateValidation(t *testing.T) {
	_, _, err := UpdateOrCreate(nil, "some-sub", 1, nil)
	require.ErrorIs(t, err, ErrDBNil)

	db, realm := setupTestDB(t)

	_, _, err = UpdateOrCreate(db, "", realm.ID, nil)
	require.ErrorIs(t, err, ErrSubEmpty)
}

func TestGet(t *testing.T) {
	db, realm := setupTestDB(t)
	joe := createUser(t, db, "joe")

	_, err := GetBySub(db, "some-sub")
	require.ErrorIs(t, err, ErrProfileNotFound)

	_, err = GetBySub(db, "")
	require.ErrorIs(t, err, ErrSubEmpty)

	_, err = GetByUserID(db, joe.ID)
	require.ErrorIs(t, err, ErrProfileNotFound)

	created, _, err := UpdateOrCreate(db, "some-sub", realm.ID, &joe.ID)
	require.NoError(t, err)

	bySub, err := GetBySub(db, "some-sub")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySub.ID)

	byUser, err := GetByUserID(db, joe.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUser.ID)
	assert.Equal(t, "joe", byUser.User.Username)
}

func TestSaveTokens(t *testing.T) {
	db, realm := setupTestDB(t)
	joe := createUser(t, db, "joe")

	p, _, err := UpdateOrCreate(db, "some-sub", realm.ID, &joe.ID)
	require.NoError(t, err)

	expires := time.Date(2018, 3, 5, 1, 0, 0, 0, time.UTC)
	p.AccessToken = "access-token"
	p.ExpiresBefore = &expires
	p.RefreshToken = "refresh-token"
	p.User.Username = "not-saved"

	require.NoError(t, SaveTokens(db, p))

	stored, err := GetBySub(db, "some-sub")
	require.NoError(t, err)
	assert.Equal(t, "access-token", stored.AccessToken)
	assert.Equal(t, "refresh-token", stored.RefreshToken)
	require.NotNil(t, stored.ExpiresBefore)
	assert.True(t, expires.Equal(*stored.ExpiresBefore))
	assert.Nil(t, stored.RefreshExpiresBefore)
	assert.Equal(t, "joe", stored.User.Username)

	require.ErrorIs(t, SaveTokens(db, &models.OIDCProfile{ID: 999}), ErrProfileNotFound)
	require.ErrorIs(t, SaveTokens(nil, p), ErrDBNil)
}
