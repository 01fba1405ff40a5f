package apikey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sj7trunks/datestack/database"
	"github.com/sj7trunks/datestack/database/repository"
	"github.com/sj7trunks/datestack/utils"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db
}

func newTestService() *DefaultAPIKeyService {
	return &DefaultAPIKeyService{Repo: &repository.GormAPIKeyRepo{}}
}

func TestCreateReturnsRawKeyOnce(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	raw, key, err := svc.Create(1, "work laptop")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, utils.APIKeyPrefix))
	assert.Len(t, raw, len(utils.APIKeyPrefix)+48)
	assert.Equal(t, "work laptop", key.Name)
	assert.Equal(t, raw[:8], key.Prefix)
	assert.NotContains(t, key.KeyHash, raw, "raw key must never be stored")

	keys, err := svc.List(1)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, key.Prefix, keys[0].Prefix)
}

func TestCreateDefaultsName(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	_, key, err := svc.Create(1, "   ")
	require.NoError(t, err)
	assert.Equal(t, "Sync client", key.Name)
}

func TestAuthenticateByRawKey(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	raw, created, err := svc.Create(1, "laptop")
	require.NoError(t, err)

	key, err := svc.Authenticate(raw)
	require.NoError(t, err)
	assert.Equal(t, created.ID, key.ID)
	assert.Equal(t, uint(1), key.UserID)

	// The same lookup with surrounding whitespace still resolves.
	key, err = svc.Authenticate("  " + raw + " ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, key.ID)
}

func TestAuthenticateRejectsUnknownKeys(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	_, _, err := svc.Create(1, "laptop")
	require.NoError(t, err)

	_, err = svc.Authenticate("ds_000000000000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = svc.Authenticate("")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestAuthenticateTouchesLastUsed(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	raw, created, err := svc.Create(1, "laptop")
	require.NoError(t, err)
	require.Nil(t, created.LastUsedAt)

	_, err = svc.Authenticate(raw)
	require.NoError(t, err)

	keys, err := svc.List(1)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.NotNil(t, keys[0].LastUsedAt)
}

func TestDeleteRevokesKey(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	raw, created, err := svc.Create(1, "laptop")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(1, created.ID))

	_, err = svc.Authenticate(raw)
	assert.ErrorIs(t, err, ErrInvalidKey, "revoked keys must stop authenticating")

	err = svc.Delete(1, created.ID)
	require.Error(t, err, "deleting twice reports not found")
}

func TestDeleteIgnoresForeignKeys(t *testing.T) {
	setupTestDB(t)
	svc := newTestService()

	raw, created, err := svc.Create(1, "laptop")
	require.NoError(t, err)

	err = svc.Delete(2, created.ID)
	require.Error(t, err)

	_, err = svc.Authenticate(raw)
	assert.NoError(t, err, "another user's delete must not revoke the key")
}
