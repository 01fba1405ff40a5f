package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sj7trunks/datestack/database"
	"github.com/sj7trunks/datestack/database/repository"
	"github.com/sj7trunks/datestack/models"
	"github.com/sj7trunks/datestack/services/apikey"
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

// newAuthRouter builds a router with one probe route behind AuthMiddleware
// and one behind AdminMiddleware on top of it.
func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	users := &repository.GormUserRepo{}
	keys := &apikey.DefaultAPIKeyService{Repo: &repository.GormAPIKeyRepo{}}

	r := gin.New()
	authed := r.Group("/", AuthMiddleware(users, keys))
	authed.GET("/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": UserID(c),
			"method":  c.GetString(ContextAuthMethod),
		})
	})
	authed.GET("/admin-probe", AdminMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	})
	return r
}

func seedUser(t *testing.T, name string, admin bool) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", PasswordHash: "x", IsAdmin: admin}
	require.NoError(t, (&repository.GormUserRepo{}).Create(u))
	return u
}

func bearerFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(fmt.Sprint(u.ID), u.Email, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func mintKey(t *testing.T, userID uint) string {
	t.Helper()
	raw, _, err := (&apikey.DefaultAPIKeyService{Repo: &repository.GormAPIKeyRepo{}}).Create(userID, "test")
	require.NoError(t, err)
	return raw
}

func get(r *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsAnonymous(t *testing.T) {
	setupTestDB(t)
	r := newAuthRouter()

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{name: "no credentials", headers: nil},
		{name: "malformed authorization", headers: map[string]string{"Authorization": "Token abc"}},
		{name: "garbage bearer token", headers: map[string]string{"Authorization": "Bearer not.a.jwt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/probe", tt.headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestAuthMiddlewareAcceptsBearerToken(t *testing.T) {
	setupTestDB(t)
	r := newAuthRouter()
	u := seedUser(t, "ada", false)

	w := get(r, "/probe", map[string]string{"Authorization": bearerFor(t, u)})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"user_id":%d`, u.ID))
	assert.Contains(t, w.Body.String(), `"method":"jwt"`)
}

func TestAuthMiddlewareRejectsTokenForMissingUser(t *testing.T) {
	setupTestDB(t)
	r := newAuthRouter()
	ghost := &models.User{Email: "gone@example.com"}
	ghost.ID = 999

	w := get(r, "/probe", map[string]string{"Authorization": bearerFor(t, ghost)})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareAcceptsAPIKey(t *testing.T) {
	setupTestDB(t)
	r := newAuthRouter()
	u := seedUser(t, "ada", false)
	raw := mintKey(t, u.ID)

	w := get(r, "/probe", map[string]string{"X-API-Key": raw})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"user_id":%d`, u.ID))
	assert.Contains(t, w.Body.String(), `"method":"api_key"`)
}

func TestAuthMiddlewareAPIKeyHeaderTakesPrecedence(t *testing.T) {
	setupTestDB(t)
	r := newAuthRouter()
	u := seedUser(t, "ada", false)

	// A bad key must not fall through to an otherwise valid bearer token.
	w := get(r, "/probe", map[string]string{
		"X-API-Key":     "ds_" + strings.Repeat("0", 48),
		"Authorization": bearerFor(t, u),
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminMiddleware(t *testing.T) {
	setupTestDB(t)
	r := newAuthRouter()
	admin := seedUser(t, "root", true)
	member := seedUser(t, "ada", false)
	adminKey := mintKey(t, admin.ID)

	w := get(r, "/admin-probe", map[string]string{"Authorization": bearerFor(t, admin)})
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(r, "/admin-probe", map[string]string{"Authorization": bearerFor(t, member)})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Even the admin's own API key only carries sync rights.
	w = get(r, "/admin-probe", map[string]string{"X-API-Key": adminKey})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
