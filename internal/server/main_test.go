package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"microblog/internal/config"
	"microblog/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:           "3000",
		DBPath:         ":memory:",
		JWTSecret:      "test-secret-key-for-handler-tests",
		AllowedOrigins: "*",
		Env:            "test",
	}
}

// newTestServer builds a full server on an in-memory database with no Redis.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Reply{},
		&models.Like{},
	))

	return NewServerWithDeps(testConfig(), db, nil)
}

// newProductionServer builds a server with APP_ENV=production so rate
// limiting is active, backed by the given Redis client (which may be nil).
func newProductionServer(t *testing.T, client *redis.Client) *Server {
	t.Helper()
	t.Setenv("APP_ENV", "production")

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Reply{},
		&models.Like{},
	))

	cfg := testConfig()
	cfg.Env = "production"
	return NewServerWithDeps(cfg, db, client)
}

// doJSON sends a JSON request through the fiber app and decodes the response
// body into out (when out is non-nil).
func doJSON(t *testing.T, s *Server, method, path, token string, body, out interface{}) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)

	if out != nil {
		defer resp.Body.Close()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// registerUser creates an account through the API and returns its token and user.
func registerUser(t *testing.T, s *Server, username string) (string, *models.User) {
	t.Helper()

	var out AuthResponse
	resp := doJSON(t, s, http.MethodPost, "/api/auth/register", "", RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw123456",
	}, &out)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, out.Token)
	require.NotNil(t, out.User)
	return out.Token, out.User
}

func jsonDecode(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func errCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Code
}
