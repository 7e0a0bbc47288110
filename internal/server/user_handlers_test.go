package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microblog/internal/models"
)

func TestGetProfile(t *testing.T) {
	s := newTestServer(t)
	token, alice := registerUser(t, s, "alice")
	createPost(t, s, token, "older")
	createPost(t, s, token, "newer")

	path := "/api/users/" + strconv.Itoa(int(alice.ID))

	t.Run("returns public fields and posts", func(t *testing.T) {
		var profile struct {
			User  *models.User   `json:"user"`
			Posts []*models.Post `json:"posts"`
		}
		resp := doJSON(t, s, http.MethodGet, path, "", nil, &profile)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotNil(t, profile.User)
		assert.Equal(t, "alice", profile.User.Username)
		require.Len(t, profile.Posts, 2)
		assert.Equal(t, "newer", profile.Posts[0].Content)
		assert.Equal(t, "older", profile.Posts[1].Content)
	})

	t.Run("never exposes email or password", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, path, nil)
		require.NoError(t, err)
		resp, err := s.App().Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &body))
		var user map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(body["user"], &user))

		assert.NotContains(t, user, "email")
		assert.NotContains(t, user, "password")
		assert.NotContains(t, string(raw), "alice@example.com")
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		resp := doJSON(t, s, http.MethodGet, "/api/users/9999", "", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", errCode(t, resp))
	})
}

func TestUpdateProfile(t *testing.T) {
	s := newTestServer(t)
	aliceToken, alice := registerUser(t, s, "alice")
	bobToken, _ := registerUser(t, s, "bob")

	path := "/api/users/" + strconv.Itoa(int(alice.ID))

	t.Run("owner can update bio", func(t *testing.T) {
		var user models.User
		resp := doJSON(t, s, http.MethodPut, path, aliceToken, UpdateProfileInput{
			Bio: "  hello, I post things  ",
		}, &user)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "hello, I post things", user.Bio)
		assert.Equal(t, alice.ID, user.ID)
	})

	t.Run("bio persists", func(t *testing.T) {
		var profile struct {
			User *models.User `json:"user"`
		}
		resp := doJSON(t, s, http.MethodGet, path, "", nil, &profile)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "hello, I post things", profile.User.Bio)
	})

	t.Run("clearing the bio is allowed", func(t *testing.T) {
		var user models.User
		resp := doJSON(t, s, http.MethodPut, path, aliceToken, UpdateProfileInput{Bio: ""}, &user)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, user.Bio)
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		resp := doJSON(t, s, http.MethodPut, path, bobToken, UpdateProfileInput{Bio: "hijacked"}, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", errCode(t, resp))
	})

	t.Run("requires auth", func(t *testing.T) {
		resp := doJSON(t, s, http.MethodPut, path, "", UpdateProfileInput{Bio: "x"}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
