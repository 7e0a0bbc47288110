package server

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microblog/internal/models"
)

func TestCreateReply(t *testing.T) {
	s := newTestServer(t)
	aliceToken, _ := registerUser(t, s, "alice")
	bobToken, bob := registerUser(t, s, "bob")

	post := createPost(t, s, aliceToken, "parent post")
	replyPath := "/api/posts/" + strconv.Itoa(int(post.ID)) + "/reply"

	t.Run("replies to an existing post", func(t *testing.T) {
		var reply models.Reply
		resp := doJSON(t, s, http.MethodPost, replyPath, bobToken, CreateReplyInput{
			Content: "  nice post  ",
		}, &reply)

		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, post.ID, reply.PostID)
		assert.Equal(t, bob.ID, reply.UserID)
		assert.Equal(t, "nice post", reply.Content)
		assert.Equal(t, "bob", reply.Username)
	})

	t.Run("replies appear on the post, oldest first", func(t *testing.T) {
		resp := doJSON(t, s, http.MethodPost, replyPath, aliceToken, CreateReplyInput{
			Content: "thanks",
		}, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var detail struct {
			models.Post
			Replies []*models.Reply `json:"replies"`
		}
		resp = doJSON(t, s, http.MethodGet, "/api/posts/"+strconv.Itoa(int(post.ID)), "", nil, &detail)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		require.Len(t, detail.Replies, 2)
		assert.Equal(t, "nice post", detail.Replies[0].Content)
		assert.Equal(t, "thanks", detail.Replies[1].Content)
		assert.Equal(t, 2, detail.RepliesCount)
	})

	t.Run("replying to a missing post is 404", func(t *testing.T) {
		resp := doJSON(t, s, http.MethodPost, "/api/posts/9999/reply", bobToken, CreateReplyInput{
			Content: "hello?",
		}, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", errCode(t, resp))
	})

	t.Run("rejects empty and oversized content", func(t *testing.T) {
		for _, content := range []string{"   ", strings.Repeat("x", models.MaxContentLength+1)} {
			resp := doJSON(t, s, http.MethodPost, replyPath, bobToken, CreateReplyInput{Content: content}, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "VALIDATION_ERROR", errCode(t, resp))
		}
	})

	t.Run("requires auth", func(t *testing.T) {
		resp := doJSON(t, s, http.MethodPost, replyPath, "", CreateReplyInput{Content: "hi"}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
