package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"microblog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %v", err)
	return appErr.Code
}

func TestPostService_CreatePostValidation(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t)
	user := env.createUser(t, "alice")

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"Valid", "hello world", false},
		{"Empty", "", true},
		{"Whitespace Only", "   \n\t  ", true},
		{"Exactly Max Length", strings.Repeat("a", 280), false},
		{"Too Long", strings.Repeat("a", 281), true},
		{"Max Length Multibyte", strings.Repeat("é", 280), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := env.posts.CreatePost(testCtx(), user.ID, tt.content)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", post.Username)
			assert.Zero(t, post.LikesCount)
			assert.Zero(t, post.RepliesCount)
		})
	}
}

func TestPostService_CreatePostTrimsContent(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t)
	user := env.createUser(t, "alice")

	post, err := env.posts.CreatePost(testCtx(), user.ID, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Content)
}

func TestPostService_FeedOrderAndTimestamps(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t)
	user := env.createUser(t, "alice")

	for _, content := range []string{"one", "two", "three"} {
		_, err := env.posts.CreatePost(testCtx(), user.ID, content)
		require.NoError(t, err)
	}

	feed, err := env.posts.Feed(testCtx())
	require.NoError(t, err)
	require.Len(t, feed, 3)

	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i].CreatedAt.After(feed[i-1].CreatedAt))
	}
	for _, post := range feed {
		assert.Equal(t, time.UTC, post.CreatedAt.Location(),
			"timestamps must be normalized to UTC")
	}
}

func TestPostService_GetPostWithReplies(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	post, err := env.posts.CreatePost(testCtx(), alice.ID, "root post")
	require.NoError(t, err)

	_, err = env.replies.CreateReply(testCtx(), bob.ID, post.ID, "first reply")
	require.NoError(t, err)
	_, err = env.replies.CreateReply(testCtx(), alice.ID, post.ID, "second reply")
	require.NoError(t, err)

	detail, err := env.posts.GetPost(testCtx(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "root post", detail.Content)
	assert.Equal(t, 2, detail.RepliesCount)
	require.Len(t, detail.Replies, 2)
	assert.Equal(t, "first reply", detail.Replies[0].Content)
	assert.Equal(t, "bob", detail.Replies[0].Username)

	_, err = env.posts.GetPost(testCtx(), 9999)
	assert.Equal(t, "NOT_FOUND", appErrCode(t, err))
}

func TestPostService_GetPostWithoutRepliesReturnsEmptySlice(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice")

	post, err := env.posts.CreatePost(testCtx(), alice.ID, "lonely post")
	require.NoError(t, err)

	detail, err := env.posts.GetPost(testCtx(), post.ID)
	require.NoError(t, err)
	assert.NotNil(t, detail.Replies)
	assert.Empty(t, detail.Replies)
}

func TestPostService_LikeSemantics(t *testing.T) {
	t.Parallel()
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice")

	post, err := env.posts.CreatePost(testCtx(), alice.ID, "like target")
	require.NoError(t, err)

	// First like succeeds
	require.NoError(t, env.posts.LikePost(testCtx(), alice.ID, post.ID))

	// Second like is a conflict, not a no-op
	err = env.posts.LikePost(testCtx(), alice.ID, post.ID)
	assert.Equal(t, "CONFLICT", appErrCode(t, err))

	// Liking a missing post is not found, distinct from the duplicate case
	err = env.posts.LikePost(testCtx(), alice.ID, 9999)
	assert.Equal(t, "NOT_FOUND", appErrCode(t, err))

	// Unlike succeeds, then succeeds again on the already-unliked post
	require.NoError(t, env.posts.UnlikePost(testCtx(), alice.ID, post.ID))
	require.NoError(t, env.posts.UnlikePost(testCtx(), alice.ID, post.ID))

	detail, err := env.posts.GetPost(testCtx(), post.ID)
	require.NoError(t, err)
	assert.Zero(t, detail.LikesCount)
}
