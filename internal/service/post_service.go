package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"microblog/internal/models"
	"microblog/internal/repository"
)

// FeedLimit is the fixed number of posts returned by the feed.
const FeedLimit = 50

// PostService implements post creation, the feed, and like toggling.
type PostService struct {
	postRepo  repository.PostRepository
	replyRepo repository.ReplyRepository
}

// PostDetail is a post together with its replies in chronological order.
type PostDetail struct {
	models.Post
	Replies []*models.Reply `json:"replies"`
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository, replyRepo repository.ReplyRepository) *PostService {
	return &PostService{postRepo: postRepo, replyRepo: replyRepo}
}

// validateContent enforces the shared content rules for posts and replies:
// non-empty after trimming and at most MaxContentLength runes. It returns the
// trimmed content, which is what gets stored.
func validateContent(content, kind string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", models.NewValidationError(fmt.Sprintf("%s content cannot be empty", kind))
	}
	if utf8.RuneCountInString(trimmed) > models.MaxContentLength {
		return "", models.NewValidationError(
			fmt.Sprintf("%s must be %d characters or less", kind, models.MaxContentLength))
	}
	return trimmed, nil
}

// CreatePost validates and stores a new post, returning it with the author
// username and zeroed counts.
func (s *PostService) CreatePost(ctx context.Context, userID uint, content string) (*models.Post, error) {
	trimmed, err := validateContent(content, "Post")
	if err != nil {
		return nil, err
	}

	post := &models.Post{UserID: userID, Content: trimmed}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return normalizePost(created), nil
}

// Feed returns the newest posts, newest first, capped at FeedLimit.
func (s *PostService) Feed(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.postRepo.ListFeed(ctx, FeedLimit)
	if err != nil {
		return nil, err
	}
	return normalizePosts(posts), nil
}

// GetPost returns the post with its replies in chronological reading order.
func (s *PostService) GetPost(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	replies, err := s.replyRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if replies == nil {
		replies = []*models.Reply{}
	}

	return &PostDetail{
		Post:    *normalizePost(post),
		Replies: normalizeReplies(replies),
	}, nil
}

// LikePost records a like. A missing post is reported as not found and a
// duplicate like as a conflict; the two causes are never conflated.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}
	return s.postRepo.Like(ctx, userID, postID)
}

// UnlikePost removes a like if one exists. Unliking an unliked post succeeds.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) error {
	return s.postRepo.Unlike(ctx, userID, postID)
}
