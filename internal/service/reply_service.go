package service

import (
	"context"

	"microblog/internal/models"
	"microblog/internal/repository"
)

// ReplyService implements reply creation and listing.
type ReplyService struct {
	replyRepo repository.ReplyRepository
	postRepo  repository.PostRepository
}

// NewReplyService creates a new reply service.
func NewReplyService(replyRepo repository.ReplyRepository, postRepo repository.PostRepository) *ReplyService {
	return &ReplyService{replyRepo: replyRepo, postRepo: postRepo}
}

// CreateReply validates and stores a reply to an existing post. Replying to a
// missing post fails with not found before any row is written.
func (s *ReplyService) CreateReply(ctx context.Context, userID, postID uint, content string) (*models.Reply, error) {
	trimmed, err := validateContent(content, "Reply")
	if err != nil {
		return nil, err
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	reply := &models.Reply{PostID: postID, UserID: userID, Content: trimmed}
	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}

	created, err := s.replyRepo.GetByID(ctx, reply.ID)
	if err != nil {
		return nil, err
	}
	return normalizeReply(created), nil
}
