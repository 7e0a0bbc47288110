package service

import (
	"context"
	"strings"

	"microblog/internal/models"
	"microblog/internal/repository"
)

// UserService implements profile reads and bio updates.
type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

// Profile is a user's public view together with their posts, newest first.
type Profile struct {
	User  *models.User   `json:"user"`
	Posts []*models.Post `json:"posts"`
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo}
}

// GetProfile returns the public fields of a user and their posts.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.userRepo.GetPublicByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return &Profile{
		User:  normalizeUser(user),
		Posts: normalizePosts(posts),
	}, nil
}

// UpdateBio replaces a user's bio. Only the owning user may edit it; an empty
// bio is stored as the empty string rather than rejected.
func (s *UserService) UpdateBio(ctx context.Context, principalID, targetID uint, bio string) (*models.User, error) {
	if principalID != targetID {
		return nil, models.NewForbiddenError("You can only edit your own profile")
	}

	const maxBioLen = 500
	bio = strings.TrimSpace(bio)
	if len(bio) > maxBioLen {
		return nil, models.NewValidationError("Bio too long (max 500 characters)")
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.Bio = bio
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return normalizeUser(user), nil
}
