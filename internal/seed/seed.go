// Package seed populates a development database with fake data.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"microblog/internal/middleware"
	"microblog/internal/models"
	"microblog/internal/repository"
)

// Options controls how much data Run generates.
type Options struct {
	Users           int
	PostsPerUser    int
	MaxReplies      int
	LikeProbability float64
}

// DefaultOptions seeds a modest amount of browsable data.
func DefaultOptions() Options {
	return Options{
		Users:           10,
		PostsPerUser:    5,
		MaxReplies:      3,
		LikeProbability: 0.3,
	}
}

// Run fills the database with fake users, posts, replies, and likes. Every
// seeded account gets the password "password123".
func Run(ctx context.Context, db *gorm.DB, opts Options) error {
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	replies := repository.NewReplyRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	seeded := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		username := strings.ToLower(gofakeit.Username())
		if len(username) < 3 {
			username += gofakeit.DigitN(3)
		}
		user := &models.User{
			Username: fmt.Sprintf("%s%d", username, i),
			Email:    gofakeit.Email(),
			Password: string(hash),
			Bio:      gofakeit.Sentence(8),
		}
		if err := users.Create(ctx, user); err != nil {
			return fmt.Errorf("seeding user %q: %w", user.Username, err)
		}
		seeded = append(seeded, user)
	}

	var allPosts []*models.Post
	for _, user := range seeded {
		for i := 0; i < opts.PostsPerUser; i++ {
			post := &models.Post{
				UserID:  user.ID,
				Content: truncate(gofakeit.HipsterSentence(rand.Intn(20)+3), models.MaxContentLength),
			}
			if err := posts.Create(ctx, post); err != nil {
				return fmt.Errorf("seeding post for %q: %w", user.Username, err)
			}
			allPosts = append(allPosts, post)
		}
	}

	for _, post := range allPosts {
		for i := 0; i < rand.Intn(opts.MaxReplies+1); i++ {
			author := seeded[rand.Intn(len(seeded))]
			reply := &models.Reply{
				PostID:  post.ID,
				UserID:  author.ID,
				Content: truncate(gofakeit.Sentence(rand.Intn(10)+2), models.MaxContentLength),
			}
			if err := replies.Create(ctx, reply); err != nil {
				return fmt.Errorf("seeding reply: %w", err)
			}
		}

		for _, user := range seeded {
			if rand.Float64() >= opts.LikeProbability {
				continue
			}
			if err := posts.Like(ctx, user.ID, post.ID); err != nil {
				return fmt.Errorf("seeding like: %w", err)
			}
		}
	}

	middleware.Logger.Info("database seeded",
		slog.Int("users", len(seeded)), slog.Int("posts", len(allPosts)))
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
