package service

import (
	"context"
	"testing"

	"microblog/internal/models"
	"microblog/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	posts    *PostService
	replies  *ReplyService
	users    *UserService
	postRepo repository.PostRepository
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("underlying db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Reply{}, &models.Like{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	postRepo := repository.NewPostRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	userRepo := repository.NewUserRepository(db)

	return &testEnv{
		db:       db,
		posts:    NewPostService(postRepo, replyRepo),
		replies:  NewReplyService(replyRepo, postRepo),
		users:    NewUserService(userRepo, postRepo),
		postRepo: postRepo,
	}
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-pw",
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func testCtx() context.Context {
	return context.Background()
}
