package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"microblog/internal/middleware"
	"microblog/internal/models"
)

// CreatePostInput is the request body for creating a post.
type CreatePostInput struct {
	Content string `json:"content"`
}

// CreatePost godoc
//
//	@Summary		Create a post
//	@Description	Publishes a new post authored by the authenticated user.
//	@Tags			posts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreatePostInput	true	"Post content"
//	@Success		201		{object}	models.Post
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		401		{object}	models.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var input CreatePostInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), currentUserID(c), input.Content)
	if err != nil {
		return respondError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "post created",
		slog.Uint64("post_id", uint64(post.ID)))

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetFeed godoc
//
//	@Summary		Read the global feed
//	@Description	Returns the newest posts, most recent first.
//	@Tags			posts
//	@Produce		json
//	@Success		200	{array}	models.Post
//	@Router			/api/posts/feed [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	posts, err := s.postService.Feed(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost godoc
//
//	@Summary		Read a single post
//	@Description	Returns a post together with its replies, oldest first.
//	@Tags			posts
//	@Produce		json
//	@Param			id	path		int	true	"Post ID"
//	@Success		200	{object}	service.PostDetail
//	@Failure		404	{object}	models.ErrorResponse
//	@Router			/api/posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	detail, err := s.postService.GetPost(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// LikePost godoc
//
//	@Summary		Like a post
//	@Description	Records a like; liking the same post twice fails.
//	@Tags			posts
//	@Produce		json
//	@Param			id	path		int	true	"Post ID"
//	@Success		201	{object}	map[string]string
//	@Failure		400	{object}	models.ErrorResponse
//	@Failure		404	{object}	models.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/posts/{id}/like [post]
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.postService.LikePost(c.UserContext(), currentUserID(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Post liked"})
}

// UnlikePost godoc
//
//	@Summary		Unlike a post
//	@Description	Removes a like. Removing a like that does not exist succeeds.
//	@Tags			posts
//	@Produce		json
//	@Param			id	path		int	true	"Post ID"
//	@Success		200	{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/api/posts/{id}/like [delete]
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.postService.UnlikePost(c.UserContext(), currentUserID(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post unliked"})
}
