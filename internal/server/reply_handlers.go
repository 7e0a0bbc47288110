package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"microblog/internal/middleware"
	"microblog/internal/models"
)

// CreateReplyInput is the request body for replying to a post.
type CreateReplyInput struct {
	Content string `json:"content"`
}

// CreateReply godoc
//
//	@Summary		Reply to a post
//	@Description	Adds a reply to an existing post.
//	@Tags			replies
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"Post ID"
//	@Param			request	body		CreateReplyInput	true	"Reply content"
//	@Success		201		{object}	models.Reply
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		404		{object}	models.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/posts/{id}/reply [post]
func (s *Server) CreateReply(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var input CreateReplyInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	reply, err := s.replyService.CreateReply(c.UserContext(), currentUserID(c), postID, input.Content)
	if err != nil {
		return respondError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "reply created",
		slog.Uint64("reply_id", uint64(reply.ID)), slog.Uint64("post_id", uint64(postID)))

	return c.Status(fiber.StatusCreated).JSON(reply)
}
