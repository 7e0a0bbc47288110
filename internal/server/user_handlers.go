package server

import (
	"github.com/gofiber/fiber/v2"

	"microblog/internal/models"
)

// UpdateProfileInput is the request body for profile updates.
type UpdateProfileInput struct {
	Bio string `json:"bio"`
}

// GetProfile godoc
//
//	@Summary		Read a public profile
//	@Description	Returns a user's public fields and their posts, newest first.
//	@Tags			users
//	@Produce		json
//	@Param			id	path		int	true	"User ID"
//	@Success		200	{object}	service.Profile
//	@Failure		404	{object}	models.ErrorResponse
//	@Router			/api/users/{id} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	userID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	profile, err := s.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// UpdateProfile godoc
//
//	@Summary		Update own profile
//	@Description	Updates the bio. Users can only modify their own profile.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"User ID"
//	@Param			request	body		UpdateProfileInput	true	"Profile fields"
//	@Success		200		{object}	models.User
//	@Failure		403		{object}	models.ErrorResponse
//	@Security		BearerAuth
//	@Router			/api/users/{id} [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var input UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateBio(c.UserContext(), currentUserID(c), userID, input.Bio)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
