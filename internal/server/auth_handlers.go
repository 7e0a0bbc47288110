package server

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"microblog/internal/middleware"
	"microblog/internal/models"
	"microblog/internal/validation"
)

const (
	tokenIssuer   = "microblog-api"
	tokenAudience = "microblog-client"
	tokenLifetime = 7 * 24 * time.Hour
)

// RegisterInput is the request body for user registration.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio"`
}

// LoginInput is the request body for user login.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned on successful registration or login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register godoc
//
//	@Summary		Register a new user
//	@Description	Creates an account and returns a signed token for it.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterInput	true	"Registration details"
//	@Success		201		{object}	AuthResponse
//	@Failure		400		{object}	models.ErrorResponse
//	@Router			/api/auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if err := validation.ValidateUsername(input.Username); err != nil {
		return respondError(c, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(input.Email); err != nil {
		return respondError(c, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return respondError(c, models.NewValidationError(err.Error()))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hash),
		Bio:      strings.TrimSpace(input.Bio),
	}
	if err := s.users.Create(c.UserContext(), user); err != nil {
		return respondError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered",
		slog.Uint64("user_id", uint64(user.ID)), slog.String("username", user.Username))

	user.CreatedAt = user.CreatedAt.UTC()
	return c.Status(fiber.StatusCreated).JSON(AuthResponse{Token: token, User: user})
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Verifies credentials and returns a signed token.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginInput	true	"Credentials"
//	@Success		200		{object}	AuthResponse
//	@Failure		401		{object}	models.ErrorResponse
//	@Router			/api/auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" {
		return respondError(c, models.NewValidationError("Username and password are required"))
	}

	// Unknown username and wrong password produce the same response so the
	// endpoint cannot be used to enumerate accounts.
	user, err := s.users.GetByUsername(c.UserContext(), input.Username)
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		// The detail stays in the log; the response never says which part
		// of the credentials was wrong.
		middleware.Logger.InfoContext(c.UserContext(), "login attempt for unknown username",
			slog.String("username", input.Username))
		return respondError(c, models.NewUnauthorizedError("Invalid username or password"))
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		return respondError(c, models.NewUnauthorizedError("Invalid username or password"))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "user logged in",
		slog.Uint64("user_id", uint64(user.ID)))

	user.CreatedAt = user.CreatedAt.UTC()
	return c.JSON(AuthResponse{Token: token, User: user})
}

func (s *Server) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"exp":      now.Add(tokenLifetime).Unix(),
		"jti":      uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// AuthRequired validates the Authorization bearer token and stores the
// authenticated user's ID in the request locals.
func (s *Server) AuthRequired(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" {
		return respondError(c, models.NewUnauthorizedError("Missing authorization header"))
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return respondError(c, models.NewUnauthorizedError("Invalid authorization header"))
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return respondError(c, models.NewUnauthorizedError("Invalid or expired token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return respondError(c, models.NewUnauthorizedError("Invalid token claims"))
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return respondError(c, models.NewUnauthorizedError("Invalid token claims"))
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return respondError(c, models.NewUnauthorizedError("Invalid token claims"))
	}

	c.Locals("userID", uint(userID))
	if username, ok := claims["username"].(string); ok {
		c.Locals("username", username)
	}

	// ContextMiddleware ran before auth, so the user ID goes into the user
	// context here for the context-aware logger to pick up.
	c.SetUserContext(context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID)))
	return c.Next()
}
