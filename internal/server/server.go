package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	_ "microblog/docs"
	"microblog/internal/cache"
	"microblog/internal/config"
	"microblog/internal/database"
	"microblog/internal/middleware"
	"microblog/internal/repository"
	"microblog/internal/service"
)

// Server wires the HTTP layer to the service and repository layers.
type Server struct {
	config *config.Config
	app    *fiber.App
	db     *gorm.DB
	redis  *redis.Client
	prom   *fiberprometheus.FiberPrometheus

	users   repository.UserRepository
	posts   repository.PostRepository
	replies repository.ReplyRepository

	userService  *service.UserService
	postService  *service.PostService
	replyService *service.ReplyService
}

// NewServer builds a production server from config: opens the database,
// connects to Redis (best effort), and wires every layer.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps builds a server from pre-constructed dependencies.
// Tests use this to inject an in-memory database and a nil Redis client.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	replies := repository.NewReplyRepository(db)

	s := &Server{
		config:  cfg,
		db:      db,
		redis:   redisClient,
		users:   users,
		posts:   posts,
		replies: replies,

		userService:  service.NewUserService(users, posts),
		postService:  service.NewPostService(posts, replies),
		replyService: service.NewReplyService(replies, posts),
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "microblog",
		ErrorHandler: s.errorHandler,
	})
	s.prom = middleware.InitMetrics("microblog")

	s.SetupMiddleware()
	s.SetupRoutes()
	return s
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) SetupMiddleware() {
	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(middleware.ContextMiddleware())
	s.app.Use(middleware.MetricsMiddleware(s.prom))
	s.app.Use(helmet.New())
	s.app.Use(middleware.TracingMiddleware())
	s.app.Use(middleware.StructuredLogger())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	s.app.Use(middleware.RateLimit(s.redis, 300, time.Minute))
}

func (s *Server) SetupRoutes() {
	api := s.app.Group("/api")

	// Auth limits fail open: the API runs without Redis, and signup/login
	// must keep answering when it is absent.
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, 10, time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, 20, time.Minute, "login"), s.Login)

	posts := api.Group("/posts")
	// Static segment first so the feed is not captured by :id.
	posts.Get("/feed", s.GetFeed)
	posts.Get("/:id", s.GetPost)
	// Limiter runs after auth so it keys by user ID rather than IP.
	posts.Post("/", s.AuthRequired, middleware.RateLimit(s.redis, 30, time.Minute, "create_post"), s.CreatePost)
	posts.Post("/:id/like", s.AuthRequired, s.LikePost)
	posts.Delete("/:id/like", s.AuthRequired, s.UnlikePost)
	posts.Post("/:id/reply", s.AuthRequired, s.CreateReply)

	users := api.Group("/users")
	users.Get("/:id", s.GetProfile)
	users.Put("/:id", s.AuthRequired, s.UpdateProfile)

	api.Get("/health", s.HealthCheck)
	api.Get("/swagger/*", swagger.HandlerDefault)

	s.prom.RegisterAt(s.app, "/metrics")
	s.app.Get("/health/live", s.LivenessCheck)
	s.app.Get("/health/ready", s.ReadinessCheck)
	s.app.Get("/monitor", monitor.New(monitor.Config{Title: "microblog metrics"}))
}

// HealthCheck godoc
//
//	@Summary		Health check
//	@Description	Reports whether the API is up.
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/api/health [get]
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// ReadinessCheck verifies backing stores. Redis is optional, so a missing
// client degrades the response rather than failing it.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	checks := fiber.Map{}
	healthy := true

	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
		checks["database"] = "unreachable"
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if s.redis == nil {
		checks["redis"] = "disabled"
	} else if err := s.redis.Ping(c.UserContext()).Err(); err != nil {
		checks["redis"] = "unreachable"
	} else {
		checks["redis"] = "ok"
	}

	status := fiber.StatusOK
	state := "ready"
	if !healthy {
		status = fiber.StatusServiceUnavailable
		state = "not ready"
	}
	return c.Status(status).JSON(fiber.Map{"status": state, "checks": checks})
}

// errorHandler catches errors that escape handlers, including fiber's own
// routing errors, and shapes them like every other error response.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.Any("error", err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
		"code":  "INTERNAL_ERROR",
	})
}

// Start runs the HTTP listener until Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	middleware.Logger.Info("starting server", slog.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and closes backing connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Warn("closing redis", slog.Any("error", err))
		}
	}
	sqlDB, err := s.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
	}
	return nil
}
