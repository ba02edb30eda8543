// Package server contains the HTTP handlers for the API endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"reviewhub/internal/cache"
	"reviewhub/internal/config"
	"reviewhub/internal/database"
	"reviewhub/internal/mailer"
	"reviewhub/internal/middleware"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "reviewhub-api"
	tokenAudience = "reviewhub-client"

	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// Server holds all dependencies and provides handlers
type Server struct {
	config       *config.Config
	db           *gorm.DB
	redis        *redis.Client
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	titleRepo    repository.TitleRepository
	reviewRepo   repository.ReviewRepository
	commentRepo  repository.CommentRepository
	mailer       mailer.Mailer
}

// New wires a Server from explicit dependencies. Tests and alternative
// entrypoints inject their own store, cache, and mailer here.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, m mailer.Mailer) *Server {
	return &Server{
		config:       cfg,
		db:           db,
		redis:        rdb,
		userRepo:     repository.NewUserRepository(db),
		categoryRepo: repository.NewCategoryRepository(db),
		genreRepo:    repository.NewGenreRepository(db),
		titleRepo:    repository.NewTitleRepository(db),
		reviewRepo:   repository.NewReviewRepository(db),
		commentRepo:  repository.NewCommentRepository(db),
		mailer:       m,
	}
}

// NewServer creates a server instance with production infrastructure:
// Postgres, Redis, and the configured mail transport.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb := cache.Connect(cfg.RedisURL)

	var m mailer.Mailer
	if cfg.SMTPHost != "" {
		m = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	} else {
		m = &mailer.LogMailer{Logger: slog.Default()}
	}

	return New(cfg, db, rdb, m), nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Request ID for tracing
	app.Use(requestid.New())

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// Health check
	api.Get("/", s.HealthCheck)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/email", middleware.RateLimit(s.redis, 5, 10*time.Minute, "auth_email"), s.RequestConfirmationCode)
	auth.Post("/token", middleware.RateLimit(s.redis, 10, 5*time.Minute, "auth_token"), s.ExchangeCodeForToken)

	// User management. /me must be registered before /:username.
	users := api.Group("/users", s.AuthRequired())
	users.Get("/me", s.GetMyProfile)
	users.Patch("/me", s.UpdateMyProfile)
	users.Get("/", s.ListUsers)
	users.Post("/", s.CreateUser)
	users.Get("/:username", s.GetUser)
	users.Patch("/:username", s.UpdateUser)
	users.Delete("/:username", s.DeleteUser)

	// Catalog: reads are public, writes are gated per handler.
	categories := api.Group("/categories")
	categories.Get("/", s.ListCategories)
	categories.Post("/", s.AuthRequired(), s.CreateCategory)
	categories.Delete("/:slug", s.AuthRequired(), s.DeleteCategory)

	genres := api.Group("/genres")
	genres.Get("/", s.ListGenres)
	genres.Post("/", s.AuthRequired(), s.CreateGenre)
	genres.Delete("/:slug", s.AuthRequired(), s.DeleteGenre)

	titles := api.Group("/titles")
	titles.Get("/", s.ListTitles)
	titles.Post("/", s.AuthRequired(), s.CreateTitle)
	titles.Get("/:titleId", s.GetTitle)
	titles.Patch("/:titleId", s.AuthRequired(), s.UpdateTitle)
	titles.Delete("/:titleId", s.AuthRequired(), s.DeleteTitle)

	// Reviews nested under their parent title.
	reviews := api.Group("/titles/:titleId/reviews")
	reviews.Get("/", s.ListReviews)
	reviews.Post("/", s.AuthRequired(), s.CreateReview)
	reviews.Get("/:reviewId", s.GetReview)
	reviews.Patch("/:reviewId", s.AuthRequired(), s.UpdateReview)
	reviews.Delete("/:reviewId", s.AuthRequired(), s.DeleteReview)

	// Comments nested under their parent review.
	comments := api.Group("/titles/:titleId/reviews/:reviewId/comments")
	comments.Get("/", s.ListComments)
	comments.Post("/", s.AuthRequired(), s.CreateComment)
	comments.Get("/:commentId", s.GetComment)
	comments.Patch("/:commentId", s.AuthRequired(), s.UpdateComment)
	comments.Delete("/:commentId", s.AuthRequired(), s.DeleteComment)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": "ok",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. It validates the
// bearer token and loads the requesting user into the request context.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, err := s.parseAccessToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(err.Error()))
		}

		user, err := s.userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unknown account"))
		}

		c.Locals("userID", user.ID)
		c.Locals("user", user)
		return c.Next()
	}
}

// parseAccessToken validates the JWT and returns the subject user ID.
func (s *Server) parseAccessToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return 0, fmt.Errorf("invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return 0, fmt.Errorf("invalid token audience")
	}
	if typ, typOk := claims["typ"].(string); typOk && typ != "access" {
		return 0, fmt.Errorf("not an access token")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, fmt.Errorf("invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID in token")
	}
	return uint(userID), nil
}

// currentUser returns the authenticated user loaded by AuthRequired, or
// nil for anonymous requests.
func (s *Server) currentUser(c *fiber.Ctx) *models.User {
	if u, ok := c.Locals("user").(*models.User); ok {
		return u
	}
	return nil
}

// NewApp builds the Fiber application with middleware and routes wired.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "ReviewHub API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Shutdown gracefully releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			slog.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			slog.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	slog.Info("server shutdown complete")
	return nil
}
