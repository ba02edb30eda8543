package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"reviewhub/internal/models"
	"reviewhub/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// confirmationCodeLength is the length of the one-time code mailed to the
// account address.
const confirmationCodeLength = 32

// RequestConfirmationCode handles POST /api/v1/auth/email.
// It creates or reuses the account keyed by email, issues a fresh
// one-time code, and mails it. A mail-transport failure aborts the
// request; the previous code stays valid in that case.
func (s *Server) RequestConfirmationCode(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		user = &models.User{
			Email:    req.Email,
			Username: req.Email,
			Role:     models.RoleUser,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	code, err := generateConfirmationCode()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	// Dispatch before persisting: if mail fails the request fails and the
	// stored credential is left untouched.
	if err := s.mailer.Send(ctx, user.Email, "Your ReviewHub confirmation code", code); err != nil {
		return models.RespondWithError(c, fiber.StatusBadGateway, models.NewMailError(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	now := time.Now()
	user.ConfirmationCode = string(hash)
	user.CodeIssuedAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{"email": user.Email})
}

// ExchangeCodeForToken handles POST /api/v1/auth/token.
// A non-matching (email, code) pair is a 404, matching the lookup-by-pair
// contract; a matching pair yields access and refresh tokens and
// invalidates the code.
func (s *Server) ExchangeCodeForToken(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Email            string `json:"email"`
		ConfirmationCode string `json:"confirmation_code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" || req.ConfirmationCode == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("email and confirmation_code are required"))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil || !s.codeMatches(user, req.ConfirmationCode) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", req.Email))
	}

	token, err := s.generateToken(user.ID, "access", accessTokenTTL)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	refresh, err := s.generateToken(user.ID, "refresh", refreshTokenTTL)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	// Codes are single-use: clear after a successful exchange.
	user.ConfirmationCode = ""
	user.CodeIssuedAt = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"token":   token,
		"refresh": refresh,
	})
}

// codeMatches verifies the presented code against the stored hash and the
// configured TTL.
func (s *Server) codeMatches(user *models.User, code string) bool {
	if user.ConfirmationCode == "" || user.CodeIssuedAt == nil {
		return false
	}
	ttl := time.Duration(s.config.CodeTTLHours) * time.Hour
	if time.Since(*user.CodeIssuedAt) > ttl {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.ConfirmationCode), []byte(code)) == nil
}

// generateToken creates a signed JWT of the given type for the user.
func (s *Server) generateToken(userID uint, typ string, ttl time.Duration) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"typ": typ,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

// generateConfirmationCode returns a random opaque code of
// confirmationCodeLength hex characters.
func generateConfirmationCode() (string, error) {
	b := make([]byte, confirmationCodeLength/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
