package server

import (
	"context"

	"reviewhub/internal/models"
	"reviewhub/internal/policy"
	"reviewhub/internal/serializer"
	"reviewhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// userInput is the write shape of an account. Pointer fields distinguish
// absent from zero for partial updates.
type userInput struct {
	Username  *string          `json:"username"`
	Email     *string          `json:"email"`
	FirstName *string          `json:"first_name"`
	LastName  *string          `json:"last_name"`
	Bio       *string          `json:"bio"`
	Role      *models.UserRole `json:"role"`
}

// apply writes the provided fields onto u, validating as it goes.
func (in *userInput) apply(u *models.User) error {
	if in.Username != nil {
		if err := validation.ValidateUsername(*in.Username); err != nil {
			return models.NewValidationError(err.Error())
		}
		u.Username = *in.Username
	}
	if in.Email != nil {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			return models.NewValidationError(err.Error())
		}
		u.Email = *in.Email
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Bio != nil {
		u.Bio = *in.Bio
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return models.NewValidationError("unknown role")
		}
		u.Role = *in.Role
	}
	return nil
}

// identityAvailable checks that a requested username or email is not
// already held by a different account. selfID exempts the account being
// written, so setting a field to its current value stays valid.
func (s *Server) identityAvailable(ctx context.Context, in *userInput, selfID uint) error {
	if in.Email != nil {
		existing, err := s.userRepo.GetByEmail(ctx, *in.Email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return models.NewValidationError("email already in use")
		}
	}
	if in.Username != nil {
		existing, err := s.userRepo.GetByUsername(ctx, *in.Username)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return models.NewValidationError("username already in use")
		}
	}
	return nil
}

// ListUsers handles GET /api/v1/users (admin only).
func (s *Server) ListUsers(c *fiber.Ctx) error {
	if !policy.IsAdminRole(s.currentUser(c), policy.OpRead) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin role required"))
	}

	p := s.parsePage(c)
	users, count, err := s.userRepo.List(c.Context(), p.limit(), p.offset())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return paginated(c, count, p, serializer.Users(users))
}

// CreateUser handles POST /api/v1/users (admin only).
func (s *Server) CreateUser(c *fiber.Ctx) error {
	ctx := c.Context()
	if !policy.IsAdminRole(s.currentUser(c), policy.OpWrite) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin role required"))
	}

	var in userInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if in.Email == nil || in.Username == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("username and email are required"))
	}

	user := &models.User{Role: models.RoleUser}
	if err := in.apply(user); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if err := s.identityAvailable(ctx, &in, 0); err != nil {
		return respondInputError(c, err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(serializer.User(user))
}

// GetUser handles GET /api/v1/users/:username (admin only).
func (s *Server) GetUser(c *fiber.Ctx) error {
	if !policy.IsAdminRole(s.currentUser(c), policy.OpRead) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin role required"))
	}

	username := c.Params("username")
	user, err := s.userRepo.GetByUsername(c.Context(), username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", username))
	}
	return c.JSON(serializer.User(user))
}

// UpdateUser handles PATCH /api/v1/users/:username (admin only).
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	ctx := c.Context()
	if !policy.IsAdminRole(s.currentUser(c), policy.OpWrite) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin role required"))
	}

	username := c.Params("username")
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", username))
	}

	var in userInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := in.apply(user); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	if err := s.identityAvailable(ctx, &in, user.ID); err != nil {
		return respondInputError(c, err)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(serializer.User(user))
}

// DeleteUser handles DELETE /api/v1/users/:username (admin only).
// The account's reviews and comments go with it.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	ctx := c.Context()
	if !policy.IsAdminRole(s.currentUser(c), policy.OpWrite) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin role required"))
	}

	username := c.Params("username")
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", username))
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetMyProfile handles GET /api/v1/users/me.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	return c.JSON(serializer.User(s.currentUser(c)))
}

// UpdateMyProfile handles PATCH /api/v1/users/me. The role field is
// ignored here: accounts cannot promote themselves.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	user := s.currentUser(c)

	var in userInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	in.Role = nil

	if err := in.apply(user); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	if err := s.identityAvailable(ctx, &in, user.ID); err != nil {
		return respondInputError(c, err)
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(serializer.User(user))
}
