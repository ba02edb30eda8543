package server

import (
	"reviewhub/internal/models"
	"reviewhub/internal/policy"
	"reviewhub/internal/serializer"
	"reviewhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// slugInput is the write shape shared by categories and genres.
type slugInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (in *slugInput) validate() error {
	if in.Name == "" {
		return models.NewValidationError("name is required")
	}
	if err := validation.ValidateSlug(in.Slug); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

// ListCategories handles GET /api/v1/categories with ?search= over name
// and slug.
func (s *Server) ListCategories(c *fiber.Ctx) error {
	p := s.parsePage(c)
	categories, count, err := s.categoryRepo.List(c.Context(), c.Query("search"), p.limit(), p.offset())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return paginated(c, count, p, serializer.Categories(categories))
}

// CreateCategory handles POST /api/v1/categories (admin only).
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	ctx := c.Context()
	if !policy.IsAdminOrReadOnly(s.currentUser(c), policy.OpWrite) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin role required"))
	}

	var in slugInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := in.validate(); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if existing, err := s.categoryRepo.GetBySlug(ctx, in.Slug); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	} else if existing != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("slug already in use"))
	}

	category := &models.Category{Name: in.Name, Slug: in.Slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(serializer.CategoryRef(category))
}

// DeleteCategory handles DELETE /api/v1/categories/:slug (admin only).
// Titles referencing the category keep existing with a null category.
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	if !policy.IsAdminOrReadOnly(s.currentUser(c), policy.OpWrite) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin role required"))
	}

	detached, err := s.categoryRepo.DeleteBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return respondRepoError(c, err)
	}
	s.invalidateTitles(c, detached)
	return c.SendStatus(fiber.StatusNoContent)
}

// ListGenres handles GET /api/v1/genres with ?search= over name and slug.
func (s *Server) ListGenres(c *fiber.Ctx) error {
	p := s.parsePage(c)
	genres, count, err := s.genreRepo.List(c.Context(), c.Query("search"), p.limit(), p.offset())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return paginated(c, count, p, serializer.Genres(genres))
}

// CreateGenre handles POST /api/v1/genres (admin only).
func (s *Server) CreateGenre(c *fiber.Ctx) error {
	ctx := c.Context()
	if !policy.IsAdminOrReadOnly(s.currentUser(c), policy.OpWrite) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin role required"))
	}

	var in slugInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := in.validate(); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	if existing, err := s.genreRepo.GetBySlug(ctx, in.Slug); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	} else if existing != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("slug already in use"))
	}

	genre := &models.Genre{Name: in.Name, Slug: in.Slug}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(serializer.SlugRef{Name: genre.Name, Slug: genre.Slug})
}

// DeleteGenre handles DELETE /api/v1/genres/:slug (admin only).
func (s *Server) DeleteGenre(c *fiber.Ctx) error {
	if !policy.IsAdminOrReadOnly(s.currentUser(c), policy.OpWrite) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin role required"))
	}

	detached, err := s.genreRepo.DeleteBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return respondRepoError(c, err)
	}
	s.invalidateTitles(c, detached)
	return c.SendStatus(fiber.StatusNoContent)
}
