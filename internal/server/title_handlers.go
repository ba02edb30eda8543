package server

import (
	"fmt"
	"time"

	"reviewhub/internal/cache"
	"reviewhub/internal/models"
	"reviewhub/internal/policy"
	"reviewhub/internal/repository"
	"reviewhub/internal/serializer"
	"reviewhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const titleCacheTTL = 5 * time.Minute

func titleCacheKey(id uint) string {
	return fmt.Sprintf("title:%d", id)
}

// invalidateTitles drops the cached copies of the given titles. Used
// when a catalog change touches titles as a side effect.
func (s *Server) invalidateTitles(c *fiber.Ctx, ids []uint) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = titleCacheKey(id)
	}
	cache.Invalidate(c.Context(), s.redis, keys...)
}

// catalogResolver bundles the repositories the serialization layer needs
// to resolve genre and category slugs.
func (s *Server) catalogResolver() repository.CatalogResolver {
	return repository.CatalogResolver{Genres: s.genreRepo, Categories: s.categoryRepo}
}

// ListTitles handles GET /api/v1/titles with query filters category,
// genre, name, and year combined conjunctively.
func (s *Server) ListTitles(c *fiber.Ctx) error {
	filter := repository.TitleFilter{
		CategorySlug: c.Query("category"),
		GenreSlug:    c.Query("genre"),
		Name:         c.Query("name"),
	}
	if y := c.QueryInt("year", 0); y != 0 {
		filter.Year = &y
	}

	p := s.parsePage(c)
	titles, count, err := s.titleRepo.List(c.Context(), filter, p.limit(), p.offset())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return paginated(c, count, p, serializer.Titles(titles))
}

// CreateTitle handles POST /api/v1/titles (admin only).
func (s *Server) CreateTitle(c *fiber.Ctx) error {
	ctx := c.Context()
	if !policy.IsAdminOrReadOnly(s.currentUser(c), policy.OpWrite) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin role required"))
	}

	var in serializer.TitleInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if in.Name == nil || *in.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("name is required"))
	}

	title := &models.Title{}
	if err := in.Apply(ctx, title, s.catalogResolver()); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	if title.Year != nil {
		if err := validation.ValidateYear(*title.Year, s.config.MinTitleYear); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
	}

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	created, err := s.titleRepo.GetByID(ctx, title.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(serializer.Title(created))
}

// GetTitle handles GET /api/v1/titles/:titleId with a short cache-aside.
func (s *Server) GetTitle(c *fiber.Ctx) error {
	ctx := c.Context()
	id, ok := parseUintParam(c, "titleId")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid title ID"))
	}

	var resp serializer.TitleResponse
	err := cache.Aside(ctx, s.redis, titleCacheKey(id), &resp, titleCacheTTL, func() error {
		title, err := s.titleRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		resp = serializer.Title(title)
		return nil
	})
	if err != nil {
		return respondRepoError(c, err)
	}
	return c.JSON(resp)
}

// UpdateTitle handles PATCH /api/v1/titles/:titleId (admin only).
func (s *Server) UpdateTitle(c *fiber.Ctx) error {
	ctx := c.Context()
	if !policy.IsAdminOrReadOnly(s.currentUser(c), policy.OpWrite) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin role required"))
	}

	id, ok := parseUintParam(c, "titleId")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid title ID"))
	}

	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return respondRepoError(c, err)
	}

	var in serializer.TitleInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := in.Apply(ctx, title, s.catalogResolver()); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	if title.Year != nil {
		if err := validation.ValidateYear(*title.Year, s.config.MinTitleYear); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
	}

	if err := s.titleRepo.Update(ctx, title); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	cache.Invalidate(ctx, s.redis, titleCacheKey(id))

	updated, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(serializer.Title(updated))
}

// DeleteTitle handles DELETE /api/v1/titles/:titleId (admin only).
// Reviews and their comments cascade.
func (s *Server) DeleteTitle(c *fiber.Ctx) error {
	ctx := c.Context()
	if !policy.IsAdminOrReadOnly(s.currentUser(c), policy.OpWrite) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin role required"))
	}

	id, ok := parseUintParam(c, "titleId")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid title ID"))
	}

	if _, err := s.titleRepo.GetByID(ctx, id); err != nil {
		return respondRepoError(c, err)
	}
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	cache.Invalidate(ctx, s.redis, titleCacheKey(id))
	return c.SendStatus(fiber.StatusNoContent)
}
