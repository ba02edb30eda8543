package server

import (
	"reviewhub/internal/cache"
	"reviewhub/internal/models"
	"reviewhub/internal/policy"
	"reviewhub/internal/serializer"
	"reviewhub/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// reviewInput is the write shape of a review. Title and author are never
// accepted from the client; they come from the path and the token.
type reviewInput struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// requireTitle resolves the parent title from the path, writing a 400/404
// response itself when the parent is missing.
func (s *Server) requireTitle(c *fiber.Ctx) (*models.Title, bool) {
	id, ok := parseUintParam(c, "titleId")
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid title ID"))
		return nil, false
	}
	title, err := s.titleRepo.GetByID(c.Context(), id)
	if err != nil {
		_ = respondRepoError(c, err)
		return nil, false
	}
	return title, true
}

// ListReviews handles GET /api/v1/titles/:titleId/reviews, ordered by
// publication time ascending.
func (s *Server) ListReviews(c *fiber.Ctx) error {
	title, ok := s.requireTitle(c)
	if !ok {
		return nil
	}

	p := s.parsePage(c)
	reviews, count, err := s.reviewRepo.ListByTitle(c.Context(), title.ID, p.limit(), p.offset())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return paginated(c, count, p, serializer.Reviews(reviews))
}

// CreateReview handles POST /api/v1/titles/:titleId/reviews.
// One review per (title, author): a duplicate is rejected with 400 before
// the database unique index would fire.
func (s *Server) CreateReview(c *fiber.Ctx) error {
	ctx := c.Context()
	user := s.currentUser(c)

	title, ok := s.requireTitle(c)
	if !ok {
		return nil
	}

	var in reviewInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if in.Text == nil || *in.Text == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("text is required"))
	}
	if in.Score == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("score is required"))
	}
	if err := validation.ValidateScore(*in.Score); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	exists, err := s.reviewRepo.ExistsForTitleAndAuthor(ctx, title.ID, user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if exists {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("you have already reviewed this title"))
	}

	review := &models.Review{
		Text:     *in.Text,
		Score:    *in.Score,
		TitleID:  title.ID,
		AuthorID: user.ID,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	cache.Invalidate(ctx, s.redis, titleCacheKey(title.ID))

	created, err := s.reviewRepo.GetByID(ctx, title.ID, review.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(serializer.Review(created))
}

// GetReview handles GET /api/v1/titles/:titleId/reviews/:reviewId.
func (s *Server) GetReview(c *fiber.Ctx) error {
	title, ok := s.requireTitle(c)
	if !ok {
		return nil
	}
	reviewID, ok := parseUintParam(c, "reviewId")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid review ID"))
	}

	review, err := s.reviewRepo.GetByID(c.Context(), title.ID, reviewID)
	if err != nil {
		return respondRepoError(c, err)
	}
	return c.JSON(serializer.Review(review))
}

// UpdateReview handles PATCH /api/v1/titles/:titleId/reviews/:reviewId.
// Only the author, moderators, and admins may write.
func (s *Server) UpdateReview(c *fiber.Ctx) error {
	ctx := c.Context()
	user := s.currentUser(c)

	title, ok := s.requireTitle(c)
	if !ok {
		return nil
	}
	reviewID, ok := parseUintParam(c, "reviewId")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid review ID"))
	}

	review, err := s.reviewRepo.GetByID(ctx, title.ID, reviewID)
	if err != nil {
		return respondRepoError(c, err)
	}
	if !policy.AuthorOrStaff(review.AuthorID)(user, policy.OpWrite) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only modify your own reviews"))
	}

	var in reviewInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if in.Text != nil {
		if *in.Text == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("text must not be empty"))
		}
		review.Text = *in.Text
	}
	if in.Score != nil {
		if err := validation.ValidateScore(*in.Score); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError(err.Error()))
		}
		review.Score = *in.Score
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	cache.Invalidate(ctx, s.redis, titleCacheKey(title.ID))
	return c.JSON(serializer.Review(review))
}

// DeleteReview handles DELETE /api/v1/titles/:titleId/reviews/:reviewId.
// Comments cascade with the review.
func (s *Server) DeleteReview(c *fiber.Ctx) error {
	ctx := c.Context()
	user := s.currentUser(c)

	title, ok := s.requireTitle(c)
	if !ok {
		return nil
	}
	reviewID, ok := parseUintParam(c, "reviewId")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid review ID"))
	}

	review, err := s.reviewRepo.GetByID(ctx, title.ID, reviewID)
	if err != nil {
		return respondRepoError(c, err)
	}
	if !policy.AuthorOrStaff(review.AuthorID)(user, policy.OpWrite) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only delete your own reviews"))
	}

	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	cache.Invalidate(ctx, s.redis, titleCacheKey(title.ID))
	return c.SendStatus(fiber.StatusNoContent)
}
