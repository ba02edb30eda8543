package server

import (
	"reviewhub/internal/models"
	"reviewhub/internal/policy"
	"reviewhub/internal/serializer"

	"github.com/gofiber/fiber/v2"
)

type commentInput struct {
	Text *string `json:"text"`
}

// requireReview resolves the parent review, scoped to its title, writing
// the error response itself when either parent is missing.
func (s *Server) requireReview(c *fiber.Ctx) (*models.Review, bool) {
	title, ok := s.requireTitle(c)
	if !ok {
		return nil, false
	}
	reviewID, ok := parseUintParam(c, "reviewId")
	if !ok {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid review ID"))
		return nil, false
	}
	review, err := s.reviewRepo.GetByID(c.Context(), title.ID, reviewID)
	if err != nil {
		_ = respondRepoError(c, err)
		return nil, false
	}
	return review, true
}

// ListComments handles GET /api/v1/titles/:titleId/reviews/:reviewId/comments.
func (s *Server) ListComments(c *fiber.Ctx) error {
	review, ok := s.requireReview(c)
	if !ok {
		return nil
	}

	p := s.parsePage(c)
	comments, count, err := s.commentRepo.ListByReview(c.Context(), review.ID, p.limit(), p.offset())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return paginated(c, count, p, serializer.Comments(comments))
}

// CreateComment handles POST /api/v1/titles/:titleId/reviews/:reviewId/comments.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	user := s.currentUser(c)

	review, ok := s.requireReview(c)
	if !ok {
		return nil
	}

	var in commentInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if in.Text == nil || *in.Text == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("text is required"))
	}

	comment := &models.Comment{
		Text:     *in.Text,
		ReviewID: review.ID,
		AuthorID: user.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	created, err := s.commentRepo.GetByID(ctx, review.ID, comment.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(serializer.Comment(created))
}

// GetComment handles GET .../comments/:commentId.
func (s *Server) GetComment(c *fiber.Ctx) error {
	review, ok := s.requireReview(c)
	if !ok {
		return nil
	}
	commentID, ok := parseUintParam(c, "commentId")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid comment ID"))
	}

	comment, err := s.commentRepo.GetByID(c.Context(), review.ID, commentID)
	if err != nil {
		return respondRepoError(c, err)
	}
	return c.JSON(serializer.Comment(comment))
}

// UpdateComment handles PATCH .../comments/:commentId. Only the author,
// moderators, and admins may write.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	user := s.currentUser(c)

	review, ok := s.requireReview(c)
	if !ok {
		return nil
	}
	commentID, ok := parseUintParam(c, "commentId")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid comment ID"))
	}

	comment, err := s.commentRepo.GetByID(ctx, review.ID, commentID)
	if err != nil {
		return respondRepoError(c, err)
	}
	if !policy.AuthorOrStaff(comment.AuthorID)(user, policy.OpWrite) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only modify your own comments"))
	}

	var in commentInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if in.Text != nil {
		if *in.Text == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("text must not be empty"))
		}
		comment.Text = *in.Text
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(serializer.Comment(comment))
}

// DeleteComment handles DELETE .../comments/:commentId.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.Context()
	user := s.currentUser(c)

	review, ok := s.requireReview(c)
	if !ok {
		return nil
	}
	commentID, ok := parseUintParam(c, "commentId")
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid comment ID"))
	}

	comment, err := s.commentRepo.GetByID(ctx, review.ID, commentID)
	if err != nil {
		return respondRepoError(c, err)
	}
	if !policy.AuthorOrStaff(comment.AuthorID)(user, policy.OpWrite) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only delete your own comments"))
	}

	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
