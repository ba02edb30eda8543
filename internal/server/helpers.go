package server

import (
	"net/url"
	"strconv"

	"reviewhub/internal/models"

	"github.com/gofiber/fiber/v2"
)

const maxPageSize = 100

// page holds the parsed page-number pagination parameters.
type page struct {
	Number int
	Size   int
}

func (p page) limit() int  { return p.Size }
func (p page) offset() int { return (p.Number - 1) * p.Size }

// parsePage extracts page and page_size query parameters.
func (s *Server) parsePage(c *fiber.Ctx) page {
	size := c.QueryInt("page_size", s.config.PageSize)
	if size <= 0 {
		size = s.config.PageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	number := c.QueryInt("page", 1)
	if number < 1 {
		number = 1
	}

	return page{Number: number, Size: size}
}

// paginated writes the standard list envelope:
// {"count": N, "next": url|null, "previous": url|null, "results": [...]}.
func paginated(c *fiber.Ctx, count int64, p page, results any) error {
	var next, previous *string
	if int64(p.Number*p.Size) < count {
		next = pageURL(c, p.Number+1)
	}
	if p.Number > 1 {
		previous = pageURL(c, p.Number-1)
	}

	return c.JSON(fiber.Map{
		"count":    count,
		"next":     next,
		"previous": previous,
		"results":  results,
	})
}

// pageURL rebuilds the request URL with the page query parameter replaced.
func pageURL(c *fiber.Ctx, number int) *string {
	query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		query = url.Values{}
	}
	query.Set("page", strconv.Itoa(number))

	u := c.BaseURL() + c.Path() + "?" + query.Encode()
	return &u
}

// parseUintParam extracts a route parameter as a positive uint.
func parseUintParam(c *fiber.Ctx, name string) (uint, bool) {
	v, err := c.ParamsInt(name)
	if err != nil || v <= 0 {
		return 0, false
	}
	return uint(v), true
}

// isNotFound reports whether err is the NOT_FOUND application error.
func isNotFound(err error) bool {
	appErr, ok := err.(*models.AppError)
	return ok && appErr.Code == "NOT_FOUND"
}

// respondRepoError maps a repository error onto 404 or 500.
func respondRepoError(c *fiber.Ctx, err error) error {
	if isNotFound(err) {
		return models.RespondWithError(c, fiber.StatusNotFound, err)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// respondInputError maps a validation error onto 400 and anything else
// onto 500.
func respondInputError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*models.AppError); ok && appErr.Code == "VALIDATION_ERROR" {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}
