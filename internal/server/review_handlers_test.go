package server

import (
	"fmt"
	"net/http"
	"testing"

	"reviewhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTitle(t *testing.T, s *Server, name string) *models.Title {
	t.Helper()
	title := &models.Title{Name: name}
	require.NoError(t, s.db.Create(title).Error)
	return title
}

func createTestReview(t *testing.T, s *Server, title *models.Title, author *models.User, score int) *models.Review {
	t.Helper()
	review := &models.Review{Text: "well made", Score: score, TitleID: title.ID, AuthorID: author.ID}
	require.NoError(t, s.db.Create(review).Error)
	return review
}

func reviewsPath(titleID uint) string {
	return fmt.Sprintf("/api/v1/titles/%d/reviews/", titleID)
}

func reviewPath(titleID, reviewID uint) string {
	return fmt.Sprintf("/api/v1/titles/%d/reviews/%d", titleID, reviewID)
}

func TestListReviews_PublicRead(t *testing.T) {
	t.Parallel()
	s, app, _ := newTestServer(t)
	title := createTestTitle(t, s, "Solaris")
	alice := createTestUser(t, s, "alice", models.RoleUser)
	bob := createTestUser(t, s, "bob", models.RoleUser)
	createTestReview(t, s, title, alice, 8)
	createTestReview(t, s, title, bob, 6)

	var envelope pageEnvelope
	resp := doJSON(t, app, http.MethodGet, reviewsPath(title.ID), nil, "", &envelope)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, envelope.Count)
	require.Len(t, envelope.Results, 2)
	assert.Equal(t, "alice", envelope.Results[0]["author"], "oldest review first")

	// Unknown parent title is a 404 even for a read.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/titles/999/reviews/", nil, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateReview_AuthorFromToken(t *testing.T) {
	t.Parallel()
	s, app, _ := newTestServer(t)
	title := createTestTitle(t, s, "Solaris")
	user := createTestUser(t, s, "alice", models.RoleUser)

	var created map[string]any
	resp := doJSON(t, app, http.MethodPost, reviewsPath(title.ID),
		map[string]any{"text": "slow but rewarding", "score": 9},
		accessTokenFor(t, s, user), &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "alice", created["author"])
	assert.EqualValues(t, 9, created["score"])
	assert.NotEmpty(t, created["pub_date"])

	resp = doJSON(t, app, http.MethodPost, reviewsPath(title.ID),
		map[string]any{"text": "anonymous hot take", "score": 1}, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateReview_OnePerAuthor(t *testing.T) {
	t.Parallel()
	s, app, _ := newTestServer(t)
	title := createTestTitle(t, s, "Solaris")
	user := createTestUser(t, s, "alice", models.RoleUser)
	token := accessTokenFor(t, s, user)

	resp := doJSON(t, app, http.MethodPost, reviewsPath(title.ID),
		map[string]any{"text": "first impression", "score": 7}, token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, reviewsPath(title.ID),
		map[string]any{"text": "changed my mind", "score": 3}, token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A different title is fine.
	other := createTestTitle(t, s, "Stalker")
	resp = doJSON(t, app, http.MethodPost, reviewsPath(other.ID),
		map[string]any{"text": "also great", "score": 8}, token, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCreateReview_Validation(t *testing.T) {
	t.Parallel()
	s, app, _ := newTestServer(t)
	title := createTestTitle(t, s, "Solaris")
	user := createTestUser(t, s, "alice", models.RoleUser)
	token := accessTokenFor(t, s, user)

	cases := []map[string]any{
		{"score": 5},
		{"text": ""},
		{"text": "no score"},
		{"text": "too low", "score": 0},
		{"text": "too high", "score": 11},
	}
	for _, body := range cases {
		resp := doJSON(t, app, http.MethodPost, reviewsPath(title.ID), body, token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %v", body)
	}

	resp := doJSON(t, app, http.MethodPost, "/api/v1/titles/999/reviews/",
		map[string]any{"text": "void", "score": 5}, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetReview_ScopedToTitle(t *testing.T) {
	t.Parallel()
	s, app, _ := newTestServer(t)
	title := createTestTitle(t, s, "Solaris")
	other := createTestTitle(t, s, "Stalker")
	user := createTestUser(t, s, "alice", models.RoleUser)
	review := createTestReview(t, s, title, user, 8)

	var got map[string]any
	resp := doJSON(t, app, http.MethodGet, reviewPath(title.ID, review.ID), nil, "", &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", got["author"])

	// The same review under the wrong title does not exist.
	resp = doJSON(t, app, http.MethodGet, reviewPath(other.ID, review.ID), nil, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateReview_AuthorModeratorAdmin(t *testing.T) {
	t.Parallel()
	s, app, _ := newTestServer(t)
	title := createTestTitle(t, s, "Solaris")
	author := createTestUser(t, s, "author", models.RoleUser)
	stranger := createTestUser(t, s, "stranger", models.RoleUser)
	moderator := createTestUser(t, s, "mod", models.RoleModerator)
	review := createTestReview(t, s, title, author, 5)

	resp := doJSON(t, app, http.MethodPatch, reviewPath(title.ID, review.ID),
		map[string]any{"score": 6}, accessTokenFor(t, s, stranger), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var got map[string]any
	resp = doJSON(t, app, http.MethodPatch, reviewPath(title.ID, review.ID),
		map[string]any{"score": 7}, accessTokenFor(t, s, author), &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 7, got["score"])

	resp = doJSON(t, app, http.MethodPatch, reviewPath(title.ID, review.ID),
		map[string]any{"text": "toned down by moderation"}, accessTokenFor(t, s, moderator), &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "toned down by moderation", got["text"])
	assert.EqualValues(t, 7, got["score"], "untouched field survives")
}

func TestUpdateReview_ScoreValidated(t *testing.T) {
	t.Parallel()
	s, app, _ := newTestServer(t)
	title := createTestTitle(t, s, "Solaris")
	author := createTestUser(t, s, "author", models.RoleUser)
	review := createTestReview(t, s, title, author, 5)

	resp := doJSON(t, app, http.MethodPatch, reviewPath(title.ID, review.ID),
		map[string]any{"score": 42}, accessTokenFor(t, s, author), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteReview_Permissions(t *testing.T) {
	t.Parallel()
	s, app, _ := newTestServer(t)
	title := createTestTitle(t, s, "Solaris")
	author := createTestUser(t, s, "author", models.RoleUser)
	stranger := createTestUser(t, s, "stranger", models.RoleUser)
	moderator := createTestUser(t, s, "mod", models.RoleModerator)

	review := createTestReview(t, s, title, author, 5)
	comment := &models.Comment{Text: "reply", ReviewID: review.ID, AuthorID: stranger.ID}
	require.NoError(t, s.db.Create(comment).Error)

	resp := doJSON(t, app, http.MethodDelete, reviewPath(title.ID, review.ID),
		nil, accessTokenFor(t, s, stranger), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, reviewPath(title.ID, review.ID),
		nil, accessTokenFor(t, s, moderator), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var count int64
	s.db.Model(&models.Comment{}).Where("review_id = ?", review.ID).Count(&count)
	assert.Zero(t, count, "comments go with the review")
}
