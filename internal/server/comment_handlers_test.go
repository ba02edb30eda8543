package server

import (
	"fmt"
	"net/http"
	"testing"

	"reviewhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentsPath(titleID, reviewID uint) string {
	return fmt.Sprintf("/api/v1/titles/%d/reviews/%d/comments/", titleID, reviewID)
}

func commentPath(titleID, reviewID, commentID uint) string {
	return fmt.Sprintf("/api/v1/titles/%d/reviews/%d/comments/%d", titleID, reviewID, commentID)
}

func TestListComments_PublicRead(t *testing.T) {
	t.Parallel()
	s, app, _ := newTestServer(t)
	title := createTestTitle(t, s, "Solaris")
	alice := createTestUser(t, s, "alice", models.RoleUser)
	bob := createTestUser(t, s, "bob", models.RoleUser)
	review := createTestReview(t, s, title, alice, 8)

	for _, c := range []*models.Comment{
		{Text: "first", ReviewID: review.ID, AuthorID: alice.ID},
		{Text: "second", ReviewID: review.ID, AuthorID: bob.ID},
	} {
		require.NoError(t, s.db.Create(c).Error)
	}

	var envelope pageEnvelope
	resp := doJSON(t, app, http.MethodGet, commentsPath(title.ID, review.ID), nil, "", &envelope)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, envelope.Count)
	require.Len(t, envelope.Results, 2)
	assert.Equal(t, "first", envelope.Results[0]["text"])
	assert.Equal(t, "bob", envelope.Results[1]["author"])
}

func TestCreateComment_AuthorFromToken(t *testing.T) {
	t.Parallel()
	s, app, _ := newTestServer(t)
	title := createTestTitle(t, s, "Solaris")
	alice := createTestUser(t, s, "alice", models.RoleUser)
	bob := createTestUser(t, s, "bob", models.RoleUser)
	review := createTestReview(t, s, title, alice, 8)

	var created map[string]any
	resp := doJSON(t, app, http.MethodPost, commentsPath(title.ID, review.ID),
		map[string]any{"text": "well said"}, accessTokenFor(t, s, bob), &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "bob", created["author"])
	assert.Equal(t, "well said", created["text"])

	resp = doJSON(t, app, http.MethodPost, commentsPath(title.ID, review.ID),
		map[string]any{"text": "anonymous"}, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, commentsPath(title.ID, review.ID),
		map[string]any{"text": ""}, accessTokenFor(t, s, bob), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateComment_UnknownParents(t *testing.T) {
	t.Parallel()
	s, app, _ := newTestServer(t)
	title := createTestTitle(t, s, "Solaris")
	other := createTestTitle(t, s, "Stalker")
	alice := createTestUser(t, s, "alice", models.RoleUser)
	review := createTestReview(t, s, title, alice, 8)
	token := accessTokenFor(t, s, alice)

	body := map[string]any{"text": "into the void"}

	resp := doJSON(t, app, http.MethodPost, commentsPath(999, review.ID), body, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, commentsPath(title.ID, 999), body, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Review exists but belongs to a different title.
	resp = doJSON(t, app, http.MethodPost, commentsPath(other.ID, review.ID), body, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetComment_ScopedToReview(t *testing.T) {
	t.Parallel()
	s, app, _ := newTestServer(t)
	title := createTestTitle(t, s, "Solaris")
	alice := createTestUser(t, s, "alice", models.RoleUser)
	bob := createTestUser(t, s, "bob", models.RoleUser)
	review := createTestReview(t, s, title, alice, 8)
	otherReview := createTestReview(t, s, title, bob, 4)

	comment := &models.Comment{Text: "scoped", ReviewID: review.ID, AuthorID: bob.ID}
	require.NoError(t, s.db.Create(comment).Error)

	var got map[string]any
	resp := doJSON(t, app, http.MethodGet, commentPath(title.ID, review.ID, comment.ID), nil, "", &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "scoped", got["text"])

	resp = doJSON(t, app, http.MethodGet, commentPath(title.ID, otherReview.ID, comment.ID), nil, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateComment_Permissions(t *testing.T) {
	t.Parallel()
	s, app, _ := newTestServer(t)
	title := createTestTitle(t, s, "Solaris")
	author := createTestUser(t, s, "author", models.RoleUser)
	stranger := createTestUser(t, s, "stranger", models.RoleUser)
	admin := createTestUser(t, s, "admin", models.RoleAdmin)
	review := createTestReview(t, s, title, author, 8)

	comment := &models.Comment{Text: "original", ReviewID: review.ID, AuthorID: author.ID}
	require.NoError(t, s.db.Create(comment).Error)

	resp := doJSON(t, app, http.MethodPatch, commentPath(title.ID, review.ID, comment.ID),
		map[string]any{"text": "hijacked"}, accessTokenFor(t, s, stranger), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var got map[string]any
	resp = doJSON(t, app, http.MethodPatch, commentPath(title.ID, review.ID, comment.ID),
		map[string]any{"text": "edited by author"}, accessTokenFor(t, s, author), &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "edited by author", got["text"])

	resp = doJSON(t, app, http.MethodPatch, commentPath(title.ID, review.ID, comment.ID),
		map[string]any{"text": "edited by admin"}, accessTokenFor(t, s, admin), &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "edited by admin", got["text"])
}

func TestDeleteComment_Permissions(t *testing.T) {
	t.Parallel()
	s, app, _ := newTestServer(t)
	title := createTestTitle(t, s, "Solaris")
	author := createTestUser(t, s, "author", models.RoleUser)
	stranger := createTestUser(t, s, "stranger", models.RoleUser)
	moderator := createTestUser(t, s, "mod", models.RoleModerator)
	review := createTestReview(t, s, title, author, 8)

	comment := &models.Comment{Text: "doomed", ReviewID: review.ID, AuthorID: author.ID}
	require.NoError(t, s.db.Create(comment).Error)

	resp := doJSON(t, app, http.MethodDelete, commentPath(title.ID, review.ID, comment.ID),
		nil, accessTokenFor(t, s, stranger), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, commentPath(title.ID, review.ID, comment.ID),
		nil, accessTokenFor(t, s, moderator), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var count int64
	s.db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count)
	assert.Zero(t, count)
}
