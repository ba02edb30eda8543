package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleModerator.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, UserRole("emperor").Valid())
	assert.False(t, UserRole("").Valid())
}

func TestRoleHelpers_NilSafe(t *testing.T) {
	var nobody *User
	assert.False(t, nobody.IsAdmin())
	assert.False(t, nobody.IsModerator())
	assert.False(t, nobody.IsStaff())

	assert.True(t, (&User{Role: RoleAdmin}).IsStaff())
	assert.True(t, (&User{Role: RoleModerator}).IsStaff())
	assert.False(t, (&User{Role: RoleUser}).IsStaff())
}

func TestAppError(t *testing.T) {
	notFound := NewNotFoundError("Title", 7)
	assert.Equal(t, "NOT_FOUND", notFound.Code)
	assert.Contains(t, notFound.Error(), "Title 7")

	cause := errors.New("dial tcp: connection refused")
	internal := NewInternalError(cause)
	assert.Equal(t, "INTERNAL_ERROR", internal.Code)
	assert.ErrorIs(t, internal, cause)

	mail := NewMailError(cause)
	assert.Equal(t, "MAIL_ERROR", mail.Code)
	assert.Contains(t, mail.Error(), "connection refused")
}
