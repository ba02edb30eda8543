// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// UserRole is the single authorization axis for the API.
type UserRole string

// Roles a user account can hold.
const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User represents an account. Accounts are created either by requesting a
// confirmation code (role defaults to user) or by an administrator.
type User struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Username  string   `gorm:"uniqueIndex;not null" json:"username"`
	Email     string   `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Bio       string   `json:"bio"`
	Role      UserRole `gorm:"type:varchar(10);not null;default:user" json:"role"`

	// ConfirmationCode holds the bcrypt hash of the pending one-time code.
	// It is the account's only credential secret and is cleared after a
	// successful token exchange.
	ConfirmationCode string     `json:"-"`
	CodeIssuedAt     *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Reviews  []Review  `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Comments []Comment `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsModerator reports whether the user holds the moderator role.
func (u *User) IsModerator() bool {
	return u != nil && u.Role == RoleModerator
}

// IsStaff reports whether the user may act on other users' content.
func (u *User) IsStaff() bool {
	return u.IsAdmin() || u.IsModerator()
}
