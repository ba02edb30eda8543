// Package policy holds the access rules gating every mutating operation.
// Each rule is a pure function of (requester, operation) so it can be
// tested in isolation; rules that depend on a target resource are built
// by closing over the resource's author.
package policy

import "reviewhub/internal/models"

// Operation classifies a request for permission purposes.
type Operation int

const (
	// OpRead covers list and retrieve requests.
	OpRead Operation = iota
	// OpWrite covers create, update, and delete requests.
	OpWrite
)

// Predicate decides whether the requester may perform the operation.
// A nil requester means the caller is unauthenticated.
type Predicate func(requester *models.User, op Operation) bool

// IsAdminRole allows only admins, for reads and writes alike.
func IsAdminRole(requester *models.User, _ Operation) bool {
	return requester.IsAdmin()
}

// IsAdminOrReadOnly allows anyone to read and only admins to write.
func IsAdminOrReadOnly(requester *models.User, op Operation) bool {
	if op == OpRead {
		return true
	}
	return requester.IsAdmin()
}

// IsAuthenticatedOrReadOnly allows anyone to read and any authenticated
// user to write.
func IsAuthenticatedOrReadOnly(requester *models.User, op Operation) bool {
	if op == OpRead {
		return true
	}
	return requester != nil
}

// AuthorOrStaff builds a predicate that allows anyone to read, and allows
// writes by the resource's author, moderators, and admins.
func AuthorOrStaff(authorID uint) Predicate {
	return func(requester *models.User, op Operation) bool {
		if op == OpRead {
			return true
		}
		if requester == nil {
			return false
		}
		return requester.ID == authorID || requester.IsStaff()
	}
}

// All combines predicates conjunctively.
func All(preds ...Predicate) Predicate {
	return func(requester *models.User, op Operation) bool {
		for _, p := range preds {
			if !p(requester, op) {
				return false
			}
		}
		return true
	}
}

// Any combines predicates disjunctively.
func Any(preds ...Predicate) Predicate {
	return func(requester *models.User, op Operation) bool {
		for _, p := range preds {
			if p(requester, op) {
				return true
			}
		}
		return false
	}
}
