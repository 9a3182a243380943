// Package authz answers ownership questions for the current visitor.
package authz

import "github.com/arllen133/jobboard/internal/session"

// IsOwner reports whether the session belongs to the user with ownerID.
// Guests own nothing.
func IsOwner(s *session.Session, ownerID int64) bool {
	if s == nil || !s.IsAuthenticated() {
		return false
	}
	return s.UserID() == ownerID
}
