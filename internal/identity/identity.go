// Package identity tracks who the current session belongs to. The sync layer
// must not issue any fetch, and the reconciler must not subscribe, before the
// session is resolved; an unauthenticated fetch would race the real session
// bootstrap.
package identity

import (
	"errors"
	"sync"

	"github.com/vigorfit/vigor/internal/keyring"
)

// Session holds the resolved identity for this process.
type Session struct {
	mu       sync.RWMutex
	userID   string
	resolved bool
}

// NewSession returns an unresolved session.
func NewSession() *Session {
	return &Session{}
}

// ResolveFromKeyring loads the stored user id. A missing identity leaves the
// session unresolved without error; the caller decides whether that is fatal.
func (s *Session) ResolveFromKeyring() error {
	userID, err := keyring.GetUserID()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return err
	}
	s.Resolve(userID)
	return nil
}

// Resolve marks the session as belonging to userID. An empty id is ignored;
// the session stays unresolved.
func (s *Session) Resolve(userID string) {
	if userID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.resolved = true
}

// Clear drops the identity, e.g. on logout. Consumers holding tokens for the
// old identity must be cancelled by the caller.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	s.resolved = false
}

// CurrentUserID returns the signed-in user id and whether one is set.
func (s *Session) CurrentUserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.resolved && s.userID != ""
}

// IsResolved reports whether identity resolution has completed.
func (s *Session) IsResolved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolved
}
