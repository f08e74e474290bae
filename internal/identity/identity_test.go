package identity

import "testing"

func TestResolveAndClear(t *testing.T) {
	s := NewSession()

	if s.IsResolved() {
		t.Error("fresh session must be unresolved")
	}
	if _, ok := s.CurrentUserID(); ok {
		t.Error("unresolved session must not return a user id")
	}

	s.Resolve("user-1")
	if !s.IsResolved() {
		t.Error("session must be resolved after Resolve")
	}
	if id, ok := s.CurrentUserID(); !ok || id != "user-1" {
		t.Errorf("expected user-1, got %q (ok=%v)", id, ok)
	}

	s.Clear()
	if s.IsResolved() {
		t.Error("session must be unresolved after Clear")
	}
}

func TestResolveEmptyIDIsIgnored(t *testing.T) {
	s := NewSession()
	s.Resolve("")
	if s.IsResolved() {
		t.Error("empty user id must not resolve the session")
	}
}
