package syncq

import "testing"

func TestTokenLifecycle(t *testing.T) {
	tok := NewToken()
	if !tok.Alive() {
		t.Fatal("fresh token should be alive")
	}

	tok.Cancel()
	if tok.Alive() {
		t.Error("cancelled token should not be alive")
	}

	// Cancel is idempotent
	tok.Cancel()
	if tok.Alive() {
		t.Error("double cancel should stay dead")
	}
}
