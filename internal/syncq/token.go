package syncq

import "sync/atomic"

// Token is a per-consumer liveness marker. Every feature service creates one
// per session and checks it after each remote round-trip, before committing
// anything to local state. Cancelling a token does not abort in-flight
// requests; it only causes their results to be discarded on arrival.
type Token struct {
	cancelled atomic.Bool
}

// NewToken returns a live token.
func NewToken() *Token {
	return &Token{}
}

// Cancel marks the token dead. Safe to call more than once.
func (t *Token) Cancel() {
	t.cancelled.Store(true)
}

// Alive reports whether the consumer that owns this token is still live.
func (t *Token) Alive() bool {
	return !t.cancelled.Load()
}
