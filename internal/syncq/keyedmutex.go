package syncq

import (
	"sync"

	"github.com/vigorfit/vigor/internal/errors"
)

// KeyedMutex provides per-entity-id mutual exclusion within one session. It
// prevents a second concurrent mutation of the same record (a double-tapped
// "accept") while leaving unrelated entities free to mutate in parallel. It
// does not close races across devices or processes; that falls to the remote
// store's uniqueness constraints.
type KeyedMutex struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewKeyedMutex creates an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{held: make(map[string]struct{})}
}

// TryAcquire attempts to take the lock for key. On success it returns an
// idempotent release func that must be deferred so it runs on every exit
// path. If the key is already held, ok is false and release is a no-op.
func (m *KeyedMutex) TryAcquire(key string) (release func(), ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.held[key]; exists {
		return func() {}, false
	}
	m.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.held, key)
			m.mu.Unlock()
		})
	}, true
}

// Do runs fn while holding the lock for key. If the key is already held it
// short-circuits with ErrLocked without invoking fn.
func (m *KeyedMutex) Do(key string, fn func() error) error {
	release, ok := m.TryAcquire(key)
	if !ok {
		return errors.ErrLocked
	}
	defer release()
	return fn()
}
