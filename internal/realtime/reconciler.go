// Package realtime keeps the local mirror eventually consistent with changes
// made by other sessions. It reacts to remote change notifications by
// re-running the same fetches used for initial load ("refetch, don't patch"),
// which makes duplicated and out-of-order notifications harmless by
// construction.
package realtime

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/vigorfit/vigor/internal/identity"
	"github.com/vigorfit/vigor/internal/logger"
	"github.com/vigorfit/vigor/internal/syncq"
)

// ErrIdentityUnresolved is returned by Start before identity resolution; an
// unauthenticated subscription is meaningless.
var ErrIdentityUnresolved = errors.New("identity not resolved")

// Event is one remote change notification. Participants carries enough
// identity to decide relevance to the current viewer without a network call.
type Event struct {
	Table        string   `json:"table"`
	Event        string   `json:"event"`
	RowID        string   `json:"row_id"`
	Participants []string `json:"participants"`
}

// RefetchFunc re-runs the initial-load fetch for one affected aggregate.
type RefetchFunc func() error

// Source is a stream of raw change payloads. A nil payload signals a
// possible notification gap (e.g. after a reconnect) and triggers a full
// resync of every registered aggregate.
type Source interface {
	Events() <-chan []byte
	Close() error
}

// Reconciler subscribes to a Source and dispatches relevant notifications to
// per-table refetch funcs.
type Reconciler struct {
	session *identity.Session
	source  Source
	token   *syncq.Token

	mu         sync.Mutex
	refetchers map[string][]RefetchFunc
	started    bool
	wg         sync.WaitGroup
}

// New creates a reconciler for the given session and payload source.
func New(session *identity.Session, source Source) *Reconciler {
	return &Reconciler{
		session:    session,
		source:     source,
		token:      syncq.NewToken(),
		refetchers: make(map[string][]RefetchFunc),
	}
}

// Register adds a refetch func for changes to table. Must be called before
// Start.
func (r *Reconciler) Register(table string, refetch RefetchFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refetchers[table] = append(r.refetchers[table], refetch)
}

// Start begins consuming change notifications. It fails if identity has not
// been resolved yet.
func (r *Reconciler) Start() error {
	if !r.session.IsResolved() {
		return ErrIdentityUnresolved
	}

	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return nil
	}
	r.started = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.loop()
	return nil
}

// Stop tears the subscription down. Notifications that race the teardown are
// discarded via the liveness token rather than applied to a dead consumer.
func (r *Reconciler) Stop() {
	r.token.Cancel()
	if err := r.source.Close(); err != nil {
		logger.Warn("Failed to close change source", "error", err)
	}
	r.wg.Wait()
}

func (r *Reconciler) loop() {
	defer r.wg.Done()

	for payload := range r.source.Events() {
		if !r.token.Alive() {
			return
		}
		if payload == nil {
			// Possible gap: refetch everything registered
			r.resyncAll()
			continue
		}
		r.handle(payload)
	}
}

func (r *Reconciler) handle(payload []byte) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		logger.Warn("Malformed change notification", "error", err)
		return
	}

	// Relevance filter: drop without any network call unless the current
	// viewer participates in the changed row.
	userID, ok := r.session.CurrentUserID()
	if !ok {
		return
	}
	relevant := false
	for _, p := range ev.Participants {
		if p == userID {
			relevant = true
			break
		}
	}
	if !relevant {
		return
	}

	r.mu.Lock()
	fns := append([]RefetchFunc(nil), r.refetchers[ev.Table]...)
	r.mu.Unlock()

	for _, fn := range fns {
		if !r.token.Alive() {
			return
		}
		if err := fn(); err != nil {
			logger.Warn("Refetch after change notification failed",
				"table", ev.Table, "event", ev.Event, "error", err)
		}
	}
}

func (r *Reconciler) resyncAll() {
	r.mu.Lock()
	var fns []RefetchFunc
	for _, tableFns := range r.refetchers {
		fns = append(fns, tableFns...)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		if !r.token.Alive() {
			return
		}
		if err := fn(); err != nil {
			logger.Warn("Resync refetch failed", "error", err)
		}
	}
}
