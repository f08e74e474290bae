package syncq

import (
	"errors"
	"sync"
	"time"

	"github.com/vigorfit/vigor/internal/logger"
)

// ErrClosed is returned by Flush after the debouncer has been closed.
var ErrClosed = errors.New("debouncer closed")

// debounceState is the internal state machine of a Debouncer.
type debounceState int

const (
	// stateIdle: nothing pending, nothing in flight
	stateIdle debounceState = iota
	// statePending: a payload is captured and the quiet-period timer is armed
	statePending
	// stateRunning: a write is in flight
	stateRunning
)

// Debouncer coalesces bursts of updates to one logical value into a single
// deferred remote write. Repeated Schedule calls within the window move the
// deadline forward and overwrite the payload; intermediate values are never
// persisted. At most one write is in flight at a time: a Schedule that lands
// while a write is executing is captured and written immediately after the
// current write completes.
type Debouncer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	window time.Duration
	write  func(payload any) error

	timer   *time.Timer
	payload any
	state   debounceState
	rerun   bool
	closed  bool
	lastErr error
}

// NewDebouncer creates a debouncer with the given quiet period. write is
// invoked off the caller's goroutine with the most recent payload.
func NewDebouncer(window time.Duration, write func(payload any) error) *Debouncer {
	d := &Debouncer{
		window: window,
		write:  write,
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Schedule records payload as the latest pending value and restarts the
// quiet-period timer. Calls after Close are dropped.
func (d *Debouncer) Schedule(payload any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	d.payload = payload

	switch d.state {
	case stateIdle:
		d.state = statePending
		d.timer = time.AfterFunc(d.window, d.fire)
	case statePending:
		d.timer.Reset(d.window)
	case stateRunning:
		// Written immediately after the in-flight write returns
		d.rerun = true
	}
}

// fire is the timer callback: transition pending -> running and execute.
func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.state != statePending {
		// Cancelled or flushed between timer expiry and lock acquisition
		d.mu.Unlock()
		return
	}
	d.state = stateRunning
	payload := d.payload
	d.payload = nil
	d.mu.Unlock()

	d.runWrites(payload)
}

// runWrites executes the write, then any rerun captured while it was in
// flight, until the debouncer settles back to idle. Must be called without
// the lock held, in stateRunning.
func (d *Debouncer) runWrites(payload any) {
	for {
		err := d.write(payload)
		if err != nil {
			// Failure policy: log and move on; local optimistic state stays
			// authoritative until the next refetch.
			logger.Warn("Debounced persistence failed", "error", err)
		}

		d.mu.Lock()
		d.lastErr = err
		if d.rerun && !d.closed {
			d.rerun = false
			payload = d.payload
			d.payload = nil
			d.mu.Unlock()
			continue
		}
		d.state = stateIdle
		d.cond.Broadcast()
		d.mu.Unlock()
		return
	}
}

// Flush executes any pending write immediately, bypassing the timer, and
// waits for in-flight writes to settle. It returns the outcome of the last
// write performed, or nil if nothing was pending. Used on teardown so no
// scheduled mutation is silently lost.
func (d *Debouncer) Flush() error {
	d.mu.Lock()

	switch d.state {
	case stateIdle:
		d.mu.Unlock()
		return nil
	case statePending:
		d.timer.Stop()
		d.state = stateRunning
		payload := d.payload
		d.payload = nil
		d.mu.Unlock()

		d.runWrites(payload)

		d.mu.Lock()
		err := d.lastErr
		d.mu.Unlock()
		return err
	default: // stateRunning
		for d.state != stateIdle {
			d.cond.Wait()
		}
		err := d.lastErr
		d.mu.Unlock()
		return err
	}
}

// Cancel discards any pending payload without writing. An in-flight write is
// allowed to finish, but a rerun captured behind it is dropped. Used when a
// fresh authoritative fetch is about to supersede the pending local guess.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case statePending:
		d.timer.Stop()
		d.state = stateIdle
		d.payload = nil
		d.cond.Broadcast()
	case stateRunning:
		d.rerun = false
		d.payload = nil
	}
}

// Close flushes any pending write and marks the debouncer inert. Further
// Schedule calls are dropped.
func (d *Debouncer) Close() error {
	err := d.Flush()

	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	return err
}
