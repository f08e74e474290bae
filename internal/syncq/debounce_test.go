package syncq

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// recorder collects payloads passed to the debouncer's write func.
type recorder struct {
	mu       sync.Mutex
	payloads []any
	block    chan struct{} // if set, write blocks until closed
	err      error
}

func (r *recorder) write(payload any) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	r.payloads = append(r.payloads, payload)
	r.mu.Unlock()
	return r.err
}

func (r *recorder) recorded() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, len(r.payloads))
	copy(out, r.payloads)
	return out
}

func TestDebounceCoalescing(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(50*time.Millisecond, rec.write)
	defer d.Close()

	// A burst of schedules within the window must produce exactly one write
	// carrying the last value.
	d.Schedule(250)
	d.Schedule(500)
	d.Schedule(750)

	time.Sleep(150 * time.Millisecond)

	got := rec.recorded()
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 write, got %d", len(got))
	}
	if got[0] != 750 {
		t.Errorf("expected last payload 750, got %v", got[0])
	}
}

func TestDebounceFlushBypassesTimer(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(time.Hour, rec.write)
	defer d.Close()

	d.Schedule(42)

	if err := d.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	got := rec.recorded()
	if len(got) != 1 || got[0] != 42 {
		t.Fatalf("expected one write of 42 after flush, got %v", got)
	}
}

func TestDebounceFlushWhenIdle(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(50*time.Millisecond, rec.write)
	defer d.Close()

	if err := d.Flush(); err != nil {
		t.Fatalf("flush of idle debouncer should be nil, got %v", err)
	}
	if len(rec.recorded()) != 0 {
		t.Errorf("flush of idle debouncer must not write")
	}
}

func TestDebounceCancelDiscardsPending(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(50*time.Millisecond, rec.write)
	defer d.Close()

	d.Schedule(99)
	d.Cancel()

	time.Sleep(120 * time.Millisecond)

	if len(rec.recorded()) != 0 {
		t.Errorf("cancelled payload must never be written, got %v", rec.recorded())
	}
}

func TestDebounceScheduleDuringRunningWrite(t *testing.T) {
	rec := &recorder{block: make(chan struct{})}
	d := NewDebouncer(10*time.Millisecond, rec.write)

	d.Schedule(1)
	time.Sleep(30 * time.Millisecond) // timer fires, write blocks

	// Captured while a write is executing: must be written immediately after
	// the current write completes, never dropped.
	d.Schedule(2)

	close(rec.block)
	if err := d.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	_ = d.Close()

	got := rec.recorded()
	if len(got) != 2 {
		t.Fatalf("expected 2 writes, got %d (%v)", len(got), got)
	}
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("expected writes [1 2], got %v", got)
	}
}

func TestDebounceWriteFailureKeepsLocalState(t *testing.T) {
	rec := &recorder{err: errors.New("boom")}
	d := NewDebouncer(10*time.Millisecond, rec.write)
	defer d.Close()

	d.Schedule(7)
	err := d.Flush()
	if err == nil {
		t.Fatal("expected flush to surface the write error")
	}

	// A later schedule still goes through; the failed write is not retried
	// with the stale payload.
	rec.err = nil
	d.Schedule(8)
	if err := d.Flush(); err != nil {
		t.Fatalf("second flush failed: %v", err)
	}

	got := rec.recorded()
	if len(got) != 2 || got[1] != 8 {
		t.Errorf("expected second write of 8, got %v", got)
	}
}

func TestDebounceCloseDropsLaterSchedules(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(10*time.Millisecond, rec.write)

	d.Schedule(1)
	if err := d.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	d.Schedule(2)
	time.Sleep(50 * time.Millisecond)

	got := rec.recorded()
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("expected only pre-close write, got %v", got)
	}
}
