package syncq

import (
	"context"
	"errors"
	"sync"
)

// ErrAborted settles tasks that were still queued when Abort was called.
var ErrAborted = errors.New("serial queue aborted")

// Task is one unit of work on a SerialQueue. The context is cancelled when
// the queue is aborted; a running task may observe it or simply finish.
type Task func(ctx context.Context) error

type job struct {
	task   Task
	result chan error
}

// SerialQueue executes tasks strictly in submission order, one at a time.
// It exists to serialize read-modify-write cycles against a shared remote
// counter: the client never has two concurrent "read total, compute, write
// total" sequences in flight for the same resource category. Independent
// queues have no ordering relationship with each other.
type SerialQueue struct {
	mu     sync.Mutex
	jobs   []job
	closed bool

	signal chan struct{} // size 1, signals job availability
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSerialQueue creates a queue and starts its single worker goroutine.
func NewSerialQueue() *SerialQueue {
	ctx, cancel := context.WithCancel(context.Background())
	q := &SerialQueue{
		signal: make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
	}
	go q.run()
	return q
}

// Enqueue appends a task and returns a channel that settles with that task's
// own outcome, independent of sibling tasks. If the queue has been aborted
// the channel settles immediately with ErrAborted.
func (q *SerialQueue) Enqueue(task Task) <-chan error {
	result := make(chan error, 1)

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		result <- ErrAborted
		return result
	}
	q.jobs = append(q.jobs, job{task: task, result: result})
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}

	return result
}

// Abort marks the queue inert and settles all not-yet-started tasks with
// ErrAborted. A task that is already running is allowed to finish; its
// result channel still receives its real outcome.
func (q *SerialQueue) Abort() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	discarded := q.jobs
	q.jobs = nil
	q.mu.Unlock()

	for _, j := range discarded {
		j.result <- ErrAborted
	}
	q.cancel()
}

func (q *SerialQueue) run() {
	for {
		q.mu.Lock()
		if len(q.jobs) == 0 {
			closed := q.closed
			q.mu.Unlock()
			if closed {
				return
			}
			select {
			case <-q.signal:
			case <-q.ctx.Done():
			}
			continue
		}
		j := q.jobs[0]
		q.jobs = q.jobs[1:]
		q.mu.Unlock()

		j.result <- j.task(q.ctx)
	}
}
