// Package mainthread serializes work onto the goroutine that owns the visual
// surface. In the Tk host that is the event loop goroutine, which drains the
// queue on every UI tick; headless hosts call Run on a dedicated goroutine.
package mainthread

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"time"
)

// ErrClosed is returned once the queue has been closed.
var ErrClosed = errors.New("mainthread: queue closed")

// ErrFull is returned by Post when the queue has no room left.
var ErrFull = errors.New("mainthread: queue full")

type task struct {
	fn        func()
	done      chan struct{}
	abandoned atomic.Bool
}

// Queue is a bounded FIFO of functions executed by its owning goroutine.
// Producers may be any goroutine.
type Queue struct {
	tasks  chan *task
	closed chan struct{}
	shut   atomic.Bool
}

// NewQueue returns a queue holding up to size pending tasks.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 16
	}
	return &Queue{tasks: make(chan *task, size), closed: make(chan struct{})}
}

// Post schedules fn without waiting for it.
func (q *Queue) Post(fn func()) error {
	if q.shut.Load() {
		return ErrClosed
	}
	select {
	case q.tasks <- &task{fn: fn}:
		return nil
	default:
		return ErrFull
	}
}

// Call schedules fn and waits until it has run on the owning goroutine or ctx
// ends. When ctx ends first fn is skipped if it has not started yet.
func (q *Queue) Call(ctx context.Context, fn func()) error {
	if q.shut.Load() {
		return ErrClosed
	}
	t := &task{fn: fn, done: make(chan struct{})}
	select {
	case q.tasks <- t:
	case <-q.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-t.done:
		return nil
	case <-q.closed:
		t.abandoned.Store(true)
		return ErrClosed
	case <-ctx.Done():
		t.abandoned.Store(true)
		return ctx.Err()
	}
}

// Drain runs every task currently queued and returns how many ran. It must be
// called from the owning goroutine.
func (q *Queue) Drain() int {
	n := 0
	for {
		select {
		case t := <-q.tasks:
			q.exec(t)
			n++
		default:
			return n
		}
	}
}

// Run locks the calling goroutine to its OS thread and executes tasks until ctx
// ends or the queue is closed.
func (q *Queue) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	for {
		select {
		case t := <-q.tasks:
			q.exec(t)
		case <-q.closed:
			return
		case <-ctx.Done():
			return
		}
	}
}

// DrainFor runs queued tasks until the queue is empty or budget elapses.
func (q *Queue) DrainFor(budget time.Duration) int {
	deadline := time.Now().Add(budget)
	n := 0
	for time.Now().Before(deadline) {
		select {
		case t := <-q.tasks:
			q.exec(t)
			n++
		default:
			return n
		}
	}
	return n
}

// Close rejects further tasks and releases waiting callers. Safe to call twice.
func (q *Queue) Close() {
	if q.shut.Swap(true) {
		return
	}
	close(q.closed)
}

func (q *Queue) exec(t *task) {
	if t.abandoned.Load() {
		return
	}
	if t.fn != nil {
		t.fn()
	}
	if t.done != nil {
		close(t.done)
	}
}
