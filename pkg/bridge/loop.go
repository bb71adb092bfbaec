package bridge

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
)

var (
	// ErrQueueFull is returned by Defer when the loop has too much pending
	// work.
	ErrQueueFull = errors.New("bridge: loop queue full")

	// ErrLoopClosed is returned when submitting to a closed loop.
	ErrLoopClosed = errors.New("bridge: loop closed")
)

// DefaultQueueSize is the queue capacity used when NewLoop is given zero.
const DefaultQueueSize = 256

// Loop runs submitted functions one at a time, in submission order, on a
// single goroutine.
type Loop struct {
	tasks  chan func()
	done   chan struct{}
	exited chan struct{}
	once   sync.Once
	logger *slog.Logger

	// after runs after every task. Only touched on the loop goroutine.
	after func()
}

// NewLoop starts a loop with room for size pending functions.
func NewLoop(size int, logger *slog.Logger) *Loop {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loop{
		tasks:  make(chan func(), size),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
		logger: logger,
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.exited)
	for {
		select {
		case fn := <-l.tasks:
			l.exec(fn)
			if l.after != nil {
				l.exec(l.after)
			}
		case <-l.done:
			return
		}
	}
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop task panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Defer queues fn without waiting for it. It fails with ErrQueueFull
// instead of blocking.
func (l *Loop) Defer(fn func()) error {
	select {
	case <-l.done:
		return ErrLoopClosed
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	default:
		return ErrQueueFull
	}
}

// Do runs fn on the loop and waits for it to return. A panic in fn is
// re-raised in the caller.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	result := make(chan any, 1)
	task := func() {
		defer func() {
			result <- recover()
		}()
		fn()
	}
	select {
	case l.tasks <- task:
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case r := <-result:
		if r != nil {
			panic(r)
		}
		return nil
	case <-l.exited:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetAfter installs fn to run after every task. Passing nil removes it.
func (l *Loop) SetAfter(fn func()) error {
	return l.Defer(func() { l.after = fn })
}

// Close stops the loop. Pending functions are dropped.
func (l *Loop) Close() {
	l.once.Do(func() {
		close(l.done)
	})
	<-l.exited
}
