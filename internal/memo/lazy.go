// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package memo provides write-once futures for expensive, idempotent loads.
//
// A Lazy runs its producer at most once. The first Get starts it; every Get,
// whether concurrent with the first or long after it, observes the same value
// and error. Callers that give up waiting (context cancelled) do not cancel
// the shared producer, so a later caller still gets the completed result.
package memo

import (
	"context"
	"fmt"
	"sync"
)

// Lazy is a memoized asynchronous operation.
type Lazy[T any] struct {
	fn   func(context.Context) (T, error)
	once sync.Once
	done chan struct{}

	val T
	err error
}

// New returns a Lazy that will run fn on first use.
func New[T any](fn func(context.Context) (T, error)) *Lazy[T] {
	return &Lazy[T]{fn: fn, done: make(chan struct{})}
}

// Start launches the producer if it has not been launched yet and returns
// immediately.
func (l *Lazy[T]) Start(ctx context.Context) {
	l.once.Do(func() {
		pctx := context.WithoutCancel(ctx)
		go func() {
			defer close(l.done)
			defer func() {
				if r := recover(); r != nil {
					l.err = fmt.Errorf("memo: producer panicked: %v", r)
				}
			}()
			l.val, l.err = l.fn(pctx)
		}()
	})
}

// Get starts the producer if needed and waits for its result or for ctx to
// end, whichever comes first.
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.Start(ctx)
	select {
	case <-l.done:
		return l.val, l.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Peek returns the result without starting or waiting. ok is false while
// the producer has not finished.
func (l *Lazy[T]) Peek() (val T, err error, ok bool) {
	select {
	case <-l.done:
		return l.val, l.err, true
	default:
		var zero T
		return zero, nil, false
	}
}
