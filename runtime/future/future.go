// Package future provides channel backed pending values used to chain task
// results without blocking the submitting goroutine.
package future

import (
	"context"
	"fmt"
	"sync"
)

// Future represents the result of an asynchronous operation. It is resolved
// exactly once and can be awaited any number of times.
type Future[T any] struct {
	once   sync.Once
	doneCh chan struct{}
	value  T
	err    error
}

// New creates an unresolved future
func New[T any]() *Future[T] {
	return &Future[T]{doneCh: make(chan struct{})}
}

// Resolved returns a future holding value
func Resolved[T any](value T) *Future[T] {
	ret := New[T]()
	ret.Resolve(value)
	return ret
}

// Failed returns a future holding err
func Failed[T any](err error) *Future[T] {
	ret := New[T]()
	ret.Reject(err)
	return ret
}

// Resolve sets the future value; it returns false if already completed.
func (f *Future[T]) Resolve(value T) bool {
	return f.complete(value, nil)
}

// Reject sets the future error; it returns false if already completed.
func (f *Future[T]) Reject(err error) bool {
	var zero T
	return f.complete(zero, err)
}

func (f *Future[T]) complete(value T, err error) bool {
	completed := false
	f.once.Do(func() {
		f.value, f.err = value, err
		close(f.doneCh)
		completed = true
	})
	return completed
}

// Done returns a channel that is closed once the future completes.
func (f *Future[T]) Done() <-chan struct{} { return f.doneCh }

// IsDone returns true if the future completed
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.doneCh:
		return true
	default:
		return false
	}
}

// Await blocks until the future completes or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.doneCh:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Go runs fn in a new goroutine and returns its future. A panic in fn
// rejects the future.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	ret := New[T]()
	go Run(ctx, ret, fn)
	return ret
}

// Run executes fn synchronously and completes f with its outcome.
func Run[T any](ctx context.Context, f *Future[T], fn func(ctx context.Context) (T, error)) {
	defer func() {
		if r := recover(); r != nil {
			f.Reject(fmt.Errorf("panic: %v", r))
		}
	}()
	value, err := fn(ctx)
	if err != nil {
		f.Reject(err)
		return
	}
	f.Resolve(value)
}

// Then derives a future applying fn to the value of f once it resolves.
func Then[T any, R any](ctx context.Context, f *Future[T], fn func(T) (R, error)) *Future[R] {
	return Go(ctx, func(ctx context.Context) (R, error) {
		value, err := f.Await(ctx)
		if err != nil {
			var zero R
			return zero, err
		}
		return fn(value)
	})
}

// Any erases the value type of f.
func Any[T any](ctx context.Context, f *Future[T]) *Future[any] {
	return Then(ctx, f, func(value T) (any, error) { return value, nil })
}
