// Package stream models push-based change feeds as cancellable subscriptions.
//
// A Subscription delivers values on a channel until its producer ends or it is
// closed. Close is idempotent: it cancels the producer, waits for it to return
// and thereby detaches whatever listener the producer holds exactly once.
package stream

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by First when the subscription ended before emitting.
var ErrClosed = errors.New("subscription closed")

// Subscription is a cancellable, possibly infinite sequence of values.
type Subscription[T any] interface {
	// Updates is closed when the subscription ends.
	Updates() <-chan T
	// Err reports why the subscription ended. Nil after a normal end or Close.
	Err() error
	// Close stops the producer and waits for it to exit.
	Close()
}

// Producer pushes values through emit until ctx is done.
// emit returns false once the subscription is closing; the producer should return.
type Producer[T any] func(ctx context.Context, emit func(T) bool) error

type subscription[T any] struct {
	updates chan T
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once

	mu  sync.Mutex
	err error
}

// New runs produce in its own goroutine and exposes its output as a Subscription.
func New[T any](ctx context.Context, produce Producer[T]) Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	s := &subscription[T]{
		updates: make(chan T),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		defer close(s.updates)

		err := produce(ctx, func(v T) bool {
			select {
			case s.updates <- v:
				return true
			case <-ctx.Done():
				return false
			}
		})
		// Errors caused by our own cancellation are not failures.
		if err != nil && ctx.Err() == nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
		}
	}()

	return s
}

func (s *subscription[T]) Updates() <-chan T {
	return s.updates
}

func (s *subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *subscription[T]) Close() {
	s.once.Do(s.cancel)
	<-s.done
}

// Just emits v once and then stays open until closed. It stands in for a
// source that has nothing to observe, so that combinators never wait on it.
func Just[T any](ctx context.Context, v T) Subscription[T] {
	return New(ctx, func(ctx context.Context, emit func(T) bool) error {
		if !emit(v) {
			return nil
		}
		<-ctx.Done()
		return nil
	})
}

// First waits for the first value of s and closes it.
func First[T any](ctx context.Context, s Subscription[T]) (T, error) {
	defer s.Close()

	var zero T
	select {
	case v, ok := <-s.Updates():
		if !ok {
			if err := s.Err(); err != nil {
				return zero, err
			}
			return zero, ErrClosed
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
