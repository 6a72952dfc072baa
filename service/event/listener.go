package event

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Listener consumes events on a goroutine and passes them to a handler.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	logger    zerolog.Logger
	cancel    context.CancelFunc
	done      sync.WaitGroup
}

func NewListener[T any](publisher *Publisher[T], handler func(*Event[T]), logger zerolog.Logger) *Listener[T] {
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		logger:    logger,
	}
}

// Stop stops consuming and waits for the running handler to return.
func (l *Listener[T]) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
	l.done.Wait()
}

func (l *Listener[T]) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.done.Add(1)
	go func() {
		defer l.done.Done()
		for {
			anEvent, err := l.publisher.Consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				l.logger.Warn().Err(err).Msg("failed to consume event")
				continue
			}
			if anEvent != nil {
				l.handler(anEvent)
			}
		}
	}()
}
