package event

import (
	"context"
	"errors"

	"github.com/viant/flowrun/internal/clock"
	"github.com/viant/flowrun/service/messaging"
)

// Publisher publishes typed events; when attached to a Service every event is
// also forwarded to the service wide untyped queue.
type Publisher[T any] struct {
	queue    messaging.Queue[Event[T]]
	anyQueue messaging.Queue[Event[any]]
}

func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{
		queue: queue,
	}
}

func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	event.CreatedAt = clock.Now()
	if p.anyQueue != nil {
		if err := p.anyQueue.Publish(ctx, &Event[any]{
			Context:   event.Context,
			CreatedAt: event.CreatedAt,
			Metadata:  event.Metadata,
			Data:      event.Data,
		}); err != nil {
			return err
		}
	}
	return p.queue.Publish(ctx, event)
}

// TryPublish publishes without blocking when the underlying queues support
// it; a full queue yields messaging.ErrQueueFull and the event is not
// delivered to it.
func (p *Publisher[T]) TryPublish(ctx context.Context, event *Event[T]) error {
	event.CreatedAt = clock.Now()
	var errs []error
	if p.anyQueue != nil {
		errs = append(errs, tryPublish(ctx, p.anyQueue, &Event[any]{
			Context:   event.Context,
			CreatedAt: event.CreatedAt,
			Metadata:  event.Metadata,
			Data:      event.Data,
		}))
	}
	errs = append(errs, tryPublish(ctx, p.queue, event))
	return errors.Join(errs...)
}

func tryPublish[T any](ctx context.Context, queue messaging.Queue[T], t *T) error {
	if publisher, ok := queue.(messaging.TryPublisher[T]); ok {
		return publisher.TryPublish(ctx, t)
	}
	return queue.Publish(ctx, t)
}

// Consume returns the next event, acknowledging its message.
func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}
