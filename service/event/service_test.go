package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/flowrun/service/messaging"
	"github.com/viant/flowrun/service/messaging/memory"
)

type taskOutcome struct {
	Task  string
	State string
}

func TestService_PublisherOf(t *testing.T) {
	service, err := New(messaging.VendorMemory)
	require.NoError(t, err)
	defer service.Close()

	publisher, err := PublisherOf[*taskOutcome](service)
	require.NoError(t, err)
	again, err := PublisherOf[*taskOutcome](service)
	require.NoError(t, err)
	assert.Same(t, publisher, again)

	received := make(chan *Event[any], 1)
	service.SetListener(func(anEvent *Event[any]) { received <- anEvent })

	anEvent := NewEvent(&Context{FlowRunID: "run-1", TaskName: "load", EventType: TaskSubmitted}, &taskOutcome{Task: "load", State: "succeeded"})
	require.NoError(t, publisher.Publish(context.Background(), anEvent))

	select {
	case actual := <-received:
		assert.Equal(t, TaskSubmitted, actual.Context.EventType)
		assert.Equal(t, "load", actual.Data.(*taskOutcome).Task)
	case <-time.After(time.Second):
		t.Fatal("event was not forwarded to the service listener")
	}

	typed, err := publisher.Consume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run-1", typed.Context.FlowRunID)
}

func TestService_UnsupportedVendor(t *testing.T) {
	_, err := New("kafka")
	assert.Error(t, err)
}

func TestPublisher_TryPublish(t *testing.T) {
	service, err := New(messaging.VendorMemory, WithNewMemoryQueueConfig(func(string) memory.Config {
		return memory.Config{QueueBuffer: 1}
	}))
	require.NoError(t, err)
	defer service.Close()
	publisher, err := PublisherOf[*taskOutcome](service)
	require.NoError(t, err)
	ctx := context.Background()

	first := NewEvent(&Context{FlowRunID: "run-1", EventType: FlowStarted}, &taskOutcome{})
	require.NoError(t, publisher.TryPublish(ctx, first))

	second := NewEvent(&Context{FlowRunID: "run-1", EventType: FlowFinished}, &taskOutcome{})
	err = publisher.TryPublish(ctx, second)
	assert.True(t, errors.Is(err, messaging.ErrQueueFull))

	typed, err := publisher.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, FlowStarted, typed.Context.EventType)
}
