package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/flowrun/service/messaging"
)

type runEvent struct {
	FlowRunID string
	TaskName  string
	Type      string
}

func TestQueue(t *testing.T) {
	config := DefaultConfig()
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[runEvent](config)
	ctx := context.Background()

	payload := runEvent{FlowRunID: "run-1", TaskName: "extract", Type: "task.submitted"}
	require.NoError(t, queue.Publish(ctx, &payload))
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, queue.Size())
	assert.NotEmpty(t, message.ID())
	assert.Equal(t, payload, *message.T())

	assert.NoError(t, message.Ack())
	assert.True(t, errors.Is(message.Ack(), ErrProcessed))
}

func TestQueue_Retries(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = 2
	config.RetryDelay = 5 * time.Millisecond
	queue := NewQueue[runEvent](config)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, queue.Publish(ctx, &runEvent{FlowRunID: "run-2", Type: "flow.finished"}))
	var id string
	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		message, err := queue.Consume(ctx)
		require.NoError(t, err, attempt)
		if id == "" {
			id = message.ID()
		}
		assert.Equal(t, id, message.ID(), "redelivered message keeps its id")
		assert.Equal(t, attempt, message.(*Message[runEvent]).RetryCount())
		require.NoError(t, message.Nack(fmt.Errorf("attempt %d", attempt)))
	}

	time.Sleep(3 * config.RetryDelay)
	assert.Equal(t, 0, queue.Size())
	deadLetters := queue.DeadLetters()
	require.Len(t, deadLetters, 1)
	assert.Equal(t, "run-2", deadLetters[0].FlowRunID)
}

func TestQueue_Concurrency(t *testing.T) {
	queue := NewQueue[runEvent](DefaultConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	producers, perProducer := 8, 10
	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(producer int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				assert.NoError(t, queue.Publish(ctx, &runEvent{FlowRunID: fmt.Sprintf("run-%d", producer), TaskName: fmt.Sprintf("t%d", j)}))
			}
		}(i)
	}

	seen := map[string]bool{}
	for i := 0; i < producers*perProducer; i++ {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		require.NoError(t, message.Ack())
		seen[message.T().FlowRunID+"/"+message.T().TaskName] = true
	}
	wg.Wait()
	assert.Len(t, seen, producers*perProducer)
	assert.Equal(t, 0, queue.Size())
}

func TestQueue_ContextCancellation(t *testing.T) {
	queue := NewQueue[runEvent](DefaultConfig())
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, queue.Publish(cancelled, &runEvent{}))

	timeout, cancelTimeout := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelTimeout()
	_, err := queue.Consume(timeout)
	assert.Error(t, err)

	require.NoError(t, queue.Publish(context.Background(), &runEvent{Type: "flow.started"}))
	message, err := queue.Consume(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "flow.started", message.T().Type)
}

func TestQueue_TryPublish(t *testing.T) {
	queue := NewQueue[runEvent](Config{QueueBuffer: 2})
	ctx := context.Background()

	testCases := []struct {
		description string
		expectError error
	}{
		{description: "first"},
		{description: "second"},
		{description: "buffer full", expectError: messaging.ErrQueueFull},
	}
	for _, testCase := range testCases {
		err := queue.TryPublish(ctx, &runEvent{TaskName: testCase.description})
		if testCase.expectError != nil {
			assert.True(t, errors.Is(err, testCase.expectError), testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
	}
	assert.Equal(t, 2, queue.Size())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, queue.TryPublish(cancelled, &runEvent{}), context.Canceled)
}
