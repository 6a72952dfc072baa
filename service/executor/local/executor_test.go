package local

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/flowrun/model/graph"
	"github.com/viant/flowrun/model/result"
	"github.com/viant/flowrun/runtime/execution"
	"github.com/viant/flowrun/runtime/future"
)

func TestClient_RunTask(t *testing.T) {
	ctx := context.Background()
	client, err := New(WithWorkers(1)).Open(ctx, execution.Context{execution.FlowRunIDKey: "run-1"})
	require.NoError(t, err)

	release := make(chan struct{})
	upstream := graph.NewTask("up", func(ctx context.Context, inputs map[string]interface{}) (interface{}, error) {
		<-release
		return []int{1, 2}, nil
	})
	downstream := graph.NewTask("down", func(ctx context.Context, inputs map[string]interface{}) (interface{}, error) {
		return execution.FromContext(ctx).FlowRunID(), nil
	})

	upFuture := client.RunTask(ctx, upstream, "run-1", nil, nil)
	downFuture := client.RunTask(ctx, downstream, "run-1",
		map[string]*future.Future[*result.RunResult]{"up": upFuture}, nil)
	assert.False(t, downFuture.IsDone(), "submission does not wait for upstream")
	close(release)

	results, err := client.Gather(ctx, map[string]*future.Future[*result.RunResult]{"up": upFuture, "down": downFuture})
	require.NoError(t, err)
	assert.True(t, results["up"].State.IsSuccessful())
	raw, _ := results["down"].Raw()
	assert.Equal(t, `"run-1"`, string(raw))
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
}

func TestClient_Submit(t *testing.T) {
	ctx := context.Background()
	client, err := New().Open(ctx, execution.Context{})
	require.NoError(t, err)
	defer client.Close()

	var calls int32
	fn := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "decoded", nil
	}
	first := client.Submit(ctx, "x", fn, true)
	second := client.Submit(ctx, "x", fn, true)
	assert.Same(t, first, second)
	impure := client.Submit(ctx, "x", fn, false)
	for _, pending := range []*future.Future[any]{first, impure} {
		value, err := pending.Await(ctx)
		require.NoError(t, err)
		assert.Equal(t, "decoded", value)
	}
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestClient_GatherCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	client, err := New().Open(ctx, execution.Context{})
	require.NoError(t, err)

	_, err = client.Gather(ctx, map[string]*future.Future[*result.RunResult]{"never": future.New[*result.RunResult]()})
	assert.Error(t, err)
	require.NoError(t, client.Close())

	closed := client.Submit(ctx, "x", func(ctx context.Context) (interface{}, error) { return nil, nil }, false)
	_, err = closed.Await(context.Background())
	assert.Error(t, err)
}
