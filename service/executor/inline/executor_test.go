package inline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/flowrun/model/graph"
	"github.com/viant/flowrun/model/result"
	"github.com/viant/flowrun/runtime/execution"
	"github.com/viant/flowrun/runtime/future"
)

func TestClient(t *testing.T) {
	ctx := context.Background()
	client, err := New().Open(ctx, execution.Context{execution.FlowNameKey: "inline"})
	require.NoError(t, err)

	var order []string
	task := func(name string) *graph.Task {
		return graph.NewTask(name, func(ctx context.Context, inputs map[string]interface{}) (interface{}, error) {
			order = append(order, name)
			return execution.FromContext(ctx).FlowName(), nil
		})
	}

	a := client.RunTask(ctx, task("a"), "run", nil, nil)
	assert.True(t, a.IsDone())
	b := client.RunTask(ctx, task("b"), "run", map[string]*future.Future[*result.RunResult]{"a": a}, nil)
	results, err := client.Gather(ctx, map[string]*future.Future[*result.RunResult]{"a": a, "b": b})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
	raw, _ := results["b"].Raw()
	assert.Equal(t, `"inline"`, string(raw))

	require.NoError(t, client.Close())
	closed := client.RunTask(ctx, task("c"), "run", nil, nil)
	value, err := closed.Await(ctx)
	require.NoError(t, err)
	assert.True(t, value.State.IsFailed())
}
