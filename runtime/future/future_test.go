package future

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture_Await(t *testing.T) {
	ctx := context.Background()

	f := New[int]()
	assert.False(t, f.IsDone())
	assert.True(t, f.Resolve(1))
	assert.False(t, f.Resolve(2))
	assert.False(t, f.Reject(errors.New("late")))
	for i := 0; i < 2; i++ {
		value, err := f.Await(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, value)
	}

	failed := Failed[string](errors.New("boom"))
	_, err := failed.Await(ctx)
	assert.EqualError(t, err, "boom")
}

func TestFuture_AwaitCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := New[int]().Await(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestGo(t *testing.T) {
	ctx := context.Background()

	value, err := Go(ctx, func(ctx context.Context) (string, error) { return "ok", nil }).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", value)

	_, err = Go(ctx, func(ctx context.Context) (string, error) { panic("bad") }).Await(ctx)
	assert.EqualError(t, err, "panic: bad")
}

func TestThen(t *testing.T) {
	ctx := context.Background()
	source := New[[]int]()
	second := Then(ctx, source, func(values []int) (int, error) { return values[1], nil })
	assert.False(t, second.IsDone())
	source.Resolve([]int{1, 2, 3})
	value, err := second.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, value)

	failed := Then(ctx, Failed[int](errors.New("upstream")), func(v int) (int, error) { return v, nil })
	_, err = failed.Await(ctx)
	assert.EqualError(t, err, "upstream")

	erased, err := Any(ctx, Resolved(3)).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, erased)
}
