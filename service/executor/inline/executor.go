// Package inline runs flow tasks synchronously on the submitting goroutine.
// Because tasks are submitted in dependency order every upstream result is
// already resolved when a task runs, which makes runs deterministic.
package inline

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/viant/flowrun/model/graph"
	"github.com/viant/flowrun/model/result"
	"github.com/viant/flowrun/model/state"
	"github.com/viant/flowrun/runtime/execution"
	"github.com/viant/flowrun/runtime/future"
	"github.com/viant/flowrun/service/executor"
)

// Executor is a synchronous executor
type Executor struct {
	listener executor.Listener
	logger   zerolog.Logger
}

// Option customises the inline executor
type Option func(e *Executor)

// WithListener sets task listener
func WithListener(listener executor.Listener) Option {
	return func(e *Executor) {
		e.listener = listener
	}
}

// WithLogger sets executor logger
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// New creates an inline executor
func New(opts ...Option) *Executor {
	ret := &Executor{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (e *Executor) Open(ctx context.Context, execContext execution.Context) (executor.Client, error) {
	return &client{
		execContext: execContext,
		runner:      executor.NewTaskRunner(executor.WithListener(e.listener), executor.WithLogger(e.logger)),
		memo:        make(map[string]*future.Future[any]),
	}, nil
}

type client struct {
	execContext execution.Context
	runner      *executor.TaskRunner
	memo        map[string]*future.Future[any]
	closed      bool
}

func (c *client) Submit(ctx context.Context, key string, fn executor.HelperFunc, pure bool) *future.Future[any] {
	if c.closed {
		return future.Failed[any](executor.ErrClientClosed)
	}
	if existing, ok := c.memo[key]; ok && pure {
		return existing
	}
	ret := future.New[any]()
	future.Run(execution.WithContext(ctx, c.execContext), ret, func(ctx context.Context) (any, error) { return fn(ctx) })
	if pure {
		c.memo[key] = ret
	}
	return ret
}

func (c *client) RunTask(ctx context.Context, task *graph.Task, flowRunID string,
	upstream map[string]*future.Future[*result.RunResult], inputs map[string]*future.Future[any]) *future.Future[*result.RunResult] {
	if c.closed {
		return future.Resolved(result.New(state.NewTaskState(state.KindFailed, executor.ErrClientClosed.Error()), nil))
	}
	ctx = execution.WithContext(ctx, c.execContext)
	return future.Resolved(c.runner.Run(ctx, task, flowRunID, upstream, inputs))
}

func (c *client) Gather(ctx context.Context, futures map[string]*future.Future[*result.RunResult]) (map[string]*result.RunResult, error) {
	ret := make(map[string]*result.RunResult, len(futures))
	for name, pending := range futures {
		value, err := pending.Await(ctx)
		if err != nil {
			return nil, err
		}
		ret[name] = value
	}
	return ret, nil
}

func (c *client) Close() error {
	c.closed = true
	return nil
}
