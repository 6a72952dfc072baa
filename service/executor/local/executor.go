// Package local runs flow tasks on goroutines of the current process.
package local

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
	"github.com/viant/flowrun/model/graph"
	"github.com/viant/flowrun/model/result"
	"github.com/viant/flowrun/model/state"
	"github.com/viant/flowrun/runtime/execution"
	"github.com/viant/flowrun/runtime/future"
	"github.com/viant/flowrun/service/executor"
	"golang.org/x/sync/errgroup"
)

// Executor runs task functions on a bounded worker pool. Tasks wait for
// their dependencies outside the pool so a waiting task never holds a worker.
type Executor struct {
	workers  int
	listener executor.Listener
	logger   zerolog.Logger
}

// Option customises the local executor
type Option func(e *Executor)

// WithWorkers sets the maximum number of task functions running at once.
func WithWorkers(workers int) Option {
	return func(e *Executor) {
		e.workers = workers
	}
}

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

// New creates a local executor; workers default to GOMAXPROCS.
func New(opts ...Option) *Executor {
	ret := &Executor{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.workers <= 0 {
		ret.workers = runtime.GOMAXPROCS(0)
	}
	return ret
}

// Open creates a client bound to one flow run.
func (e *Executor) Open(ctx context.Context, execContext execution.Context) (executor.Client, error) {
	logger := e.logger.With().Str("flow_run_id", execContext.FlowRunID()).Logger()
	return &client{
		execContext: execContext,
		pool:        pool.New().WithMaxGoroutines(e.workers),
		runner:      executor.NewTaskRunner(executor.WithListener(e.listener), executor.WithLogger(logger)),
		memo:        make(map[string]*future.Future[any]),
		logger:      logger,
	}, nil
}

type client struct {
	execContext execution.Context
	pool        *pool.Pool
	waiters     conc.WaitGroup
	runner      *executor.TaskRunner
	memo        map[string]*future.Future[any]
	mux         sync.Mutex
	closed      atomic.Bool
	logger      zerolog.Logger
}

func (c *client) context(ctx context.Context) context.Context {
	return execution.WithContext(ctx, c.execContext)
}

// Submit runs helper work on its own goroutine; helpers mostly wait on other
// futures and do not take a worker.
func (c *client) Submit(ctx context.Context, key string, fn executor.HelperFunc, pure bool) *future.Future[any] {
	if c.closed.Load() {
		return future.Failed[any](executor.ErrClientClosed)
	}
	c.mux.Lock()
	if pure {
		if existing, ok := c.memo[key]; ok {
			c.mux.Unlock()
			return existing
		}
	}
	ret := future.New[any]()
	if pure {
		c.memo[key] = ret
	}
	c.mux.Unlock()

	ctx = c.context(ctx)
	c.waiters.Go(func() {
		future.Run(ctx, ret, func(ctx context.Context) (any, error) { return fn(ctx) })
	})
	return ret
}

func (c *client) RunTask(ctx context.Context, task *graph.Task, flowRunID string,
	upstream map[string]*future.Future[*result.RunResult], inputs map[string]*future.Future[any]) *future.Future[*result.RunResult] {
	if c.closed.Load() {
		return future.Resolved(result.New(state.NewTaskState(state.KindFailed, executor.ErrClientClosed.Error()), nil))
	}
	ret := future.New[*result.RunResult]()
	ctx = c.context(ctx)
	c.waiters.Go(func() {
		invocation, finished := c.runner.Prepare(ctx, task, flowRunID, upstream, inputs)
		if finished != nil {
			ret.Resolve(finished)
			return
		}
		c.pool.Go(func() {
			ret.Resolve(c.runner.Invoke(ctx, invocation))
		})
	})
	return ret
}

func (c *client) Gather(ctx context.Context, futures map[string]*future.Future[*result.RunResult]) (map[string]*result.RunResult, error) {
	group, gCtx := errgroup.WithContext(ctx)
	var mux sync.Mutex
	ret := make(map[string]*result.RunResult, len(futures))
	for name, pending := range futures {
		group.Go(func() error {
			value, err := pending.Await(gCtx)
			if err != nil {
				return err
			}
			mux.Lock()
			ret[name] = value
			mux.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Close waits for every scheduled task and helper to return.
func (c *client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.waiters.Wait()
	c.pool.Wait()
	c.logger.Debug().Msg("executor client closed")
	return nil
}
