// Package executor defines how flow tasks are scheduled. An Executor opens a
// Client scoped to a single flow run; the client accepts task submissions
// without blocking and resolves them later through Gather.
package executor

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/viant/flowrun/model/graph"
	"github.com/viant/flowrun/model/result"
	"github.com/viant/flowrun/runtime/execution"
	"github.com/viant/flowrun/runtime/future"
)

type (
	// HelperFunc is auxiliary work (decoding, indexing) scheduled on a client.
	HelperFunc func(ctx context.Context) (interface{}, error)

	// Executor opens run scoped clients.
	Executor interface {
		Open(ctx context.Context, execContext execution.Context) (Client, error)
	}

	// Client is an executor session bound to one flow run. It has to be closed
	// once the run completes.
	Client interface {
		// Submit schedules fn; pure submissions sharing a key run once.
		Submit(ctx context.Context, key string, fn HelperFunc, pure bool) *future.Future[any]

		// RunTask schedules a task once its upstream results and inputs resolve.
		RunTask(ctx context.Context, task *graph.Task, flowRunID string,
			upstream map[string]*future.Future[*result.RunResult],
			inputs map[string]*future.Future[any]) *future.Future[*result.RunResult]

		// Gather blocks until every future resolves.
		Gather(ctx context.Context, futures map[string]*future.Future[*result.RunResult]) (map[string]*result.RunResult, error)

		Close() error
	}

	// Listener is invoked once a task function returns, regardless of whether
	// it returned an error.
	Listener func(task *graph.Task, inputs map[string]interface{}, output interface{})
)

// LogListener returns a listener logging task inputs and output at debug level.
func LogListener(logger zerolog.Logger) Listener {
	return func(task *graph.Task, inputs map[string]interface{}, output interface{}) {
		if task == nil {
			return
		}
		logger.Debug().
			Str("task", task.Name).
			Str("action", task.Action).
			Interface("inputs", inputs).
			Interface("output", output).
			Msg("task executed")
	}
}
