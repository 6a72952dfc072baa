package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/viant/flowrun/model/graph"
	"github.com/viant/flowrun/model/result"
	"github.com/viant/flowrun/model/state"
	"github.com/viant/flowrun/runtime/future"
	"github.com/viant/flowrun/tracing"
)

// Invocation is a task ready to run: upstream results and inputs resolved.
type Invocation struct {
	Task      *graph.Task
	FlowRunID string
	Inputs    map[string]interface{}
}

// TaskRunner executes a single task on behalf of an executor backend.
type TaskRunner struct {
	listener Listener
	logger   zerolog.Logger
}

// RunnerOption customises a TaskRunner
type RunnerOption func(r *TaskRunner)

// WithListener sets the listener invoked after every task function call.
func WithListener(listener Listener) RunnerOption {
	return func(r *TaskRunner) {
		r.listener = listener
	}
}

// WithLogger sets task runner logger
func WithLogger(logger zerolog.Logger) RunnerOption {
	return func(r *TaskRunner) {
		r.logger = logger
	}
}

// NewTaskRunner creates a task runner
func NewTaskRunner(opts ...RunnerOption) *TaskRunner {
	ret := &TaskRunner{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Run prepares and invokes the task
func (r *TaskRunner) Run(ctx context.Context, task *graph.Task, flowRunID string,
	upstream map[string]*future.Future[*result.RunResult], inputs map[string]*future.Future[any]) *result.RunResult {
	invocation, finished := r.Prepare(ctx, task, flowRunID, upstream, inputs)
	if finished != nil {
		return finished
	}
	return r.Invoke(ctx, invocation)
}

// Prepare awaits upstream results and inputs. It returns either an invocation
// or, when the task must not run, its final result.
func (r *TaskRunner) Prepare(ctx context.Context, task *graph.Task, flowRunID string,
	upstream map[string]*future.Future[*result.RunResult], inputs map[string]*future.Future[any]) (*Invocation, *result.RunResult) {
	upstreamStates := make(map[string]state.State, len(upstream))
	for name, pending := range upstream {
		upstreamResult, err := pending.Await(ctx)
		if err != nil {
			return nil, r.finish(task, fmt.Errorf("failed to await upstream task %s: %w", name, err))
		}
		if upstreamResult == nil || upstreamResult.State == nil {
			return nil, r.finish(task, fmt.Errorf("upstream task %s returned no state", name))
		}
		upstreamStates[name] = upstreamResult.State
	}
	if err := task.Trigger.Check(upstreamStates); err != nil {
		return nil, r.finish(task, err)
	}

	values := make(map[string]interface{}, len(task.Input)+len(inputs))
	for k, v := range task.Input {
		values[k] = v
	}
	for key, pending := range inputs {
		value, err := pending.Await(ctx)
		if err != nil {
			return nil, r.finish(task, err)
		}
		values[key] = value
	}
	return &Invocation{Task: task, FlowRunID: flowRunID, Inputs: values}, nil
}

// Invoke calls the task function and converts its outcome into a RunResult.
func (r *TaskRunner) Invoke(ctx context.Context, invocation *Invocation) (ret *result.RunResult) {
	task := invocation.Task
	ctx, span := tracing.StartSpan(ctx, "task."+task.Name, tracing.KindInternal)
	span.WithAttributes(map[string]string{"task": task.Name, "flow_run_id": invocation.FlowRunID})
	var err error
	defer func() { tracing.EndSpan(span, err) }()

	if task.Fn == nil {
		err = fmt.Errorf("%w: %s", ErrNoFunction, task.Name)
		return r.finish(task, err)
	}
	var output interface{}
	output, err = r.call(ctx, task, invocation.Inputs)
	if r.listener != nil {
		r.listener(task, invocation.Inputs, output)
	}
	if err != nil {
		return r.finish(task, err)
	}
	if output == nil {
		return r.finish(task, nil)
	}
	var raw []byte
	if raw, err = task.Encode(output); err != nil {
		err = fmt.Errorf("failed to encode output of %s: %w", task.Name, err)
		return r.finish(task, err)
	}
	ret = r.finish(task, nil)
	ret.Result = raw
	return ret
}

func (r *TaskRunner) call(ctx context.Context, task *graph.Task, inputs map[string]interface{}) (output interface{}, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("task %s panicked: %v", task.Name, recovered)
		}
	}()
	return task.Fn(ctx, inputs)
}

// finish maps err onto the task state.
func (r *TaskRunner) finish(task *graph.Task, err error) *result.RunResult {
	taskState := state.NewTaskState(state.KindSucceeded, "")
	switch {
	case err == nil:
	case errors.Is(err, graph.ErrWait):
		taskState.Wait(err.Error())
	case errors.Is(err, graph.ErrSkip):
		taskState.Skip(err.Error())
	default:
		taskState.Fail(err.Error())
	}
	if err != nil {
		r.logger.Debug().Str("task", task.Name).Str("state", string(taskState.Kind())).Err(err).Msg("task did not succeed")
	}
	return result.New(taskState, nil)
}
