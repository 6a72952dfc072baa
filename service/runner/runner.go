// Package runner executes a flow run: it walks tasks in dependency order,
// routes upstream results to downstream inputs through a per-run decode
// cache, dispatches tasks to an executor and aggregates the final state.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/viant/flowrun/internal/clock"
	"github.com/viant/flowrun/internal/idgen"
	"github.com/viant/flowrun/model/graph"
	"github.com/viant/flowrun/model/result"
	"github.com/viant/flowrun/model/state"
	"github.com/viant/flowrun/runtime/execution"
	"github.com/viant/flowrun/runtime/future"
	"github.com/viant/flowrun/service/event"
	"github.com/viant/flowrun/service/executor"
	"github.com/viant/flowrun/service/executor/local"
	"github.com/viant/flowrun/service/messaging"
	"github.com/viant/flowrun/tracing"
)

// Runner executes runs of a single flow
type Runner struct {
	flow      *graph.Flow
	id        string
	executor  executor.Executor
	publisher *event.Publisher[*result.RunResult]
	logger    zerolog.Logger
}

// New creates a flow runner; without WithExecutor tasks run on a local executor.
func New(flow *graph.Flow, opts ...Option) *Runner {
	ret := &Runner{flow: flow, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.id == "" {
		ret.id = idgen.Compact()
	}
	if ret.executor == nil {
		ret.executor = local.New(local.WithLogger(ret.logger))
	}
	ret.logger = ret.logger.With().Str("flow", flow.Name).Str("flow_run_id", ret.id).Logger()
	return ret
}

// ID returns the flow run id
func (r *Runner) ID() string { return r.id }

// Run executes the flow. The only returned error is *MissingParameterError,
// raised before any task is dispatched; every other failure is reported
// through the returned state.
func (r *Runner) Run(ctx context.Context, params map[string]interface{}, opts ...RunOption) (*result.RunResult, error) {
	options := &runOptions{}
	for _, opt := range opts {
		opt(options)
	}
	flowState := options.state
	if flowState == nil {
		flowState = state.NewFlowState()
	}

	var missing []string
	for _, name := range r.flow.RequiredParams() {
		if _, ok := params[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingParameterError{Names: missing}
	}
	params = r.flow.Parameters.Apply(params)

	execContext := execution.Context{
		execution.DateKey:          nil,
		execution.AsOfDateKey:      nil,
		execution.LastDateKey:      nil,
		execution.FlowKey:          r.flow,
		execution.FlowIDKey:        r.flow.ID,
		execution.FlowNamespaceKey: r.flow.Namespace,
		execution.FlowNameKey:      r.flow.Name,
		execution.FlowVersionKey:   r.flow.Version,
		execution.FlowRunIDKey:     r.id,
		execution.ParamsKey:        params,
	}.Merge(options.context)
	ctx = execution.WithContext(ctx, execContext)

	ctx, span := tracing.StartSpan(ctx, "flow."+r.flow.Name, tracing.KindInternal)
	span.WithAttributes(map[string]string{"flow_id": r.flow.ID, "flow_run_id": r.id})
	started := clock.Now()
	r.publish(ctx, event.FlowStarted, "", nil, 0)

	results, err := r.run(ctx, execContext)
	if err != nil {
		flowState.Fail(err.Error())
		r.logger.Error().Err(err).Msg("flow run failed")
	} else {
		aggregate(flowState, results, r.flow.TerminalTasks())
	}
	tracing.EndSpan(span, err)

	ret := result.New(flowState, nil)
	if err == nil {
		ret.Result = results
	}
	r.publish(ctx, event.FlowFinished, "", ret, int(clock.Since(started).Milliseconds()))
	r.logger.Debug().Str("state", string(flowState.Kind())).Msg("flow run finished")
	return ret, nil
}

func (r *Runner) run(ctx context.Context, execContext execution.Context) (results map[string]*result.RunResult, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("flow run panicked: %v", recovered)
		}
	}()
	sorted, err := r.flow.SortedTasks()
	if err != nil {
		return nil, err
	}
	client, err := r.executor.Open(ctx, execContext)
	if err != nil {
		return nil, fmt.Errorf("failed to open executor client: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close executor client: %w", closeErr)
		}
	}()

	taskResults := make(map[string]*future.Future[*result.RunResult], len(sorted))
	cache := newDecodeCache(client, taskResults)
	for _, task := range sorted {
		upstream := make(map[string]*future.Future[*result.RunResult])
		for _, upstreamTask := range r.flow.UpstreamTasks(task) {
			upstream[upstreamTask.Name] = taskResults[upstreamTask.Name]
		}
		inputs := resolveInputs(ctx, r.flow, task, cache)
		taskResults[task.Name] = client.RunTask(ctx, task, r.id, upstream, inputs)
		r.logger.Debug().Str("task", task.Name).Strs("inputs", keys(inputs)).Msg("task submitted")
		r.publish(ctx, event.TaskSubmitted, task.Name, nil, 0)
	}
	return client.Gather(ctx, taskResults)
}

func (r *Runner) publish(ctx context.Context, eventType, taskName string, data *result.RunResult, timeTakenMs int) {
	if r.publisher == nil {
		return
	}
	anEvent := event.NewEvent(&event.Context{
		FlowID:      r.flow.ID,
		FlowName:    r.flow.Name,
		FlowRunID:   r.id,
		TaskName:    taskName,
		EventType:   eventType,
		TimeTakenMs: timeTakenMs,
	}, data)
	if task, ok := r.flow.Task(taskName); ok {
		anEvent.Context.Action = task.Action
	}
	// publishing never blocks the run; events that do not fit are dropped
	if err := r.publisher.TryPublish(ctx, anEvent); err != nil {
		if errors.Is(err, messaging.ErrQueueFull) {
			r.logger.Warn().Str("event", eventType).Str("task", taskName).Msg("run event dropped, queue full")
			return
		}
		r.logger.Warn().Err(err).Str("event", eventType).Msg("failed to publish run event")
	}
}

func keys[T any](values map[string]T) []string {
	ret := make([]string, 0, len(values))
	for k := range values {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
