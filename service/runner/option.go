package runner

import (
	"github.com/rs/zerolog"
	"github.com/viant/flowrun/model/result"
	"github.com/viant/flowrun/model/state"
	"github.com/viant/flowrun/service/event"
	"github.com/viant/flowrun/service/executor"
)

// Option customises a Runner
type Option func(r *Runner)

// WithID sets the flow run id; by default a random one is generated.
func WithID(id string) Option {
	return func(r *Runner) {
		r.id = id
	}
}

// WithExecutor sets the executor tasks are dispatched to.
func WithExecutor(exec executor.Executor) Option {
	return func(r *Runner) {
		r.executor = exec
	}
}

// WithPublisher sets a publisher receiving run lifecycle events.
func WithPublisher(publisher *event.Publisher[*result.RunResult]) Option {
	return func(r *Runner) {
		r.publisher = publisher
	}
}

// WithLogger sets runner logger
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

type runOptions struct {
	state   state.State
	context map[string]interface{}
}

// RunOption customises a single run
type RunOption func(o *runOptions)

// WithState sets the state the run starts from and reports into.
func WithState(initial state.State) RunOption {
	return func(o *runOptions) {
		o.state = initial
	}
}

// WithContext merges values on top of the execution context; caller values win.
func WithContext(values map[string]interface{}) RunOption {
	return func(o *runOptions) {
		o.context = values
	}
}
