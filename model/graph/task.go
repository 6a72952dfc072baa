package graph

import (
	"context"
	"fmt"

	"github.com/viant/flowrun/model/serializer"
	"github.com/viant/flowrun/model/state"
	"github.com/viant/structology/conv"
)

// Func is the unit of computation invoked by an executor. Inputs are keyed by
// edge key; returning an error wrapping ErrFail or ErrWait transitions the
// task accordingly, any other error fails it.
type Func func(ctx context.Context, inputs map[string]interface{}) (interface{}, error)

// Trigger decides whether a task may run given its upstream states.
type Trigger string

const (
	// AllSuccessful runs a task only when every upstream task succeeded.
	AllSuccessful Trigger = "allSuccessful"
	// AllFinished runs a task once every upstream task finished in any state.
	AllFinished Trigger = "allFinished"
)

// Check returns nil when the task may run, otherwise a Wait, Skip or Fail signal.
func (t Trigger) Check(upstream map[string]state.State) error {
	for name, upstreamState := range upstream {
		if upstreamState == nil || upstreamState.IsWaiting() {
			return Waitf("upstream task %s is waiting", name)
		}
	}
	switch t {
	case AllFinished:
		for name, upstreamState := range upstream {
			if !upstreamState.IsFinished() {
				return Failf("upstream task %s did not finish: %s", name, upstreamState.Kind())
			}
		}
		return nil
	case "", AllSuccessful:
		for name, upstreamState := range upstream {
			if upstreamState.Kind() == state.KindSkipped {
				return Skipf("upstream task %s was skipped", name)
			}
		}
		for name, upstreamState := range upstream {
			if !upstreamState.IsSuccessful() {
				return Failf("trigger failed: upstream task %s is %s", name, upstreamState.Kind())
			}
		}
		return nil
	}
	return Failf("unsupported trigger: %s", t)
}

type (
	// Task represents a named unit of work within a flow
	Task struct {
		Name        string                 `json:"name" yaml:"name"`
		Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
		Action      string                 `json:"action,omitempty" yaml:"action,omitempty"`
		Input       map[string]interface{} `json:"input,omitempty" yaml:"input,omitempty"`
		Trigger     Trigger                `json:"trigger,omitempty" yaml:"trigger,omitempty"`
		Serializer  serializer.Serializer  `json:"-" yaml:"-"`
		Fn          Func                   `json:"-" yaml:"-"`
	}

	// TaskOption customises a task
	TaskOption func(t *Task)
)

// WithDescription sets task description
func WithDescription(description string) TaskOption {
	return func(t *Task) {
		t.Description = description
	}
}

// WithInput sets static task input; edge supplied inputs take precedence.
func WithInput(input map[string]interface{}) TaskOption {
	return func(t *Task) {
		t.Input = input
	}
}

// WithSerializer sets the serializer used to encode the task output
func WithSerializer(s serializer.Serializer) TaskOption {
	return func(t *Task) {
		t.Serializer = s
	}
}

// WithTrigger sets the task trigger
func WithTrigger(trigger Trigger) TaskOption {
	return func(t *Task) {
		t.Trigger = trigger
	}
}

// WithAction records the action the task function was resolved from
func WithAction(action string) TaskOption {
	return func(t *Task) {
		t.Action = action
	}
}

// NewTask creates a task
func NewTask(name string, fn Func, opts ...TaskOption) *Task {
	ret := &Task{Name: name, Fn: fn}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// SerializerOrDefault returns the task serializer or the default one.
func (t *Task) SerializerOrDefault() serializer.Serializer {
	if t.Serializer == nil {
		return serializer.Default()
	}
	return t.Serializer
}

// Encode encodes task output
func (t *Task) Encode(value interface{}) ([]byte, error) {
	return t.SerializerOrDefault().Encode(value)
}

// Decode decodes raw task output
func (t *Task) Decode(data []byte) (interface{}, error) {
	return t.SerializerOrDefault().Decode(data)
}

func (t *Task) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// Typed adapts a function with a typed input and output into a Func. Inputs
// are converted onto I by name.
func Typed[I any, O any](fn func(ctx context.Context, input I) (O, error)) Func {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	converter := conv.NewConverter(options)
	return func(ctx context.Context, inputs map[string]interface{}) (interface{}, error) {
		var input I
		if err := converter.Convert(inputs, &input); err != nil {
			return nil, fmt.Errorf("failed to convert inputs to %T: %w", input, err)
		}
		return fn(ctx, input)
	}
}
