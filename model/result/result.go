// Package result defines the (state, result) pair produced by both task and
// flow executions.
package result

import (
	"fmt"

	"github.com/viant/flowrun/model/state"
)

// RunResult pairs a run state with its result. For a task the result holds
// the encoded output; for a flow it holds the map of task name to RunResult.
type RunResult struct {
	State  state.State `json:"state"`
	Result interface{} `json:"result,omitempty"`
}

// New creates a RunResult
func New(aState state.State, value interface{}) *RunResult {
	return &RunResult{State: aState, Result: value}
}

// Raw returns the encoded task output when present.
func (r *RunResult) Raw() ([]byte, bool) {
	if r == nil {
		return nil, false
	}
	data, ok := r.Result.([]byte)
	return data, ok
}

// Tasks returns per task results of a flow run result.
func (r *RunResult) Tasks() map[string]*RunResult {
	if r == nil {
		return nil
	}
	tasks, _ := r.Result.(map[string]*RunResult)
	return tasks
}

func (r *RunResult) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("RunResult(%v)", r.State)
}
