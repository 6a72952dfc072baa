package runner

import (
	"sort"
	"strings"

	"github.com/viant/flowrun/model/graph"
	"github.com/viant/flowrun/model/result"
	"github.com/viant/flowrun/model/state"
)

// aggregate derives the flow state from task results; the first matching rule
// wins: any waiting task, any failed terminal task, all terminal tasks
// successful. When no rule matches the flow fails.
func aggregate(flowState state.State, results map[string]*result.RunResult, terminal []*graph.Task) {
	var waiting []string
	for name, taskResult := range results {
		if taskResult != nil && taskResult.State != nil && taskResult.State.IsWaiting() {
			waiting = append(waiting, name)
		}
	}
	if len(waiting) > 0 {
		sort.Strings(waiting)
		flowState.Wait("waiting tasks: " + strings.Join(waiting, ", "))
		return
	}

	var failed, undetermined []string
	for _, task := range terminal {
		taskResult := results[task.Name]
		switch {
		case taskResult == nil || taskResult.State == nil:
			undetermined = append(undetermined, task.Name+" (missing)")
		case taskResult.State.IsFailed():
			failed = append(failed, task.Name)
		case !taskResult.State.IsSuccessful():
			undetermined = append(undetermined, task.Name+" ("+string(taskResult.State.Kind())+")")
		}
	}
	switch {
	case len(failed) > 0:
		flowState.Fail("failed terminal tasks: " + strings.Join(failed, ", "))
	case len(undetermined) == 0:
		flowState.Succeed()
	default:
		flowState.Fail("unable to determine flow state: " + strings.Join(undetermined, ", "))
	}
}
