package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/flowrun/model/graph"
	"github.com/viant/flowrun/model/result"
	"github.com/viant/flowrun/model/state"
)

func TestAggregate(t *testing.T) {
	taskResult := func(kind state.Kind) *result.RunResult {
		return result.New(state.NewTaskState(kind, ""), nil)
	}
	a, b, c := graph.NewTask("a", nil), graph.NewTask("b", nil), graph.NewTask("c", nil)

	testCases := []struct {
		description string
		results     map[string]*result.RunResult
		terminal    []*graph.Task
		expectKind  state.Kind
		expectMsg   string
	}{
		{
			description: "waiting non terminal task wins",
			results:     map[string]*result.RunResult{"a": taskResult(state.KindWaiting), "b": taskResult(state.KindFailed)},
			terminal:    []*graph.Task{b},
			expectKind:  state.KindWaiting,
			expectMsg:   "a",
		},
		{
			description: "failed terminal",
			results:     map[string]*result.RunResult{"a": taskResult(state.KindSucceeded), "b": taskResult(state.KindFailed)},
			terminal:    []*graph.Task{a, b},
			expectKind:  state.KindFailed,
			expectMsg:   "failed terminal tasks: b",
		},
		{
			description: "failed non terminal is ignored",
			results:     map[string]*result.RunResult{"a": taskResult(state.KindFailed), "b": taskResult(state.KindSkipped)},
			terminal:    []*graph.Task{b},
			expectKind:  state.KindSucceeded,
		},
		{
			description: "undetermined terminal",
			results:     map[string]*result.RunResult{"a": taskResult(state.KindSucceeded), "b": taskResult(state.KindPending)},
			terminal:    []*graph.Task{a, b, c},
			expectKind:  state.KindFailed,
			expectMsg:   "unable to determine flow state: b (pending), c (missing)",
		},
		{
			description: "no terminal tasks",
			results:     map[string]*result.RunResult{},
			expectKind:  state.KindSucceeded,
		},
	}

	for _, testCase := range testCases {
		flowState := state.NewFlowState()
		aggregate(flowState, testCase.results, testCase.terminal)
		assert.Equal(t, testCase.expectKind, flowState.Kind(), testCase.description)
		assert.Contains(t, flowState.Message(), testCase.expectMsg, testCase.description)
	}
}
