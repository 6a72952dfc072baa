package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(tasks []*Task) []string {
	var result []string
	for _, task := range tasks {
		result = append(result, task.Name)
	}
	return result
}

func newDiamond(t *testing.T) *Flow {
	flow := NewFlow("diamond", WithNamespace("test"), WithParameter("x", true), WithParameter("y", false))
	require.NoError(t, flow.AddTask(NewTask("d", nil), NewTask("b", nil), NewTask("c", nil), NewTask("a", nil)))
	for _, pair := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}} {
		_, err := flow.Connect(pair[0], pair[1])
		require.NoError(t, err)
	}
	return flow
}

func TestFlow_SortedTasks(t *testing.T) {
	flow := newDiamond(t)
	sorted, err := flow.SortedTasks()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(sorted))

	independent := NewFlow("independent")
	require.NoError(t, independent.AddTask(NewTask("z", nil), NewTask("y", nil), NewTask("x", nil)))
	sorted, err = independent.SortedTasks()
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "y", "x"}, names(sorted))
}

func TestFlow_Lookups(t *testing.T) {
	flow := newDiamond(t)
	d, ok := flow.Task("d")
	require.True(t, ok)
	a, _ := flow.Task("a")

	assert.Equal(t, []string{"b", "c"}, names(flow.UpstreamTasks(d)))
	assert.Equal(t, []string{"b", "c"}, names(flow.DownstreamTasks(a)))
	assert.Len(t, flow.EdgesTo(d), 2)
	assert.Len(t, flow.EdgesFrom(a), 2)
	assert.Equal(t, []string{"d"}, names(flow.TerminalTasks()))
	assert.Equal(t, []string{"x"}, flow.RequiredParams())
	assert.Equal(t, "<Flow: test/diamond>", flow.String())
}

func TestFlow_AddEdge(t *testing.T) {
	testCases := []struct {
		description string
		upstream    string
		downstream  string
		options     []EdgeOption
		expectError bool
	}{
		{description: "cycle", upstream: "d", downstream: "a", expectError: true},
		{description: "self loop", upstream: "a", downstream: "a", expectError: true},
		{description: "unknown task", upstream: "a", downstream: "z", expectError: true},
		{description: "duplicate ordering edge", upstream: "a", downstream: "b"},
		{description: "keyed edge", upstream: "a", downstream: "d", options: []EdgeOption{WithKey("value")}},
	}

	for _, testCase := range testCases {
		flow := newDiamond(t)
		before := len(flow.Edges())
		_, err := flow.Connect(testCase.upstream, testCase.downstream, testCase.options...)
		if testCase.expectError {
			assert.True(t, errors.Is(err, ErrValidation), testCase.description)
			assert.Len(t, flow.Edges(), before, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
	}

	flow := newDiamond(t)
	_, err := flow.Connect("a", "d", WithKey("value"))
	require.NoError(t, err)
	_, err = flow.Connect("b", "d", WithKey("value"))
	assert.Error(t, err, "argument key used twice")

	foreign := NewTask("a", nil)
	b, _ := flow.Task("b")
	edge, err := NewEdge(foreign, b)
	require.NoError(t, err)
	assert.Error(t, flow.AddEdge(edge), "task with the same name from outside the flow")
}

func TestFlow_AddTask(t *testing.T) {
	flow := NewFlow("dup")
	require.NoError(t, flow.AddTask(NewTask("a", nil)))
	assert.Error(t, flow.AddTask(NewTask("a", nil)))
	assert.Error(t, flow.AddTask(NewTask("", nil)))
}

func TestFlow_Validate(t *testing.T) {
	flow := newDiamond(t)
	assert.Error(t, flow.Validate(), "tasks without function")

	empty := NewFlow("empty")
	assert.NoError(t, empty.Validate())
	sorted, err := empty.SortedTasks()
	assert.NoError(t, err)
	assert.Empty(t, sorted)
	assert.Empty(t, empty.TerminalTasks())
}
