package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/flowrun/model/state"
)

func TestRunResult_Accessors(t *testing.T) {
	taskResult := New(state.NewTaskState(state.KindSucceeded, ""), []byte(`1`))
	raw, ok := taskResult.Raw()
	assert.True(t, ok)
	assert.Equal(t, []byte(`1`), raw)
	assert.Nil(t, taskResult.Tasks())

	flowResult := New(state.NewFlowState(), map[string]*RunResult{"a": taskResult})
	assert.Equal(t, taskResult, flowResult.Tasks()["a"])
	_, ok = flowResult.Raw()
	assert.False(t, ok)

	var empty *RunResult
	assert.Nil(t, empty.Tasks())
	assert.Equal(t, "<nil>", empty.String())
}
