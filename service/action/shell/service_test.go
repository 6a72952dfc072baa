package shell

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Run(t *testing.T) {
	srv := New()
	defer func() { _ = srv.Close() }()
	abort := false

	testCases := []struct {
		description  string
		input        *Input
		expectStdout string
		expectStatus int
		expectError  bool
	}{
		{description: "single", input: &Input{Commands: []string{"echo hello"}}, expectStdout: "hello"},
		{description: "env", input: &Input{Commands: []string{"echo $FLOWRUN_SHELL"}, Env: map[string]string{"FLOWRUN_SHELL": "set"}}, expectStdout: "set"},
		{description: "workdir", input: &Input{Commands: []string{"pwd"}, Workdir: "/"}, expectStdout: "/"},
		{description: "failure aborts", input: &Input{Commands: []string{"ls /flowrun-missing-dir", "echo never"}}, expectError: true},
		{description: "failure tolerated", input: &Input{Commands: []string{"ls /flowrun-missing-dir", "echo after"}, AbortOnError: &abort}, expectStdout: "after"},
	}

	for _, testCase := range testCases {
		output := &Output{}
		err := srv.Run(context.Background(), testCase.input, output)
		if testCase.expectError {
			assert.Error(t, err, testCase.description)
			assert.Len(t, output.Commands, 1, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expectStdout, output.Stdout, testCase.description)
		assert.Equal(t, testCase.expectStatus, output.Status, testCase.description)
	}
}
