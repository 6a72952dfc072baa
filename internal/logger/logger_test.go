package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var testCases = []struct {
		description string
		config      Config
		expectErr   bool
		level       zerolog.Level
	}{
		{description: "defaults", config: DefaultConfig(), level: zerolog.InfoLevel},
		{description: "debug console", config: Config{Level: "DEBUG", Format: "console", Output: "stdout"}, level: zerolog.DebugLevel},
		{description: "bad level", config: Config{Level: "loud"}, expectErr: true},
		{description: "bad output", config: Config{Output: "socket"}, expectErr: true},
		{description: "file without path", config: Config{Output: "file"}, expectErr: true},
	}
	for _, testCase := range testCases {
		l, err := New(testCase.config)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.level, l.GetLevel(), testCase.description)
	}
}

func TestInit_File(t *testing.T) {
	location := filepath.Join(t.TempDir(), "run.log")
	prev := Logger
	defer func() { Logger = prev }()

	require.NoError(t, Init(Config{Level: "info", Output: "file", FilePath: location}))
	Logger.Info().Str("flow", "etl").Msg("started")

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"flow":"etl"`)
}
