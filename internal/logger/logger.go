// Package logger configures the zerolog logger shared by the runner and the
// executors.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config describes logger settings.
type Config struct {
	Level    string `json:"level" yaml:"level"`
	Format   string `json:"format" yaml:"format"` // json or console
	Output   string `json:"output" yaml:"output"` // stdout, stderr or file
	FilePath string `json:"filePath,omitempty" yaml:"filePath,omitempty"`
}

// DefaultConfig returns info level JSON logging to stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json", Output: "stderr"}
}

// Logger is the process default logger; disabled until Init is called.
var Logger = zerolog.Nop()

// New builds a logger from the supplied config.
func New(config Config) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if config.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(config.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level '%s': %w", config.Level, err)
		}
		level = parsed
	}

	var output io.Writer
	switch strings.ToLower(config.Output) {
	case "", "stderr":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	case "file":
		if config.FilePath == "" {
			return zerolog.Nop(), fmt.Errorf("log output file requires filePath")
		}
		file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("failed to open log file '%s': %w", config.FilePath, err)
		}
		output = file
	default:
		return zerolog.Nop(), fmt.Errorf("unsupported log output: %s", config.Output)
	}

	if strings.ToLower(config.Format) == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger(), nil
}

// Init replaces the process default logger.
func Init(config Config) error {
	l, err := New(config)
	if err != nil {
		return err
	}
	Logger = l
	return nil
}
