package flowrun

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/viant/afs"
	"github.com/viant/flowrun/internal/logger"
	"gopkg.in/yaml.v3"
)

const (
	ExecutorLocal  = "local"
	ExecutorInline = "inline"
)

// Environment variables overriding configuration values
const (
	EnvWorkers  = "FLOWRUN_WORKERS"
	EnvLogLevel = "FLOWRUN_LOG_LEVEL"
	EnvExecutor = "FLOWRUN_EXECUTOR"
)

// Config is a serialisable representation of the engine configuration.
type Config struct {
	Runner  RunnerConfig  `json:"runner" yaml:"runner"`
	Log     logger.Config `json:"log" yaml:"log"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
	Meta    MetaConfig    `json:"meta" yaml:"meta"`
}

type RunnerConfig struct {
	Workers  int    `json:"workers" yaml:"workers"`
	Executor string `json:"executor" yaml:"executor"`
}

type TracingConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	ServiceName    string `json:"serviceName" yaml:"serviceName"`
	ServiceVersion string `json:"serviceVersion" yaml:"serviceVersion"`
	OutputFile     string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// MetaConfig controls where relative flow locations are resolved from
type MetaConfig struct {
	BaseURL string `json:"baseURL" yaml:"baseURL"`
}

// DefaultConfig returns a Config with the local executor and info logging.
func DefaultConfig() *Config {
	return &Config{
		Runner: RunnerConfig{
			Workers:  100,
			Executor: ExecutorLocal,
		},
		Log: logger.DefaultConfig(),
		Tracing: TracingConfig{
			ServiceName:    "flowrun",
			ServiceVersion: "0.1.0",
		},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Runner.Workers <= 0 {
		errs = append(errs, fmt.Errorf("runner.workers must be > 0"))
	}
	switch strings.ToLower(c.Runner.Executor) {
	case "", ExecutorLocal, ExecutorInline:
	default:
		errs = append(errs, fmt.Errorf("unsupported runner.executor: %s", c.Runner.Executor))
	}
	if c.Tracing.Enabled && c.Tracing.ServiceName == "" {
		errs = append(errs, fmt.Errorf("tracing.serviceName was empty"))
	}
	return errors.Join(errs...)
}

// ApplyEnv overrides settings with FLOWRUN_* environment variables.
func (c *Config) ApplyEnv() error {
	if value, ok := os.LookupEnv(EnvWorkers); ok {
		workers, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvWorkers, err)
		}
		c.Runner.Workers = workers
	}
	if value, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = value
	}
	if value, ok := os.LookupEnv(EnvExecutor); ok {
		c.Runner.Executor = value
	}
	return nil
}

// LoadConfig reads YAML configuration from location over the defaults, then
// applies environment overrides. An empty location yields the defaults.
func LoadConfig(ctx context.Context, location string) (*Config, error) {
	ret := DefaultConfig()
	if location != "" {
		data, err := afs.New().DownloadWithURL(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", location, err)
		}
		if err = yaml.Unmarshal(data, ret); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", location, err)
		}
	}
	if err := ret.ApplyEnv(); err != nil {
		return nil, err
	}
	return ret, ret.Validate()
}

// LoadEnv loads .env style files into the process environment; missing files
// are ignored. Without arguments ".env" is used.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}
	return nil
}
