// Package shell runs commands on the local host through a viant/gosh session.
package shell

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/flowrun/model/types"
	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
)

const name = "shell"

// Input represents commands to run
type Input struct {
	Workdir      string            `json:"workdir,omitempty"`
	Env          map[string]string `json:"env,omitempty"`
	Commands     []string          `json:"commands,omitempty"`
	TimeoutMs    int               `json:"timeoutMs,omitempty"`
	AbortOnError *bool             `json:"abortOnError,omitempty"`
}

// Command represents the result of a single command
type Command struct {
	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`
	Stderr string `json:"stderr,omitempty"`
	Status int    `json:"status,omitempty"`
}

// Output represents the results of running commands
type Output struct {
	Commands []*Command `json:"commands,omitempty"`
	Stdout   string     `json:"stdout,omitempty"`
	Stderr   string     `json:"stderr,omitempty"`
	Status   int        `json:"status,omitempty"`
}

// Service runs shell commands; sessions are shared per environment.
type Service struct {
	sessions map[string]*gosh.Service
	mux      sync.Mutex
}

func New() *Service {
	return &Service{sessions: make(map[string]*gosh.Service)}
}

func (s *Service) Name() string {
	return name
}

func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "run",
			Description: "Runs commands sequentially in a local shell; a non zero status fails the task unless abortOnError is false.",
			Input:       reflect.TypeOf(&Input{}),
			Output:      reflect.TypeOf(&Output{}),
		},
	}
}

func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "run":
		return s.run, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) run(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*Input)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Run(ctx, input, output)
}

// Run executes input commands
func (s *Service) Run(ctx context.Context, input *Input, output *Output) error {
	session, err := s.session(ctx, input.Env)
	if err != nil {
		return fmt.Errorf("failed to open shell session: %w", err)
	}
	abortOnError := true
	if input.AbortOnError != nil {
		abortOnError = *input.AbortOnError
	}
	timeout := time.Duration(input.TimeoutMs) * time.Millisecond
	if timeout == 0 {
		timeout = time.Minute
	}

	var stdout, stderr strings.Builder
	for _, command := range input.Commands {
		if input.Workdir != "" {
			command = fmt.Sprintf("cd %s && %s", input.Workdir, command)
		}
		result := s.execute(ctx, session, command, timeout)
		output.Commands = append(output.Commands, result)
		output.Status = result.Status
		if result.Output != "" {
			stdout.WriteString(result.Output)
			stdout.WriteString("\n")
		}
		if result.Stderr != "" {
			stderr.WriteString(result.Stderr)
			stderr.WriteString("\n")
		}
		if abortOnError && result.Status != 0 {
			break
		}
	}
	output.Stdout = strings.TrimSpace(stdout.String())
	output.Stderr = strings.TrimSpace(stderr.String())
	if abortOnError && output.Status != 0 {
		return fmt.Errorf("command failed with status %d: %s", output.Status, output.Stderr)
	}
	return nil
}

func (s *Service) execute(ctx context.Context, session *gosh.Service, command string, timeout time.Duration) *Command {
	ret := &Command{Input: command}
	stdout, status, err := session.Run(ctx, command, runner.WithTimeout(int(timeout.Milliseconds())))
	ret.Status = status
	if status == 0 && err == nil {
		ret.Output = strings.TrimSpace(stdout)
		return ret
	}
	if ret.Status == 0 {
		ret.Status = -1
	}
	ret.Stderr = strings.TrimSpace(stdout)
	if ret.Stderr == "" && err != nil {
		ret.Stderr = err.Error()
	}
	return ret
}

func (s *Service) session(ctx context.Context, env map[string]string) (*gosh.Service, error) {
	key := sessionKey(env)
	s.mux.Lock()
	defer s.mux.Unlock()
	if session, ok := s.sessions[key]; ok {
		return session, nil
	}
	var options []runner.Option
	if len(env) > 0 {
		options = append(options, runner.WithEnvironment(env))
	}
	session, err := gosh.New(ctx, local.New(options...))
	if err != nil {
		return nil, err
	}
	s.sessions[key] = session
	return session, nil
}

func sessionKey(env map[string]string) string {
	pairs := make([]string, 0, len(env))
	for k, v := range env {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "\x00")
}

// Close releases all sessions
func (s *Service) Close() error {
	s.mux.Lock()
	defer s.mux.Unlock()
	var errs []string
	for key, session := range s.sessions {
		if err := session.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("%q: %v", key, err))
		}
	}
	s.sessions = make(map[string]*gosh.Service)
	if len(errs) > 0 {
		return fmt.Errorf("failed to close sessions: %s", strings.Join(errs, "; "))
	}
	return nil
}
