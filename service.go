package flowrun

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/flowrun/extension"
	"github.com/viant/flowrun/internal/logger"
	"github.com/viant/flowrun/model/graph"
	"github.com/viant/flowrun/model/result"
	"github.com/viant/flowrun/model/types"
	"github.com/viant/flowrun/service/action/constant"
	"github.com/viant/flowrun/service/action/nop"
	"github.com/viant/flowrun/service/action/printer"
	"github.com/viant/flowrun/service/action/shell"
	astorage "github.com/viant/flowrun/service/action/storage"
	"github.com/viant/flowrun/service/event"
	"github.com/viant/flowrun/service/executor"
	"github.com/viant/flowrun/service/executor/inline"
	"github.com/viant/flowrun/service/executor/local"
	"github.com/viant/flowrun/service/loader"
	"github.com/viant/flowrun/service/messaging"
	"github.com/viant/flowrun/service/meta"
	"github.com/viant/flowrun/service/runner"
	"github.com/viant/flowrun/tracing"
)

type Service struct {
	config            *Config
	logger            *zerolog.Logger
	actions           *extension.Actions
	extensionServices []types.Service
	metaService       *meta.Service
	metaBaseURL       string
	metaFsOptions     []storage.Option
	loader            *loader.Service
	events            *event.Service
	publisher         *event.Publisher[*result.RunResult]
	runListener       func(*event.Event[*result.RunResult])
	executor          executor.Executor
	taskListener      executor.Listener
	output            io.Writer
	shell             *shell.Service
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.output == nil {
		s.output = os.Stdout
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.logger == nil {
		if err := logger.Init(s.config.Log); err != nil {
			return err
		}
		l := logger.Logger
		s.logger = &l
	}
	if s.config.Tracing.Enabled {
		tc := s.config.Tracing
		if err := tracing.Init(tc.ServiceName, tc.ServiceVersion, tc.OutputFile); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
	}

	s.shell = shell.New()
	s.actions = extension.NewActions(nop.New(), printer.New(s.output), constant.New(), astorage.New(afs.New()), s.shell)
	s.actions.Register(s.extensionServices...)

	if s.metaBaseURL == "" {
		s.metaBaseURL = s.config.Meta.BaseURL
	}
	s.metaService = meta.New(afs.New(), s.metaBaseURL, s.metaFsOptions...)
	s.loader = loader.New(s.actions, loader.WithMetaService(s.metaService), loader.WithLogger(*s.logger))

	if err := s.initEvents(); err != nil {
		return err
	}
	if s.executor == nil {
		s.executor = s.newExecutor()
	}
	return nil
}

func (s *Service) initEvents() error {
	var err error
	if s.events == nil {
		if s.events, err = event.New(messaging.VendorMemory, event.WithLogger(*s.logger)); err != nil {
			return err
		}
	}
	if s.publisher, err = event.PublisherOf[*result.RunResult](s.events); err != nil {
		return err
	}
	// both queues have to be drained, publishing blocks on a full buffer
	log := *s.logger
	s.events.SetListener(func(anEvent *event.Event[any]) {
		log.Debug().Str("event", anEvent.Context.EventType).Str("flow", anEvent.Context.FlowName).
			Str("task", anEvent.Context.TaskName).Str("run", anEvent.Context.FlowRunID).Msg("run event")
	})
	handler := s.runListener
	if handler == nil {
		handler = func(*event.Event[*result.RunResult]) {}
	}
	return event.SetListenerOf[*result.RunResult](s.events, handler)
}

func (s *Service) newExecutor() executor.Executor {
	listener := s.taskListener
	if listener == nil {
		listener = executor.LogListener(*s.logger)
	}
	if strings.EqualFold(s.config.Runner.Executor, ExecutorInline) {
		return inline.New(inline.WithListener(listener), inline.WithLogger(*s.logger))
	}
	return local.New(local.WithWorkers(s.config.Runner.Workers), local.WithListener(listener), local.WithLogger(*s.logger))
}

// Config returns service configuration
func (s *Service) Config() *Config {
	return s.config
}

// Logger returns service logger
func (s *Service) Logger() zerolog.Logger {
	return *s.logger
}

// Actions returns the task action registry
func (s *Service) Actions() *extension.Actions {
	return s.actions
}

// RegisterExtensionServices registers additional task action services; flows
// loaded afterwards can reference them.
func (s *Service) RegisterExtensionServices(services ...types.Service) {
	s.actions.Register(services...)
}

// Events returns the event service
func (s *Service) Events() *event.Service {
	return s.events
}

// LoadFlow loads a flow definition
func (s *Service) LoadFlow(ctx context.Context, location string) (*graph.Flow, error) {
	return s.loader.Load(ctx, location)
}

// DecodeYAMLFlow decodes a flow definition
func (s *Service) DecodeYAMLFlow(data []byte) (*graph.Flow, error) {
	return s.loader.DecodeYAML(data)
}

// RefreshFlow reloads the flow definition located at location.
func (s *Service) RefreshFlow(ctx context.Context, location string) (*graph.Flow, error) {
	return s.loader.Refresh(ctx, location)
}

// UpsertDefinition parses data and caches the resulting flow under location,
// so subsequent LoadFlow calls return it without a download.
func (s *Service) UpsertDefinition(ctx context.Context, location string, data []byte) (*graph.Flow, error) {
	return s.loader.Upsert(ctx, location, data)
}

// Run executes the flow with the supplied parameters.
func (s *Service) Run(ctx context.Context, flow *graph.Flow, params map[string]interface{}, opts ...runner.RunOption) (*result.RunResult, error) {
	if flow == nil {
		return nil, fmt.Errorf("flow was nil")
	}
	r := runner.New(flow,
		runner.WithExecutor(s.executor),
		runner.WithPublisher(s.publisher),
		runner.WithLogger(s.logger.With().Str("flow", flow.Name).Logger()))
	return r.Run(ctx, params, opts...)
}

// RunLocation loads and executes the flow defined at location.
func (s *Service) RunLocation(ctx context.Context, location string, params map[string]interface{}, opts ...runner.RunOption) (*result.RunResult, error) {
	flow, err := s.LoadFlow(ctx, location)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, flow, params, opts...)
}

// Shutdown stops event listeners and closes shell sessions
func (s *Service) Shutdown() {
	s.events.Close()
	if err := s.shell.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to close shell sessions")
	}
}

// New creates a service
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
