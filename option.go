package flowrun

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/viant/afs/storage"
	"github.com/viant/flowrun/model/result"
	"github.com/viant/flowrun/model/types"
	"github.com/viant/flowrun/service/event"
	"github.com/viant/flowrun/service/executor"
	"github.com/viant/flowrun/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option configures the Service
type Option func(s *Service)

// WithConfig sets the service configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the logger, overriding Config.Log
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = &logger
	}
}

// WithExtensionServices registers additional task action services
func WithExtensionServices(services ...types.Service) Option {
	return func(s *Service) {
		s.extensionServices = append(s.extensionServices, services...)
	}
}

// WithExecutor sets the executor, overriding Config.Runner.Executor
func WithExecutor(exec executor.Executor) Option {
	return func(s *Service) {
		s.executor = exec
	}
}

// WithTaskListener sets the hook notified after every task invocation
func WithTaskListener(listener executor.Listener) Option {
	return func(s *Service) {
		s.taskListener = listener
	}
}

// WithRunListener sets the handler receiving flow run events
func WithRunListener(handler func(*event.Event[*result.RunResult])) Option {
	return func(s *Service) {
		s.runListener = handler
	}
}

// WithEventService sets the event service
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.events = service
	}
}

// WithMetaBaseURL sets the base URL relative flow locations are resolved with
func WithMetaBaseURL(URL string) Option {
	return func(s *Service) {
		s.metaBaseURL = URL
	}
}

// WithMetaFsOptions with meta file system options
func WithMetaFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.metaFsOptions = options
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter. The first
// successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}

// WithOutput sets the writer used by the printer action
func WithOutput(w io.Writer) Option {
	return func(s *Service) {
		s.output = w
	}
}
