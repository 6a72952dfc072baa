package loader

import (
	"github.com/rs/zerolog"
	"github.com/viant/flowrun/service/meta"
)

type Option func(*Service)

// WithMetaService sets the service used to resolve and download definitions
func WithMetaService(service *meta.Service) Option {
	return func(s *Service) {
		s.meta = service
	}
}

// WithLogger sets loader logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
