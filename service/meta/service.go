// Package meta resolves and downloads flow definition assets relative to a
// base URL.
package meta

import (
	"context"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

// Service downloads assets with env expressions expanded
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// URL returns location resolved against the base URL; absolute locations are
// returned unchanged.
func (s *Service) URL(location string) string {
	if s.baseURL == "" || !url.IsRelative(location) {
		return location
	}
	return url.Join(s.baseURL, location)
}

// Exists returns true if the resolved location exists
func (s *Service) Exists(ctx context.Context, location string) (bool, error) {
	return s.fs.Exists(ctx, s.URL(location), s.options...)
}

// Download returns asset content with ${env.KEY} expressions expanded.
func (s *Service) Download(ctx context.Context, location string) ([]byte, error) {
	data, err := s.fs.DownloadWithURL(ctx, s.URL(location), s.options...)
	if err != nil {
		return nil, err
	}
	return []byte(ExpandEnv(string(data))), nil
}

// New creates a meta service
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs, baseURL: baseURL, options: options}
}
