// Package meta loads YAML (or JSON) documents through viant/afs, so that
// configuration can live on local disk, in memory or in a cloud bucket.
// ${env.KEY} expressions are expanded before decoding.
package meta

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads documents relative to a base URL.
type Service struct {
	fs      afs.Service
	baseURL string
	lookup  func(string) string
}

// Option customises a Service.
type Option func(s *Service)

// WithLookup replaces os.Getenv for ${env.KEY} expansion.
func WithLookup(lookup func(string) string) Option {
	return func(s *Service) { s.lookup = lookup }
}

// New creates a loader; relative locations resolve against baseURL.
func New(fs afs.Service, baseURL string, options ...Option) *Service {
	ret := &Service{fs: fs, baseURL: baseURL}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// URL resolves location against the base URL.
func (s *Service) URL(location string) string {
	if s.baseURL == "" || url.Scheme(location, "") != "" || strings.HasPrefix(location, "/") {
		return location
	}
	return url.Join(s.baseURL, location)
}

// Exists reports whether the document is present.
func (s *Service) Exists(ctx context.Context, location string) (bool, error) {
	return s.fs.Exists(ctx, s.URL(location))
}

// Load downloads location, expands env expressions and decodes it into
// target.
func (s *Service) Load(ctx context.Context, location string, target interface{}) error {
	URL := s.URL(location)
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", URL, err)
	}
	expanded := expandEnvExpr(string(data), s.lookup)
	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", URL, err)
	}
	return nil
}
