package testsupport

import (
	"path/filepath"
	"testing"

	"tvindex/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Ingest.RawPagesDir = filepath.Join(base, "data", "raw")
	cfgVal.Server.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithBackend selects the catalog storage backend.
func WithBackend(kind string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Backend = kind
	}
}

// WithRawPages enables archiving of ingested pages.
func WithRawPages() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ingest.SaveRawPages = true
	}
}

// WithSiteParser appends a URL pattern to parser mapping.
func WithSiteParser(pattern, parser string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.SiteParsers = append(b.cfg.Server.SiteParsers, config.SiteParser{Pattern: pattern, Parser: parser})
	}
}
