package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	if err := c.normalizeIngest(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("TVINDEX_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = value
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	c.Catalog.Backend = strings.ToLower(strings.TrimSpace(c.Catalog.Backend))
	if c.Catalog.Backend == "" {
		c.Catalog.Backend = defaultBackend
	}
	c.Catalog.DBFile = strings.TrimSpace(c.Catalog.DBFile)
	if c.Catalog.DBFile == "" {
		c.Catalog.DBFile = defaultDBFile
	}
	c.Catalog.QueueLog = strings.TrimSpace(c.Catalog.QueueLog)
	if c.Catalog.QueueLog == "" {
		c.Catalog.QueueLog = defaultQueueLog
	}
	if c.Catalog.LockTimeoutSeconds <= 0 {
		c.Catalog.LockTimeoutSeconds = defaultLockTimeoutSeconds
	}
}

func (c *Config) normalizeIngest() error {
	c.Ingest.RawPagesDir = strings.TrimSpace(c.Ingest.RawPagesDir)
	if c.Ingest.RawPagesDir == "" {
		c.Ingest.RawPagesDir = defaultRawPagesDir
	}
	if !filepath.IsAbs(c.Ingest.RawPagesDir) && !strings.HasPrefix(c.Ingest.RawPagesDir, "~") {
		c.Ingest.RawPagesDir = filepath.Join(c.Paths.DataDir, c.Ingest.RawPagesDir)
	}
	var err error
	if c.Ingest.RawPagesDir, err = expandPath(c.Ingest.RawPagesDir); err != nil {
		return fmt.Errorf("ingest.raw_pages_dir: %w", err)
	}
	c.Ingest.SubscriptionsFile = strings.TrimSpace(c.Ingest.SubscriptionsFile)
	if c.Ingest.SubscriptionsFile == "" {
		c.Ingest.SubscriptionsFile = defaultSubscriptionsFile
	}
	if strings.HasPrefix(c.Ingest.SubscriptionsFile, "~") {
		if c.Ingest.SubscriptionsFile, err = expandPath(c.Ingest.SubscriptionsFile); err != nil {
			return fmt.Errorf("ingest.subscriptions_file: %w", err)
		}
	}
	// The suffix is matched literally, leading space included.
	if c.Ingest.StripShowSuffix == "" {
		c.Ingest.StripShowSuffix = defaultStripShowSuffix
	}
	c.Ingest.DateLayout = strings.TrimSpace(c.Ingest.DateLayout)
	if c.Ingest.DateLayout == "" {
		c.Ingest.DateLayout = defaultDateLayout
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	if value, ok := os.LookupEnv("TVINDEX_API_TOKEN"); ok && strings.TrimSpace(value) != "" {
		c.Server.APIToken = value
	}
	c.Server.APIToken = strings.TrimSpace(c.Server.APIToken)
	if c.Server.MaxBodyMiB <= 0 {
		c.Server.MaxBodyMiB = defaultMaxBodyMiB
	}
	for i := range c.Server.SiteParsers {
		c.Server.SiteParsers[i].Pattern = strings.TrimSpace(c.Server.SiteParsers[i].Pattern)
		c.Server.SiteParsers[i].Parser = strings.ToLower(strings.TrimSpace(c.Server.SiteParsers[i].Parser))
	}
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("TVINDEX_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
