package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Catalog contains configuration for the persistent show catalog.
type Catalog struct {
	Backend            string `toml:"backend"`
	DBFile             string `toml:"db_file"`
	QueueLog           string `toml:"queue_log"`
	LockTimeoutSeconds int    `toml:"lock_timeout_seconds"`
}

// Ingest contains configuration for page ingestion.
type Ingest struct {
	SaveRawPages      bool   `toml:"save_raw_pages"`
	RawPagesDir       string `toml:"raw_pages_dir"`
	SubscriptionsFile string `toml:"subscriptions_file"`
	StripShowSuffix   string `toml:"strip_show_suffix"`
	DateLayout        string `toml:"date_layout"`
}

// SiteParser maps a page URL pattern onto a named parser.
type SiteParser struct {
	Pattern string `toml:"pattern"`
	Parser  string `toml:"parser"`
}

// Server contains configuration for the page-ingest HTTP front end.
type Server struct {
	Bind        string       `toml:"bind"`
	APIToken    string       `toml:"api_token"`
	MaxBodyMiB  int          `toml:"max_body_mib"`
	SiteParsers []SiteParser `toml:"siteparsers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for tvindex.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - Catalog: storage backend, database file, and download queue log
//   - Ingest: listing-page parsing knobs and raw page archiving
//   - Server: HTTP bind address and URL-to-parser dispatch
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Catalog Catalog `toml:"catalog"`
	Ingest  Ingest  `toml:"ingest"`
	Server  Server  `toml:"server"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tvindex/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("tvindex.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories, plus the raw page
// archive when archiving is enabled.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.LogDir}
	if c.Ingest.SaveRawPages {
		dirs = append(dirs, c.Ingest.RawPagesDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CatalogPath returns the absolute path of the catalog database file.
func (c *Config) CatalogPath() string {
	return c.resolveDataPath(c.Catalog.DBFile)
}

// QueueLogPath returns the absolute path of the download queue log.
func (c *Config) QueueLogPath() string {
	return c.resolveDataPath(c.Catalog.QueueLog)
}

// SubscriptionsPath returns the absolute path of the subscriptions JSON file.
func (c *Config) SubscriptionsPath() string {
	return c.resolveDataPath(c.Ingest.SubscriptionsFile)
}

// LockTimeout returns how long opening the catalog waits for a competing process.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Catalog.LockTimeoutSeconds) * time.Second
}

// MaxBodyBytes returns the request body ceiling for the HTTP front end.
func (c *Config) MaxBodyBytes() int64 {
	return int64(c.Server.MaxBodyMiB) << 20
}

func (c *Config) resolveDataPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Paths.DataDir, name)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
