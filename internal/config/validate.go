package config

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalid marks every validation failure so callers can match with errors.Is.
var ErrInvalid = errors.New("invalid configuration")

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Backend {
	case BackendBolt, BackendSQLite:
	default:
		return fmt.Errorf("%w: catalog.backend must be %q or %q, got %q", ErrInvalid, BackendBolt, BackendSQLite, c.Catalog.Backend)
	}
	if c.Catalog.DBFile == c.Catalog.QueueLog {
		return fmt.Errorf("%w: catalog.db_file and catalog.queue_log must differ", ErrInvalid)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.MaxBodyMiB > 512 {
		return fmt.Errorf("%w: server.max_body_mib must be at most 512", ErrInvalid)
	}
	for i, sp := range c.Server.SiteParsers {
		if sp.Pattern == "" {
			return fmt.Errorf("%w: server.siteparsers[%d].pattern must be set", ErrInvalid, i)
		}
		if _, err := regexp.Compile(sp.Pattern); err != nil {
			return fmt.Errorf("%w: server.siteparsers[%d].pattern: %v", ErrInvalid, i, err)
		}
		switch sp.Parser {
		case ParserEZTV, ParserArchive:
		default:
			return fmt.Errorf("%w: server.siteparsers[%d].parser %q is not recognized", ErrInvalid, i, sp.Parser)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be \"console\" or \"json\"", ErrInvalid)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: logging.level %q is not recognized", ErrInvalid, c.Logging.Level)
	}
	return nil
}
