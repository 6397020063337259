// Package logging assembles structured slog loggers and formatting helpers used
// across tvindex.
//
// It owns the configurable console/JSON handlers, tees output into the log
// directory, and exposes context-aware helpers so ingest code can tag every
// line with the page correlation ID. The package also provides a no-op logger
// for tests and wiring code that cannot fail.
package logging
