package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"tvindex/internal/catalog"
	"tvindex/internal/config"
	"tvindex/internal/listing"
	"tvindex/internal/logging"
)

// Stats summarizes one Ingest call. FilesSkipped counts releases already in
// the catalog; RowsSkipped counts release rows that could not be parsed.
type Stats struct {
	FilesAdded   int `json:"files_added"`
	FilesSkipped int `json:"files_skipped"`
	RowsSkipped  int `json:"rows_skipped"`
}

// Service files listing pages into the catalog, one call at a time.
type Service struct {
	mu     sync.Mutex
	cfg    *config.Config
	opts   listing.Options
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a Service for cfg.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		cfg:    cfg,
		opts:   listing.OptionsFromConfig(cfg),
		logger: logging.NewComponentLogger(logger, "ingest"),
		now:    time.Now,
	}
}

// Ingest extracts the release rows of markup and adds them to the catalog.
// Row and field defects are logged and counted; a page without a listing
// table yields empty stats. Only catalog failures are returned, and the
// catalog is closed before Ingest returns in every case.
func (s *Service) Ingest(ctx context.Context, pageURL string, markup []byte) (stats Stats, err error) {
	if s == nil || s.cfg == nil {
		return Stats{}, errors.New("ingest service is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = logging.WithCorrelationID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, s.logger).With(logging.String(logging.FieldPageURL, pageURL))
	started := s.now()

	if s.cfg.Ingest.SaveRawPages {
		if _, err := s.archive(logger, Page{URL: pageURL, Source: string(markup)}); err != nil {
			logging.WarnWithContext(logger, "raw page not archived", "raw_page_archive_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "page is ingested but cannot be replayed"),
			)
		}
	}

	rows, err := listing.NewExtractor(s.opts, logger).Rows(markup)
	if err != nil {
		var serr *listing.StructuralError
		if errors.As(err, &serr) {
			logging.WarnWithContext(logger, "page has no listing", "listing_missing",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that the page is a show listing"),
			)
			return Stats{}, nil
		}
		return Stats{}, err
	}

	cat, err := catalog.Open(s.cfg, logger)
	if err != nil {
		return Stats{}, fmt.Errorf("ingest %s: %w", pageURL, err)
	}
	defer func() {
		if cerr := cat.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("ingest %s: %w", pageURL, cerr))
		}
	}()

	for rec, rowErr := range rows {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if rowErr != nil {
			stats.RowsSkipped++
			continue
		}
		added, err := cat.AddRelease(rec)
		if err != nil {
			var serr *catalog.StorageError
			if errors.As(err, &serr) {
				return stats, fmt.Errorf("ingest %s row %d: %w", pageURL, rec.Row, err)
			}
			stats.RowsSkipped++
			logging.WarnWithContext(logger, "release not catalogued", "release_rejected",
				logging.Int(logging.FieldRow, rec.Row),
				logging.Error(err),
				logging.String(logging.FieldImpact, "row skipped, remaining rows still ingested"),
			)
			continue
		}
		if added {
			stats.FilesAdded++
		} else {
			stats.FilesSkipped++
		}
	}

	logger.Info("page ingested",
		logging.Int("files_added", stats.FilesAdded),
		logging.Int("files_skipped", stats.FilesSkipped),
		logging.Int("rows_skipped", stats.RowsSkipped),
		logging.Duration("elapsed", s.now().Sub(started)),
	)
	return stats, nil
}

// WithCatalog opens the catalog, runs fn and closes it, holding the same
// lock as Ingest so the two never write concurrently.
func (s *Service) WithCatalog(ctx context.Context, fn func(*catalog.Catalog) error) (err error) {
	if s == nil || s.cfg == nil {
		return errors.New("ingest service is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	cat, err := catalog.Open(s.cfg, logging.WithContext(ctx, s.logger))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, cat.Close())
	}()
	return fn(cat)
}

// Archive stores a page in the raw page archive without parsing it and
// returns the file path.
func (s *Service) Archive(ctx context.Context, page Page) (string, error) {
	if s == nil || s.cfg == nil {
		return "", errors.New("ingest service is not configured")
	}
	logger := logging.WithContext(ctx, s.logger).With(logging.String(logging.FieldPageURL, page.URL))
	return s.archive(logger, page)
}

func (s *Service) archive(logger *slog.Logger, page Page) (string, error) {
	path, err := writeArchive(s.cfg.Ingest.RawPagesDir, s.now(), page)
	if err != nil {
		return "", err
	}
	logger.Debug("raw page archived", logging.String("path", path))
	return path, nil
}
