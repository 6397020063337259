package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"tvindex/internal/catalog"
	"tvindex/internal/config"
	"tvindex/internal/ingest"
	"tvindex/internal/logging"
)

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes())
	dec := json.NewDecoder(body)
	if err := dec.Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleWebParser(w http.ResponseWriter, r *http.Request) {
	var page ingest.Page
	if !s.decodeBody(w, r, &page) {
		return
	}
	page.URL = strings.TrimSpace(page.URL)
	if page.URL == "" {
		s.writeError(w, http.StatusBadRequest, "page_url is required")
		return
	}

	parser, ok := s.parserFor(page.URL)
	if !ok {
		logging.WithContext(r.Context(), s.logger).Info("no parser for page", logging.String(logging.FieldPageURL, page.URL))
		s.writeError(w, http.StatusNotFound, "no parser configured for "+page.URL)
		return
	}

	switch parser {
	case config.ParserArchive:
		path, err := s.svc.Archive(r.Context(), page)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, IngestResult{Parser: parser, ArchivedTo: path})
	default:
		stats, err := s.svc.Ingest(r.Context(), page.URL, []byte(page.Source))
		if err != nil {
			logging.ErrorWithContext(logging.WithContext(r.Context(), s.logger), "page ingest failed", "ingest_failed",
				logging.String(logging.FieldPageURL, page.URL),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the catalog file and queue log are writable"),
			)
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if stats.FilesSkipped > 0 || stats.RowsSkipped > 0 {
			logging.WarnWithContext(logging.WithContext(r.Context(), s.logger), "page partly skipped", "ingest_partial",
				logging.String(logging.FieldPageURL, page.URL),
				logging.Int("files_skipped", stats.FilesSkipped),
				logging.Int("rows_skipped", stats.RowsSkipped),
				logging.String(logging.FieldImpact, "already catalogued or unparsable releases were not added"),
			)
		}
		s.writeJSON(w, http.StatusOK, FromStats(parser, stats))
	}
}

func (s *Server) handleSubscriptions(w http.ResponseWriter, r *http.Request) {
	var doc catalog.SubscriptionFile
	if !s.decodeBody(w, r, &doc) {
		return
	}
	var resp SubscriptionResponse
	err := s.svc.WithCatalog(r.Context(), func(cat *catalog.Catalog) error {
		report, err := cat.SetSubscriptions(doc.ShowsSubscribed)
		if err != nil {
			return err
		}
		resp = SubscriptionResponse{
			Applied:       nonNil(report.Applied),
			Pending:       nonNil(report.Pending),
			Subscriptions: cat.Subscriptions(),
		}
		return nil
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleShows(w http.ResponseWriter, r *http.Request) {
	var shows []catalog.Show
	err := s.svc.WithCatalog(r.Context(), func(cat *catalog.Catalog) error {
		var err error
		shows, err = cat.Shows()
		return err
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, ShowListResponse{Shows: FromShows(shows)})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Backend: s.cfg.Catalog.Backend})
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
