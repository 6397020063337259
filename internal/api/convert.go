package api

import (
	"time"

	"tvindex/internal/catalog"
	"tvindex/internal/ingest"
)

// FromShow converts a catalog show to its API representation.
func FromShow(show catalog.Show) ShowSummary {
	seasons := show.Seasons
	if seasons == nil {
		seasons = []int{}
	}
	summary := ShowSummary{
		Key:        show.Key,
		Title:      show.Title,
		Seasons:    seasons,
		Episodes:   len(show.Episodes),
		Unindexed:  len(show.Unindexed),
		Subscribed: show.Subscribed,
		Watchlist:  show.Watchlist,
		CreatedAt:  FormatTime(show.CreatedAt),
	}
	for _, id := range show.Episodes {
		summary.Labels = append(summary.Labels, id.String())
	}
	return summary
}

// FromShows converts a slice of shows, never returning nil.
func FromShows(shows []catalog.Show) []ShowSummary {
	out := make([]ShowSummary, 0, len(shows))
	for _, show := range shows {
		out = append(out, FromShow(show))
	}
	return out
}

// FromStats converts ingest statistics for the named parser.
func FromStats(parser string, stats ingest.Stats) IngestResult {
	return IngestResult{
		Parser:       parser,
		FilesAdded:   stats.FilesAdded,
		FilesSkipped: stats.FilesSkipped,
		RowsSkipped:  stats.RowsSkipped,
	}
}

// FormatTime converts a time to RFC3339 or returns empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
