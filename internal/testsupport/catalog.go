package testsupport

import (
	"testing"

	"tvindex/internal/catalog"
	"tvindex/internal/config"
	"tvindex/internal/listing"
	"tvindex/internal/logging"
	"tvindex/internal/titlescan"
)

// MustOpenCatalog opens a catalog for tests and closes it on cleanup.
// Closing twice is harmless, so tests may also close it themselves.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = cat.Close()
	})
	return cat
}

// NewRecord builds a listing record the way the extractor would for title.
// A non-empty torrentName becomes the last segment of the torrent link.
func NewRecord(show, title, torrentName string) listing.Record {
	rec := listing.Record{
		ShowTitle:     show,
		EpisodeTitle:  title,
		Magnet:        "magnet:?xt=urn:btih:" + title,
		FilesizeText:  "700 MiB",
		FilesizeBytes: 734003200,
		Meta:          titlescan.Scan(title, show).Metadata,
	}
	if torrentName != "" {
		rec.Torrent = "https://zoink.ch/torrent/" + torrentName + ".torrent"
	}
	return rec
}
