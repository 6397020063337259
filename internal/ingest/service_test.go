package ingest_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"tvindex/internal/catalog"
	"tvindex/internal/config"
	"tvindex/internal/ingest"
	"tvindex/internal/logging"
	"tvindex/internal/queuelog"
	"tvindex/internal/testsupport"
)

const pageURL = "https://eztv.re/page_0"

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "eztv_page.html"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

func TestIngestCountsAndDeduplicates(t *testing.T) {
	for _, backend := range []string{config.BackendBolt, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := testsupport.NewConfig(t, testsupport.WithBackend(backend))
			svc := ingest.NewService(cfg, logging.NewNop())
			markup := loadFixture(t)

			stats, err := svc.Ingest(context.Background(), pageURL, markup)
			if err != nil {
				t.Fatalf("Ingest: %v", err)
			}
			if want := (ingest.Stats{FilesAdded: 3, RowsSkipped: 1}); stats != want {
				t.Fatalf("first stats = %+v, want %+v", stats, want)
			}

			stats, err = svc.Ingest(context.Background(), pageURL, markup)
			if err != nil {
				t.Fatalf("Ingest again: %v", err)
			}
			if want := (ingest.Stats{FilesSkipped: 3, RowsSkipped: 1}); stats != want {
				t.Fatalf("second stats = %+v, want %+v", stats, want)
			}

			cat := testsupport.MustOpenCatalog(t, cfg)
			eps, err := cat.Episodes("Show Name")
			if err != nil {
				t.Fatalf("Episodes: %v", err)
			}
			if len(eps) != 2 {
				t.Fatalf("expected 2 episodes of Show Name, got %+v", eps)
			}
			ep, err := cat.Episode("Other Show", 2, 10)
			if err != nil {
				t.Fatalf("Episode: %v", err)
			}
			if ep.Title != "Something Extra" {
				t.Fatalf("episode title = %q", ep.Title)
			}
		})
	}
}

func TestIngestQueuesSubscribedShowsInPageOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	cat, err := catalog.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	if _, err := cat.SetSubscriptions([]string{"show name"}); err != nil {
		t.Fatalf("SetSubscriptions: %v", err)
	}
	if err := cat.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	svc := ingest.NewService(cfg, logging.NewNop())
	if _, err := svc.Ingest(context.Background(), pageURL, loadFixture(t)); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	entries, err := queuelog.ReadEntries(cfg.QueueLogPath())
	if err != nil {
		t.Fatalf("ReadEntries: %v", err)
	}
	want := []string{
		"https://zoink.ch/torrent/Show.Name.S01E02.720p.HDTV.x264-GROUP[eztv].mkv.torrent",
		"https://zoink.ch/torrent/Show.Name.S01E01.1080p.WEB.x264-OTHER[eztv].mkv.torrent",
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("queue log = %v, want %v", entries, want)
	}

	if _, err := svc.Ingest(context.Background(), pageURL, loadFixture(t)); err != nil {
		t.Fatalf("Ingest again: %v", err)
	}
	if entries, _ = queuelog.ReadEntries(cfg.QueueLogPath()); len(entries) != 2 {
		t.Fatalf("queue log grew on re-ingest: %v", entries)
	}
}

func TestIngestSkipsDefectiveRowsAndKeepsGoing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cat, err := catalog.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	if _, err := cat.SetSubscriptions([]string{"Show Name"}); err != nil {
		t.Fatalf("SetSubscriptions: %v", err)
	}
	if err := cat.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	page := `<table>
<tr><td><h1>Listing</h1></td></tr>
<tr><th>Show</th></tr>
<tr>
 <td><a title="Show Name Torrent"></a></td>
 <td></td>
 <td><a class="magnet" href="magnet:?xt=urn:btih:empty"></a></td>
 <td>700 MiB</td><td>1h</td><td>10</td><td></td>
</tr>
<tr>
 <td><a title="Show Name Torrent"></a></td>
 <td>Show Name S01E02 HDTV</td>
 <td><a class="magnet"></a></td>
 <td>700 MiB</td><td>1h</td><td>10</td><td></td>
</tr>
<tr>
 <td><a title="Show Name Torrent"></a></td>
 <td>Show Name S01E03 HDTV</td>
 <td><a class="magnet" href="magnet:?xt=urn:btih:e03"></a></td>
 <td>700 MiB</td><td>1h</td><td>10</td><td></td>
</tr>
</table>`

	svc := ingest.NewService(cfg, logging.NewNop())
	stats, err := svc.Ingest(context.Background(), "https://eztv.re/", []byte(page))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if want := (ingest.Stats{FilesAdded: 1, RowsSkipped: 2}); stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}

	entries, err := queuelog.ReadEntries(cfg.QueueLogPath())
	if err != nil {
		t.Fatalf("ReadEntries: %v", err)
	}
	if want := []string{"magnet:?xt=urn:btih:e03"}; !reflect.DeepEqual(entries, want) {
		t.Fatalf("queue log = %v, want %v", entries, want)
	}

	cat = testsupport.MustOpenCatalog(t, cfg)
	if _, err := cat.Episode("Show Name", 1, 3); err != nil {
		t.Fatalf("Episode S01E03: %v", err)
	}
}

func TestIngestPageWithoutListing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := ingest.NewService(cfg, logging.NewNop())

	stats, err := svc.Ingest(context.Background(), pageURL, []byte("<html><body><p>maintenance</p></body></html>"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if stats != (ingest.Stats{}) {
		t.Fatalf("stats = %+v, want zero", stats)
	}
}

func TestIngestCancelledContextClosesCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := ingest.NewService(cfg, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Ingest(ctx, pageURL, loadFixture(t)); !errors.Is(err, context.Canceled) {
		t.Fatalf("Ingest error = %v, want context.Canceled", err)
	}

	// The catalog must have been released for this to open.
	cat := testsupport.MustOpenCatalog(t, cfg)
	if shows, err := cat.Shows(); err != nil || len(shows) != 0 {
		t.Fatalf("Shows = %v, %v", shows, err)
	}
}

func TestIngestArchivesRawPage(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRawPages())
	svc := ingest.NewService(cfg, logging.NewNop())
	markup := loadFixture(t)

	if _, err := svc.Ingest(context.Background(), pageURL, markup); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	entries, err := os.ReadDir(cfg.Ingest.RawPagesDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one archived page, got %d", len(entries))
	}
	name := entries[0].Name()
	if !strings.Contains(name, "eztv.re") || !strings.HasSuffix(name, ".json") {
		t.Fatalf("archive name = %q", name)
	}

	page, err := ingest.LoadPage(filepath.Join(cfg.Ingest.RawPagesDir, name))
	if err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	if page.URL != pageURL || page.Source != string(markup) {
		t.Fatalf("archived page does not round-trip: url=%q len=%d", page.URL, len(page.Source))
	}
}

func TestArchiveOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := ingest.NewService(cfg, logging.NewNop())

	path, err := svc.Archive(context.Background(), ingest.Page{URL: "https://tracker.example/t/1", Source: "<html></html>"})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if filepath.Dir(path) != cfg.Ingest.RawPagesDir {
		t.Fatalf("archived to %s, want under %s", path, cfg.Ingest.RawPagesDir)
	}
	if _, err := os.Stat(cfg.CatalogPath()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("archive should not touch the catalog, stat err = %v", err)
	}
}

func TestLoadPageRawMarkup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	testsupport.WriteFile(t, path, "<html><body></body></html>")

	page, err := ingest.LoadPage(path)
	if err != nil {
		t.Fatalf("LoadPage: %v", err)
	}
	if !strings.HasPrefix(page.URL, "file://") || !strings.HasSuffix(page.URL, "/page.html") {
		t.Fatalf("url = %q", page.URL)
	}
	if page.Source != "<html><body></body></html>" {
		t.Fatalf("source = %q", page.Source)
	}
}

func TestWithCatalogPersists(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := ingest.NewService(cfg, logging.NewNop())

	err := svc.WithCatalog(context.Background(), func(cat *catalog.Catalog) error {
		_, err := cat.SetSubscriptions([]string{"Show Name"})
		return err
	})
	if err != nil {
		t.Fatalf("WithCatalog: %v", err)
	}

	var subs []string
	err = svc.WithCatalog(context.Background(), func(cat *catalog.Catalog) error {
		subs = cat.Subscriptions()
		return nil
	})
	if err != nil {
		t.Fatalf("WithCatalog: %v", err)
	}
	if !reflect.DeepEqual(subs, []string{"SHOW NAME"}) {
		t.Fatalf("subscriptions = %v", subs)
	}
}
