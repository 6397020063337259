package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"tvindex/internal/api"
	"tvindex/internal/config"
	"tvindex/internal/ingest"
	"tvindex/internal/logging"
	"tvindex/internal/testsupport"
)

func newTestServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	srv, err := api.NewServer(cfg, ingest.NewService(cfg, logging.NewNop()), logging.NewNop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func fixturePage(t *testing.T, url string) ingest.Page {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "eztv_page.html"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return ingest.Page{URL: url, Source: string(data)}
}

func TestWebParserIngestsListing(t *testing.T) {
	h := newTestServer(t, testsupport.NewConfig(t))

	w := doJSON(t, h, http.MethodPost, "/webparser", fixturePage(t, "https://eztv.re/page_0"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	got := decode[api.IngestResult](t, w)
	want := api.IngestResult{Parser: config.ParserEZTV, FilesAdded: 3, RowsSkipped: 1}
	if got != want {
		t.Fatalf("result = %+v, want %+v", got, want)
	}

	w = doJSON(t, h, http.MethodGet, "/shows", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	shows := decode[api.ShowListResponse](t, w)
	if len(shows.Shows) != 2 {
		t.Fatalf("expected 2 shows, got %+v", shows.Shows)
	}
	first := shows.Shows[0]
	if first.Key != "OTHER SHOW" || first.Episodes != 1 || !reflect.DeepEqual(first.Labels, []string{"S02E10"}) {
		t.Fatalf("unexpected first show: %+v", first)
	}
	second := shows.Shows[1]
	if second.Key != "SHOW NAME" || !reflect.DeepEqual(second.Seasons, []int{1}) || second.Episodes != 2 {
		t.Fatalf("unexpected second show: %+v", second)
	}
}

func TestWebParserArchiveParser(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSiteParser(`tracker\.example`, config.ParserArchive))
	h := newTestServer(t, cfg)

	w := doJSON(t, h, http.MethodPost, "/webparser", ingest.Page{URL: "https://tracker.example/t/1", Source: "<html></html>"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	got := decode[api.IngestResult](t, w)
	if got.Parser != config.ParserArchive || got.ArchivedTo == "" {
		t.Fatalf("result = %+v", got)
	}
	if !strings.HasPrefix(got.ArchivedTo, cfg.Ingest.RawPagesDir) {
		t.Fatalf("archived to %s, want under %s", got.ArchivedTo, cfg.Ingest.RawPagesDir)
	}
}

func TestWebParserUnknownSite(t *testing.T) {
	h := newTestServer(t, testsupport.NewConfig(t))

	w := doJSON(t, h, http.MethodPost, "/webparser", ingest.Page{URL: "https://unknown.example/", Source: "<html></html>"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if resp := decode[api.ErrorResponse](t, w); !strings.Contains(resp.Error, "unknown.example") {
		t.Fatalf("error = %q", resp.Error)
	}
}

func TestWebParserRejectsBadBodies(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Server.MaxBodyMiB = 1
	h := newTestServer(t, cfg)

	req := httptest.NewRequest(http.MethodPost, "/webparser", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", w.Code)
	}

	w = doJSON(t, h, http.MethodPost, "/webparser", ingest.Page{Source: "<html></html>"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing page_url, got %d", w.Code)
	}

	big := ingest.Page{URL: "https://eztv.re/", Source: strings.Repeat("x", 2<<20)}
	w = doJSON(t, h, http.MethodPost, "/webparser", big)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for oversized body, got %d", w.Code)
	}
}

func TestSubscriptionsEndpoint(t *testing.T) {
	h := newTestServer(t, testsupport.NewConfig(t))

	w := doJSON(t, h, http.MethodPost, "/subscriptions", map[string][]string{"shows_subscribed": {"Show Name"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[api.SubscriptionResponse](t, w)
	if len(resp.Applied) != 0 || !reflect.DeepEqual(resp.Pending, []string{"SHOW NAME"}) {
		t.Fatalf("response = %+v", resp)
	}

	w = doJSON(t, h, http.MethodPost, "/webparser", fixturePage(t, "https://eztv.re/page_0"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	shows := decode[api.ShowListResponse](t, doJSON(t, h, http.MethodGet, "/shows", nil))
	for _, show := range shows.Shows {
		if want := show.Key == "SHOW NAME"; show.Subscribed != want {
			t.Fatalf("show %s subscribed = %v", show.Key, show.Subscribed)
		}
	}
}

func TestHealthAndRouting(t *testing.T) {
	h := newTestServer(t, testsupport.NewConfig(t, testsupport.WithBackend(config.BackendSQLite)))

	w := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if resp := decode[api.HealthResponse](t, w); resp.Status != "ok" || resp.Backend != config.BackendSQLite {
		t.Fatalf("health = %+v", resp)
	}

	if w = doJSON(t, h, http.MethodGet, "/webparser", nil); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
	if w = doJSON(t, h, http.MethodGet, "/nope", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAuthToken(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Server.APIToken = "secret"
	h := newTestServer(t, cfg)

	if w := doJSON(t, h, http.MethodGet, "/shows", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/shows", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", w.Code)
	}

	// Health checks stay open.
	if w := doJSON(t, h, http.MethodGet, "/healthz", nil); w.Code != http.StatusOK {
		t.Fatalf("expected open healthz, got %d", w.Code)
	}
}
