package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tvindex/internal/ingest"
	"tvindex/internal/testsupport"
)

type cliTestEnv struct {
	configPath string
	dataDir    string
	pagePath   string
}

func setupCLITestEnv(t *testing.T, backend string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	env := &cliTestEnv{
		configPath: filepath.Join(base, "config.toml"),
		dataDir:    filepath.Join(base, "data"),
		pagePath:   filepath.Join(base, "page.json"),
	}
	content := fmt.Sprintf("[paths]\ndata_dir = %q\nlog_dir = %q\n\n[catalog]\nbackend = %q\n\n[logging]\nlevel = \"error\"\n",
		env.dataDir, filepath.Join(base, "logs"), backend)
	testsupport.WriteFile(t, env.configPath, content)

	markup, err := os.ReadFile(filepath.Join("testdata", "eztv_page.html"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	testsupport.WriteJSON(t, env.pagePath, ingest.Page{URL: "https://eztv.re/page_0", Source: string(markup)})
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("tvindex %s: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return out
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestCLIIngestAndBrowse(t *testing.T) {
	for _, backend := range []string{"bolt", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			env := setupCLITestEnv(t, backend)

			out := mustRun(t, env, "ingest", env.pagePath)
			requireContains(t, out, "3 added, 0 already known, 1 rows skipped")

			out = mustRun(t, env, "ingest", env.pagePath)
			requireContains(t, out, "0 added, 3 already known")

			out = mustRun(t, env, "shows")
			requireContains(t, out, "Show Name")
			requireContains(t, out, "Other Show")

			out = mustRun(t, env, "show", "show", "name")
			requireContains(t, out, "S01E01")
			requireContains(t, out, "S01E02")
			requireContains(t, out, "Show.Name.S01E02.720p.HDTV.x264-GROUP[eztv].mkv")
			requireContains(t, out, "700 MiB")

			out = mustRun(t, env, "search", "othr")
			requireContains(t, out, "Other Show")

			out = mustRun(t, env, "shows", "--json")
			requireContains(t, out, `"key": "SHOW NAME"`)
		})
	}
}

func TestCLISubscribeQueuesOnIngest(t *testing.T) {
	env := setupCLITestEnv(t, "bolt")

	out := mustRun(t, env, "subscribe", "Show Name")
	requireContains(t, out, "pending:")

	mustRun(t, env, "ingest", env.pagePath)

	out = mustRun(t, env, "queue")
	requireContains(t, out, "Show.Name.S01E02.720p.HDTV.x264-GROUP[eztv].mkv.torrent")
	requireContains(t, out, "Show.Name.S01E01.1080p.WEB.x264-OTHER[eztv].mkv.torrent")

	out = mustRun(t, env, "subscribe")
	requireContains(t, out, "Show Name")

	mustRun(t, env, "unsubscribe", "show name")
	out = mustRun(t, env, "subscribe")
	requireContains(t, out, "No subscriptions")
}

func TestCLISubscribeFromFile(t *testing.T) {
	env := setupCLITestEnv(t, "bolt")
	path := filepath.Join(env.dataDir, "show_subscriptions.json")
	testsupport.WriteFile(t, path, `{"shows_subscribed": ["Other Show", "Future Show"]}`)

	// With no arguments the configured subscriptions file is read.
	out := mustRun(t, env, "subscribe")
	requireContains(t, out, "pending:    Other Show")
	requireContains(t, out, "pending:    Future Show")

	mustRun(t, env, "ingest", env.pagePath)
	out = mustRun(t, env, "shows", "--subscribed")
	requireContains(t, out, "Other Show")
	if strings.Contains(out, "Show Name") {
		t.Fatalf("unexpected unsubscribed show in %q", out)
	}
}

func TestCLIMarkCommands(t *testing.T) {
	env := setupCLITestEnv(t, "bolt")
	mustRun(t, env, "ingest", env.pagePath)

	key := "Show.Name.S01E02.720p.HDTV.x264-GROUP[eztv].mkv"
	if _, _, err := runCLI(t, []string{"mark", "deleted", key}, env.configPath); err == nil {
		t.Fatal("expected deleting an undownloaded file to fail")
	}
	requireContains(t, mustRun(t, env, "mark", "downloaded", key), "downloaded")
	requireContains(t, mustRun(t, env, "mark", "deleted", key), "deleted")
	requireContains(t, mustRun(t, env, "mark", "viewed", "Show", "Name", "s01e02"), "S01E02: viewed")

	out := mustRun(t, env, "show", "Show Name")
	requireContains(t, out, "deleted")
}

func TestCLIWatchlist(t *testing.T) {
	env := setupCLITestEnv(t, "bolt")
	requireContains(t, mustRun(t, env, "watchlist"), "Watchlist is empty")
	mustRun(t, env, "watchlist", "add", "Later Show")
	requireContains(t, mustRun(t, env, "watchlist"), "Later Show")
	mustRun(t, env, "watchlist", "remove", "later show")
	requireContains(t, mustRun(t, env, "watchlist"), "Watchlist is empty")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, "bolt")

	out := mustRun(t, env, "config", "validate")
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "catalog.db (bolt)")

	target := filepath.Join(t.TempDir(), "config.toml")
	out = mustRun(t, env, "config", "init", "--path", target)
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestParseEpisodeLabel(t *testing.T) {
	tests := []struct {
		in      string
		season  int
		episode int
		wantErr bool
	}{
		{in: "S01E02", season: 1, episode: 2},
		{in: "s10e100", season: 10, episode: 100},
		{in: "1x02", wantErr: true},
	}
	for _, tt := range tests {
		season, episode, err := parseEpisodeLabel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parseEpisodeLabel(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || season != tt.season || episode != tt.episode {
			t.Fatalf("parseEpisodeLabel(%q) = %d, %d, %v", tt.in, season, episode, err)
		}
	}
}
