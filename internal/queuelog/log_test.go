package queuelog_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"tvindex/internal/queuelog"
)

func TestAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "download_queue.txt")
	log, err := queuelog.Open(path, time.Second)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer log.Close()

	for _, uri := range []string{"https://x/a.torrent", "magnet:?xt=urn:btih:b"} {
		if err := log.Append(uri); err != nil {
			t.Fatalf("Append(%q): %v", uri, err)
		}
	}
	entries, err := log.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if want := []string{"https://x/a.torrent", "magnet:?xt=urn:btih:b"}; !slices.Equal(entries, want) {
		t.Fatalf("entries = %v, want %v", entries, want)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.HasSuffix(string(raw), "\n") {
		t.Fatalf("every entry should end with a newline: %q", raw)
	}
}

func TestAppendRejectsMultiline(t *testing.T) {
	log, err := queuelog.Open(filepath.Join(t.TempDir(), "q.txt"), time.Second)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer log.Close()
	for _, uri := range []string{"", "a\nb", "   "} {
		if err := log.Append(uri); !errors.Is(err, queuelog.ErrInvalidURI) {
			t.Fatalf("Append(%q) = %v, want ErrInvalidURI", uri, err)
		}
	}
}

func TestConcurrentWritersDoNotInterleave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.txt")
	const writers, perWriter = 4, 50

	var wg sync.WaitGroup
	for w := range writers {
		log, err := queuelog.Open(path, 5*time.Second)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer log.Close()
			for i := range perWriter {
				if err := log.Append(fmt.Sprintf("https://example.test/w%d/%03d.torrent", w, i)); err != nil {
					t.Errorf("Append: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	entries, err := queuelog.ReadEntries(path)
	if err != nil {
		t.Fatalf("ReadEntries: %v", err)
	}
	if len(entries) != writers*perWriter {
		t.Fatalf("got %d entries, want %d", len(entries), writers*perWriter)
	}
	for _, e := range entries {
		if !strings.HasPrefix(e, "https://example.test/w") || !strings.HasSuffix(e, ".torrent") {
			t.Fatalf("corrupt entry %q", e)
		}
	}
}

func TestReadEntriesMissingFile(t *testing.T) {
	entries, err := queuelog.ReadEntries(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil || entries != nil {
		t.Fatalf("expected no entries and no error, got %v, %v", entries, err)
	}
}

func TestAppendAfterClose(t *testing.T) {
	log, err := queuelog.Open(filepath.Join(t.TempDir(), "q.txt"), time.Second)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := log.Append("https://x/a.torrent"); err == nil {
		t.Fatal("expected error after close")
	}
}
