package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"tvindex/internal/fileutil"
	"tvindex/internal/textutil"
)

// Page is a fetched listing page as posted by the browser extension.
type Page struct {
	URL    string `json:"page_url"`
	Source string `json:"page_source"`
}

// LoadPage reads a page from disk. A JSON document in the Page shape is
// decoded; anything else is taken as raw markup with a file:// URL.
func LoadPage(path string) (Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Page{}, fmt.Errorf("read page: %w", err)
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		var page Page
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return Page{}, fmt.Errorf("decode page %s: %w", path, err)
		}
		return page, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Page{URL: "file://" + filepath.ToSlash(abs), Source: string(data)}, nil
}

// archiveName builds a sortable, collision-free file name for a raw page.
func archiveName(now time.Time, pageURL string) string {
	host := textutil.HostToken(pageURL, "page")
	return fmt.Sprintf("%s-%s-%s.json", now.UTC().Format("20060102T150405"), host, uuid.NewString()[:8])
}

// writeArchive stores page under dir and returns the file path.
func writeArchive(dir string, now time.Time, page Page) (string, error) {
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode raw page: %w", err)
	}
	path := filepath.Join(dir, archiveName(now, page.URL))
	if err := fileutil.WriteAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("archive raw page: %w", err)
	}
	return path, nil
}
