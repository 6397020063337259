package api

import (
	"testing"
	"time"

	"tvindex/internal/catalog"
	"tvindex/internal/ingest"
)

func TestFromShow(t *testing.T) {
	show := catalog.Show{
		Key:       "SHOW NAME",
		Title:     "Show Name",
		Seasons:   []int{1, 2},
		Episodes:  []catalog.EpisodeID{{Season: 1, Episode: 1}, {Season: 2, Episode: 3}},
		Unindexed: []string{"special"},
		CreatedAt: time.Date(2018, time.January, 15, 10, 0, 0, 0, time.UTC),
	}
	got := FromShow(show)
	if got.Episodes != 2 || got.Unindexed != 1 {
		t.Fatalf("counts = %d episodes, %d unindexed", got.Episodes, got.Unindexed)
	}
	if len(got.Labels) != 2 || got.Labels[1] != "S02E03" {
		t.Fatalf("labels = %v", got.Labels)
	}
	if got.CreatedAt != "2018-01-15T10:00:00.000Z" {
		t.Fatalf("createdAt = %q", got.CreatedAt)
	}

	empty := FromShow(catalog.Show{Key: "X"})
	if empty.Seasons == nil || empty.CreatedAt != "" {
		t.Fatalf("empty show = %+v", empty)
	}
}

func TestFromStats(t *testing.T) {
	got := FromStats("eztv", ingest.Stats{FilesAdded: 2, FilesSkipped: 1, RowsSkipped: 4})
	want := IngestResult{Parser: "eztv", FilesAdded: 2, FilesSkipped: 1, RowsSkipped: 4}
	if got != want {
		t.Fatalf("FromStats = %+v, want %+v", got, want)
	}
}
