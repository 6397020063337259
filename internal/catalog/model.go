package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"tvindex/internal/listing"
)

// Show is a series, keyed by its canonical title.
type Show struct {
	Key        string      `json:"key"`
	Title      string      `json:"title"`
	Seasons    []int       `json:"seasons,omitempty"`
	Episodes   []EpisodeID `json:"episodes,omitempty"`
	Unindexed  []string    `json:"unindexed_files,omitempty"`
	Subscribed bool        `json:"subscribed"`
	Watchlist  bool        `json:"watchlist"`
	CreatedAt  time.Time   `json:"created_at"`
}

func (s *Show) addSeason(season int) bool {
	i, found := slices.BinarySearch(s.Seasons, season)
	if found {
		return false
	}
	s.Seasons = slices.Insert(s.Seasons, i, season)
	return true
}

func (s *Show) addEpisode(id EpisodeID) {
	i, found := slices.BinarySearchFunc(s.Episodes, id, EpisodeID.compare)
	if !found {
		s.Episodes = slices.Insert(s.Episodes, i, id)
	}
}

// EpisodeID identifies an episode within a show.
type EpisodeID struct {
	Season  int `json:"season"`
	Episode int `json:"episode"`
}

func (id EpisodeID) compare(other EpisodeID) int {
	if c := cmp.Compare(id.Season, other.Season); c != 0 {
		return c
	}
	return cmp.Compare(id.Episode, other.Episode)
}

func (id EpisodeID) String() string {
	return fmt.Sprintf("S%02dE%02d", id.Season, id.Episode)
}

// Episode is one (season, episode) unit of a show.
type Episode struct {
	ID         EpisodeID `json:"id"`
	Title      string    `json:"title,omitempty"`
	ShowKey    string    `json:"show_key"`
	ShowTitle  string    `json:"show_title"`
	Files      []string  `json:"files,omitempty"`
	Downloaded bool      `json:"downloaded"`
	Viewed     bool      `json:"viewed"`
	Deleted    bool      `json:"deleted"`
}

// FileState is the lifecycle of a release file. States only move forward.
type FileState int

const (
	StateCreated FileState = iota
	StateQueued
	StateDownloaded
	StateDeleted
)

func (s FileState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateQueued:
		return "queued"
	case StateDownloaded:
		return "downloaded"
	case StateDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// File is one release. Info is the record as first seen and never changes.
type File struct {
	Key        string         `json:"key"`
	ShowKey    string         `json:"show_key"`
	Episode    *EpisodeID     `json:"episode,omitempty"`
	Info       listing.Record `json:"info"`
	State      FileState      `json:"state"`
	Queued     bool           `json:"queued"`
	Downloaded bool           `json:"downloaded"`
	Deleted    bool           `json:"deleted"`
	CreatedAt  time.Time      `json:"created_at"`
	QueuedAt   time.Time      `json:"queued_at,omitzero"`
}

// advance moves the file to state. Moving to the current state is a no-op.
func (f *File) advance(to FileState) error {
	if to < f.State {
		return fmt.Errorf("%w: %s is %s, cannot become %s", ErrInvalidTransition, f.Key, f.State, to)
	}
	f.State = to
	switch to {
	case StateQueued:
		f.Queued = true
	case StateDownloaded:
		f.Downloaded = true
	case StateDeleted:
		f.Downloaded = true
		f.Deleted = true
	}
	return nil
}
