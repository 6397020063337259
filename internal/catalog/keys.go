package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tvindex/internal/listing"
)

// CanonicalKey returns the storage key for a show title: upper-cased with
// runs of whitespace collapsed.
func CanonicalKey(title string) string {
	return cases.Upper(language.Und).String(strings.Join(strings.Fields(title), " "))
}

// DisplayTitle renders a canonical key for people, for shows known only by
// a subscription.
func DisplayTitle(key string) string {
	return cases.Title(language.Und).String(strings.ToLower(key))
}

// FileKey derives the dedup key of a release: the last path segment of the
// torrent link without ".torrent", or the raw episode title when the record
// has no torrent link.
func FileKey(rec listing.Record) string {
	if rec.Torrent != "" {
		name := rec.Torrent[strings.LastIndex(rec.Torrent, "/")+1:]
		if name = strings.TrimSuffix(name, ".torrent"); name != "" {
			return name
		}
	}
	return rec.EpisodeTitle
}

func episodeKey(showKey string, id EpisodeID) string {
	return fmt.Sprintf("%s/S%04dE%04d", showKey, id.Season, id.Episode)
}

func episodePrefix(showKey string) string {
	return showKey + "/"
}

const (
	objectSubscribed = "shows_subscribed"
	objectWatchlist  = "shows_on_watchlist"
)
