package catalog

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"tvindex/internal/kvstore"
	"tvindex/internal/logging"
)

// UpsertShow returns the show for title, creating it on first sight. A
// recorded subscription or watchlist entry for the show is applied here.
func (c *Catalog) UpsertShow(title string) (*Show, error) {
	key := CanonicalKey(title)
	if key == "" {
		return nil, fmt.Errorf("upsert show: empty title")
	}
	show, ok, err := c.getShow(key)
	if err != nil {
		return nil, err
	}
	changed := false
	if !ok {
		show = &Show{Key: key, Title: strings.TrimSpace(title), CreatedAt: c.now()}
		changed = true
		c.logger.Info("show added", logging.String(logging.FieldShow, key), logging.String("title", show.Title))
	}
	if _, pending := c.subscribed[key]; pending && !show.Subscribed {
		show.Subscribed = true
		changed = true
		c.logger.Info("subscription applied", logging.String(logging.FieldShow, key))
	}
	if _, pending := c.watchlist[key]; pending && !show.Watchlist {
		show.Watchlist = true
		changed = true
	}
	if changed {
		if err := c.putShow(show); err != nil {
			return nil, err
		}
	}
	return show, nil
}

// Show looks up a show by any spelling of its title.
func (c *Catalog) Show(title string) (*Show, error) {
	show, ok, err := c.getShow(CanonicalKey(title))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("show %q: %w", title, ErrNotFound)
	}
	return show, nil
}

// Shows returns every known show ordered by key.
func (c *Catalog) Shows() ([]Show, error) {
	var shows []Show
	err := forEachJSON(c, kvstore.BucketShows, "", func(s *Show) error {
		shows = append(shows, *s)
		return nil
	})
	return shows, err
}

// Search returns the shows whose titles fuzzy-match query, best match first.
func (c *Catalog) Search(query string) ([]Show, error) {
	shows, err := c.Shows()
	if err != nil {
		return nil, err
	}
	titles := make([]string, len(shows))
	for i, s := range shows {
		titles[i] = s.Title
	}
	matches := fuzzy.Find(query, titles)
	out := make([]Show, 0, len(matches))
	for _, m := range matches {
		out = append(out, shows[m.Index])
	}
	return out, nil
}
