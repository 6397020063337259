package catalog

import (
	"fmt"

	"tvindex/internal/kvstore"
	"tvindex/internal/logging"
)

// UpsertEpisode returns the episode (season, episode) of show, creating it
// on first sight and indexing it, and its season, on the show.
func (c *Catalog) UpsertEpisode(show *Show, season, episode int) (*Episode, error) {
	if show == nil {
		return nil, fmt.Errorf("upsert episode: nil show")
	}
	id := EpisodeID{Season: season, Episode: episode}
	ep, ok, err := c.getEpisode(show.Key, id)
	if err != nil {
		return nil, err
	}
	changed := show.addSeason(season)
	if !ok {
		ep = &Episode{ID: id, ShowKey: show.Key, ShowTitle: show.Title}
		if err := c.putEpisode(ep); err != nil {
			return nil, err
		}
		show.addEpisode(id)
		changed = true
		c.logger.Debug("episode added", logging.String(logging.FieldShow, show.Key), logging.String("episode", id.String()))
	}
	if changed {
		if err := c.putShow(show); err != nil {
			return nil, err
		}
	}
	return ep, nil
}

// Episode looks up one episode of a show.
func (c *Catalog) Episode(title string, season, episode int) (*Episode, error) {
	id := EpisodeID{Season: season, Episode: episode}
	ep, ok, err := c.getEpisode(CanonicalKey(title), id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("episode %s %s: %w", title, id, ErrNotFound)
	}
	return ep, nil
}

// Episodes returns the episodes of a show in season, episode order.
func (c *Catalog) Episodes(title string) ([]Episode, error) {
	key := CanonicalKey(title)
	var eps []Episode
	err := forEachJSON(c, kvstore.BucketEpisodes, episodePrefix(key), func(ep *Episode) error {
		// A show whose key extends this one with "/" shares the prefix.
		if ep.ShowKey == key {
			eps = append(eps, *ep)
		}
		return nil
	})
	return eps, err
}

// MarkEpisodeViewed flags an episode as watched.
func (c *Catalog) MarkEpisodeViewed(title string, season, episode int) error {
	ep, err := c.Episode(title, season, episode)
	if err != nil {
		return err
	}
	if ep.Viewed {
		return nil
	}
	ep.Viewed = true
	return c.putEpisode(ep)
}
