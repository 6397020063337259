package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"tvindex/internal/config"
	"tvindex/internal/kvstore"
	"tvindex/internal/logging"
	"tvindex/internal/queuelog"
)

// Catalog is an open catalog. It is not safe for concurrent use.
type Catalog struct {
	store      *kvstore.Buffered
	queue      *queuelog.Log
	logger     *slog.Logger
	subscribed map[string]struct{}
	watchlist  map[string]struct{}
	now        func() time.Time
}

// Open opens the configured store and queue log and loads the subscription
// and watchlist sets.
func Open(cfg *config.Config, logger *slog.Logger) (*Catalog, error) {
	if cfg == nil {
		return nil, errors.New("catalog: config is required")
	}
	backend, err := kvstore.Open(cfg.Catalog.Backend, cfg.CatalogPath(), cfg.LockTimeout())
	if err != nil {
		return nil, storageErr("open", err)
	}
	queue, err := queuelog.Open(cfg.QueueLogPath(), cfg.LockTimeout())
	if err != nil {
		_ = backend.Close()
		return nil, storageErr("open queue log", err)
	}
	return newCatalog(kvstore.NewBuffered(backend), queue, logger)
}

func newCatalog(store *kvstore.Buffered, queue *queuelog.Log, logger *slog.Logger) (*Catalog, error) {
	c := &Catalog{
		store:  store,
		queue:  queue,
		logger: logging.NewComponentLogger(logger, "catalog"),
		now:    func() time.Time { return time.Now().UTC() },
	}
	var err error
	if c.subscribed, err = c.loadSet(objectSubscribed); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	if c.watchlist, err = c.loadSet(objectWatchlist); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	return c, nil
}

// Flush writes buffered mutations without closing.
func (c *Catalog) Flush() error {
	return storageErr("flush", c.store.Flush())
}

// Close flushes every bucket, closes the store and closes the queue log.
func (c *Catalog) Close() error {
	var errs []error
	if err := c.store.Close(); err != nil {
		errs = append(errs, storageErr("close store", err))
	}
	if err := c.queue.Close(); err != nil {
		errs = append(errs, storageErr("close queue log", err))
	}
	return errors.Join(errs...)
}

// QueueLogPath returns the location of the download queue log.
func (c *Catalog) QueueLogPath() string {
	return c.queue.Path()
}

func (c *Catalog) loadSet(name string) (map[string]struct{}, error) {
	var keys []string
	if _, err := kvstore.GetJSON(c.store, kvstore.BucketObjects, name, &keys); err != nil {
		return nil, storageErr("load "+name, err)
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set, nil
}

func (c *Catalog) saveSet(name string, set map[string]struct{}) error {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return storageErr("save "+name, kvstore.PutJSON(c.store, kvstore.BucketObjects, name, keys))
}

func (c *Catalog) getShow(key string) (*Show, bool, error) {
	var show Show
	ok, err := kvstore.GetJSON(c.store, kvstore.BucketShows, key, &show)
	if err != nil || !ok {
		return nil, false, storageErr("get show", err)
	}
	return &show, true, nil
}

func (c *Catalog) putShow(show *Show) error {
	return storageErr("put show", kvstore.PutJSON(c.store, kvstore.BucketShows, show.Key, show))
}

func (c *Catalog) getEpisode(showKey string, id EpisodeID) (*Episode, bool, error) {
	var ep Episode
	ok, err := kvstore.GetJSON(c.store, kvstore.BucketEpisodes, episodeKey(showKey, id), &ep)
	if err != nil || !ok {
		return nil, false, storageErr("get episode", err)
	}
	return &ep, true, nil
}

func (c *Catalog) putEpisode(ep *Episode) error {
	return storageErr("put episode", kvstore.PutJSON(c.store, kvstore.BucketEpisodes, episodeKey(ep.ShowKey, ep.ID), ep))
}

func (c *Catalog) getFile(key string) (*File, bool, error) {
	var f File
	ok, err := kvstore.GetJSON(c.store, kvstore.BucketFiles, key, &f)
	if err != nil || !ok {
		return nil, false, storageErr("get file", err)
	}
	return &f, true, nil
}

func (c *Catalog) putFile(f *File) error {
	return storageErr("put file", kvstore.PutJSON(c.store, kvstore.BucketFiles, f.Key, f))
}

func forEachJSON[T any](c *Catalog, bucket, prefix string, fn func(*T) error) error {
	err := c.store.ForEach(bucket, prefix, func(key string, data []byte) error {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decode %s/%s: %w", bucket, key, err)
		}
		return fn(&v)
	})
	return storageErr("list "+bucket, err)
}
