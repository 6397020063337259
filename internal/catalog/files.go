package catalog

import (
	"errors"
	"fmt"

	"tvindex/internal/kvstore"
	"tvindex/internal/listing"
	"tvindex/internal/logging"
)

// UpsertFile returns the file for rec's dedup key. An existing file is
// returned unchanged with created=false.
func (c *Catalog) UpsertFile(rec listing.Record) (*File, bool, error) {
	key := FileKey(rec)
	if key == "" {
		return nil, false, fmt.Errorf("upsert file: record has neither torrent link nor title")
	}
	file, ok, err := c.getFile(key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return file, false, nil
	}
	file = &File{
		Key:       key,
		ShowKey:   CanonicalKey(rec.ShowTitle),
		Info:      rec,
		State:     StateCreated,
		CreatedAt: c.now(),
	}
	if err := c.putFile(file); err != nil {
		return nil, false, err
	}
	return file, true, nil
}

// AddRelease files one release record under its show and episode and queues
// it when the show is subscribed. It reports whether a new file was added;
// repeating a record is a no-op.
func (c *Catalog) AddRelease(rec listing.Record) (bool, error) {
	show, err := c.UpsertShow(rec.ShowTitle)
	if err != nil {
		return false, err
	}

	var ep *Episode
	if rec.Meta.HasEpisode {
		if ep, err = c.UpsertEpisode(show, rec.Meta.Season, rec.Meta.Episode); err != nil {
			return false, err
		}
	}

	file, created, err := c.UpsertFile(rec)
	if err != nil {
		return false, err
	}
	logger := c.logger.With(logging.String(logging.FieldShow, show.Key), logging.String(logging.FieldFileKey, file.Key))
	if !created {
		logger.Debug("file already catalogued")
		return false, nil
	}

	if ep != nil {
		if ep.Title == "" {
			ep.Title = rec.Meta.Extra
		}
		ep.Files = append(ep.Files, file.Key)
		if err := c.putEpisode(ep); err != nil {
			return false, err
		}
		id := ep.ID
		file.Episode = &id
		if err := c.putFile(file); err != nil {
			return false, err
		}
	} else {
		show.Unindexed = append(show.Unindexed, file.Key)
		if err := c.putShow(show); err != nil {
			return false, err
		}
	}
	logger.Info("file added", logging.String("episode", rec.Meta.Label()))

	if show.Subscribed {
		if err := c.EnqueueDownload(file); err != nil {
			var serr *StorageError
			if errors.As(err, &serr) {
				return true, err
			}
			logging.WarnWithContext(logger, "subscribed file not queued", "enqueue_skipped",
				logging.Error(err),
				logging.String(logging.FieldImpact, "file catalogued but not sent to the downloader"),
				logging.String(logging.FieldErrorHint, "check the listing row for a torrent or magnet link"),
			)
		}
	}
	return true, nil
}

// EnqueueDownload appends the file's download link to the queue log and marks
// it queued. Files already queued, or further along, are left alone.
func (c *Catalog) EnqueueDownload(file *File) error {
	if file == nil {
		return errors.New("enqueue download: nil file")
	}
	if file.Queued || file.State >= StateQueued {
		return nil
	}
	uri := file.Info.DownloadURI()
	if uri == "" {
		return fmt.Errorf("enqueue download %s: %w", file.Key, ErrNoDownloadLink)
	}
	if err := c.queue.Append(uri); err != nil {
		return storageErr("enqueue download", err)
	}
	if err := file.advance(StateQueued); err != nil {
		return err
	}
	file.QueuedAt = c.now()
	if err := c.putFile(file); err != nil {
		return err
	}
	c.logger.Info("file queued for download",
		logging.String(logging.FieldShow, file.ShowKey),
		logging.String(logging.FieldFileKey, file.Key),
		logging.String("uri", uri),
	)
	return nil
}

// File looks up a file by dedup key.
func (c *Catalog) File(key string) (*File, error) {
	file, ok, err := c.getFile(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("file %q: %w", key, ErrNotFound)
	}
	return file, nil
}

// Files returns every file ordered by key. A non-empty showTitle restricts
// the result to that show.
func (c *Catalog) Files(showTitle string) ([]File, error) {
	showKey := ""
	if showTitle != "" {
		showKey = CanonicalKey(showTitle)
	}
	var files []File
	err := forEachJSON(c, kvstore.BucketFiles, "", func(f *File) error {
		if showKey == "" || f.ShowKey == showKey {
			files = append(files, *f)
		}
		return nil
	})
	return files, err
}

// MarkDownloaded records that the downloader fetched a file. The file's
// episode is flagged downloaded too.
func (c *Catalog) MarkDownloaded(key string) error {
	return c.transition(key, StateDownloaded)
}

// MarkDeleted records that a downloaded file was removed from disk.
func (c *Catalog) MarkDeleted(key string) error {
	file, err := c.File(key)
	if err != nil {
		return err
	}
	if file.State < StateDownloaded {
		return fmt.Errorf("%w: %s is %s, only downloaded files can be deleted", ErrInvalidTransition, key, file.State)
	}
	return c.transition(key, StateDeleted)
}

func (c *Catalog) transition(key string, to FileState) error {
	file, err := c.File(key)
	if err != nil {
		return err
	}
	if file.State == to {
		return nil
	}
	if err := file.advance(to); err != nil {
		return err
	}
	if err := c.putFile(file); err != nil {
		return err
	}
	if file.Episode != nil {
		ep, ok, err := c.getEpisode(file.ShowKey, *file.Episode)
		if err != nil {
			return err
		}
		if ok {
			ep.Downloaded = true
			if to == StateDeleted {
				ep.Deleted = true
			}
			if err := c.putEpisode(ep); err != nil {
				return err
			}
		}
	}
	c.logger.Info("file state changed", logging.String(logging.FieldFileKey, key), logging.String("state", to.String()))
	return nil
}

// QueuedURIs returns the download queue log contents.
func (c *Catalog) QueuedURIs() ([]string, error) {
	uris, err := c.queue.Entries()
	return uris, storageErr("read queue log", err)
}
