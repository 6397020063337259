package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by lookups for unknown shows, episodes or files.
	ErrNotFound = errors.New("catalog: not found")
	// ErrInvalidTransition is returned when a file state change would go backwards.
	ErrInvalidTransition = errors.New("catalog: invalid state transition")
	// ErrNoDownloadLink is returned when a file has neither torrent nor magnet link to queue.
	ErrNoDownloadLink = errors.New("catalog: no download link")
)

// StorageError wraps failures of the underlying store or queue log. It is
// fatal to the operation that returned it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var serr *StorageError
	if errors.As(err, &serr) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
