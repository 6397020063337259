package kvstore

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Bucket names used by the catalog.
const (
	BucketShows    = "shows"
	BucketEpisodes = "episodes"
	BucketFiles    = "files"
	BucketObjects  = "objects"
)

// Buckets lists every bucket a backend creates on open.
var Buckets = []string{BucketShows, BucketEpisodes, BucketFiles, BucketObjects}

var (
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("kvstore: store closed")
	// ErrLocked is returned when another process holds the store.
	ErrLocked = errors.New("kvstore: store locked by another process")
	// ErrUnknownBucket is returned for bucket names outside Buckets.
	ErrUnknownBucket = errors.New("kvstore: unknown bucket")
)

// Op is one write in a batch. Delete ignores Value.
type Op struct {
	Bucket string
	Key    string
	Value  []byte
	Delete bool
}

// Backend is a persistent bucketed key/value store.
type Backend interface {
	// Get returns a copy of the stored value.
	Get(bucket, key string) ([]byte, bool, error)
	// ForEach visits keys starting with prefix in ascending byte order.
	ForEach(bucket, prefix string, fn func(key string, value []byte) error) error
	// Apply writes every op in one transaction.
	Apply(ops []Op) error
	Close() error
}

// Kinds accepted by Open.
const (
	KindBolt   = "bolt"
	KindSQLite = "sqlite"
)

// Open opens a backend of the given kind at path. lockTimeout bounds how long
// opening waits for another process to release the file.
func Open(kind, path string, lockTimeout time.Duration) (Backend, error) {
	switch strings.ToLower(kind) {
	case KindBolt, "":
		return OpenBolt(path, lockTimeout)
	case KindSQLite:
		return OpenSQLite(path, lockTimeout)
	default:
		return nil, fmt.Errorf("kvstore: unsupported backend %q", kind)
	}
}

func checkBucket(bucket string) error {
	for _, b := range Buckets {
		if b == bucket {
			return nil
		}
	}
	return fmt.Errorf("%w %q", ErrUnknownBucket, bucket)
}
