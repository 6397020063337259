package kvstore

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	bolterrors "go.etcd.io/bbolt/errors"
)

// BoltBackend stores each bucket as a bbolt bucket in a single file.
type BoltBackend struct {
	db *bolt.DB
}

// OpenBolt opens or creates a bbolt file and ensures every bucket exists.
func OpenBolt(path string, lockTimeout time.Duration) (*BoltBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: lockTimeout})
	if err != nil {
		if errors.Is(err, bolterrors.ErrTimeout) {
			return nil, fmt.Errorf("open bolt db %s: %w", path, ErrLocked)
		}
		return nil, fmt.Errorf("open bolt db %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range Buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltBackend{db: db}, nil
}

func (b *BoltBackend) Get(bucket, key string) ([]byte, bool, error) {
	if err := checkBucket(bucket); err != nil {
		return nil, false, err
	}
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(bucket)).Get([]byte(key)); v != nil {
			out = bytes.Clone(v)
		}
		return nil
	})
	if err != nil {
		return nil, false, b.wrap("get", err)
	}
	return out, out != nil, nil
}

func (b *BoltBackend) ForEach(bucket, prefix string, fn func(string, []byte) error) error {
	if err := checkBucket(bucket); err != nil {
		return err
	}
	p := []byte(prefix)
	err := b.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucket)).Cursor()
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			if err := fn(string(k), bytes.Clone(v)); err != nil {
				return err
			}
		}
		return nil
	})
	return b.wrap("iterate", err)
}

func (b *BoltBackend) Apply(ops []Op) error {
	if len(ops) == 0 {
		return nil
	}
	for _, op := range ops {
		if err := checkBucket(op.Bucket); err != nil {
			return err
		}
	}
	err := b.db.Update(func(tx *bolt.Tx) error {
		for _, op := range ops {
			bkt := tx.Bucket([]byte(op.Bucket))
			var err error
			if op.Delete {
				err = bkt.Delete([]byte(op.Key))
			} else {
				err = bkt.Put([]byte(op.Key), op.Value)
			}
			if err != nil {
				return fmt.Errorf("%s/%s: %w", op.Bucket, op.Key, err)
			}
		}
		return nil
	})
	return b.wrap("apply", err)
}

func (b *BoltBackend) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("close bolt db: %w", err)
	}
	return nil
}

func (b *BoltBackend) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, bolterrors.ErrDatabaseNotOpen) {
		return fmt.Errorf("bolt %s: %w", op, ErrClosed)
	}
	return fmt.Errorf("bolt %s: %w", op, err)
}
