package kvstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

type pending struct {
	value   []byte
	deleted bool
}

// Buffered is a write-back layer over a Backend. Put and Delete are held in
// memory and are visible to Get and ForEach at once; Flush writes them to the
// backend in a single transaction. Mutations not flushed before the process
// exits are lost.
type Buffered struct {
	mu      sync.Mutex
	backend Backend
	dirty   map[string]map[string]pending
	closed  bool
}

// NewBuffered wraps backend.
func NewBuffered(backend Backend) *Buffered {
	return &Buffered{backend: backend, dirty: make(map[string]map[string]pending)}
}

// Get returns the buffered value if there is one, else the stored value.
func (b *Buffered) Get(bucket, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, false, ErrClosed
	}
	if p, ok := b.dirty[bucket][key]; ok {
		if p.deleted {
			return nil, false, nil
		}
		return bytes.Clone(p.value), true, nil
	}
	return b.backend.Get(bucket, key)
}

// Put buffers a write.
func (b *Buffered) Put(bucket, key string, value []byte) error {
	return b.stage(bucket, key, pending{value: bytes.Clone(value)})
}

// Delete buffers a removal.
func (b *Buffered) Delete(bucket, key string) error {
	return b.stage(bucket, key, pending{deleted: true})
}

func (b *Buffered) stage(bucket, key string, p pending) error {
	if err := checkBucket(bucket); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	m := b.dirty[bucket]
	if m == nil {
		m = make(map[string]pending)
		b.dirty[bucket] = m
	}
	m[key] = p
	return nil
}

// ForEach visits stored and buffered keys starting with prefix in ascending
// order. fn may call back into the store.
func (b *Buffered) ForEach(bucket, prefix string, fn func(key string, value []byte) error) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	merged := make(map[string][]byte)
	err := b.backend.ForEach(bucket, prefix, func(k string, v []byte) error {
		merged[k] = v
		return nil
	})
	if err != nil {
		b.mu.Unlock()
		return err
	}
	for k, p := range b.dirty[bucket] {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if p.deleted {
			delete(merged, k)
		} else {
			merged[k] = bytes.Clone(p.value)
		}
	}
	b.mu.Unlock()

	for _, k := range slices.Sorted(maps.Keys(merged)) {
		if err := fn(k, merged[k]); err != nil {
			return err
		}
	}
	return nil
}

// Pending reports how many writes are waiting for Flush.
func (b *Buffered) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, m := range b.dirty {
		n += len(m)
	}
	return n
}

// Flush writes every buffered mutation to the backend atomically. On failure
// the buffer is kept so a later Flush can retry.
func (b *Buffered) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	return b.flushLocked()
}

func (b *Buffered) flushLocked() error {
	var ops []Op
	for _, bucket := range slices.Sorted(maps.Keys(b.dirty)) {
		m := b.dirty[bucket]
		for _, key := range slices.Sorted(maps.Keys(m)) {
			p := m[key]
			ops = append(ops, Op{Bucket: bucket, Key: key, Value: p.value, Delete: p.deleted})
		}
	}
	if err := b.backend.Apply(ops); err != nil {
		return fmt.Errorf("flush %d writes: %w", len(ops), err)
	}
	clear(b.dirty)
	return nil
}

// Close flushes and closes the backend. The backend is closed even when the
// flush fails; both errors are returned.
func (b *Buffered) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	flushErr := b.flushLocked()
	return errors.Join(flushErr, b.backend.Close())
}

// GetJSON decodes the value at key into dest. It reports false when the key
// is absent.
func GetJSON(s *Buffered, bucket, key string, dest any) (bool, error) {
	data, ok, err := s.Get(bucket, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode %s/%s: %w", bucket, key, err)
	}
	return true, nil
}

// PutJSON encodes value and buffers it at key.
func PutJSON(s *Buffered, bucket, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", bucket, key, err)
	}
	return s.Put(bucket, key, data)
}
