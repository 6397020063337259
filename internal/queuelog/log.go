package queuelog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 10 * time.Millisecond

// ErrInvalidURI is returned for URIs that would not fit on one line.
var ErrInvalidURI = errors.New("queuelog: uri must be non-empty and single-line")

// Log is an open queue log.
type Log struct {
	mu          sync.Mutex
	path        string
	file        *os.File
	lock        *flock.Flock
	lockTimeout time.Duration
}

// Open opens path for appending, creating it and its directory if needed.
func Open(path string, lockTimeout time.Duration) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create queue log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open queue log: %w", err)
	}
	if lockTimeout <= 0 {
		lockTimeout = time.Second
	}
	return &Log{
		path:        path,
		file:        file,
		lock:        flock.New(path + ".lock"),
		lockTimeout: lockTimeout,
	}, nil
}

// Path returns the log file location.
func (l *Log) Path() string { return l.path }

// Append writes uri and a newline as one locked write.
func (l *Log) Append(uri string) error {
	uri = strings.TrimSpace(uri)
	if uri == "" || strings.ContainsAny(uri, "\r\n") {
		return ErrInvalidURI
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return fmt.Errorf("append queue log: %w", fs.ErrClosed)
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.lockTimeout)
	defer cancel()
	ok, err := l.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock queue log: %w", err)
	}
	if !ok {
		return fmt.Errorf("lock queue log: held by another writer")
	}
	defer func() { _ = l.lock.Unlock() }()

	if _, err := l.file.Write([]byte(uri + "\n")); err != nil {
		return fmt.Errorf("append queue log: %w", err)
	}
	return nil
}

// Entries returns the URIs currently in the log.
func (l *Log) Entries() ([]string, error) {
	return ReadEntries(l.path)
}

// Close releases the file handle.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	if err != nil {
		return fmt.Errorf("close queue log: %w", err)
	}
	return nil
}

// ReadEntries reads a queue log without opening it for writing. A missing
// file has no entries.
func ReadEntries(path string) ([]string, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open queue log: %w", err)
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			entries = append(entries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read queue log: %w", err)
	}
	return entries, nil
}
