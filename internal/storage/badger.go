// Package storage provides the persistent key-value backend for preferences.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Config holds configuration for a Badger-backed store
type Config struct {
	// Path is the store directory. Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in RAM; used by tests
	InMemory bool

	// SyncWrites flushes every write to disk before returning
	SyncWrites bool

	// PollInterval is how often Subscribe re-reads the watched key
	PollInterval time.Duration

	// LockRetries bounds how often an open is retried while another
	// process holds the directory lock
	LockRetries int

	// Logger receives Badger's internal log lines. Nil disables them.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used by the CLI
func DefaultConfig(path string) Config {
	return Config{
		Path:         path,
		SyncWrites:   true,
		PollInterval: 500 * time.Millisecond,
		LockRetries:  20,
	}
}

// InMemoryConfig returns a configuration for tests
func InMemoryConfig() Config {
	return Config{InMemory: true, PollInterval: 50 * time.Millisecond}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Badger is a string key-value store backed by BadgerDB.
//
// Badger locks its directory for as long as a DB is open, so an on-disk
// store opens the DB for each call and closes it again. Several prlink
// processes can then share one directory. An in-memory store keeps its DB
// open until Close.
type Badger struct {
	cfg Config
	mu  sync.Mutex
	mem *badger.DB
}

// Open prepares a Badger store. On disk it creates the directory and checks
// that the DB can be opened.
func Open(cfg Config) (*Badger, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("store path is required")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}

	b := &Badger{cfg: cfg}

	if cfg.InMemory {
		db, err := badger.Open(b.options())
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		b.mem = db
		return b, nil
	}

	if err := os.MkdirAll(cfg.Path, 0750); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", cfg.Path, err)
	}
	if err := b.with(func(*badger.DB) error { return nil }); err != nil {
		return nil, err
	}
	return b, nil
}

// OpenInMemory opens an empty in-memory store
func OpenInMemory() (*Badger, error) {
	return Open(InMemoryConfig())
}

func (b *Badger) options() badger.Options {
	var opts badger.Options
	if b.cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(b.cfg.Path)
	}

	opts = opts.WithSyncWrites(b.cfg.SyncWrites).WithNumVersionsToKeep(1)

	if b.cfg.Logger != nil {
		return opts.WithLogger(&badgerLogger{logger: b.cfg.Logger})
	}
	return opts.WithLogger(nil)
}

// with runs fn against an open DB. On disk the DB is opened for the call
// and closed afterwards, retrying while another process holds the lock.
func (b *Badger) with(fn func(db *badger.DB) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cfg.InMemory {
		if b.mem == nil {
			return errors.New("store is closed")
		}
		return fn(b.mem)
	}

	db, err := badger.Open(b.options())
	for attempt := 0; err != nil && isLocked(err) && attempt < b.cfg.LockRetries; attempt++ {
		time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
		db, err = badger.Open(b.options())
	}
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	fnErr := fn(db)
	if err := db.Close(); err != nil && fnErr == nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return fnErr
}

// isLocked reports whether err is Badger refusing a directory another
// process has open
func isLocked(err error) bool {
	return strings.Contains(err.Error(), "Cannot acquire directory lock")
}

// Close releases an in-memory DB. It is a no-op on disk.
func (b *Badger) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mem == nil {
		return nil
	}
	err := b.mem.Close()
	b.mem = nil
	return err
}

// Get returns the raw value for key. found is false when the key is absent.
func (b *Badger) Get(key string) (value string, found bool, err error) {
	err = b.with(func(db *badger.DB) error {
		return db.View(func(txn *badger.Txn) error {
			item, err := txn.Get([]byte(key))
			if err != nil {
				return err
			}
			return item.Value(func(val []byte) error {
				value = string(val)
				return nil
			})
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key
func (b *Badger) Set(key, value string) error {
	err := b.with(func(db *badger.DB) error {
		return db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte(key), []byte(value))
		})
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (b *Badger) Remove(key string) error {
	err := b.with(func(db *badger.DB) error {
		return db.Update(func(txn *badger.Txn) error {
			return txn.Delete([]byte(key))
		})
	})
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Subscribe calls fn whenever the raw value of key changes, including
// writes and deletes made by other processes, until ctx is done. It polls
// every PollInterval and blocks; the returned error is nil when ctx is
// cancelled. Read errors are skipped and retried on the next tick.
func (b *Badger) Subscribe(ctx context.Context, key string, fn func()) error {
	last, lastFound, _ := b.Get(key)

	ticker := time.NewTicker(b.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			value, found, err := b.Get(key)
			if err != nil {
				continue
			}
			if value == last && found == lastFound {
				continue
			}
			last, lastFound = value, found
			fn()
		}
	}
}
