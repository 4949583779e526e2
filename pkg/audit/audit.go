// Package audit keeps a local journal of mutating API calls
package audit

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/liliang-cn/zadarapy/pkg/client"
)

const callsBucket = "calls"

// ErrClosed is returned when the journal is used after Close.
var ErrClosed = errors.New("audit journal is closed")

// DB holds the journal database
type DB struct {
	db     *bolt.DB
	path   string
	logger *zap.Logger
	mu     sync.RWMutex
}

// Config holds journal configuration
type Config struct {
	Path string // Database file path
}

// Entry is one recorded call
type Entry struct {
	ID         uint64        `json:"id"`
	Invocation string        `json:"invocation"`
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	Host       string        `json:"host"`
	Status     int           `json:"status"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
	Time       time.Time     `json:"time"`
}

// Open opens the journal, creating the file and its bucket if needed
func Open(cfg *Config, logger *zap.Logger) (*DB, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, errors.New("audit journal path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := bolt.Open(cfg.Path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(callsBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize bucket %s: %w", callsBucket, err)
	}

	logger.Debug("Audit journal opened", zap.String("path", cfg.Path))

	return &DB{db: db, path: cfg.Path, logger: logger}, nil
}

// Close closes the journal
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.db == nil {
		return nil
	}
	err := db.db.Close()
	db.db = nil
	return err
}

// Path returns the file backing the journal
func (db *DB) Path() string {
	return db.path
}

// Save appends an entry and assigns its ID
func (db *DB) Save(ctx context.Context, entry *Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.db == nil {
		return ErrClosed
	}

	return db.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(callsBucket))
		id, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate entry id: %w", err)
		}
		entry.ID = id

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		return b.Put(itob(id), data)
	})
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns every entry.
func (db *DB) List(ctx context.Context, limit int) ([]*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.db == nil {
		return nil, ErrClosed
	}

	var entries []*Entry
	err := db.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(callsBucket)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("failed to unmarshal entry %d: %w", binary.BigEndian.Uint64(k), err)
			}
			entries = append(entries, &entry)
		}
		return nil
	})
	return entries, err
}

// Clear removes every entry and returns how many were deleted
func (db *DB) Clear(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.db == nil {
		return 0, ErrClosed
	}

	var n int
	err := db.db.Update(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(callsBucket)).Stats().KeyN
		if err := tx.DeleteBucket([]byte(callsBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(callsBucket))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clear journal: %w", err)
	}
	db.logger.Debug("Audit journal cleared", zap.Int("entries", n))
	return n, nil
}

// Journal returns a client.Journal that tags every call with invocation.
func (db *DB) Journal(invocation string) client.Journal {
	return &journal{db: db, invocation: invocation}
}

type journal struct {
	db         *DB
	invocation string
}

func (j *journal) Record(ctx context.Context, call client.Call) error {
	return j.db.Save(ctx, &Entry{
		Invocation: j.invocation,
		Method:     call.Method,
		Path:       call.Path,
		Host:       call.Host,
		Status:     call.Status,
		Error:      call.Error,
		Duration:   call.Duration,
		Time:       call.Time,
	})
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
