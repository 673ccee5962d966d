package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/dictload/cache"
	"github.com/hupe1980/dictload/internal/compress"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS shards (
	id   TEXT PRIMARY KEY NOT NULL,
	data BLOB NOT NULL
) WITHOUT ROWID;
`

// Options configures an Opener.
type Options struct {
	// Compression is applied to values on Put.
	Compression cache.Compression
	// BusyTimeoutMillis bounds how long a statement waits on a locked
	// database. Defaults to 5000.
	BusyTimeoutMillis int
}

// Opener opens a SQLite-backed shard store at Path.
type Opener struct {
	path string
	opts Options

	mu   sync.Mutex
	open int
}

// NewOpener creates an Opener for the database file at path.
func NewOpener(path string, optFns ...func(*Options)) *Opener {
	opts := Options{BusyTimeoutMillis: 5000}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Opener{path: path, opts: opts}
}

// Path returns the database file path.
func (o *Opener) Path() string {
	return o.path
}

func (o *Opener) dsn() string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", o.opts.BusyTimeoutMillis))
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + o.path + "?" + q.Encode()
}

// Open opens the database, creating the file and schema if needed.
func (o *Opener) Open(ctx context.Context) (cache.Store, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(o.path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", o.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	o.open++
	return &store{db: db, compression: o.opts.Compression, release: o.release}, nil
}

func (o *Opener) release() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.open--
}

// Destroy deletes the database file and its side files.
func (o *Opener) Destroy(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.open > 0 {
		return cache.ErrStoreBusy
	}

	for _, p := range []string{o.path, o.path + "-wal", o.path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

type store struct {
	db          *sql.DB
	compression cache.Compression
	closed      atomic.Bool
	release     func()
}

func (s *store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.closed.Load() {
		return nil, false, cache.ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = tx.Rollback() }()

	var frame []byte
	err = tx.QueryRowContext(ctx, `SELECT data FROM shards WHERE id = ?`, key).Scan(&frame)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	value, err := compress.Decode(frame)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *store) Has(ctx context.Context, key string) (bool, error) {
	if s.closed.Load() {
		return false, cache.ErrClosed
	}

	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM shards WHERE id = ?`, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *store) Put(ctx context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return cache.ErrClosed
	}

	frame, err := compress.Encode(s.compression, value)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO shards (id, data) VALUES (?, ?)`, key, frame); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	defer s.release()
	return s.db.Close()
}
