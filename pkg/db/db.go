package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dtnitsch/web-summarizer/pkg/store"
	_ "modernc.org/sqlite"
)

const DefaultDBName = "web-summarizer.db"

// DB is the SQLite-backed summary store.
type DB struct {
	*sql.DB
	path  string
	clock *store.Clock
}

var _ store.Store = (*DB)(nil)

// openDB opens a SQLite database at the given path
func openDB(dbPath string) (*sql.DB, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if dbPath == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close() // Close error less important than the ping error
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return sqlDB, nil
}

// DefaultPath returns the database path next to the running binary.
func DefaultPath() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(execPath), DefaultDBName), nil
}

// Open opens or creates the SQLite database at dbPath, next to the binary
// when dbPath is empty, and makes sure the schema exists.
func Open(dbPath string) (*DB, error) {
	if dbPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		dbPath = p
	}

	sqlDB, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	db := &DB{
		DB:    sqlDB,
		path:  dbPath,
		clock: store.NewClock(time.Nanosecond, nil),
	}

	if err := db.InitSchema(); err != nil {
		_ = db.Close() // Close error less important than schema error
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// SetClock replaces the clock that stamps new records.
func (db *DB) SetClock(c *store.Clock) {
	db.clock = c
}

// InitSchema creates the tables and indexes if they do not exist.
func (db *DB) InitSchema() error {
	_, err := db.Exec(schema)
	return err
}

func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}
