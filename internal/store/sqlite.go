package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore remembers listing URLs that have already been handed to the
// caller, so repeat aggregations only surface listings not seen before.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the seen_listings table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS seen_listings (
		url        TEXT PRIMARY KEY,
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating seen_listings table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Known returns the set of every recorded listing URL. The aggregation
// engine takes this set up front rather than probing per record.
func (s *SQLiteStore) Known() (map[string]struct{}, error) {
	rows, err := s.db.Query("SELECT url FROM seen_listings")
	if err != nil {
		return nil, fmt.Errorf("loading seen listings: %w", err)
	}
	defer rows.Close()

	known := make(map[string]struct{})
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scanning seen listing: %w", err)
		}
		known[url] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating seen listings: %w", err)
	}
	return known, nil
}

// MarkSeen records a listing URL. If it already exists the call is a no-op.
func (s *SQLiteStore) MarkSeen(url string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO seen_listings (url) VALUES (?)", url)
	if err != nil {
		return fmt.Errorf("marking listing %s as seen: %w", url, err)
	}
	return nil
}

// Cleanup deletes seen-listing entries older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	_, err := s.db.Exec("DELETE FROM seen_listings WHERE first_seen < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up listings older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
