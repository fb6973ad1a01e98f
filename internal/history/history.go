// Package history tracks which news items the user has opened. The
// store is purely local; all news data itself stays server-owned.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// Open creates the database file (and its directory) if needed and
// initializes the schema.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	d := &DB{db}
	if err := d.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return d, nil
}

func (db *DB) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS read_news (
			news_id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			read_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_read_news_read_at ON read_news(read_at);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// MarkRead records that a news item was opened. Re-reading an item
// refreshes its timestamp.
func (db *DB) MarkRead(newsID int64, title string) error {
	_, err := db.Exec(
		"INSERT INTO read_news (news_id, title, read_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(news_id) DO UPDATE SET read_at = excluded.read_at",
		newsID, title, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("marking news read: %w", err)
	}
	return nil
}

// ReadIDs returns the set of read item IDs for dimming list entries.
func (db *DB) ReadIDs() (map[int64]struct{}, error) {
	rows, err := db.Query("SELECT news_id FROM read_news")
	if err != nil {
		return nil, fmt.Errorf("querying read news: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning read news id: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// Prune deletes read records older than maxAge.
func (db *DB) Prune(maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)
	_, err := db.Exec("DELETE FROM read_news WHERE read_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("pruning read news: %w", err)
	}
	return nil
}
