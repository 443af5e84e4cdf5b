// Package storage keeps an SQLite copy of the retraction index so repeated
// checks need not re-parse the source CSV. The CSV stays the source of
// truth; the cache can be deleted and rebuilt at any time.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/matsen/ash/internal/retraction"
	_ "modernc.org/sqlite"
)

// ErrCacheStale is returned when the cache was built from a different or
// older source file, or never built.
var ErrCacheStale = errors.New("retraction cache is stale")

const (
	metaSourcePath  = "source_path"
	metaSourceMTime = "source_mtime"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS retractions (
			doi TEXT NOT NULL,
			seq INTEGER NOT NULL,
			record_json TEXT NOT NULL,
			PRIMARY KEY (doi, seq)
		);

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromDatabase replaces the cache contents with the index of src,
// building src if needed. It returns the number of records written.
func (d *DB) RebuildFromDatabase(src *retraction.Database) (int, error) {
	info, err := os.Stat(src.Path())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", retraction.ErrSourceUnavailable, err)
	}
	if err := src.Build(); err != nil {
		return 0, err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM retractions"); err != nil {
		return 0, fmt.Errorf("clearing retractions table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM meta"); err != nil {
		return 0, fmt.Errorf("clearing meta table: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO retractions (doi, seq, record_json) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	err = src.Each(func(doi string, records []retraction.Record) error {
		for seq, rec := range records {
			recordJSON, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("marshaling record for %s: %w", doi, err)
			}
			if _, err := stmt.Exec(doi, seq, string(recordJSON)); err != nil {
				return fmt.Errorf("inserting record for %s: %w", doi, err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	meta := map[string]string{
		metaSourcePath:  src.Path(),
		metaSourceMTime: strconv.FormatInt(info.ModTime().UnixNano(), 10),
	}
	for key, value := range meta {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, key, value); err != nil {
			return 0, fmt.Errorf("writing meta %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return count, nil
}

// CheckFresh returns ErrCacheStale unless the cache was built from
// sourcePath as it is now on disk.
func (d *DB) CheckFresh(sourcePath string) error {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return fmt.Errorf("%w: %v", retraction.ErrSourceUnavailable, err)
	}

	builtFrom, err := d.meta(metaSourcePath)
	if err != nil {
		return err
	}
	mtime, err := d.meta(metaSourceMTime)
	if err != nil {
		return err
	}

	if builtFrom == "" {
		return fmt.Errorf("%w: never built", ErrCacheStale)
	}
	if builtFrom != sourcePath {
		return fmt.Errorf("%w: built from %s", ErrCacheStale, builtFrom)
	}
	if mtime != strconv.FormatInt(info.ModTime().UnixNano(), 10) {
		return fmt.Errorf("%w: %s changed since last rebuild", ErrCacheStale, sourcePath)
	}
	return nil
}

func (d *DB) meta(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading meta %s: %w", key, err)
	}
	return value, nil
}

// Contains reports whether any cached record names doi.
func (d *DB) Contains(doi string) (bool, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM retractions WHERE doi = ?`, doi).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("looking up %s: %w", doi, err)
	}
	return n > 0, nil
}

// RecordsFor returns the cached records for doi in source order.
func (d *DB) RecordsFor(doi string) ([]retraction.Record, error) {
	rows, err := d.db.Query(`SELECT record_json FROM retractions WHERE doi = ? ORDER BY seq`, doi)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", doi, err)
	}
	defer rows.Close()

	var records []retraction.Record
	for rows.Next() {
		var recordJSON string
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, err
		}
		var rec retraction.Record
		if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
			return nil, fmt.Errorf("decoding record for %s: %w", doi, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of distinct cached DOIs.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(DISTINCT doi) FROM retractions").Scan(&count)
	return count, err
}
