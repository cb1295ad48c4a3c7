// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package abbrev

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store holds the SQLite index of abbreviation rules. Exact-word lookups
// and prefix lookups both go through the index so the full list never has
// to live in memory.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the index database at path and bootstraps
// the schema.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening abbreviation index: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS rules (
			word TEXT NOT NULL,
			prefix INTEGER NOT NULL,
			abbrev TEXT NOT NULL,
			PRIMARY KEY (word, prefix)
		)`,
		`CREATE TABLE IF NOT EXISTS list_status (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			file_mod_time TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Sync rebuilds the index from the list file at listPath when the file is
// newer than the last indexed version. An up-to-date index is left alone.
func (s *Store) Sync(ctx context.Context, listPath string, w io.Writer) error {
	info, err := os.Stat(listPath)
	if err != nil {
		return fmt.Errorf("checking abbreviation list: %w", err)
	}
	modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

	var stored string
	err = s.db.QueryRowContext(ctx,
		`SELECT file_mod_time FROM list_status WHERE id = 1`,
	).Scan(&stored)
	if err == nil && stored == modTime {
		return nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking index status: %w", err)
	}

	entries, err := ParseList(listPath)
	if err != nil {
		return err
	}
	return s.rebuild(ctx, entries, modTime, w)
}

func (s *Store) rebuild(ctx context.Context, entries []ListEntry, modTime string, w io.Writer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting rebuild transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rules`); err != nil {
		return fmt.Errorf("clearing rules: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO rules (word, prefix, abbrev) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		prefix := 0
		if e.Prefix {
			prefix = 1
		}
		if _, err := stmt.ExecContext(ctx, e.Word, prefix, e.Abbrev); err != nil {
			return fmt.Errorf("inserting rule %q: %w", e.Word, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO list_status (id, file_mod_time) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET file_mod_time = excluded.file_mod_time`,
		modTime,
	); err != nil {
		return fmt.Errorf("recording list version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rebuild: %w", err)
	}
	fmt.Fprintf(w, "indexed %d abbreviation rules\n", len(entries))
	return nil
}

// Lookup returns the abbreviation for word. Exact rules win; otherwise
// the longest matching prefix rule applies. The second return value
// reports whether any rule matched.
func (s *Store) Lookup(ctx context.Context, word string) (string, bool, error) {
	word = strings.ToLower(word)

	var abbreviation string
	err := s.db.QueryRowContext(ctx,
		`SELECT abbrev FROM rules WHERE prefix = 0 AND word = ?`, word,
	).Scan(&abbreviation)
	if err == nil {
		return abbreviation, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, fmt.Errorf("looking up %q: %w", word, err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT abbrev FROM rules
		 WHERE prefix = 1 AND ? LIKE word || '%'
		 ORDER BY length(word) DESC LIMIT 1`, word,
	).Scan(&abbreviation)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up prefix for %q: %w", word, err)
	}
	return abbreviation, true, nil
}

// Count returns the number of indexed rules.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM rules`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting rules: %w", err)
	}
	return n, nil
}
