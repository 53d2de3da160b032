// Package store handles SQLite persistence for sessions and snippets.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jaymody/lpm/internal/session"
	"github.com/jaymody/lpm/internal/snippet"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Record is one persisted session row.
type Record struct {
	ID        int64
	SnippetID int
	Language  string
	Stat      session.Stat
}

// Store wraps SQLite access for session history and the snippet cache.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			snippet_id INTEGER NOT NULL,
			language TEXT NOT NULL,
			num_chars INTEGER NOT NULL,
			num_lines INTEGER NOT NULL,
			num_correct INTEGER NOT NULL,
			num_wrong INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS snippets (
			id INTEGER PRIMARY KEY,
			url TEXT NOT NULL,
			author TEXT NOT NULL,
			language TEXT NOT NULL,
			lines TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_snippets_language ON snippets(language);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession appends one completed session. The stat must be complete
// and is never mutated afterwards.
func (s *Store) InsertSession(ctx context.Context, snippetID int, language string, stat session.Stat) (int64, error) {
	if !stat.Complete() {
		return 0, fmt.Errorf("refusing to store incomplete session stat")
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (started_at, ended_at, snippet_id, language, num_chars, num_lines, num_correct, num_wrong)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stat.StartedAt.Format(time.RFC3339Nano),
		stat.EndedAt.Format(time.RFC3339Nano),
		snippetID,
		language,
		stat.NumChars,
		stat.NumLines,
		stat.NumCorrect,
		stat.NumWrong,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSessions returns all session records in completion order.
func (s *Store) ListSessions(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, ended_at, snippet_id, language, num_chars, num_lines, num_correct, num_wrong
		 FROM sessions
		 ORDER BY ended_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []Record
	for rows.Next() {
		var rec Record
		var startedAt, endedAt string
		if err := rows.Scan(&rec.ID, &startedAt, &endedAt, &rec.SnippetID, &rec.Language,
			&rec.Stat.NumChars, &rec.Stat.NumLines, &rec.Stat.NumCorrect, &rec.Stat.NumWrong); err != nil {
			return nil, err
		}
		if rec.Stat.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, err
		}
		if rec.Stat.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteSessions wipes all session history.
func (s *Store) DeleteSessions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions`)
	return err
}

// ReplaceSnippets swaps the snippet cache for a freshly fetched set.
func (s *Store) ReplaceSnippets(ctx context.Context, snippets []snippet.Snippet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM snippets`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snippets (id, url, author, language, lines) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, sn := range snippets {
		if _, err = stmt.ExecContext(ctx, sn.ID, sn.URL, sn.Author, sn.Language,
			strings.Join(sn.Lines, "\n")); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListSnippets loads the cached snippet set.
func (s *Store) ListSnippets(ctx context.Context) ([]snippet.Snippet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, author, language, lines FROM snippets ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var snippets []snippet.Snippet
	for rows.Next() {
		var sn snippet.Snippet
		var lines string
		if err := rows.Scan(&sn.ID, &sn.URL, &sn.Author, &sn.Language, &lines); err != nil {
			return nil, err
		}
		sn.Lines = strings.Split(lines, "\n")
		snippets = append(snippets, sn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snippets, nil
}
