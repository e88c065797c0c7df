// Package store is the persistent index: a documents table and a derived
// FTS5 full-text index kept transactionally consistent with it by triggers.
// The FTS index is never a second source of truth; at every quiescent point
// it mirrors the documents table exactly.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gerr "github.com/spellcaster/grimoire/internal/errors"
)

// Store is the explicit handle passed to every index operation.
// There is no package-level connection state.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    path TEXT NOT NULL UNIQUE,
    content TEXT NOT NULL,
    content_hash TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

-- External-content FTS5 mirror of documents. The triggers below run inside
-- the same transaction as each documents mutation, so a reader never sees a
-- document that is not searchable, or vice versa.
CREATE VIRTUAL TABLE IF NOT EXISTS docs_fts USING fts5(
    title, content,
    content='documents', content_rowid='id'
);

CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
  INSERT INTO docs_fts(rowid, title, content) VALUES (new.id, new.title, new.content);
END;
CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
  INSERT INTO docs_fts(docs_fts, rowid, title, content) VALUES ('delete', old.id, old.title, old.content);
END;
CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE ON documents BEGIN
  INSERT INTO docs_fts(docs_fts, rowid, title, content) VALUES ('delete', old.id, old.title, old.content);
  INSERT INTO docs_fts(rowid, title, content) VALUES (new.id, new.title, new.content);
END;

CREATE TABLE IF NOT EXISTS facet_meta (
    name TEXT PRIMARY KEY,
    poem TEXT,
    song TEXT,
    doc_count INTEGER NOT NULL DEFAULT 0
);

INSERT OR IGNORE INTO schema_version (version) VALUES (1);
`

// Open opens (creating if necessary) the index database at path.
// An empty path opens an in-memory index for testing.
func Open(path string) (*Store, error) {
	dsn := path
	if path == "" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, gerr.StorageError(fmt.Sprintf("cannot create index directory for %s", path), err)
		}
	}

	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, gerr.StorageError("cannot open index database", err)
	}

	// Single writer prevents lock contention; WAL lets readers run
	// concurrently with it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -20000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, gerr.StorageError("cannot set pragma", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, gerr.StorageError("cannot initialize index schema", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close checkpoints the WAL and closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the database file path ("" for in-memory stores).
func (s *Store) Path() string { return s.path }

// now returns the timestamp format stored in created_at/updated_at.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func parseTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// IsSyntaxErr reports whether err is an FTS5 query syntax error, the
// recoverable kind the search executor retries and falls back on.
func IsSyntaxErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "fts5:") || strings.Contains(msg, "syntax error") ||
		strings.Contains(msg, "malformed MATCH") ||
		strings.Contains(msg, "unterminated string")
}

// Stats reports document and FTS row counts for health checks. At any
// quiescent point the two are equal.
func (s *Store) Stats(ctx context.Context) (docs int, ftsRows int, err error) {
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&docs); err != nil {
		return 0, 0, gerr.StorageError("cannot count documents", err)
	}
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM docs_fts`).Scan(&ftsRows); err != nil {
		return 0, 0, gerr.StorageError("cannot count index rows", err)
	}
	return docs, ftsRows, nil
}
