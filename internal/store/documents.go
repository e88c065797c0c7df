package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gerr "github.com/spellcaster/grimoire/internal/errors"
)

// ErrNotFound is returned when a requested document doesn't exist.
var ErrNotFound = errors.New("document not found")

// Insert adds a new document, setting its ID and timestamps.
// The FTS mirror is updated by trigger in the same transaction.
func (s *Store) Insert(ctx context.Context, doc *Document) error {
	ts := now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents(title, path, content, content_hash, created_at, updated_at)
		 VALUES (?,?,?,?,?,?)`,
		doc.Title, doc.Path, doc.Content, doc.ContentHash, ts, ts)
	if err != nil {
		return gerr.StorageError(fmt.Sprintf("cannot insert document %s", doc.Path), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return gerr.StorageError("cannot read inserted id", err)
	}
	doc.ID = id
	doc.CreatedAt = parseTime(ts)
	doc.UpdatedAt = doc.CreatedAt
	return nil
}

// UpdateByPath replaces title, content and hash for the document at path,
// bumping updated_at. The path is the natural key: same key with different
// content is an update, never a second row.
func (s *Store) UpdateByPath(ctx context.Context, path, title, content, contentHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET title=?, content=?, content_hash=?, updated_at=? WHERE path=?`,
		title, content, contentHash, now(), path)
	if err != nil {
		return gerr.StorageError(fmt.Sprintf("cannot update document %s", path), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return gerr.StorageError("cannot read update result", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes a document and, by trigger, its index entry.
func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id=?`, id); err != nil {
		return gerr.StorageError(fmt.Sprintf("cannot delete document %d", id), err)
	}
	return nil
}

// GetByID returns the full document, including content.
func (s *Store) GetByID(ctx context.Context, id int64) (*Document, error) {
	return s.getOne(ctx,
		`SELECT id, title, path, content, content_hash, created_at, updated_at
		 FROM documents WHERE id=?`, id)
}

// GetByPath returns the full document for a relative path.
func (s *Store) GetByPath(ctx context.Context, path string) (*Document, error) {
	return s.getOne(ctx,
		`SELECT id, title, path, content, content_hash, created_at, updated_at
		 FROM documents WHERE path=?`, path)
}

func (s *Store) getOne(ctx context.Context, q string, arg any) (*Document, error) {
	var doc Document
	var created, updated string
	err := s.db.QueryRowContext(ctx, q, arg).Scan(
		&doc.ID, &doc.Title, &doc.Path, &doc.Content, &doc.ContentHash, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, gerr.StorageError("cannot load document", err)
	}
	doc.CreatedAt = parseTime(created)
	doc.UpdatedAt = parseTime(updated)
	return &doc, nil
}

// List returns all documents without content, ordered by title
// case-insensitively.
func (s *Store) List(ctx context.Context) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, path, created_at, updated_at
		 FROM documents ORDER BY title COLLATE NOCASE`)
	if err != nil {
		return nil, gerr.StorageError("cannot list documents", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var doc Document
		var created, updated string
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Path, &created, &updated); err != nil {
			return nil, gerr.StorageError("cannot scan document row", err)
		}
		doc.CreatedAt = parseTime(created)
		doc.UpdatedAt = parseTime(updated)
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// PathIndex returns the {relative path -> id} map of everything currently
// indexed. The reindexer diffs the filesystem against this working set.
func (s *Store) PathIndex(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, path FROM documents`)
	if err != nil {
		return nil, gerr.StorageError("cannot load path index", err)
	}
	defer rows.Close()

	idx := make(map[string]int64)
	for rows.Next() {
		var id int64
		var path string
		if err := rows.Scan(&id, &path); err != nil {
			return nil, gerr.StorageError("cannot scan path row", err)
		}
		idx[path] = id
	}
	return idx, rows.Err()
}

// ContentByPath returns just the stored content for a path, or ErrNotFound.
func (s *Store) ContentByPath(ctx context.Context, path string) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM documents WHERE path=?`, path).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", gerr.StorageError("cannot load content", err)
	}
	return content, nil
}

// HashByPath returns the stored content hash for a path, or ErrNotFound.
func (s *Store) HashByPath(ctx context.Context, path string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT content_hash FROM documents WHERE path=?`, path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", gerr.StorageError("cannot load content hash", err)
	}
	return hash, nil
}

// Count returns the number of indexed documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, gerr.StorageError("cannot count documents", err)
	}
	return n, nil
}

// Newest returns the most recently inserted document without content,
// or nil when the index is empty.
func (s *Store) Newest(ctx context.Context) (*Document, error) {
	var doc Document
	var created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, path, created_at, updated_at
		 FROM documents ORDER BY id DESC LIMIT 1`).Scan(
		&doc.ID, &doc.Title, &doc.Path, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, gerr.StorageError("cannot load newest document", err)
	}
	doc.CreatedAt = parseTime(created)
	doc.UpdatedAt = parseTime(updated)
	return &doc, nil
}
