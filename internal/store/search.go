package store

import (
	"context"
	"fmt"
	"strings"

	gerr "github.com/spellcaster/grimoire/internal/errors"
)

// Snippet rendering parameters for FTS5 snippet(): highlight markers,
// ellipsis at truncation boundaries, and the context window in tokens.
const (
	markOpen     = "<mark>"
	markClose    = "</mark>"
	ellipsis     = "…"
	snippetWidth = 12
)

// MatchRanked runs an FTS5 MATCH ordered by bm25 rank ascending (lower is
// better), ties broken by document id. The caller is responsible for
// compiling the match expression.
func (s *Store) MatchRanked(ctx context.Context, match string, limit int) ([]SearchRow, error) {
	q := fmt.Sprintf(
		`SELECT d.id, d.title, d.path,
		        snippet(docs_fts, 1, '%s', '%s', '%s', %d) AS snippet,
		        bm25(docs_fts) AS rank
		 FROM docs_fts JOIN documents d ON d.id = docs_fts.rowid
		 WHERE docs_fts MATCH ?
		 ORDER BY rank, d.id
		 LIMIT ?`,
		markOpen, markClose, ellipsis, snippetWidth)
	return s.matchRows(ctx, q, match, limit)
}

// MatchUnranked is the rank-disabled retry: same MATCH, rank forced to 0,
// ordered by document id only. Used when bm25 ranking itself is what made
// the query fail.
func (s *Store) MatchUnranked(ctx context.Context, match string, limit int) ([]SearchRow, error) {
	q := fmt.Sprintf(
		`SELECT d.id, d.title, d.path,
		        snippet(docs_fts, 1, '%s', '%s', '%s', %d) AS snippet,
		        0 AS rank
		 FROM docs_fts JOIN documents d ON d.id = docs_fts.rowid
		 WHERE docs_fts MATCH ?
		 ORDER BY d.id
		 LIMIT ?`,
		markOpen, markClose, ellipsis, snippetWidth)
	return s.matchRows(ctx, q, match, limit)
}

func (s *Store) matchRows(ctx context.Context, q, match string, limit int) ([]SearchRow, error) {
	rows, err := s.db.QueryContext(ctx, q, match, limit)
	if err != nil {
		if IsSyntaxErr(err) {
			return nil, err
		}
		return nil, gerr.StorageError("search query failed", err)
	}
	defer rows.Close()

	var out []SearchRow
	for rows.Next() {
		var r SearchRow
		if err := rows.Scan(&r.ID, &r.Title, &r.Path, &r.Snippet, &r.Rank); err != nil {
			return nil, gerr.StorageError("cannot scan search row", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MatchCount counts documents matching an FTS5 expression. A syntax error
// is returned as-is so callers can fall back to a substring count.
func (s *Store) MatchCount(ctx context.Context, match string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM docs_fts WHERE docs_fts MATCH ?`, match).Scan(&n)
	if err != nil {
		if IsSyntaxErr(err) {
			return 0, err
		}
		return 0, gerr.StorageError("count query failed", err)
	}
	return n, nil
}

// LikeScan is the substring fallback primitive: a case-insensitive scan of
// raw document content. The executor windows and highlights the results.
func (s *Store) LikeScan(ctx context.Context, needle string, limit int) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, path, content FROM documents
		 WHERE lower(content) LIKE lower(?) ESCAPE '\' LIMIT ?`,
		"%"+escapeLike(needle)+"%", limit)
	if err != nil {
		return nil, gerr.StorageError("substring scan failed", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Path, &doc.Content); err != nil {
			return nil, gerr.StorageError("cannot scan substring row", err)
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// LikeCountAny counts documents whose content contains any of the given
// keywords, case-insensitively. Used when the FTS count for a facet fails.
func (s *Store) LikeCountAny(ctx context.Context, keywords []string) (int, error) {
	if len(keywords) == 0 {
		return 0, nil
	}
	clauses := make([]string, len(keywords))
	args := make([]any, len(keywords))
	for i, kw := range keywords {
		clauses[i] = `lower(content) LIKE lower(?) ESCAPE '\'`
		args[i] = "%" + escapeLike(kw) + "%"
	}
	q := `SELECT COUNT(*) FROM documents WHERE ` + strings.Join(clauses, " OR ")

	var n int
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, gerr.StorageError("substring count failed", err)
	}
	return n, nil
}

// escapeLike neutralizes LIKE metacharacters in user input. SQLite LIKE
// has no default escape character, so percent and underscore would
// otherwise act as wildcards.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
