package store

import (
	"context"
	"database/sql"
	"errors"

	gerr "github.com/spellcaster/grimoire/internal/errors"
)

// SeedFacetMeta inserts or refreshes the descriptive text for a facet.
// Counts are left alone; they are maintained by RefreshFacetCount.
func (s *Store) SeedFacetMeta(ctx context.Context, name, poem, song string) error {
	var curPoem, curSong string
	err := s.db.QueryRowContext(ctx,
		`SELECT poem, song FROM facet_meta WHERE name=?`, name).Scan(&curPoem, &curSong)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO facet_meta (name, poem, song, doc_count) VALUES (?,?,?,0)`,
			name, poem, song)
		if err != nil {
			return gerr.StorageError("cannot seed facet metadata", err)
		}
		return nil
	}
	if err != nil {
		return gerr.StorageError("cannot load facet metadata", err)
	}
	if poem != curPoem || song != curSong {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE facet_meta SET poem=?, song=? WHERE name=?`, poem, song, name); err != nil {
			return gerr.StorageError("cannot update facet metadata", err)
		}
	}
	return nil
}

// RefreshFacetCount stores a display-only cached count for a facet.
// Callers must never treat this cache as authoritative.
func (s *Store) RefreshFacetCount(ctx context.Context, name string, count int) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE facet_meta SET doc_count=? WHERE name=?`, count, name); err != nil {
		return gerr.StorageError("cannot refresh facet count", err)
	}
	return nil
}

// FacetMetaAll returns all stored facet metadata keyed by facet name.
func (s *Store) FacetMetaAll(ctx context.Context) (map[string]FacetMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, poem, song, doc_count FROM facet_meta`)
	if err != nil {
		return nil, gerr.StorageError("cannot load facet metadata", err)
	}
	defer rows.Close()

	metas := make(map[string]FacetMeta)
	for rows.Next() {
		var m FacetMeta
		var poem, song sql.NullString
		if err := rows.Scan(&m.Name, &poem, &song, &m.DocCount); err != nil {
			return nil, gerr.StorageError("cannot scan facet metadata", err)
		}
		m.Poem = poem.String
		m.Song = song.String
		metas[m.Name] = m
	}
	return metas, rows.Err()
}
