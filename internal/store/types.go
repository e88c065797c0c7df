package store

import "time"

// Document is the unit of indexing: one row per distinct relative path.
type Document struct {
	// ID is the SQLite rowid, stable for the document's lifetime.
	ID int64
	// Title is derived from the file name unless overridden.
	Title string
	// Path is the source file path relative to the library root.
	// Unique: moves and renames surface as delete+insert.
	Path string
	// Content is the cleaned, extracted text. Never empty for an
	// indexed document.
	Content string
	// ContentHash fingerprints what was indexed: the raw file bytes on
	// the single-file fast path, the cleaned text on a full sync.
	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SearchRow is one ranked match from the full-text index.
type SearchRow struct {
	ID      int64   `json:"id"`
	Title   string  `json:"title"`
	Path    string  `json:"path"`
	Snippet string  `json:"snippet"`
	// Rank is the bm25 relevance score; lower is better. Zero on the
	// rank-disabled retry and substring-fallback paths.
	Rank float64 `json:"rank"`
}

// FacetMeta is per-facet descriptive text plus a display-only cached count.
type FacetMeta struct {
	Name string `json:"name"`
	Poem string `json:"poem"`
	Song string `json:"song"`
	// DocCount is refreshed best-effort after a sync. It is never the
	// source of truth; live counts come from the facet counter.
	DocCount int `json:"doc_count"`
}
