package search

import (
	"context"
	"html"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/spellcaster/grimoire/internal/query"
	"github.com/spellcaster/grimoire/internal/store"
)

// DefaultLimit caps result sets when the caller does not say otherwise.
const DefaultLimit = 100

// likeWindow is how many characters of context a fallback snippet keeps
// on each side of the first match.
const likeWindow = 90

// Options controls one search execution.
type Options struct {
	// Limit caps the number of rows returned. Zero means DefaultLimit.
	Limit int
	// LikeFallback enables the substring scan when full-text matching
	// finds nothing.
	LikeFallback bool
}

// Result is what a search returns to CLI, HTTP and test callers alike.
type Result struct {
	Query    string            `json:"query"`
	Match    string            `json:"match,omitempty"`
	Rows     []store.SearchRow `json:"results"`
	Fallback bool              `json:"fallback,omitempty"`
}

// Searcher executes user queries against the index.
type Searcher struct {
	store *store.Store
	log   *slog.Logger
}

// New creates a Searcher over st.
func New(st *store.Store) *Searcher {
	return &Searcher{store: st, log: slog.Default().With("component", "search")}
}

// Run compiles raw into a full-text match expression and executes it ranked
// by relevance. A match-syntax error from an exotic query is retried without
// ranking; if the retry fails the same way the query is treated as matching
// nothing. An empty result can then fall back to a raw substring scan so
// partial words inside longer words, or queries the match parser rejects
// outright, still find their documents.
func (s *Searcher) Run(ctx context.Context, raw string, opts Options) (*Result, error) {
	res := &Result{Query: raw, Rows: []store.SearchRow{}}
	compiled := query.Compile(raw)
	if compiled == "" {
		return res, nil
	}
	res.Match = compiled

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.store.MatchRanked(ctx, compiled, limit)
	if err != nil {
		if !store.IsSyntaxErr(err) {
			return nil, err
		}
		s.log.Warn("ranked match failed, retrying unranked",
			"match", compiled, "error", err)
		rows, err = s.store.MatchUnranked(ctx, compiled, limit)
		if err != nil {
			if !store.IsSyntaxErr(err) {
				return nil, err
			}
			// The match string itself is unparseable. Treat it as
			// matching nothing so the substring scan still runs.
			s.log.Warn("unranked match failed, treating as no match",
				"match", compiled, "error", err)
			rows = nil
		}
	}

	if len(rows) == 0 && opts.LikeFallback {
		rows, err = s.likeFallback(ctx, raw, limit)
		if err != nil {
			return nil, err
		}
		res.Fallback = len(rows) > 0
	}

	if rows != nil {
		res.Rows = rows
	}
	return res, nil
}

// likeFallback scans stored content for the raw query as a case-insensitive
// substring and builds snippets by hand, since the index never saw a match.
func (s *Searcher) likeFallback(ctx context.Context, raw string, limit int) ([]store.SearchRow, error) {
	needle := strings.TrimSpace(raw)
	if needle == "" {
		return nil, nil
	}
	hits, err := s.store.LikeScan(ctx, needle, limit)
	if err != nil {
		return nil, err
	}
	rows := make([]store.SearchRow, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, store.SearchRow{
			ID:      h.ID,
			Title:   h.Title,
			Path:    h.Path,
			Snippet: fallbackSnippet(h.Content, needle),
			Rank:    0,
		})
	}
	return rows, nil
}

// fallbackSnippet cuts a window around the first case-insensitive occurrence
// of needle in content and highlights it. The extracted text is untrusted,
// so everything is HTML-escaped before the highlight markup goes in.
func fallbackSnippet(content, needle string) string {
	idx, stop := foldIndex(content, needle)
	if idx < 0 {
		// Matched via OR terms or whitespace differences; show the head.
		end := 2 * likeWindow
		if end >= len(content) {
			end = len(content)
		} else {
			for end > 0 && !utf8.RuneStart(content[end]) {
				end--
			}
		}
		return html.EscapeString(content[:end]) + "…"
	}

	// Window edges snap to rune boundaries so a multibyte character is
	// never split.
	start := max(0, idx-likeWindow)
	for start > 0 && !utf8.RuneStart(content[start]) {
		start--
	}
	end := stop + likeWindow
	if end >= len(content) {
		end = len(content)
	} else {
		for end < len(content) && !utf8.RuneStart(content[end]) {
			end++
		}
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString("…")
	}
	b.WriteString(html.EscapeString(content[start:idx]))
	b.WriteString("<mark>")
	b.WriteString(html.EscapeString(content[idx:stop]))
	b.WriteString("</mark>")
	b.WriteString(html.EscapeString(content[stop:end]))
	if end < len(content) {
		b.WriteString("…")
	}
	return b.String()
}

// foldIndex locates the first case-insensitive occurrence of needle in
// content and returns its byte bounds in the original string. Offsets into
// a lowercased copy do not transfer back: some characters change byte
// length when lowered (İ becomes a two-rune form), so the fold runs per
// rune against the original.
func foldIndex(content, needle string) (int, int) {
	folded := strings.ToLower(needle)
	if folded == "" {
		return -1, -1
	}
	for i := range content {
		j, k := i, 0
		for k < len(folded) && j < len(content) {
			r, size := utf8.DecodeRuneInString(content[j:])
			low := strings.ToLower(string(r))
			if !strings.HasPrefix(folded[k:], low) {
				break
			}
			j += size
			k += len(low)
		}
		if k == len(folded) {
			return i, j
		}
	}
	return -1, -1
}
