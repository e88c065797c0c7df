package facet

import (
	"context"
	"log/slog"

	"github.com/spellcaster/grimoire/internal/query"
	"github.com/spellcaster/grimoire/internal/store"
)

// Counter computes live facet counts against an index store.
// Counts are recomputed on every call; the cached doc_count column in
// facet_meta exists for display only and is never returned from here.
type Counter struct {
	store *store.Store
}

// NewCounter returns a Counter bound to the given store handle.
func NewCounter(st *store.Store) *Counter {
	return &Counter{store: st}
}

// matchExpr builds the disjunctive FTS5 expression for one facet,
// using the same wildcarding rule as user queries.
func matchExpr(def Definition) string {
	var disj query.Or
	for _, kw := range def.Keywords {
		disj = append(disj, query.Auto(kw))
	}
	return disj.Render()
}

// Counts returns {facet name -> live document count}. Each facet is
// counted through the full-text index; if the index rejects the
// expression the count falls back to a raw substring scan.
func (c *Counter) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(Definitions))
	for _, def := range Definitions {
		n, err := c.store.MatchCount(ctx, matchExpr(def))
		if err != nil {
			if !store.IsSyntaxErr(err) {
				return nil, err
			}
			slog.Warn("facet_count_fallback",
				slog.String("facet", def.Name),
				slog.String("error", err.Error()))
			n, err = c.store.LikeCountAny(ctx, def.Keywords)
			if err != nil {
				return nil, err
			}
		}
		counts[def.Name] = n
	}
	return counts, nil
}

// Seed writes the poem/song metadata for every configured facet.
// Called once at startup; counts are untouched.
func (c *Counter) Seed(ctx context.Context) error {
	for _, def := range Definitions {
		if err := c.store.SeedFacetMeta(ctx, def.Name, Poems[def.Name], Songs[def.Name]); err != nil {
			return err
		}
	}
	return nil
}

// RefreshCache recomputes counts and stores them in facet_meta for
// display. Best-effort: failures are logged, never propagated, because
// the cache is not authoritative.
func (c *Counter) RefreshCache(ctx context.Context) {
	counts, err := c.Counts(ctx)
	if err != nil {
		slog.Warn("facet_cache_refresh_failed", slog.String("error", err.Error()))
		return
	}
	for name, n := range counts {
		if err := c.store.RefreshFacetCount(ctx, name, n); err != nil {
			slog.Warn("facet_cache_write_failed",
				slog.String("facet", name),
				slog.String("error", err.Error()))
		}
	}
}
