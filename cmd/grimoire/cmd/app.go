package cmd

import (
	"context"
	"path/filepath"

	"github.com/spellcaster/grimoire/internal/config"
	"github.com/spellcaster/grimoire/internal/facet"
	"github.com/spellcaster/grimoire/internal/reindex"
	"github.com/spellcaster/grimoire/internal/store"
)

// resolvePath anchors a config-relative path at the config directory, so
// running with -c elsewhere finds the same library and index.
func resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(configDir, p)
}

// openEnv loads configuration and opens the index store. The caller owns
// the returned store and must Close it.
func openEnv() (*config.Config, *store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(resolvePath(cfg.Index.DBPath))
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}

// newReindexer builds a Reindexer over the configured library, with facet
// metadata seeded so first runs have their descriptive rows in place.
func newReindexer(cfg *config.Config, st *store.Store) *reindex.Reindexer {
	return reindex.New(st, resolvePath(cfg.Library.Root))
}

// seedFacets makes sure the facet metadata rows exist. Errors are not
// fatal, the live counts never depend on these rows.
func seedFacets(ctx context.Context, st *store.Store) {
	_ = facet.NewCounter(st).Seed(ctx)
}
