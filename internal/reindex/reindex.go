package reindex

import (
	"context"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/spellcaster/grimoire/internal/extract"
	"github.com/spellcaster/grimoire/internal/facet"
	"github.com/spellcaster/grimoire/internal/scan"
	"github.com/spellcaster/grimoire/internal/store"
	"github.com/spellcaster/grimoire/internal/textclean"
)

// extractCacheSize bounds the extraction cache. PDF extraction dominates
// sync time, so repeated syncs over a mostly unchanged library should only
// pay for files that actually changed.
const extractCacheSize = 512

type cachedText struct {
	modTime time.Time
	size    int64
	text    string
}

// Summary reports what a sync did.
type Summary struct {
	Scanned  int `json:"scanned"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Removed  int `json:"removed"`
	Total    int `json:"total"`
}

// Options controls a sync run.
type Options struct {
	// UseCleaner runs extracted text through the normalization pipeline
	// before indexing.
	UseCleaner bool
	// MaxFileSize caps which files the scanner considers, in bytes.
	MaxFileSize int64
}

// Reindexer reconciles the index with the files on disk. It owns the
// serialization gate, so a single Reindexer should be shared by everything
// that can trigger a sync.
type Reindexer struct {
	store   *store.Store
	counter *facet.Counter
	root    string
	gate    *Gate
	cache   *lru.Cache[string, cachedText]
	log     *slog.Logger
}

// New creates a Reindexer over the library rooted at root.
func New(st *store.Store, root string) *Reindexer {
	cache, _ := lru.New[string, cachedText](extractCacheSize)
	return &Reindexer{
		store:   st,
		counter: facet.NewCounter(st),
		root:    root,
		gate:    NewGate(st.Path()),
		cache:   cache,
		log:     slog.Default().With("component", "reindex"),
	}
}

// Busy reports whether a sync is currently running in this process.
func (r *Reindexer) Busy() bool { return r.gate.Busy() }

// Sync walks the library, diffs it against the index, and applies the
// minimal set of inserts, updates and deletions. Unchanged documents are
// not rewritten, so their rowids and timestamps stay stable. Returns
// ErrSyncInProgress when another sync already holds the gate.
func (r *Reindexer) Sync(ctx context.Context, opts Options) (*Summary, error) {
	release, err := r.gate.TryAcquire()
	if err != nil {
		return nil, err
	}
	defer release()

	started := time.Now()
	files, err := scan.Files(ctx, r.root, scan.Options{MaxFileSize: opts.MaxFileSize})
	if err != nil {
		return nil, err
	}

	// Working set of everything currently indexed. Paths still present
	// after the walk are files that vanished from disk.
	existing, err := r.store.PathIndex(ctx)
	if err != nil {
		return nil, err
	}

	sum := &Summary{}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sum.Scanned++

		text := r.extract(f)
		if opts.UseCleaner {
			text = textclean.Clean(text)
		}
		if strings.TrimSpace(text) == "" {
			if _, ok := existing[f.RelPath]; ok {
				// The file is still on disk but now extracts empty, most
				// likely a scanned PDF after a swap. Keep the stale record
				// rather than silently dropping a searchable document.
				r.log.Warn("extraction empty, keeping stale document",
					"path", f.RelPath)
				delete(existing, f.RelPath)
			} else {
				r.log.Warn("extraction empty, skipping", "path", f.RelPath)
			}
			continue
		}

		title := extract.TitleFromPath(f.RelPath)
		if id, ok := existing[f.RelPath]; ok {
			delete(existing, f.RelPath)
			prev, err := r.store.ContentByPath(ctx, f.RelPath)
			if err != nil {
				return nil, err
			}
			if prev == text {
				continue
			}
			if err := r.store.UpdateByPath(ctx, f.RelPath, title, text, hashText(text)); err != nil {
				return nil, err
			}
			r.log.Info("document updated", "path", f.RelPath, "id", id)
			sum.Updated++
			continue
		}

		doc := &store.Document{
			Title:       title,
			Path:        f.RelPath,
			Content:     text,
			ContentHash: hashText(text),
		}
		if err := r.store.Insert(ctx, doc); err != nil {
			return nil, err
		}
		r.log.Info("document indexed", "path", f.RelPath, "id", doc.ID)
		sum.Inserted++
	}

	for path, id := range existing {
		if err := r.store.DeleteByID(ctx, id); err != nil {
			return nil, err
		}
		r.log.Info("document removed", "path", path, "id", id)
		sum.Removed++
	}

	// Counts are display-only, a failure here must not fail the sync.
	r.counter.RefreshCache(ctx)

	total, err := r.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	sum.Total = total

	r.log.Info("sync complete",
		"scanned", sum.Scanned,
		"inserted", sum.Inserted,
		"updated", sum.Updated,
		"removed", sum.Removed,
		"total", sum.Total,
		"elapsed", time.Since(started).Round(time.Millisecond).String())
	return sum, nil
}

// extract returns the raw text of f, consulting the cache keyed on
// modification time and size. Extraction failures degrade to empty text so
// one broken file cannot abort a whole sync.
func (r *Reindexer) extract(f scan.FileInfo) string {
	if c, ok := r.cache.Get(f.RelPath); ok &&
		c.modTime.Equal(f.ModTime) && c.size == f.Size {
		return c.text
	}
	text, err := extract.Text(f.AbsPath)
	if err != nil {
		r.log.Warn("extraction failed", "path", f.RelPath, "error", err)
		text = ""
	}
	r.cache.Add(f.RelPath, cachedText{modTime: f.ModTime, size: f.Size, text: text})
	return text
}
