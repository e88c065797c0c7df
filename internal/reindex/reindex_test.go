package reindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spellcaster/grimoire/internal/store"
)

func newTestReindexer(t *testing.T) (*Reindexer, *store.Store, string) {
	t.Helper()
	st, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	root := t.TempDir()
	return New(st, root), st, root
}

func writeLibFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSync_IndexesNewFiles(t *testing.T) {
	// Given: a library with two files
	rx, st, root := newTestReindexer(t)
	writeLibFile(t, root, "charms/mirror.txt", "A silver mirror wards off harm.")
	writeLibFile(t, root, "herbs.md", "Chamomile calms the nerves.")

	// When: syncing
	sum, err := rx.Sync(context.Background(), Options{UseCleaner: true})
	require.NoError(t, err)

	// Then: both are indexed and searchable
	assert.Equal(t, 2, sum.Scanned)
	assert.Equal(t, 2, sum.Inserted)
	assert.Equal(t, 2, sum.Total)

	rows, err := st.MatchRanked(context.Background(), "silver AND mirror", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Mirror", rows[0].Title)
	assert.Equal(t, "charms/mirror.txt", rows[0].Path)
}

func TestSync_SecondRunIsNoOp(t *testing.T) {
	rx, _, root := newTestReindexer(t)
	writeLibFile(t, root, "a.txt", "stable content")

	_, err := rx.Sync(context.Background(), Options{UseCleaner: true})
	require.NoError(t, err)

	sum, err := rx.Sync(context.Background(), Options{UseCleaner: true})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Scanned)
	assert.Zero(t, sum.Inserted)
	assert.Zero(t, sum.Updated)
	assert.Zero(t, sum.Removed)
}

func TestSync_UpdatesChangedFileKeepingID(t *testing.T) {
	rx, st, root := newTestReindexer(t)
	writeLibFile(t, root, "a.txt", "first version")
	_, err := rx.Sync(context.Background(), Options{UseCleaner: true})
	require.NoError(t, err)

	before, err := st.GetByPath(context.Background(), "a.txt")
	require.NoError(t, err)

	writeLibFile(t, root, "a.txt", "second version")
	sum, err := rx.Sync(context.Background(), Options{UseCleaner: true})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Updated)

	after, err := st.GetByPath(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, "second version", after.Content)
}

func TestSync_RemovesDeletedFiles(t *testing.T) {
	rx, st, root := newTestReindexer(t)
	writeLibFile(t, root, "keep.txt", "keep me")
	writeLibFile(t, root, "drop.txt", "drop me")
	_, err := rx.Sync(context.Background(), Options{UseCleaner: true})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "drop.txt")))
	sum, err := rx.Sync(context.Background(), Options{UseCleaner: true})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Removed)
	assert.Equal(t, 1, sum.Total)

	_, err = st.GetByPath(context.Background(), "drop.txt")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSync_SkipsFilesWithNoText(t *testing.T) {
	rx, _, root := newTestReindexer(t)
	writeLibFile(t, root, "empty.txt", "   \n  ")
	writeLibFile(t, root, "real.txt", "actual words")

	sum, err := rx.Sync(context.Background(), Options{UseCleaner: true})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Scanned)
	assert.Equal(t, 1, sum.Inserted)
	assert.Equal(t, 1, sum.Total)
}

func TestSync_KeepsStaleDocumentWhenExtractionGoesEmpty(t *testing.T) {
	// Given: an indexed file whose content later becomes unextractable
	rx, st, root := newTestReindexer(t)
	writeLibFile(t, root, "a.txt", "original words")
	_, err := rx.Sync(context.Background(), Options{UseCleaner: true})
	require.NoError(t, err)

	writeLibFile(t, root, "a.txt", "   ")

	// When: syncing again
	sum, err := rx.Sync(context.Background(), Options{UseCleaner: true})
	require.NoError(t, err)

	// Then: the old record survives rather than vanishing silently
	assert.Zero(t, sum.Removed)
	doc, err := st.GetByPath(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "original words", doc.Content)
}

func TestSync_IndexStaysConsistent(t *testing.T) {
	rx, st, root := newTestReindexer(t)
	writeLibFile(t, root, "a.txt", "one")
	writeLibFile(t, root, "b.txt", "two")
	_, err := rx.Sync(context.Background(), Options{UseCleaner: true})
	require.NoError(t, err)

	writeLibFile(t, root, "a.txt", "one changed")
	require.NoError(t, os.Remove(filepath.Join(root, "b.txt")))
	writeLibFile(t, root, "c.txt", "three")
	_, err = rx.Sync(context.Background(), Options{UseCleaner: true})
	require.NoError(t, err)

	docs, ftsRows, err := st.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, docs, ftsRows, "documents and index rows must agree after any sync")
}

func TestSync_AppliesCleaner(t *testing.T) {
	rx, st, root := newTestReindexer(t)
	writeLibFile(t, root, "a.txt", "a wonder-\nful spell")

	_, err := rx.Sync(context.Background(), Options{UseCleaner: true})
	require.NoError(t, err)

	doc, err := st.GetByPath(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a wonderful spell", doc.Content)
}

func TestSync_CleanerOff(t *testing.T) {
	rx, st, root := newTestReindexer(t)
	writeLibFile(t, root, "a.txt", "a wonder-\nful spell")

	_, err := rx.Sync(context.Background(), Options{UseCleaner: false})
	require.NoError(t, err)

	doc, err := st.GetByPath(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a wonder-\nful spell", doc.Content)
}

func TestGate_SecondAcquireConflicts(t *testing.T) {
	g := NewGate("")

	release, err := g.TryAcquire()
	require.NoError(t, err)
	assert.True(t, g.Busy())

	_, err = g.TryAcquire()
	assert.ErrorIs(t, err, ErrSyncInProgress)

	release()
	assert.False(t, g.Busy())

	release2, err := g.TryAcquire()
	require.NoError(t, err)
	release2()
}

func TestIndexFile_IndexesAndSkipsUnchanged(t *testing.T) {
	rx, _, root := newTestReindexer(t)
	writeLibFile(t, root, "a.txt", "fresh content")

	st1, err := rx.IndexFile(context.Background(), "a.txt", true)
	require.NoError(t, err)
	assert.Equal(t, "indexed", st1.Status)
	assert.Equal(t, "full", st1.Searchable)
	assert.Positive(t, st1.ID)

	st2, err := rx.IndexFile(context.Background(), "a.txt", true)
	require.NoError(t, err)
	assert.Equal(t, "skipped", st2.Status)
	assert.Equal(t, "unchanged", st2.Reason)
}

func TestIndexFile_ReindexesChangedFile(t *testing.T) {
	rx, st, root := newTestReindexer(t)
	writeLibFile(t, root, "a.txt", "first")
	_, err := rx.IndexFile(context.Background(), "a.txt", true)
	require.NoError(t, err)

	writeLibFile(t, root, "a.txt", "second")
	status, err := rx.IndexFile(context.Background(), "a.txt", true)
	require.NoError(t, err)
	assert.Equal(t, "indexed", status.Status)

	doc, err := st.GetByPath(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "second", doc.Content)
}

func TestIndexFile_MissingFile(t *testing.T) {
	rx, _, _ := newTestReindexer(t)

	status, err := rx.IndexFile(context.Background(), "absent.txt", true)
	require.NoError(t, err)
	assert.Equal(t, "error", status.Status)
	assert.Equal(t, "file_not_found", status.Reason)
}

func TestIndexFile_UnsupportedType(t *testing.T) {
	rx, _, root := newTestReindexer(t)
	writeLibFile(t, root, "image.png", "bytes")

	status, err := rx.IndexFile(context.Background(), "image.png", true)
	require.NoError(t, err)
	assert.Equal(t, "skipped", status.Status)
	assert.Equal(t, "unsupported_type", status.Reason)
}

func TestIndexFile_RejectsTraversal(t *testing.T) {
	rx, _, _ := newTestReindexer(t)

	_, err := rx.IndexFile(context.Background(), "../outside.txt", true)
	assert.Error(t, err)
}

func TestIndexFile_MetadataOnlyWhenNoText(t *testing.T) {
	// A pdf the parser cannot read is still indexed by title
	rx, _, root := newTestReindexer(t)
	writeLibFile(t, root, "scanned.pdf", "%PDF-1.4 not really")

	status, err := rx.IndexFile(context.Background(), "scanned.pdf", true)
	require.NoError(t, err)
	assert.Equal(t, "indexed", status.Status)
	assert.Equal(t, "metadata_only", status.Searchable)
}
