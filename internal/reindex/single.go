package reindex

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"

	gerr "github.com/spellcaster/grimoire/internal/errors"
	"github.com/spellcaster/grimoire/internal/extract"
	"github.com/spellcaster/grimoire/internal/store"
	"github.com/spellcaster/grimoire/internal/textclean"
)

// FileStatus is the outcome of a single-file index request.
type FileStatus struct {
	Status     string `json:"status"` // indexed, skipped or error
	Path       string `json:"path"`
	Reason     string `json:"reason,omitempty"`
	Searchable string `json:"searchable,omitempty"` // full or metadata_only
	ID         int64  `json:"id,omitempty"`
}

// hashText fingerprints content for cheap change detection. MD5 is fine
// here, this is a dedup key and not a security boundary.
func hashText(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// IndexFile indexes one file by library-relative path without walking the
// whole library. The raw file bytes are fingerprinted first so an unchanged
// file is skipped before any extraction work happens. A file whose text
// cannot be extracted is still indexed by title, marked metadata_only so
// callers know the content is not searchable.
func (r *Reindexer) IndexFile(ctx context.Context, relPath string, useCleaner bool) (*FileStatus, error) {
	relPath = filepath.ToSlash(filepath.Clean(relPath))
	if relPath == "." || strings.HasPrefix(relPath, "../") || filepath.IsAbs(relPath) {
		return nil, gerr.New(gerr.ErrCodeInvalidPath,
			"path must be relative to the library root", nil)
	}
	st := &FileStatus{Path: relPath}

	if extract.KindOf(relPath) == extract.KindUnsupported {
		st.Status = "skipped"
		st.Reason = "unsupported_type"
		return st, nil
	}

	absPath := filepath.Join(r.root, filepath.FromSlash(relPath))
	raw, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			st.Status = "error"
			st.Reason = "file_not_found"
			return st, nil
		}
		return nil, gerr.New(gerr.ErrCodeFileUnreadable, "cannot read file", err).
			WithDetail("path", relPath)
	}

	release, err := r.gate.TryAcquire()
	if err != nil {
		return nil, err
	}
	defer release()

	fileHash := hashText(string(raw))
	exists := true
	prevHash, err := r.store.HashByPath(ctx, relPath)
	switch {
	case err == nil:
		if prevHash == fileHash {
			st.Status = "skipped"
			st.Reason = "unchanged"
			return st, nil
		}
	case errors.Is(err, store.ErrNotFound):
		exists = false
	default:
		return nil, err
	}

	text, err := extract.Text(absPath)
	if err != nil {
		r.log.Warn("extraction failed", "path", relPath, "error", err)
		text = ""
	}
	if useCleaner {
		text = textclean.Clean(text)
	}

	title := extract.TitleFromPath(relPath)
	st.Searchable = "full"
	if strings.TrimSpace(text) == "" {
		// Index by title and path only. The record is findable by listing
		// and metadata but its body will not match any search.
		text = ""
		st.Searchable = "metadata_only"
	}

	if exists {
		if err := r.store.UpdateByPath(ctx, relPath, title, text, fileHash); err != nil {
			return nil, err
		}
		doc, err := r.store.GetByPath(ctx, relPath)
		if err != nil {
			return nil, err
		}
		st.ID = doc.ID
	} else {
		doc := &store.Document{Title: title, Path: relPath, Content: text, ContentHash: fileHash}
		if err := r.store.Insert(ctx, doc); err != nil {
			return nil, err
		}
		st.ID = doc.ID
	}

	st.Status = "indexed"
	r.counter.RefreshCache(ctx)
	return st, nil
}
