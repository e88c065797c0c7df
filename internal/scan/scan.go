// Package scan enumerates indexable files under the library root.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spellcaster/grimoire/internal/extract"
)

// DefaultMaxFileSize caps file size during enumeration (75 MB).
const DefaultMaxFileSize = int64(75) * 1024 * 1024

// FileInfo describes one candidate file found under the root.
type FileInfo struct {
	// RelPath is the path relative to the scanned root, with forward
	// slashes. This is the document's natural key.
	RelPath string
	// AbsPath is the absolute path for reading.
	AbsPath string
	Size    int64
	ModTime time.Time
	Kind    extract.Kind
}

// Options configures a scan.
type Options struct {
	// MaxFileSize skips larger files; zero means DefaultMaxFileSize.
	MaxFileSize int64
}

// Files walks root recursively and returns every supported file in
// deterministic lexicographic path order. Hidden directories are skipped;
// unreadable entries are skipped rather than failing the walk.
func Files(ctx context.Context, root string, opts Options) ([]FileInfo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path is not a directory: %s", absRoot)
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var files []FileInfo
	// WalkDir visits entries in lexical order, which gives the
	// deterministic enumeration the reindexer relies on.
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return nil // Skip entries we can't access
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		if relPath == "." {
			return nil
		}

		if d.IsDir() {
			if name := d.Name(); len(name) > 1 && name[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}

		// No symlink following: a link outside the root must not be
		// indexed under a root-relative key.
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		kind := extract.KindOf(relPath)
		if !kind.Supported() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}
		if fi.Size() > maxSize {
			return nil
		}

		files = append(files, FileInfo{
			RelPath: filepath.ToSlash(relPath),
			AbsPath: path,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
			Kind:    kind,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
