package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spellcaster/grimoire/internal/extract"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFiles_FindsSupportedFilesInOrder(t *testing.T) {
	// Given: a library with supported and unsupported files
	root := t.TempDir()
	writeFile(t, root, "zebra.txt", "z")
	writeFile(t, root, "apple.md", "a")
	writeFile(t, root, "sub/deep.pdf", "not really a pdf")
	writeFile(t, root, "ignore.png", "binary")

	// When: scanning
	files, err := Files(context.Background(), root, Options{})
	require.NoError(t, err)

	// Then: only supported files, in deterministic lexical order
	var rels []string
	for _, f := range files {
		rels = append(rels, f.RelPath)
	}
	assert.Equal(t, []string{"apple.md", "sub/deep.pdf", "zebra.txt"}, rels)
}

func TestFiles_SkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/config.txt", "hidden")
	writeFile(t, root, "visible.txt", "ok")

	files, err := Files(context.Background(), root, Options{})
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "visible.txt", files[0].RelPath)
}

func TestFiles_SkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.txt", "ok")
	writeFile(t, root, "big.txt", "this content is too large")

	files, err := Files(context.Background(), root, Options{MaxFileSize: 10})
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "small.txt", files[0].RelPath)
}

func TestFiles_ClassifiesKind(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "x")

	files, err := Files(context.Background(), root, Options{})
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, extract.KindText, files[0].Kind)
	assert.Positive(t, files[0].Size)
	assert.False(t, files[0].ModTime.IsZero())
}

func TestFiles_MissingRoot(t *testing.T) {
	_, err := Files(context.Background(), filepath.Join(t.TempDir(), "absent"), Options{})
	assert.Error(t, err)
}

func TestFiles_RootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.txt", "x")

	_, err := Files(context.Background(), filepath.Join(root, "file.txt"), Options{})
	assert.Error(t, err)
}

func TestFiles_CanceledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Files(ctx, root, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
