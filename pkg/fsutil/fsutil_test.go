package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mddirective/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads content and metadata", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "doc.md")
		require.NoError(t, os.WriteFile(path, []byte(":a[b]"), 0o644))

		content, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, ":a[b]", string(content))
		assert.Equal(t, path, info.Path)
		assert.Equal(t, int64(5), info.Size)
		assert.Equal(t, fsutil.HashContent(content), info.Hash)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.md"))
		require.ErrorIs(t, err, fsutil.ErrNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), t.TempDir())
		require.ErrorIs(t, err, fsutil.ErrIsDirectory)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := fsutil.ReadFile(ctx, "whatever.md")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestReadAll(t *testing.T) {
	t.Parallel()

	content, info, err := fsutil.ReadAll(context.Background(), strings.NewReader("::a"))
	require.NoError(t, err)
	assert.Equal(t, "::a", string(content))
	assert.Empty(t, info.Path)
	assert.Equal(t, int64(3), info.Size)
}

func TestHash(t *testing.T) {
	t.Parallel()

	a := fsutil.HashContent([]byte("a"))
	assert.Equal(t, a, fsutil.HashContent([]byte("a")))
	assert.NotEqual(t, a, fsutil.HashContent([]byte("b")))
	assert.Len(t, a.String(), 64)
	assert.Equal(t, a.String()[:12], a.Short())

	path := filepath.Join(t.TempDir(), "a")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	got, err := fsutil.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	_, err = fsutil.HashFile(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/work/docs")
	tests := []struct {
		name  string
		input string
		dir   string
		ext   string
		want  string
	}{
		{"next to input", "/work/docs/a.md", "", ".html", "/work/docs/a.html"},
		{"keeps relative layout", "/work/docs/guide/b.md", "/work/site", ".html", "/work/site/guide/b.html"},
		{"extension without dot", "/work/docs/a.md", "/out", "htm", "/out/a.htm"},
		{"outside root uses base name", "/elsewhere/c.md", "/out", ".html", "/out/c.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := fsutil.OutputPath(filepath.FromSlash(tt.input), root, filepath.FromSlash(tt.dir), tt.ext)
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}

	_, err := fsutil.OutputPath("/work/docs/a.md", "/work/docs", "", ".md")
	require.Error(t, err)
}
