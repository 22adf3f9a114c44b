package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/roach88/storyteller/internal/story"
)

func TestEnsure_CreatesTree(t *testing.T) {
	root := t.TempDir()
	genres := []story.Genre{"Krimi", "Märchen"}

	require.NoError(t, Ensure(root, genres, zaptest.NewLogger(t)))

	for _, dir := range Dirs(root, genres) {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}
	assert.DirExists(t, filepath.Join(root, "images", "basic", "dice_9"))
	assert.DirExists(t, filepath.Join(root, "stories", "by_Genre", "Märchen"))

	target, err := os.Readlink(filepath.Join(root, "stories", "images"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("..", "images"), target)

	target, err = os.Readlink(filepath.Join(root, "stories", "by_Genre", "Krimi", "images"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("..", "..", "..", "images"), target)

	// Links resolve to the shared images dir.
	assert.DirExists(t, filepath.Join(root, "stories", "by_Genre", "Krimi", "images", "basic", "dice_1"))
}

func TestEnsure_Idempotent(t *testing.T) {
	root := t.TempDir()
	genres := []story.Genre{"Krimi"}

	require.NoError(t, Ensure(root, genres, nil))
	marker := filepath.Join(root, "stories", "keep.md")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0o644))

	require.NoError(t, Ensure(root, genres, nil))
	assert.FileExists(t, marker)
}

func TestEnsure_KeepsExistingEntry(t *testing.T) {
	root := t.TempDir()
	stories := filepath.Join(root, "stories")
	require.NoError(t, os.MkdirAll(filepath.Join(stories, "images"), 0o755))

	require.NoError(t, Ensure(root, nil, nil))

	info, err := os.Lstat(filepath.Join(stories, "images"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Zero(t, info.Mode()&os.ModeSymlink)
}

func TestEnsure_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	root := t.TempDir()
	require.NoError(t, os.Chmod(root, 0o500))
	t.Cleanup(func() { os.Chmod(root, 0o755) })

	require.Error(t, Ensure(root, story.Genres, nil))
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "dices.tsv")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0o644))
	link := filepath.Join(dir, "link.tsv")
	require.NoError(t, os.Symlink(present, link))
	missing := filepath.Join(dir, "missing.jpg")

	got := CheckFiles([]string{present, link, missing, dir}, zaptest.NewLogger(t))
	assert.Equal(t, []string{missing, dir}, got)
}
