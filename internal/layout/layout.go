// Package layout creates and checks the working directory tree:
//
//	stories/                      Markdown documents
//	stories/images -> ../images
//	stories/by_Genre/<genre>/     symlinks to documents, one dir per genre
//	stories/by_Genre/<genre>/images -> ../../../images
//	images/basic/dice_1..9/       face images referenced by the catalog
//
// Existing entries are kept. Ensure can run on every start.
package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/roach88/storyteller/internal/story"
)

// Directory names below the root.
const (
	StoriesDir = "stories"
	GenreDir   = "by_Genre"
	ImagesDir  = "images"
	DiceDir    = "basic"
)

// Stories returns the documents directory below root.
func Stories(root string) string {
	return filepath.Join(root, StoriesDir)
}

// Genre returns the link directory for genre below the documents directory.
func Genre(stories string, genre story.Genre) string {
	return filepath.Join(stories, GenreDir, string(genre))
}

// Dirs lists every directory Ensure creates, parents first.
func Dirs(root string, genres []story.Genre) []string {
	stories := Stories(root)
	dirs := []string{stories, filepath.Join(stories, GenreDir)}
	for _, g := range genres {
		dirs = append(dirs, Genre(stories, g))
	}
	for die := 1; die <= story.DiceCount; die++ {
		dirs = append(dirs, filepath.Join(root, ImagesDir, DiceDir, fmt.Sprintf("dice_%d", die)))
	}
	return dirs
}

// Link is a relative directory symlink: Path points to Target.
type Link struct {
	Path   string
	Target string
}

// Links lists the image symlinks Ensure creates.
func Links(root string, genres []story.Genre) []Link {
	stories := Stories(root)
	links := []Link{{
		Path:   filepath.Join(stories, ImagesDir),
		Target: filepath.Join("..", ImagesDir),
	}}
	for _, g := range genres {
		links = append(links, Link{
			Path:   filepath.Join(Genre(stories, g), ImagesDir),
			Target: filepath.Join("..", "..", "..", ImagesDir),
		})
	}
	return links
}

// Ensure creates the directory tree and image symlinks below root.
// OS errors such as missing permissions are returned.
func Ensure(root string, genres []story.Genre, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, dir := range Dirs(root, genres) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure layout: %w", err)
		}
	}

	for _, l := range Links(root, genres) {
		created, err := ensureLink(l)
		if err != nil {
			return fmt.Errorf("ensure layout: %w", err)
		}
		if created {
			logger.Info("symlink created", zap.String("path", l.Path), zap.String("target", l.Target))
		}
	}
	return nil
}

// ensureLink creates l unless something already exists at its path.
func ensureLink(l Link) (bool, error) {
	if _, err := os.Lstat(l.Path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.Symlink(l.Target, l.Path); err != nil {
		return false, err
	}
	return true, nil
}

// CheckFiles returns the paths that do not name a readable regular file
// (symlinks are followed). Missing files are logged, not fatal.
func CheckFiles(paths []string, logger *zap.Logger) []string {
	if logger == nil {
		logger = zap.NewNop()
	}

	var missing []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			logger.Warn("file not found", zap.String("path", p))
			missing = append(missing, p)
		}
	}
	return missing
}
