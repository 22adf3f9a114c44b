package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/roach88/storyteller/internal/layout"
	"github.com/roach88/storyteller/internal/story"
)

var (
	// ErrArtifactExists is returned when a document with the same name
	// was already written.
	ErrArtifactExists = errors.New("artifact already exists")

	// ErrLinkExists is returned when the genre link is already present.
	ErrLinkExists = errors.New("genre link already exists")
)

// Publisher writes artifacts into a stories directory.
type Publisher struct {
	dir    string
	logger *zap.Logger
}

// NewPublisher returns a Publisher for the stories directory dir.
func NewPublisher(dir string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{dir: dir, logger: logger}
}

// Path returns where a is written.
func (p *Publisher) Path(a Artifact) string {
	return filepath.Join(p.dir, a.Name)
}

// LinkPath returns where the genre link of a is created.
func (p *Publisher) LinkPath(a Artifact, genre story.Genre) string {
	return filepath.Join(layout.Genre(p.dir, genre), a.Name)
}

// Write creates the artifact file. An existing file is left untouched and
// ErrArtifactExists returned.
func (p *Publisher) Write(a Artifact) (string, error) {
	path := p.Path(a)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("write %s: %w", path, ErrArtifactExists)
	}
	if err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	if _, err := f.WriteString(a.Content); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	p.logger.Info("document written", zap.String("path", path))
	return path, nil
}

// Link creates the relative symlink by_Genre/<genre>/<name> -> ../../<name>.
// The artifact must already be written.
func (p *Publisher) Link(a Artifact, genre story.Genre) (string, error) {
	if _, err := os.Stat(p.Path(a)); err != nil {
		return "", fmt.Errorf("link %s: %w", a.Name, err)
	}

	dir := layout.Genre(p.dir, genre)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("link %s: %w", a.Name, err)
	}

	path := p.LinkPath(a, genre)
	target := filepath.Join("..", "..", a.Name)
	if err := os.Symlink(target, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("link %s: %w", path, ErrLinkExists)
		}
		return "", fmt.Errorf("link %s: %w", path, err)
	}

	p.logger.Info("genre link created", zap.String("path", path), zap.String("genre", genre.String()))
	return path, nil
}

// Materialize renders s, writes it and links it under its genre.
// Returns the path of the written document.
func (p *Publisher) Materialize(s Story) (string, error) {
	a, err := Render(s)
	if err != nil {
		return "", err
	}
	path, err := p.Write(a)
	if err != nil {
		return "", err
	}
	if _, err := p.Link(a, s.Request.Genre); err != nil {
		return path, err
	}
	return path, nil
}
