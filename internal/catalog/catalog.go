// Package catalog holds the static story cube table: every (die, face) pair
// mapped to its token and image.
//
// A Catalog is immutable once built and always total over
// story.DiceCount x story.FaceCount.
package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/storyteller/internal/story"
)

// ErrIncomplete is returned when a (die, face) pair has no entry.
var ErrIncomplete = errors.New("catalog incomplete")

// Entry is one catalog row.
type Entry struct {
	Group string `db:"group"`
	Die   int    `db:"dice"`
	Face  int    `db:"side"`
	Token string `db:"word"`
	Image string `db:"jpg"`
}

type key struct{ die, face int }

// Catalog maps (die, face) to an Entry.
type Catalog struct {
	entries map[key]Entry
}

// New builds a Catalog from entries.
// Returns an error on duplicate or out-of-range pairs, or when any pair of
// the full dice/face space is missing.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{entries: make(map[key]Entry, len(entries))}
	for _, e := range entries {
		if e.Die < 1 || e.Die > story.DiceCount || e.Face < 1 || e.Face > story.FaceCount {
			return nil, fmt.Errorf("entry die=%d face=%d out of range", e.Die, e.Face)
		}
		k := key{e.Die, e.Face}
		if _, dup := c.entries[k]; dup {
			return nil, fmt.Errorf("duplicate entry die=%d face=%d", e.Die, e.Face)
		}
		e.Group = norm.NFC.String(strings.TrimSpace(e.Group))
		e.Token = norm.NFC.String(strings.TrimSpace(e.Token))
		e.Image = strings.TrimSpace(e.Image)
		c.entries[k] = e
	}

	var missing []string
	for die := 1; die <= story.DiceCount; die++ {
		for face := 1; face <= story.FaceCount; face++ {
			if _, ok := c.entries[key{die, face}]; !ok {
				missing = append(missing, fmt.Sprintf("%d/%d", die, face))
			}
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing die/face %s", ErrIncomplete, strings.Join(missing, ", "))
	}

	return c, nil
}

// Lookup returns the entry for a die and face.
func (c *Catalog) Lookup(die, face int) (Entry, bool) {
	e, ok := c.entries[key{die, face}]
	return e, ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns all entries ordered by die, then face.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Die != out[j].Die {
			return out[i].Die < out[j].Die
		}
		return out[i].Face < out[j].Face
	})
	return out
}

// ImagePaths resolves every image reference against root.
// References are stored relative to the project root ("./images/...").
func (c *Catalog) ImagePaths(root string) []string {
	entries := c.Entries()
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Image == "" {
			continue
		}
		paths = append(paths, filepath.Join(root, filepath.FromSlash(e.Image)))
	}
	return paths
}

// Draw resolves the entry for a die and face into a draw at position.
func (e Entry) Draw(requestID string, position int) story.Draw {
	return story.Draw{
		RequestID: requestID,
		Position:  position,
		Die:       e.Die,
		Face:      e.Face,
		Token:     e.Token,
		Image:     e.Image,
	}
}
