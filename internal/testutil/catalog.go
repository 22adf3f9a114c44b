package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roach88/storyteller/internal/catalog"
	"github.com/roach88/storyteller/internal/story"
)

// fixtureTokens holds one row of six face tokens per die.
// Die 1 is the landscape die ("Wald", "Berg", ...). Some faces list
// comma-separated alternatives the way the real catalog does.
var fixtureTokens = [story.DiceCount][story.FaceCount]string{
	{"Wald", "Berg", "Fluss", "Turm", "Brücke", "Höhle"},
	{"Schlüssel", "Brief", "Uhr", "Krone", "Spiegel", "Lampe"},
	{"Fuchs", "Eule", "Drache", "Katze", "Pferd", "Rabe"},
	{"Mond, Nacht", "Sonne", "Sturm", "Regen", "Schnee", "Nebel"},
	{"Schiff", "Zug", "Kutsche", "Ballon", "Fahrrad", "Rakete"},
	{"König", "Hexe", "Detektiv", "Bäuerin", "Pirat", "Kind"},
	{"Angst", "Freude, Glück", "Wut", "Trauer", "Mut", "Neugier"},
	{"Karte", "Schwert", "Buch", "Ring", "Kompass", "Maske"},
	{"Feuer", "Wasser", "Erde", "Luft", "Zeit", "Traum"},
}

// Token returns the fixture token for a die and face.
func Token(die, face int) string {
	return fixtureTokens[die-1][face-1]
}

// Image returns the fixture image reference for a die and face.
func Image(die, face int) string {
	return fmt.Sprintf("./images/basic/dice_%d/%d_%d.jpg", die, die, face)
}

// CatalogEntries returns a complete fixture catalog in die, face order.
func CatalogEntries() []catalog.Entry {
	entries := make([]catalog.Entry, 0, story.DiceCount*story.FaceCount)
	for die := 1; die <= story.DiceCount; die++ {
		for face := 1; face <= story.FaceCount; face++ {
			entries = append(entries, catalog.Entry{
				Group: fmt.Sprintf("basic_%d", die),
				Die:   die,
				Face:  face,
				Token: Token(die, face),
				Image: Image(die, face),
			})
		}
	}
	return entries
}

// Catalog builds the fixture catalog, failing the test on error.
func Catalog(t testing.TB) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(CatalogEntries())
	if err != nil {
		t.Fatalf("fixture catalog: %v", err)
	}
	return c
}

// CatalogTSV renders the fixture catalog in the on-disk tab-separated format.
func CatalogTSV() string {
	var b strings.Builder
	b.WriteString(strings.Join(catalog.Columns, "\t"))
	b.WriteString("\n")
	for _, e := range CatalogEntries() {
		fmt.Fprintf(&b, "%s\t%d\t%d\t%s\t%s\n", e.Group, e.Die, e.Face, e.Token, e.Image)
	}
	return b.String()
}

// WriteCatalogFile writes the fixture catalog to dir/dices.tsv and returns the path.
func WriteCatalogFile(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "dices.tsv")
	if err := os.WriteFile(path, []byte(CatalogTSV()), 0o644); err != nil {
		t.Fatalf("write catalog file: %v", err)
	}
	return path
}

// Draws returns a fixed complete roll: die 9 first down to die 1, face
// (position mod 6)+1, resolved against the fixture catalog.
func Draws(requestID string) []story.Draw {
	draws := make([]story.Draw, story.DiceCount)
	for i := range draws {
		die := story.DiceCount - i
		face := i%story.FaceCount + 1
		draws[i] = story.Draw{
			RequestID: requestID,
			Position:  i,
			Die:       die,
			Face:      face,
			Token:     Token(die, face),
			Image:     Image(die, face),
		}
	}
	return draws
}
