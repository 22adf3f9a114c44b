package story

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Genre names a story genre. Values are German display names.
type Genre string

// Genres is the fixed genre set a story is filed under.
var Genres = []Genre{
	"Action",
	"Abenteuer",
	"Biografie",
	"Komödie",
	"Krimi",
	"Drama",
	"Fabel",
	"Fantasy",
	"Märchen",
	"Mystery",
	"Philosophie",
	"Politik",
	"Romantik",
	"Satire",
	"Science-Fiction",
	"Thriller",
	"Tragödie",
	"Western",
}

// ErrUnknownGenre is returned when a name matches no genre.
var ErrUnknownGenre = errors.New("unknown genre")

// ParseGenre resolves a genre name case-insensitively.
// Input is normalized to NFC first, so decomposed umlauts match.
func ParseGenre(name string) (Genre, error) {
	n := norm.NFC.String(strings.TrimSpace(name))
	for _, g := range Genres {
		if strings.EqualFold(string(g), n) {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGenre, name)
}

// Valid reports whether g is one of Genres.
func (g Genre) Valid() bool {
	for _, known := range Genres {
		if known == g {
			return true
		}
	}
	return false
}

func (g Genre) String() string {
	return string(g)
}
