// Package prompt compiles a roll into the instruction sent to the model.
//
// Compilation has two steps. Build partitions the draws into a Prompt value
// (three sections of three topics); a Renderer turns that value into text.
// Both steps are deterministic, so the output is golden-testable.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/storyteller/internal/story"
)

// SectionNames are the narrative sections, in order.
var SectionNames = [story.SectionCount]string{"Vorspann", "Mittelteil", "Abschluss"}

// ErrDraws is returned when the draws do not form a complete roll.
var ErrDraws = errors.New("prompt: invalid draws")

// Topic is one token the story must cover.
type Topic struct {
	Position     int      // 1-based within the section
	Alternatives []string // the model picks exactly one
}

// Section groups the topics of one narrative part.
type Section struct {
	Number int // 1-based
	Name   string
	Topics []Topic
}

// Prompt is the structured form of a story request.
type Prompt struct {
	Genre    story.Genre
	Sections []Section
}

// Build partitions draws into sections: section i gets draws [3i, 3i+3).
func Build(draws []story.Draw, genre story.Genre) (Prompt, error) {
	if err := story.ValidateDraws(draws); err != nil {
		return Prompt{}, fmt.Errorf("%w: %v", ErrDraws, err)
	}
	if !genre.Valid() {
		return Prompt{}, fmt.Errorf("prompt: %w: %q", story.ErrUnknownGenre, genre)
	}

	p := Prompt{Genre: genre, Sections: make([]Section, story.SectionCount)}
	for i := range p.Sections {
		sec := Section{Number: i + 1, Name: SectionNames[i]}
		for j := 0; j < story.TopicsPerSection; j++ {
			d := draws[i*story.TopicsPerSection+j]
			sec.Topics = append(sec.Topics, Topic{
				Position:     j + 1,
				Alternatives: Alternatives(d.Token),
			})
		}
		p.Sections[i] = sec
	}
	return p, nil
}

// Alternatives splits a catalog token listing synonyms ("Freude, Glück")
// into its trimmed, non-empty parts.
func Alternatives(token string) []string {
	parts := strings.Split(token, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Renderer turns a Prompt into the text sent to the model.
type Renderer func(Prompt) string

// Compile builds and renders draws with the German template.
func Compile(draws []story.Draw, genre story.Genre) (string, error) {
	return CompileWith(German, draws, genre)
}

// CompileWith builds draws and renders them with r.
func CompileWith(r Renderer, draws []story.Draw, genre story.Genre) (string, error) {
	p, err := Build(draws, genre)
	if err != nil {
		return "", err
	}
	return r(p), nil
}
