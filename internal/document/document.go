// Package document turns a finished story into a Markdown artifact and
// publishes it below the stories directory.
//
// Rendering is pure: Render maps a Story to an Artifact without touching the
// file system. Publisher does the I/O and never overwrites an existing file.
package document

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/storyteller/internal/prompt"
	"github.com/roach88/storyteller/internal/story"
)

// Extension of published documents.
const Extension = ".md"

// MaxTitleBytes caps the title part of a document name.
const MaxTitleBytes = 200

// Story is everything a document shows about one request.
type Story struct {
	Request story.Request
	Draws   []story.Draw
}

// Artifact is a rendered document.
type Artifact struct {
	Name    string // file name, no directory
	Title   string // as written by the model, emphasis kept
	Content string
}

// Render builds the Markdown document for s.
// The answer must be set; the draws must form a complete roll.
func Render(s Story) (Artifact, error) {
	req := s.Request
	if !req.Answered() {
		return Artifact{}, errors.New("render: answer is empty")
	}
	if !req.Genre.Valid() {
		return Artifact{}, fmt.Errorf("render: %w: %q", story.ErrUnknownGenre, req.Genre)
	}
	if err := story.ValidateDraws(s.Draws); err != nil {
		return Artifact{}, fmt.Errorf("render: %w", err)
	}

	stamp := req.Stamp
	if stamp == "" {
		stamp = req.ID
	}
	title := Title(req.Answer)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", title)
	fmt.Fprintf(&sb, "%s - **%s**\n\n", stamp, req.Genre)

	sb.WriteString("## Würfel\n\n")
	writeDiceTable(&sb, s.Draws)

	sb.WriteString("## Anfrage an Ollama\n\n")
	sb.WriteString(strings.TrimRight(req.Prompt, "\n"))
	sb.WriteString("\n\n")

	sb.WriteString("## Antwort von Ollama\n\n")
	sb.WriteString(req.Answer)
	if !strings.HasSuffix(req.Answer, "\n") {
		sb.WriteString("\n")
	}

	return Artifact{
		Name:    FileName(stamp, req.Genre, PlainTitle(title), req.ID),
		Title:   title,
		Content: sb.String(),
	}, nil
}

// writeDiceTable writes one row per section with the face images of its
// three topics.
func writeDiceTable(sb *strings.Builder, draws []story.Draw) {
	sb.WriteString("| Abschnitt     ")
	for i := 1; i <= story.TopicsPerSection; i++ {
		fmt.Fprintf(sb, "| %d. *Thema* ", i)
	}
	sb.WriteString("|\n")

	sb.WriteString("|:------------- ")
	for i := 1; i <= story.TopicsPerSection; i++ {
		sb.WriteString("|:----------:")
	}
	sb.WriteString("|\n")

	for i, name := range prompt.SectionNames {
		fmt.Fprintf(sb, "| %d. **%s** ", i+1, name)
		for _, d := range draws[i*story.TopicsPerSection : (i+1)*story.TopicsPerSection] {
			fmt.Fprintf(sb, "| ![%s](%s) ", d.Token, d.Image)
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("\n")
}

// Title extracts the story title from the first line of an answer: the
// heading marker and a trailing parenthetical (the genre) are dropped.
func Title(answer string) string {
	line, _, _ := strings.Cut(answer, "\n")
	line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
	if i := strings.Index(line, "("); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// FileName builds the document name:
//
//	<stamp with ':' replaced by '-'> (<genre>) <title>.md
//
// Path separators are removed from the title; an empty title falls back to
// requestID. The title is cut to MaxTitleBytes so the name stays within the
// 255-byte limit of common file systems. The result is NFC normalized.
func FileName(stamp string, genre story.Genre, title, requestID string) string {
	title = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return -1
		}
		return r
	}, title)
	title = truncate(norm.NFC.String(strings.Join(strings.Fields(title), " ")), MaxTitleBytes)
	if title == "" {
		title = requestID
	}

	name := fmt.Sprintf("%s (%s) %s%s", strings.ReplaceAll(stamp, ":", "-"), genre, title, Extension)
	return norm.NFC.String(name)
}

// truncate cuts s to at most max bytes on a rune boundary.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut])
}
