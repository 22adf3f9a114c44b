package document

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// PlainTitle returns the text of a Markdown title with inline markup
// (emphasis, code spans, links) removed.
//
// Block syntax is kept verbatim: "1. Mai" stays "1. Mai" and "> Zitat"
// stays "> Zitat". A title without any inline text, such as "***", is
// returned unchanged.
func PlainTitle(title string) string {
	title = strings.TrimSpace(title)
	source := []byte(title)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	start := -1
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if start < 0 && n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
			start = n.Lines().At(0).Start
		}
		switch n := n.(type) {
		case *ast.Text:
			sb.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(n.Value)
		}
		return ast.WalkContinue, nil
	})

	plain := strings.TrimSpace(sb.String())
	if start < 0 || plain == "" {
		return title
	}
	// Block markers in front of the first text line (list bullets, quote
	// markers, heading hashes) are part of the title.
	return string(source[:start]) + plain
}
