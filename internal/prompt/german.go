package prompt

import (
	"fmt"
	"strings"
)

// WordsPerSection is the minimum length requested for each section.
const WordsPerSection = 200

// AlternativeSeparator joins synonyms of one topic.
const AlternativeSeparator = " | "

// German renders the instruction in German Markdown.
func German(p Prompt) string {
	var sb strings.Builder

	sb.WriteString("Du bist ein Autor von **Kurzgeschichten**.\n")
	fmt.Fprintf(&sb, "Verfasse eine **Kurzgeschichte** im Genre **%s** in **deutsch**er Sprache.\n\n", p.Genre)

	sb.WriteString("Jeder **Abschnitt** beinhaltet **drei Themen**, jedes Thema soll in dem\n")
	sb.WriteString("jeweiligen Abschnitt behandelt werden.\n")
	fmt.Fprintf(&sb, "Jeder Abschnitt soll mindestens %d Worte umfassen, sodass die drei Teile der\n", WordsPerSection)
	fmt.Fprintf(&sb, "zu erzählenden Kurzgeschichte auf über %d Worte kommen.\n\n", WordsPerSection*len(p.Sections))

	sb.WriteString("Ein Thema ist durch einen der aufgeführten Begriffe bezeichnet,\n")
	sb.WriteString("wenn ein Thema mehrere durch | getrennte Begriffe auflistet,\n")
	sb.WriteString("wähle nur einen der gelisteten Begriffe aus:\n\n")

	for _, sec := range p.Sections {
		fmt.Fprintf(&sb, "%d. **%s**:\n", sec.Number, sec.Name)
		for _, topic := range sec.Topics {
			fmt.Fprintf(&sb, "   %d. *Thema*: **%s**\n", topic.Position, strings.Join(topic.Alternatives, AlternativeSeparator))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Die Geschichte soll einen **Titel** haben,\n")
	sb.WriteString("dieser soll mit vorangestellten ###, als **Überschrift**\n")
	sb.WriteString("auf Level 3, gekennzeichnet sein.\n\n")

	sb.WriteString("Nach dem **Titel** soll das **Genre** in Klammern benannt werden.\n\n")

	names := make([]string, len(p.Sections))
	for i, sec := range p.Sections {
		names[i] = sec.Name
	}
	fmt.Fprintf(&sb, "Die Überschriften der Abschnitte (%s)\n", strings.Join(names, ", "))
	sb.WriteString("kennzeichne mit vorangestellten ####, als **Überschrift** auf Level 4.\n\n")

	sb.WriteString("Formatiere die Antwort als Markdown-formatierten Text und markiere\n")
	sb.WriteString("jedes Wort aus einem Thema, das Du verwendet hast, **fett**.\n\n")

	return sb.String()
}
