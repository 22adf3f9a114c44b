package story

import "time"

// Dimensions of the story cube set.
const (
	DiceCount        = 9
	FaceCount        = 6
	SectionCount     = 3
	TopicsPerSection = DiceCount / SectionCount
)

// StampLayout formats the wall-clock stamp shown in documents and file names.
const StampLayout = "2006-01-02_15:04:05"

// Draw is the outcome of rolling one die, resolved against the catalog.
type Draw struct {
	RequestID string `db:"request_id"`
	Position  int    `db:"position"` // draw order, 0-based
	Die       int    `db:"dice"`
	Face      int    `db:"side"`
	Token     string `db:"word"`
	Image     string `db:"jpg"`
}

// Roll is one throw of all dice, in draw order.
type Roll struct {
	ID    string
	Stamp time.Time
	Draws []Draw
}

// StampString returns the roll time at second resolution.
func (r Roll) StampString() string {
	return r.Stamp.Format(StampLayout)
}

// Request pairs a compiled prompt with its (initially empty) answer.
type Request struct {
	ID     string `db:"id"`
	Stamp  string `db:"stamp"`
	Genre  Genre  `db:"genre"`
	Prompt string `db:"request"`
	Answer string `db:"answer"`
}

// Answered reports whether the answer has been set.
func (r Request) Answered() bool {
	return r.Answer != ""
}
