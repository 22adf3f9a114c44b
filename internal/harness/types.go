package harness

import "github.com/roach88/storyteller/internal/story"

// TraceEvent is one pipeline log entry.
type TraceEvent struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// StoryResult is one finished story.
type StoryResult struct {
	RequestID string
	Title     string
	Name      string // document file name
	Content   string // document Markdown
	LinkOK    bool   // genre symlink resolves to the document
	Draws     []story.Draw
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool

	// Stories lists the completed stories in order.
	Stories []StoryResult

	// Err is the pipeline error, if the batch stopped early.
	Err error

	// Requests and Answered count rows in the requests table.
	Requests int64
	Answered int64

	// Trace lists the pipeline log messages in order.
	Trace []TraceEvent

	// Errors contains assertion failures.
	Errors []string
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Trace: []TraceEvent{}, Errors: []string{}}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
