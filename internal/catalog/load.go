package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Columns of the catalog file, in order.
var Columns = []string{"group", "dice", "side", "word", "jpg"}

// LoadError reports a malformed catalog file.
type LoadError struct {
	Path    string
	Line    int // 0 when the error is not tied to a line
	Message string
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Load reads a tab-separated catalog file and builds a Catalog.
// The first line is a header and is skipped.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	entries, err := Parse(f, path)
	if err != nil {
		return nil, err
	}

	c, err := New(entries)
	if err != nil {
		return nil, &LoadError{Path: path, Message: err.Error()}
	}
	return c, nil
}

// Parse decodes catalog rows from r. name is used in error messages.
func Parse(r io.Reader, name string) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = len(Columns)
	cr.LazyQuotes = true

	var entries []Entry
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &LoadError{Path: name, Line: pe.Line, Message: pe.Err.Error()}
			}
			return nil, &LoadError{Path: name, Line: line, Message: err.Error()}
		}
		if line == 1 {
			continue // header
		}

		die, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, &LoadError{Path: name, Line: line, Message: fmt.Sprintf("dice %q is not a number", rec[1])}
		}
		face, err := strconv.Atoi(strings.TrimSpace(rec[2]))
		if err != nil {
			return nil, &LoadError{Path: name, Line: line, Message: fmt.Sprintf("side %q is not a number", rec[2])}
		}

		entries = append(entries, Entry{
			Group: rec[0],
			Die:   die,
			Face:  face,
			Token: rec[3],
			Image: rec[4],
		})
	}

	if len(entries) == 0 {
		return nil, &LoadError{Path: name, Message: "no entries"}
	}
	return entries, nil
}
