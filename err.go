package endtpl

import (
	"fmt"
	"strings"
)

// Error is the structured failure produced by the parser. It is the sole
// error contract observed by downstream tooling: a message, the source URL,
// a document-relative position and a short source excerpt.
type Error struct {
	Message string
	URL     string
	Pos     Position
	Snippet string
}

func (e *Error) Error() string {
	name := e.URL
	if name == "" {
		name = "template"
	}
	return fmt.Sprintf("%s:%d:%d: %s", name, e.Pos.Line, e.Pos.Column, e.Message)
}

// rebaseError shifts an error reported in inner-parse coordinates into
// document coordinates. The snippet is kept as-is: it already points at the
// inner source text.
func rebaseError(e *Error, base Position, url string) *Error {
	return &Error{
		Message: e.Message,
		URL:     url,
		Pos:     rebasePosition(e.Pos, base),
		Snippet: e.Snippet,
	}
}

// excerpt renders the source line around pos with a caret under the offending
// column:
//
//	<e:when test={a}>
//	             ^
func excerpt(text string, pos Position) string {
	start := pos.Offset
	if start > len(text) {
		start = len(text)
	}
	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	lineEnd := strings.IndexByte(text[start:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text)
	} else {
		lineEnd += start
	}
	// Column is rune-counted, so the window and the caret padding must be
	// computed in runes as well.
	line := []rune(strings.TrimRight(text[lineStart:lineEnd], "\r"))

	const maxLen = 80
	caret := pos.Column - 1
	if caret < 0 {
		caret = 0
	}
	if len(line) > maxLen {
		// Keep the caret visible when the line is long.
		from := caret - maxLen/2
		if from < 0 {
			from = 0
		}
		to := from + maxLen
		if to > len(line) {
			to = len(line)
			from = to - maxLen
		}
		line = line[from:to]
		caret -= from
	}
	if caret > len(line) {
		caret = len(line)
	}
	return string(line) + "\n" + strings.Repeat(" ", caret) + "^"
}
