package endtpl

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

const eof rune = -1

// scanner is a cursor over immutable source text. The [start, pos) window
// marks the current token. All offsets are absolute document offsets, even
// when the scanner is bounded to a sub-range with limit.
type scanner struct {
	text  string
	url   string
	start int
	pos   int
	bound int

	// lines caches the byte offset of every line start. It is shared between
	// bounded views so the index is computed at most once per document.
	lines *[]int
}

func newScanner(text, url string) *scanner {
	return &scanner{text: text, url: url, bound: len(text), lines: new([]int)}
}

// limit produces a bounded view for parsing a fenced sub-range (e.g. the
// interior of a quoted attribute value) without letting the sub-parse read
// past end. The view shares the text and the line cache, so every offset it
// reports stays document-relative.
func (s *scanner) limit(start, end int) *scanner {
	return &scanner{
		text:  s.text,
		url:   s.url,
		start: start,
		pos:   start,
		bound: end,
		lines: s.lines,
	}
}

func (s *scanner) eof() bool { return s.pos >= s.bound }

// peek returns the next rune without advancing, or eof at the bound.
func (s *scanner) peek() rune {
	if s.pos >= s.bound {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(s.text[s.pos:s.bound])
	return r
}

// peekAt returns the rune at pos+n bytes ahead, without advancing.
func (s *scanner) peekAt(n int) rune {
	if s.pos+n >= s.bound {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(s.text[s.pos+n : s.bound])
	return r
}

// next reads and consumes a single rune.
func (s *scanner) next() rune {
	if s.pos >= s.bound {
		return eof
	}
	r, w := utf8.DecodeRuneInString(s.text[s.pos:s.bound])
	s.pos += w
	return r
}

// eat consumes the next rune if it equals c.
func (s *scanner) eat(c rune) bool {
	if s.peek() == c {
		s.pos += utf8.RuneLen(c)
		return true
	}
	return false
}

// eatFn consumes the next rune if fn matches it.
func (s *scanner) eatFn(fn func(rune) bool) bool {
	r := s.peek()
	if r != eof && fn(r) {
		s.pos += utf8.RuneLen(r)
		return true
	}
	return false
}

// eatWhile consumes runes while fn matches and reports whether anything was
// consumed.
func (s *scanner) eatWhile(fn func(rune) bool) bool {
	consumed := false
	for s.eatFn(fn) {
		consumed = true
	}
	return consumed
}

// eatString consumes the literal string lit if the scanner is at it.
func (s *scanner) eatString(lit string) bool {
	if s.pos+len(lit) <= s.bound && s.text[s.pos:s.pos+len(lit)] == lit {
		s.pos += len(lit)
		return true
	}
	return false
}

// hasPrefix reports whether the remaining input starts with lit.
func (s *scanner) hasPrefix(lit string) bool {
	return s.pos+len(lit) <= s.bound && s.text[s.pos:s.pos+len(lit)] == lit
}

// current returns the token accumulated in the [start, pos) window.
func (s *scanner) current() string { return s.text[s.start:s.pos] }

func (s *scanner) substring(a, b int) string { return s.text[a:b] }

// skip resets the token window to the current position.
func (s *scanner) skip() { s.start = s.pos }

// loc computes the 1-based line/column for a byte offset. The line index is
// built once per document and reused by every bounded view.
func (s *scanner) loc(offset int) Position {
	if s.lines == nil {
		s.lines = new([]int)
	}
	if len(*s.lines) == 0 {
		idx := []int{0}
		for i := 0; i < len(s.text); i++ {
			if s.text[i] == '\n' {
				idx = append(idx, i+1)
			}
		}
		*s.lines = idx
	}
	idx := *s.lines
	line := sort.Search(len(idx), func(i int) bool { return idx[i] > offset }) - 1
	col := utf8.RuneCountInString(s.text[idx[line]:offset])
	return Position{Line: line + 1, Column: col + 1, Offset: offset}
}

// locRange stamps a SourceLocation for the [a, b) range.
func (s *scanner) locRange(a, b int) *SourceLocation {
	return &SourceLocation{Start: s.loc(a), End: s.loc(b), URL: s.url}
}

// astNode stamps start/end offsets and the computed location onto a node.
// The end offset is the scanner's current position unless overridden.
func (s *scanner) astNode(n Node, start int, end ...int) {
	b := n.base()
	b.Start = start
	b.End = s.pos
	if len(end) > 0 {
		b.End = end[0]
	}
	b.Loc = s.locRange(b.Start, b.End)
}

// errorf builds a structured failure at the given offset with a short source
// excerpt.
func (s *scanner) errorf(offset int, format string, args ...any) *Error {
	pos := s.loc(offset)
	return &Error{
		Message: fmt.Sprintf(format, args...),
		URL:     s.url,
		Pos:     pos,
		Snippet: excerpt(s.text, pos),
	}
}

// errorAtNode reports a failure at the start of an already-parsed node.
func (s *scanner) errorAtNode(n Node, format string, args ...any) *Error {
	start, _ := n.Pos()
	return s.errorf(start, format, args...)
}

// expect runs a sub-parser and fails with message if it yields nothing.
func expect[T any](s *scanner, fn func(*scanner) (T, *Error), message string) (T, *Error) {
	v, err := fn(s)
	var zero T
	if err != nil {
		return zero, err
	}
	if any(v) == any(zero) {
		return zero, s.errorf(s.pos, "%s", message)
	}
	return v, nil
}
