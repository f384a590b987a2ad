package endtpl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_Loc(t *testing.T) {
	s := newScanner("ab\ncd\n\nef", "test.html")
	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3}, // the newline itself belongs to line 1
		{3, 2, 1},
		{5, 2, 3},
		{6, 3, 1},
		{7, 4, 1},
		{9, 4, 3}, // end of input
	}
	for _, tt := range tests {
		pos := s.loc(tt.offset)
		assert.Equal(t, tt.line, pos.Line, "offset %d", tt.offset)
		assert.Equal(t, tt.column, pos.Column, "offset %d", tt.offset)
		assert.Equal(t, tt.offset, pos.Offset)
	}
}

func TestScanner_LocCountsRunes(t *testing.T) {
	s := newScanner("héllo", "test.html")
	pos := s.loc(3) // byte offset of the first 'l': h(1) + é(2)
	assert.Equal(t, 3, pos.Column)
}

func TestScanner_LimitSharesLineIndex(t *testing.T) {
	s := newScanner("line one\nline two", "test.html")
	view := s.limit(9, 17)
	pos := view.loc(9)
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 1, pos.Column)

	// The view is bounded and starts at its range.
	assert.Equal(t, 9, view.pos)
	assert.False(t, view.eof())
	view.pos = 17
	assert.True(t, view.eof())
}

func TestScanner_EatHelpers(t *testing.T) {
	s := newScanner("foo  bar", "test.html")
	require.True(t, s.eatWhile(isIdent))
	assert.Equal(t, "foo", s.current())
	require.True(t, s.eatWhile(isSpace))
	require.True(t, s.eatString("bar"))
	assert.True(t, s.eof())

	require.False(t, s.eat('x'))
	assert.Equal(t, eof, s.peek())
}

func TestScanner_Errorf(t *testing.T) {
	s := newScanner("first\nsecond line", "page.html")
	err := s.errorf(8, "boom")
	assert.Equal(t, "page.html:2:3: boom", err.Error())
	assert.Equal(t, "second line\n  ^", err.Snippet)
}

func TestScanner_ErrorfMultibyteCaret(t *testing.T) {
	// The caret must line up in runes, not bytes, when multibyte characters
	// precede the error column.
	s := newScanner("naïve = café", "test.html")
	err := s.errorf(7, "boom") // byte offset of "="
	assert.Equal(t, 7, err.Pos.Column)
	assert.Equal(t, "naïve = café\n      ^", err.Snippet)
}

func TestExcerpt_LongLine(t *testing.T) {
	long := "<div " + strings.Repeat("a", 200) + ">"
	s := newScanner(long, "test.html")
	err := s.errorf(150, "oops")
	lines := strings.Split(err.Snippet, "\n")
	require.Len(t, lines, 2)
	assert.LessOrEqual(t, len(lines[0]), 80)
	// The caret line points inside the window.
	assert.LessOrEqual(t, len(lines[1]), len(lines[0])+1)
}
