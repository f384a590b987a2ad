package endtpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_String(t *testing.T) {
	err := &Error{Message: "bad token", URL: "page.html", Pos: Position{Line: 3, Column: 7}}
	assert.Equal(t, "page.html:3:7: bad token", err.Error())

	err = &Error{Message: "bad token", Pos: Position{Line: 1, Column: 1}}
	assert.Equal(t, "template:1:1: bad token", err.Error())
}

func TestRebasePosition(t *testing.T) {
	base := Position{Line: 4, Column: 10, Offset: 120}

	// First inner line: column shifts by the base column.
	p := rebasePosition(Position{Line: 1, Column: 3, Offset: 2}, base)
	assert.Equal(t, Position{Line: 4, Column: 12, Offset: 122}, p)

	// Later inner lines: the inner column is already absolute.
	p = rebasePosition(Position{Line: 2, Column: 3, Offset: 12}, base)
	assert.Equal(t, Position{Line: 5, Column: 3, Offset: 132}, p)
}

func TestRebaseError(t *testing.T) {
	inner := &Error{
		Message: "expecting expression",
		Pos:     Position{Line: 1, Column: 5, Offset: 4},
		Snippet: "a +\n    ^",
	}
	out := rebaseError(inner, Position{Line: 2, Column: 4, Offset: 9}, "cmp.html")
	assert.Equal(t, "cmp.html", out.URL)
	assert.Equal(t, 2, out.Pos.Line)
	assert.Equal(t, 8, out.Pos.Column)
	assert.Equal(t, 13, out.Pos.Offset)
	assert.Equal(t, inner.Snippet, out.Snippet, "the excerpt still shows the inner source")
}
