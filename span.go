package endtpl

// Position is a point in the original template source. Line and Column are
// 1-based (Column counted in runes), Offset is a byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

// SourceLocation is a start/end pair of positions plus an optional source
// identifier (usually the template file URL).
type SourceLocation struct {
	Start Position
	End   Position
	URL   string
}

// rebasePosition shifts a position computed by an inner (sub-string) parse
// into document coordinates. Column is shifted only when the inner position is
// on the inner parse's first line; subsequent lines keep the inner column.
func rebasePosition(p, base Position) Position {
	out := Position{
		Line:   base.Line + p.Line - 1,
		Column: p.Column,
		Offset: base.Offset + p.Offset,
	}
	if p.Line == 1 {
		out.Column = base.Column + p.Column - 1
	}
	return out
}

// NodeBase carries the source range shared by every AST node. Start and End
// are byte offsets into the original input; once a node is finalized they are
// always document-relative, never sub-parse-relative.
type NodeBase struct {
	Start int
	End   int
	Loc   *SourceLocation
}

func (b *NodeBase) Pos() (start, end int) { return b.Start, b.End }

func (b *NodeBase) Location() *SourceLocation { return b.Loc }

// base gives walkers and the location rebaser access to the embedded NodeBase
// of any concrete node.
func (b *NodeBase) base() *NodeBase { return b }

// Node is the capability shared by all AST nodes: a source range and an
// optional location.
type Node interface {
	Pos() (start, end int)
	Location() *SourceLocation
	base() *NodeBase
}

// Statement is a node that may appear in the body of a template construct.
type Statement interface {
	Node
	stmtNode()
}

// Expression is a node of the embedded expression language.
type Expression interface {
	Node
	exprNode()
}
