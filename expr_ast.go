package endtpl

// IdentifierContext is the binding category resolved for an identifier by the
// classification pass. It is assigned exactly once and never revisited.
type IdentifierContext string

const (
	// CtxUnset marks identifiers reserved by their syntactic position
	// (function parameters, member property names, assignment targets) and
	// intrinsic globals.
	CtxUnset    IdentifierContext = ""
	CtxProperty IdentifierContext = "property"
	CtxState    IdentifierContext = "state"
	CtxVariable IdentifierContext = "variable"
	CtxStore    IdentifierContext = "store"
	CtxHelper   IdentifierContext = "helper"
)

// undefinedValue is the type of the Undefined sentinel.
type undefinedValue struct{}

// Undefined is carried in Literal.Value for the JavaScript `undefined`
// literal. It keeps unquoted `undefined` attribute values distinct both from
// `null` (a nil Value) and from an absent attribute value (a nil Literal).
var Undefined = undefinedValue{}

// Program wraps a single parsed expression. It doubles as a body statement:
// a `{...}` splice in markup is a Program in the surrounding body.
type Program struct {
	NodeBase
	Raw        string
	Expression Expression
}

func (*Program) stmtNode() {}
func (*Program) exprNode() {}

// Literal is a literal value: string, number, boolean, null or Undefined.
// Plain text runs in markup are Literal statements.
type Literal struct {
	NodeBase
	Value any
	Raw   string
}

func (*Literal) stmtNode() {}
func (*Literal) exprNode() {}

// Identifier is a name, possibly written with a leading binding sigil in the
// source. After classification Name holds the sigil-free name and Context the
// resolved binding category.
type Identifier struct {
	NodeBase
	Name    string
	Context IdentifierContext
}

func (*Identifier) exprNode() {}

type MemberExpression struct {
	NodeBase
	Object   Expression
	Property Expression
	Computed bool
}

func (*MemberExpression) exprNode() {}

type CallExpression struct {
	NodeBase
	Callee    Expression
	Arguments []Expression
}

func (*CallExpression) exprNode() {}

type BinaryExpression struct {
	NodeBase
	Operator string
	Left     Expression
	Right    Expression
}

func (*BinaryExpression) exprNode() {}

type LogicalExpression struct {
	NodeBase
	Operator string
	Left     Expression
	Right    Expression
}

func (*LogicalExpression) exprNode() {}

type ConditionalExpression struct {
	NodeBase
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (*ConditionalExpression) exprNode() {}

type AssignmentExpression struct {
	NodeBase
	Operator string
	Left     Expression
	Right    Expression
}

func (*AssignmentExpression) exprNode() {}

type SequenceExpression struct {
	NodeBase
	Expressions []Expression
}

func (*SequenceExpression) exprNode() {}

type UnaryExpression struct {
	NodeBase
	Operator string
	Argument Expression
}

func (*UnaryExpression) exprNode() {}

type UpdateExpression struct {
	NodeBase
	Operator string
	Argument Expression
	Prefix   bool
}

func (*UpdateExpression) exprNode() {}

// ArrowFunctionExpression is an arrow literal with an expression body.
type ArrowFunctionExpression struct {
	NodeBase
	Params []*Identifier
	Body   Expression
}

func (*ArrowFunctionExpression) exprNode() {}

// FunctionExpression is a `function` literal. The embedded dialect restricts
// the body to a single returned expression.
type FunctionExpression struct {
	NodeBase
	ID     *Identifier
	Params []*Identifier
	Body   Expression
}

func (*FunctionExpression) exprNode() {}

type ArrayExpression struct {
	NodeBase
	Elements []Expression
}

func (*ArrayExpression) exprNode() {}

type ObjectExpression struct {
	NodeBase
	Properties []*Property
}

func (*ObjectExpression) exprNode() {}

type Property struct {
	NodeBase
	Key       Expression
	Value     Expression
	Computed  bool
	Shorthand bool
}

func (*Property) exprNode() {}
