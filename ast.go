package endtpl

import "golang.org/x/net/html/atom"

// ENDProgram is the root of a parsed template document. Stylesheets, scripts
// and partial definitions are collected here during parsing; partials also
// stay in the body in document order.
type ENDProgram struct {
	NodeBase
	URL         string
	Body        []Statement
	Stylesheets []*ENDStylesheet
	Scripts     []*ENDScript
	Partials    []*ENDPartial
}

func (*ENDProgram) stmtNode() {}

// ENDTemplate is the markup container of a component.
type ENDTemplate struct {
	NodeBase
	Body []Statement
}

func (*ENDTemplate) stmtNode() {}

// ENDPartial is a named, reusable chunk of markup. Attributes of the defining
// tag become default parameters.
type ENDPartial struct {
	NodeBase
	ID     *Identifier
	Params []*ENDAttribute
	Body   []Statement
}

func (*ENDPartial) stmtNode() {}

// ENDElement is a plain markup element. Atom interns well-known HTML tag
// names; it is zero for components and custom tags.
type ENDElement struct {
	NodeBase
	Name        *Identifier
	Atom        atom.Atom
	Component   bool
	SelfClosing bool
	Attributes  []*ENDAttribute
	Directives  []*ENDDirective
	Body        []Statement
}

func (*ENDElement) stmtNode() {}

// ENDAttribute is a name/value pair on an element or a construct tag. Name is
// an *Identifier for static names or a *Program for dynamic (bracketed)
// names. Value is nil for a bare attribute, a *Literal for static values, a
// *Program for expression values or an *ENDAttributeValueExpression for
// interpolated values.
type ENDAttribute struct {
	NodeBase
	Name  Expression
	Value Expression
}

func (*ENDAttribute) stmtNode() {}

// ENDDirective is a namespace-prefixed attribute carrying an instruction
// rather than plain data, e.g. on:click={handler}.
type ENDDirective struct {
	NodeBase
	Prefix string
	Name   string
	Value  Expression
}

func (*ENDDirective) stmtNode() {}

// ENDAttributeValueExpression is an interpolated attribute value: an ordered
// sequence of literal-text and expression fragments.
type ENDAttributeValueExpression struct {
	NodeBase
	Elements []Expression
}

func (*ENDAttributeValueExpression) exprNode() {}

type ENDIfStatement struct {
	NodeBase
	Test       *Program
	Consequent []Statement
}

func (*ENDIfStatement) stmtNode() {}

type ENDChooseStatement struct {
	NodeBase
	Cases []*ENDChooseCase
}

func (*ENDChooseStatement) stmtNode() {}

// ENDChooseCase is one branch of a multi-way conditional. Test is nil for the
// fallback branch.
type ENDChooseCase struct {
	NodeBase
	Test       *Program
	Consequent []Statement
}

func (*ENDChooseCase) stmtNode() {}

type ENDForEachStatement struct {
	NodeBase
	Select *Program
	Key    *Program
	Body   []Statement
}

func (*ENDForEachStatement) stmtNode() {}

type ENDVariableStatement struct {
	NodeBase
	Variables []*ENDVariable
}

func (*ENDVariableStatement) stmtNode() {}

type ENDVariable struct {
	NodeBase
	Name  string
	Value Expression
}

func (*ENDVariable) stmtNode() {}

// ENDAttributeStatement carries attributes and directives to be merged into
// the host element by the code generator.
type ENDAttributeStatement struct {
	NodeBase
	Attributes []*ENDAttribute
	Directives []*ENDDirective
}

func (*ENDAttributeStatement) stmtNode() {}

// ENDAddClassStatement appends class tokens to the host element.
type ENDAddClassStatement struct {
	NodeBase
	Tokens []Expression
}

func (*ENDAddClassStatement) stmtNode() {}

// ENDInnerHTML inserts the result of an expression as raw markup.
type ENDInnerHTML struct {
	NodeBase
	Value *Program
}

func (*ENDInnerHTML) stmtNode() {}

// ENDPartialStatement is a reference to a partial definition.
type ENDPartialStatement struct {
	NodeBase
	ID     *Identifier
	Params []*ENDAttribute
}

func (*ENDPartialStatement) stmtNode() {}

// ENDImport declares a component dependency. Name is the tag name the
// imported component is available under.
type ENDImport struct {
	NodeBase
	Name string
	Href string
}

func (*ENDImport) stmtNode() {}

// ENDStylesheet is either a reference (URL set) or an inline block (Content
// set).
type ENDStylesheet struct {
	NodeBase
	Mime    string
	URL     string
	Content *Literal
}

func (*ENDStylesheet) stmtNode() {}

type ENDScript struct {
	NodeBase
	Mime    string
	URL     string
	Content *Literal
}

func (*ENDScript) stmtNode() {}
