package endtpl

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// templateParser drives the statement grammar over a single document. Each
// parse call builds its own instance; no state is shared between parses.
type templateParser struct {
	s       *scanner
	helpers map[string]bool
	program *ENDProgram
}

// tagConsumer is the per-call-site capability that recognizes an open tag as
// a control construct and consumes it. A nil statement with claimed=true
// means the construct was consumed into the program root (stylesheets,
// scripts) rather than the body.
type tagConsumer func(p *templateParser, tag *parsedTag) (stmt Statement, claimed bool, err *Error)

// statementHandlers maps a control name (the tag name with the e: namespace
// stripped) to its parser. Populated in init: the handlers recurse through
// consumeStatement, which reads this map back, so a var initializer would be
// an initialization cycle.
var statementHandlers map[string]func(*templateParser, *parsedTag) (Statement, *Error)

func init() {
	statementHandlers = map[string]func(*templateParser, *parsedTag) (Statement, *Error){
		"if":        parseIf,
		"choose":    parseChoose,
		"for-each":  parseForEach,
		"variable":  parseVariable,
		"attribute": parseAttributeStatement,
		"add-class": parseAddClass,
		"partial":   parsePartialDefinition,
		"import":    parseImport,
	}
}

// voidElements are tags that never take a matching close tag.
var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Param: true, atom.Source: true,
	atom.Track: true, atom.Wbr: true,
}

// openEntry is one frame of the driver's tag stack: an open tag pending a
// matching close, plus the content collected so far.
type openEntry struct {
	tag   *parsedTag
	items []Statement
}

// parseBody is the shared body-parsing engine. When seed is non-nil it is the
// already-consumed open tag of the construct whose body is being parsed and
// the driver stops at its matching close; with a nil seed the driver runs to
// end of input (document level). consume claims control-construct tags;
// unclaimed tags are pushed as plain elements pending a matching close.
func (p *templateParser) parseBody(seed *parsedTag, consume tagConsumer) ([]Statement, *Error) {
	s := p.s
	root := &openEntry{tag: seed}
	stack := []*openEntry{root}
	top := func() *openEntry { return stack[len(stack)-1] }

	for {
		if s.eof() {
			if len(stack) > 1 || root.tag != nil {
				t := top().tag
				return nil, s.errorf(t.Start, "expecting closing tag for <%s>", t.name.Name)
			}
			return trimFormatting(root.items), nil
		}

		if ct, err := closeTag(s); err != nil {
			return nil, err
		} else if ct != nil {
			entry := top()
			if entry.tag == nil {
				return nil, s.errorf(ct.Start, "unexpected closing tag </%s>", ct.name.Name)
			}
			if ct.name.Name != entry.tag.name.Name {
				return nil, s.errorf(ct.Start, "unexpected closing tag </%s>, expecting </%s>",
					ct.name.Name, entry.tag.name.Name)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return trimFormatting(entry.items), nil
			}
			el := p.elementNode(entry.tag, entry.items)
			cur := top()
			cur.items = append(cur.items, el)
			continue
		}

		if tag, err := openTag(s, p.helpers); err != nil {
			return nil, err
		} else if tag != nil {
			stmt, claimed, err := consume(p, tag)
			if err != nil {
				return nil, err
			}
			cur := top()
			switch {
			case claimed:
				if stmt != nil {
					cur.items = append(cur.items, stmt)
				}
			case tag.selfClosing || voidElements[tag.atom]:
				cur.items = append(cur.items, p.elementNode(tag, nil))
			default:
				stack = append(stack, &openEntry{tag: tag})
			}
			continue
		}

		if s.hasPrefix(htmlStart) {
			start := s.pos
			prog, err := parseExprBlock(s, p.helpers, htmlStart, htmlEnd)
			if err != nil {
				return nil, err
			}
			n := &ENDInnerHTML{Value: prog}
			s.astNode(n, start)
			cur := top()
			cur.items = append(cur.items, n)
			continue
		}

		if s.hasPrefix(exprStart) {
			prog, err := parseExprBlock(s, p.helpers, exprStart, exprEnd)
			if err != nil {
				return nil, err
			}
			cur := top()
			cur.items = append(cur.items, prog)
			continue
		}

		if lit := textNode(s); lit != nil {
			cur := top()
			cur.items = append(cur.items, lit)
			continue
		}

		if ok, err := ignored(s); err != nil {
			return nil, err
		} else if ok {
			continue
		}

		return nil, s.errorf(s.pos, "unexpected token")
	}
}

// textNode consumes a run of plain text up to the next tag or expression
// delimiter. Returns nil if nothing was consumed.
func textNode(s *scanner) *Literal {
	start := s.pos
	for !s.eof() && s.peek() != '<' && !s.hasPrefix(exprStart) {
		s.next()
	}
	if s.pos == start {
		return nil
	}
	text := s.substring(start, s.pos)
	lit := &Literal{Value: text, Raw: text}
	s.astNode(lit, start)
	return lit
}

// trimFormatting drops whitespace-only text items that contain a line break
// and sit next to another content item (text or expression): the indentation
// of a pretty-printed template is not content.
func trimFormatting(items []Statement) []Statement {
	isContent := func(n Statement) bool {
		switch n.(type) {
		case *Literal, *Program:
			return true
		}
		return false
	}
	out := make([]Statement, 0, len(items))
	for i, n := range items {
		if lit, ok := n.(*Literal); ok && isFormattingText(lit) {
			if (i > 0 && isContent(items[i-1])) || (i+1 < len(items) && isContent(items[i+1])) {
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

func isFormattingText(lit *Literal) bool {
	text, ok := lit.Value.(string)
	return ok && strings.TrimSpace(text) == "" && strings.ContainsAny(text, "\r\n")
}

// elementNode finalizes a plain element from its open tag and collected body.
func (p *templateParser) elementNode(tag *parsedTag, body []Statement) *ENDElement {
	el := &ENDElement{
		Name:        tag.name,
		Atom:        tag.atom,
		Component:   strings.Contains(tag.name.Name, "-"),
		SelfClosing: tag.selfClosing,
		Attributes:  tag.attributes,
		Directives:  tag.directives,
		Body:        trimFormatting(body),
	}
	p.s.astNode(el, tag.Start)
	rewriteClassDirectives(el)
	return el
}

// rewriteClassDirectives removes every class: directive from the element and
// inserts an equivalent add-class statement at the front of the body, wrapped
// in a synthesized conditional when the directive carried a value. Fresh
// directive and body lists are built and swapped in atomically.
func rewriteClassDirectives(el *ENDElement) {
	var dirs []*ENDDirective
	var prefix []Statement
	for _, d := range el.Directives {
		if d.Prefix != "class" {
			dirs = append(dirs, d)
			continue
		}
		token := &Literal{Value: d.Name, Raw: d.Name}
		token.NodeBase = d.NodeBase
		add := &ENDAddClassStatement{Tokens: []Expression{token}}
		add.NodeBase = d.NodeBase
		if d.Value == nil {
			prefix = append(prefix, add)
			continue
		}
		cond := &ENDIfStatement{Test: asProgram(d.Value), Consequent: []Statement{add}}
		cond.NodeBase = d.NodeBase
		prefix = append(prefix, cond)
	}
	if len(dirs) == len(el.Directives) {
		return
	}
	el.Directives = dirs
	el.Body = append(prefix, el.Body...)
}

// asProgram lifts a literal directive value into an expression program so the
// synthesized conditional has a uniform test type.
func asProgram(e Expression) *Program {
	if prog, ok := e.(*Program); ok {
		return prog
	}
	prog := &Program{Expression: e}
	prog.NodeBase = *e.base()
	if lit, ok := e.(*Literal); ok {
		prog.Raw = lit.Raw
	}
	return prog
}

// consumeStatement is the standard control-construct capability used inside
// element and construct bodies.
func consumeStatement(p *templateParser, tag *parsedTag) (Statement, bool, *Error) {
	name := tag.name.Name
	if rest, ok := strings.CutPrefix(name, "partial:"); ok && rest != "" {
		stmt, err := parsePartialReference(p, tag, rest)
		return stmt, true, err
	}
	switch name {
	case "style":
		return nil, true, parseStylesheetTag(p, tag)
	case "script":
		return nil, true, parseScriptTag(p, tag)
	case "link":
		if isStylesheetLink(tag) {
			return nil, true, parseLinkTag(p, tag)
		}
		return nil, false, nil
	}
	cn, ok := strings.CutPrefix(name, "e:")
	if !ok {
		return nil, false, nil
	}
	h, found := statementHandlers[cn]
	if !found {
		return nil, false, p.s.errorAtNode(tag, "unknown control statement <%s>", name)
	}
	stmt, err := h(p, tag)
	return stmt, true, err
}

// consumeTopLevel additionally recognizes the document-level <template>
// container.
func consumeTopLevel(p *templateParser, tag *parsedTag) (Statement, bool, *Error) {
	if tag.name.Name == "template" {
		stmt, err := parseTemplateTag(p, tag)
		return stmt, true, err
	}
	return consumeStatement(p, tag)
}

// consumeChooseCase restricts a choose body to branch tags only.
func consumeChooseCase(p *templateParser, tag *parsedTag) (Statement, bool, *Error) {
	switch tag.name.Name {
	case "e:when":
		test, err := exprAttr(p, tag, "test", true)
		if err != nil {
			return nil, true, err
		}
		stmt, err := parseChooseBranch(p, tag, test)
		return stmt, true, err
	case "e:otherwise":
		stmt, err := parseChooseBranch(p, tag, nil)
		return stmt, true, err
	}
	return nil, true, p.s.errorAtNode(tag, "unexpected <%s> inside <e:choose>, expecting <e:when> or <e:otherwise>", tag.name.Name)
}

func parseChooseBranch(p *templateParser, tag *parsedTag, test *Program) (Statement, *Error) {
	var body []Statement
	if !tag.selfClosing {
		var err *Error
		if body, err = p.parseBody(tag, consumeStatement); err != nil {
			return nil, err
		}
	}
	n := &ENDChooseCase{Test: test, Consequent: body}
	p.s.astNode(n, tag.Start)
	return n, nil
}

func parseIf(p *templateParser, tag *parsedTag) (Statement, *Error) {
	test, err := exprAttr(p, tag, "test", true)
	if err != nil {
		return nil, err
	}
	var body []Statement
	if !tag.selfClosing {
		if body, err = p.parseBody(tag, consumeStatement); err != nil {
			return nil, err
		}
	}
	n := &ENDIfStatement{Test: test, Consequent: body}
	p.s.astNode(n, tag.Start)
	return n, nil
}

func parseChoose(p *templateParser, tag *parsedTag) (Statement, *Error) {
	n := &ENDChooseStatement{}
	if !tag.selfClosing {
		items, err := p.parseBody(tag, consumeChooseCase)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			c, ok := it.(*ENDChooseCase)
			if !ok {
				if lit, isLit := it.(*Literal); isLit {
					if text, isStr := lit.Value.(string); isStr && strings.TrimSpace(text) == "" {
						continue
					}
				}
				return nil, p.s.errorAtNode(it, "unexpected content inside <e:choose>")
			}
			if len(n.Cases) > 0 && n.Cases[len(n.Cases)-1].Test == nil {
				return nil, p.s.errorAtNode(c, "unexpected branch after the <e:otherwise> fallback")
			}
			n.Cases = append(n.Cases, c)
		}
	}
	p.s.astNode(n, tag.Start)
	return n, nil
}

func parseForEach(p *templateParser, tag *parsedTag) (Statement, *Error) {
	sel, err := exprAttr(p, tag, "select", true)
	if err != nil {
		return nil, err
	}
	key, err := exprAttr(p, tag, "key", false)
	if err != nil {
		return nil, err
	}
	var body []Statement
	if !tag.selfClosing {
		if body, err = p.parseBody(tag, consumeStatement); err != nil {
			return nil, err
		}
	}
	n := &ENDForEachStatement{Select: sel, Key: key, Body: body}
	p.s.astNode(n, tag.Start)
	return n, nil
}

func parseVariable(p *templateParser, tag *parsedTag) (Statement, *Error) {
	n := &ENDVariableStatement{}
	for _, attr := range tag.attributes {
		id, ok := attr.Name.(*Identifier)
		if !ok {
			return nil, p.s.errorAtNode(attr, "variable name must be static")
		}
		v := &ENDVariable{Name: strings.TrimLeft(id.Name, "#@$"), Value: attr.Value}
		v.NodeBase = attr.NodeBase
		n.Variables = append(n.Variables, v)
	}
	if err := p.expectEmptyBody(tag); err != nil {
		return nil, err
	}
	p.s.astNode(n, tag.Start)
	return n, nil
}

func parseAttributeStatement(p *templateParser, tag *parsedTag) (Statement, *Error) {
	if err := p.expectEmptyBody(tag); err != nil {
		return nil, err
	}
	n := &ENDAttributeStatement{Attributes: tag.attributes, Directives: tag.directives}
	p.s.astNode(n, tag.Start)
	return n, nil
}

func parseAddClass(p *templateParser, tag *parsedTag) (Statement, *Error) {
	n := &ENDAddClassStatement{}
	if !tag.selfClosing {
		items, err := p.parseBody(tag, consumeStatement)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			switch tok := it.(type) {
			case *Literal:
				n.Tokens = append(n.Tokens, tok)
			case *Program:
				n.Tokens = append(n.Tokens, tok)
			default:
				return nil, p.s.errorAtNode(it, "unexpected content inside <e:add-class>")
			}
		}
	}
	p.s.astNode(n, tag.Start)
	return n, nil
}

func parsePartialDefinition(p *templateParser, tag *parsedTag) (Statement, *Error) {
	id, params, err := partialID(p, tag)
	if err != nil {
		return nil, err
	}
	var body []Statement
	if !tag.selfClosing {
		if body, err = p.parseBody(tag, consumeStatement); err != nil {
			return nil, err
		}
	}
	n := &ENDPartial{ID: id, Params: params, Body: body}
	p.s.astNode(n, tag.Start)
	p.program.Partials = append(p.program.Partials, n)
	return n, nil
}

// partialID extracts the required literal id attribute of a partial
// definition; the remaining attributes become parameters.
func partialID(p *templateParser, tag *parsedTag) (*Identifier, []*ENDAttribute, *Error) {
	var id *Identifier
	var params []*ENDAttribute
	for _, attr := range tag.attributes {
		name, ok := attr.Name.(*Identifier)
		if ok && name.Name == "id" && id == nil {
			lit, isLit := attr.Value.(*Literal)
			if !isLit {
				return nil, nil, p.s.errorAtNode(attr, "partial id must be a string literal")
			}
			str, isStr := lit.Value.(string)
			if !isStr {
				return nil, nil, p.s.errorAtNode(attr, "partial id must be a string literal")
			}
			id = &Identifier{Name: str}
			id.NodeBase = lit.NodeBase
			continue
		}
		params = append(params, attr)
	}
	if id == nil {
		return nil, nil, p.s.errorAtNode(tag, "expecting \"id\" attribute in <%s>", tag.name.Name)
	}
	return id, params, nil
}

func parsePartialReference(p *templateParser, tag *parsedTag, name string) (Statement, *Error) {
	id := &Identifier{Name: name}
	id.NodeBase = tag.name.NodeBase
	if !tag.selfClosing {
		// Content of a partial reference is ignored.
		if _, err := p.parseBody(tag, consumeStatement); err != nil {
			return nil, err
		}
	}
	n := &ENDPartialStatement{ID: id, Params: tag.attributes}
	p.s.astNode(n, tag.Start)
	return n, nil
}

func parseImport(p *templateParser, tag *parsedTag) (Statement, *Error) {
	href, err := stringAttr(p, tag, "href", true)
	if err != nil {
		return nil, err
	}
	alias, err := stringAttr(p, tag, "as", false)
	if err != nil {
		return nil, err
	}
	if alias == "" {
		alias = deriveImportName(href)
	}
	if err := p.expectEmptyBody(tag); err != nil {
		return nil, err
	}
	n := &ENDImport{Name: alias, Href: href}
	p.s.astNode(n, tag.Start)
	return n, nil
}

// expectEmptyBody verifies that a construct written with an explicit close
// tag has nothing but whitespace inside.
func (p *templateParser) expectEmptyBody(tag *parsedTag) *Error {
	if tag.selfClosing {
		return nil
	}
	nothing := func(*templateParser, *parsedTag) (Statement, bool, *Error) { return nil, false, nil }
	items, err := p.parseBody(tag, nothing)
	if err != nil {
		return err
	}
	for _, it := range items {
		if lit, ok := it.(*Literal); ok {
			if text, isStr := lit.Value.(string); isStr && strings.TrimSpace(text) == "" {
				continue
			}
		}
		return p.s.errorAtNode(it, "unexpected content in <%s>, body must be empty", tag.name.Name)
	}
	return nil
}

// exprAttr finds the named attribute and requires an expression value.
func exprAttr(p *templateParser, tag *parsedTag, name string, required bool) (*Program, *Error) {
	for _, attr := range tag.attributes {
		id, ok := attr.Name.(*Identifier)
		if !ok || id.Name != name {
			continue
		}
		prog, ok := attr.Value.(*Program)
		if !ok {
			return nil, p.s.errorAtNode(attr, "%q attribute of <%s> must be an expression", name, tag.name.Name)
		}
		return prog, nil
	}
	if required {
		return nil, p.s.errorAtNode(tag, "expecting %q attribute in <%s>", name, tag.name.Name)
	}
	return nil, nil
}

// stringAttr finds the named attribute and requires a static string value.
func stringAttr(p *templateParser, tag *parsedTag, name string, required bool) (string, *Error) {
	for _, attr := range tag.attributes {
		id, ok := attr.Name.(*Identifier)
		if !ok || id.Name != name {
			continue
		}
		lit, ok := attr.Value.(*Literal)
		if !ok {
			return "", p.s.errorAtNode(attr, "%q attribute of <%s> must be a string literal", name, tag.name.Name)
		}
		str, ok := lit.Value.(string)
		if !ok {
			return "", p.s.errorAtNode(attr, "%q attribute of <%s> must be a string literal", name, tag.name.Name)
		}
		return str, nil
	}
	if required {
		return "", p.s.errorAtNode(tag, "expecting %q attribute in <%s>", name, tag.name.Name)
	}
	return "", nil
}

// deriveImportName resolves the component alias from the import href when no
// explicit alias is given: the final path segment if it contains a dash, else
// the parent directory name.
func deriveImportName(href string) string {
	base := pathBase(href)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	if strings.Contains(base, "-") {
		return base
	}
	dir := href[:len(href)-len(pathBase(href))]
	if parent := pathBase(strings.TrimRight(dir, "/")); parent != "" && parent != "." {
		return parent
	}
	return base
}

func pathBase(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
