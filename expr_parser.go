package endtpl

// exprParser parses one embedded expression into an expression AST. The
// grammar is a JavaScript-like expression language; statements beyond a
// single returned expression in function bodies are out of dialect.
type exprParser struct {
	lex     *exprLexer
	tok     token
	lastEnd int
}

// parseJS parses code as a single expression program. Positions are relative
// to code; callers embedding the expression rebase them into document
// coordinates afterwards.
func parseJS(code, url string) (*Program, *Error) {
	p := &exprParser{lex: newExprLexer(code, url)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.typ == tokEOF {
		return nil, p.errorf("expecting expression")
	}
	expr, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if p.tok.typ != tokEOF {
		return nil, p.errorf("unexpected token %q", p.tok.val)
	}
	prog := &Program{Raw: code, Expression: expr}
	p.finish(prog, 0)
	prog.End = len(code)
	prog.Loc = p.lex.s.locRange(0, len(code))
	return prog, nil
}

func (p *exprParser) advance() *Error {
	p.lastEnd = p.tok.end
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *exprParser) at(val string) bool {
	return p.tok.typ == tokPunct && p.tok.val == val
}

func (p *exprParser) atIdent(val string) bool {
	return p.tok.typ == tokIdent && p.tok.val == val
}

func (p *exprParser) eatPunct(val string) (bool, *Error) {
	if !p.at(val) {
		return false, nil
	}
	return true, p.advance()
}

func (p *exprParser) expectPunct(val string) *Error {
	ok, err := p.eatPunct(val)
	if err != nil {
		return err
	}
	if !ok {
		return p.errorf("expecting %q", val)
	}
	return nil
}

func (p *exprParser) errorf(format string, args ...any) *Error {
	return p.lex.s.errorf(p.tok.start, format, args...)
}

func (p *exprParser) finish(n Node, start int) {
	b := n.base()
	b.Start = start
	b.End = p.lastEnd
	b.Loc = p.lex.s.locRange(b.Start, b.End)
}

func (p *exprParser) parseSequence() (Expression, *Error) {
	start := p.tok.start
	first, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if !p.at(",") {
		return first, nil
	}
	seq := &SequenceExpression{Expressions: []Expression{first}}
	for {
		ok, err := p.eatPunct(",")
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		next, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		seq.Expressions = append(seq.Expressions, next)
	}
	p.finish(seq, start)
	return seq, nil
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "<<=": true, ">>=": true, ">>>=": true,
	"&=": true, "|=": true, "^=": true,
}

func (p *exprParser) parseAssign() (Expression, *Error) {
	start := p.tok.start
	left, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if p.tok.typ != tokPunct || !assignOps[p.tok.val] {
		return left, nil
	}
	switch left.(type) {
	case *Identifier, *MemberExpression:
	default:
		return nil, p.errorf("invalid assignment target")
	}
	op := p.tok.val
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	n := &AssignmentExpression{Operator: op, Left: left, Right: right}
	p.finish(n, start)
	return n, nil
}

func (p *exprParser) parseConditional() (Expression, *Error) {
	start := p.tok.start
	test, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	ok, err := p.eatPunct("?")
	if err != nil {
		return nil, err
	}
	if !ok {
		return test, nil
	}
	consequent, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(":"); err != nil {
		return nil, err
	}
	alternate, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	n := &ConditionalExpression{Test: test, Consequent: consequent, Alternate: alternate}
	p.finish(n, start)
	return n, nil
}

var binaryPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6, "===": 6, "!==": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7,
	"<<": 8, ">>": 8, ">>>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
	"**": 11,
}

func (p *exprParser) parseBinary(minPrec int) (Expression, *Error) {
	start := p.tok.start
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.typ == tokPunct {
		op := p.tok.val
		prec, ok := binaryPrec[op]
		if !ok || prec <= minPrec {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		// ** is right-associative; everything else binds left.
		rp := prec
		if op == "**" {
			rp = prec - 1
		}
		right, err := p.parseBinary(rp)
		if err != nil {
			return nil, err
		}
		if op == "||" || op == "&&" {
			left = &LogicalExpression{Operator: op, Left: left, Right: right}
		} else {
			left = &BinaryExpression{Operator: op, Left: left, Right: right}
		}
		p.finish(left, start)
	}
	return left, nil
}

func (p *exprParser) parseUnary() (Expression, *Error) {
	start := p.tok.start
	if p.tok.typ == tokPunct {
		switch p.tok.val {
		case "!", "-", "+", "~":
			op := p.tok.val
			if err := p.advance(); err != nil {
				return nil, err
			}
			arg, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			n := &UnaryExpression{Operator: op, Argument: arg}
			p.finish(n, start)
			return n, nil
		case "++", "--":
			op := p.tok.val
			if err := p.advance(); err != nil {
				return nil, err
			}
			arg, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			if err := validUpdateTarget(p, arg); err != nil {
				return nil, err
			}
			n := &UpdateExpression{Operator: op, Argument: arg, Prefix: true}
			p.finish(n, start)
			return n, nil
		}
	}
	if p.atIdent("typeof") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		n := &UnaryExpression{Operator: "typeof", Argument: arg}
		p.finish(n, start)
		return n, nil
	}
	return p.parsePostfix()
}

func validUpdateTarget(p *exprParser, e Expression) *Error {
	switch e.(type) {
	case *Identifier, *MemberExpression:
		return nil
	}
	return p.errorf("invalid update target")
}

func (p *exprParser) parsePostfix() (Expression, *Error) {
	start := p.tok.start
	expr, err := p.parseCallMember()
	if err != nil {
		return nil, err
	}
	if p.at("++") || p.at("--") {
		op := p.tok.val
		if err := validUpdateTarget(p, expr); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		n := &UpdateExpression{Operator: op, Argument: expr, Prefix: false}
		p.finish(n, start)
		return n, nil
	}
	return expr, nil
}

func (p *exprParser) parseCallMember() (Expression, *Error) {
	start := p.tok.start
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at("."):
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.typ != tokIdent {
				return nil, p.errorf("expecting property name")
			}
			prop := &Identifier{Name: p.tok.val}
			propStart := p.tok.start
			if err := p.advance(); err != nil {
				return nil, err
			}
			p.finish(prop, propStart)
			expr = &MemberExpression{Object: expr, Property: prop}
			p.finish(expr, start)
		case p.at("["):
			if err := p.advance(); err != nil {
				return nil, err
			}
			idx, err := p.parseSequence()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			expr = &MemberExpression{Object: expr, Property: idx, Computed: true}
			p.finish(expr, start)
		case p.at("("):
			if err := p.advance(); err != nil {
				return nil, err
			}
			var args []Expression
			for !p.at(")") {
				arg, err := p.parseAssign()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if ok, err := p.eatPunct(","); err != nil {
					return nil, err
				} else if !ok {
					break
				}
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			expr = &CallExpression{Callee: expr, Arguments: args}
			p.finish(expr, start)
		default:
			return expr, nil
		}
	}
}

func (p *exprParser) parsePrimary() (Expression, *Error) {
	start := p.tok.start
	switch p.tok.typ {
	case tokEOF:
		return nil, p.errorf("expecting expression")
	case tokNumber:
		raw := p.lex.s.substring(p.tok.start, p.tok.end)
		num, ok := parseNumber(p.tok.val)
		if !ok {
			return nil, p.errorf("malformed number %q", raw)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		n := &Literal{Value: num, Raw: raw}
		p.finish(n, start)
		return n, nil
	case tokString:
		raw := p.lex.s.substring(p.tok.start, p.tok.end)
		val := p.tok.val
		if err := p.advance(); err != nil {
			return nil, err
		}
		n := &Literal{Value: val, Raw: raw}
		p.finish(n, start)
		return n, nil
	case tokIdent:
		switch p.tok.val {
		case "true", "false":
			val := p.tok.val == "true"
			raw := p.tok.val
			if err := p.advance(); err != nil {
				return nil, err
			}
			n := &Literal{Value: val, Raw: raw}
			p.finish(n, start)
			return n, nil
		case "null":
			if err := p.advance(); err != nil {
				return nil, err
			}
			n := &Literal{Value: nil, Raw: "null"}
			p.finish(n, start)
			return n, nil
		case "undefined":
			if err := p.advance(); err != nil {
				return nil, err
			}
			n := &Literal{Value: Undefined, Raw: "undefined"}
			p.finish(n, start)
			return n, nil
		case "function":
			return p.parseFunction(start)
		}
		id := &Identifier{Name: p.tok.val}
		if err := p.advance(); err != nil {
			return nil, err
		}
		p.finish(id, start)
		if p.at("=>") {
			return p.parseArrowBody(start, []*Identifier{id})
		}
		return id, nil
	case tokPunct:
		switch p.tok.val {
		case "(":
			return p.parseParenOrArrow(start)
		case "[":
			return p.parseArray(start)
		case "{":
			return p.parseObject(start)
		}
	}
	return nil, p.errorf("unexpected token %q", p.tok.val)
}

// parseParenOrArrow handles both a parenthesized expression and an arrow
// parameter list; the two are indistinguishable until the closing paren.
func (p *exprParser) parseParenOrArrow(start int) (Expression, *Error) {
	if err := p.advance(); err != nil { // consume "("
		return nil, err
	}
	if ok, err := p.eatPunct(")"); err != nil {
		return nil, err
	} else if ok {
		if !p.at("=>") {
			return nil, p.errorf("expecting \"=>\"")
		}
		return p.parseArrowBody(start, nil)
	}
	var exprs []Expression
	for {
		e, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		if ok, err := p.eatPunct(","); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if p.at("=>") {
		params := make([]*Identifier, len(exprs))
		for i, e := range exprs {
			id, ok := e.(*Identifier)
			if !ok {
				return nil, p.errorf("invalid arrow function parameter")
			}
			params[i] = id
		}
		return p.parseArrowBody(start, params)
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	seq := &SequenceExpression{Expressions: exprs}
	p.finish(seq, start)
	return seq, nil
}

func (p *exprParser) parseArrowBody(start int, params []*Identifier) (Expression, *Error) {
	if err := p.advance(); err != nil { // consume "=>"
		return nil, err
	}
	body, err := p.parseFunctionBody()
	if err != nil {
		return nil, err
	}
	n := &ArrowFunctionExpression{Params: params, Body: body}
	p.finish(n, start)
	return n, nil
}

// parseFunctionBody parses either a bare expression or a `{ return expr }`
// block.
func (p *exprParser) parseFunctionBody() (Expression, *Error) {
	ok, err := p.eatPunct("{")
	if err != nil {
		return nil, err
	}
	if !ok {
		return p.parseAssign()
	}
	if p.atIdent("return") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	body, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if _, err := p.eatPunct(";"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *exprParser) parseFunction(start int) (Expression, *Error) {
	if err := p.advance(); err != nil { // consume "function"
		return nil, err
	}
	var id *Identifier
	if p.tok.typ == tokIdent {
		id = &Identifier{Name: p.tok.val}
		idStart := p.tok.start
		if err := p.advance(); err != nil {
			return nil, err
		}
		p.finish(id, idStart)
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var params []*Identifier
	for !p.at(")") {
		if p.tok.typ != tokIdent {
			return nil, p.errorf("expecting parameter name")
		}
		param := &Identifier{Name: p.tok.val}
		pStart := p.tok.start
		if err := p.advance(); err != nil {
			return nil, err
		}
		p.finish(param, pStart)
		params = append(params, param)
		if ok, err := p.eatPunct(","); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	if p.atIdent("return") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	body, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if _, err := p.eatPunct(";"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	n := &FunctionExpression{ID: id, Params: params, Body: body}
	p.finish(n, start)
	return n, nil
}

func (p *exprParser) parseArray(start int) (Expression, *Error) {
	if err := p.advance(); err != nil { // consume "["
		return nil, err
	}
	var elems []Expression
	for !p.at("]") {
		e, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if ok, err := p.eatPunct(","); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	n := &ArrayExpression{Elements: elems}
	p.finish(n, start)
	return n, nil
}

func (p *exprParser) parseObject(start int) (Expression, *Error) {
	if err := p.advance(); err != nil { // consume "{"
		return nil, err
	}
	var props []*Property
	for !p.at("}") {
		prop, err := p.parseProperty()
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
		if ok, err := p.eatPunct(","); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	n := &ObjectExpression{Properties: props}
	p.finish(n, start)
	return n, nil
}

func (p *exprParser) parseProperty() (*Property, *Error) {
	start := p.tok.start
	prop := &Property{}
	switch p.tok.typ {
	case tokIdent:
		key := &Identifier{Name: p.tok.val}
		if err := p.advance(); err != nil {
			return nil, err
		}
		p.finish(key, start)
		prop.Key = key
		if !p.at(":") {
			prop.Value = key
			prop.Shorthand = true
			p.finish(prop, start)
			return prop, nil
		}
	case tokString:
		raw := p.lex.s.substring(p.tok.start, p.tok.end)
		key := &Literal{Value: p.tok.val, Raw: raw}
		if err := p.advance(); err != nil {
			return nil, err
		}
		p.finish(key, start)
		prop.Key = key
	case tokNumber:
		raw := p.lex.s.substring(p.tok.start, p.tok.end)
		num, ok := parseNumber(p.tok.val)
		if !ok {
			return nil, p.errorf("malformed number %q", raw)
		}
		key := &Literal{Value: num, Raw: raw}
		if err := p.advance(); err != nil {
			return nil, err
		}
		p.finish(key, start)
		prop.Key = key
	case tokPunct:
		if p.tok.val == "[" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			key, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			prop.Key = key
			prop.Computed = true
			break
		}
		fallthrough
	default:
		return nil, p.errorf("expecting property key")
	}
	if err := p.expectPunct(":"); err != nil {
		return nil, err
	}
	value, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	prop.Value = value
	p.finish(prop, start)
	return prop, nil
}
