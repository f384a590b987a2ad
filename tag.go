package endtpl

import (
	"strconv"
	"strings"

	"golang.org/x/net/html/atom"
)

type tagKind int

const (
	tagOpen tagKind = iota
	tagClose
)

// parsedTag is the transient result of consuming a <name ...> or </name>
// token. It is never retained in the final tree: construct parsers consume it
// into a statement node or discard it after validation.
type parsedTag struct {
	NodeBase
	name        *Identifier
	atom        atom.Atom
	kind        tagKind
	selfClosing bool
	attributes  []*ENDAttribute
	directives  []*ENDDirective
}

// directivePrefixes is the whitelist of recognized directive namespaces.
// Attributes with any other prefix stay ordinary namespaced attributes.
var directivePrefixes = map[string]bool{
	"on":      true,
	"ref":     true,
	"class":   true,
	"partial": true,
	"animate": true,
	"use":     true,
}

func isAttrNameStart(r rune) bool {
	return isTagNameStart(r) || isSigil(r)
}

func isAttrName(r rune) bool {
	return isTagName(r) || r == '$'
}

func isUnquoted(r rune) bool {
	return !isSpace(r) && !isQuote(r) && !strings.ContainsRune("=<>`/{}", r)
}

// openTag consumes a <name attr*> token. Returns nil (with the scanner
// untouched) if the input is not an open tag.
func openTag(s *scanner, helpers map[string]bool) (*parsedTag, *Error) {
	mark := s.pos
	if !s.eat('<') || !isTagNameStart(s.peek()) {
		s.pos = mark
		return nil, nil
	}
	name := tagName(s)
	tag := &parsedTag{
		name: name,
		atom: atom.Lookup([]byte(name.Name)),
		kind: tagOpen,
	}
	for {
		hadSpace := s.eatWhile(isSpace)
		switch {
		case s.eat('>'):
			s.astNode(tag, mark)
			if err := validateSlotAttrs(s, tag); err != nil {
				return nil, err
			}
			extractDirectives(tag)
			return tag, nil
		case s.eatString("/>"):
			tag.selfClosing = true
			s.astNode(tag, mark)
			if err := validateSlotAttrs(s, tag); err != nil {
				return nil, err
			}
			extractDirectives(tag)
			return tag, nil
		case s.eof():
			return nil, s.errorf(mark, "expecting closing \">\" for <%s>", name.Name)
		}
		if !hadSpace {
			return nil, s.errorf(s.pos, "unexpected character %q", s.peek())
		}
		attr, err := parseAttribute(s, helpers)
		if err != nil {
			return nil, err
		}
		tag.attributes = append(tag.attributes, attr)
	}
}

// closeTag consumes a </name> token. Returns nil if the input is not a close
// tag.
func closeTag(s *scanner) (*parsedTag, *Error) {
	mark := s.pos
	if !s.eatString("</") {
		return nil, nil
	}
	if !isTagNameStart(s.peek()) {
		return nil, s.errorf(s.pos, "unexpected character %q", s.peek())
	}
	name := tagName(s)
	s.eatWhile(isSpace)
	if !s.eat('>') {
		return nil, s.errorf(mark, "expecting closing \">\" for </%s>", name.Name)
	}
	tag := &parsedTag{name: name, atom: atom.Lookup([]byte(name.Name)), kind: tagClose}
	s.astNode(tag, mark)
	return tag, nil
}

func tagName(s *scanner) *Identifier {
	start := s.pos
	s.next()
	s.eatWhile(isTagName)
	id := &Identifier{Name: s.substring(start, s.pos)}
	s.astNode(id, start)
	return id
}

func parseAttribute(s *scanner, helpers map[string]bool) (*ENDAttribute, *Error) {
	start := s.pos
	attr := &ENDAttribute{}

	if s.hasPrefix(exprStart) {
		// Dynamic (computed) attribute name.
		prog, err := parseExprBlock(s, helpers, exprStart, exprEnd)
		if err != nil {
			return nil, err
		}
		attr.Name = prog
	} else if isAttrNameStart(s.peek()) {
		nameStart := s.pos
		s.next()
		s.eatWhile(isAttrName)
		id := &Identifier{Name: s.substring(nameStart, s.pos)}
		s.astNode(id, nameStart)
		attr.Name = id
	} else {
		return nil, s.errorf(s.pos, "unexpected attribute name")
	}

	if s.eat('=') {
		value, err := parseAttributeValue(s, helpers)
		if err != nil {
			return nil, err
		}
		attr.Value = value
	}
	s.astNode(attr, start)
	return attr, nil
}

// parseAttributeValue tries, in priority order: a bare embedded expression, a
// quoted string (re-parsed as an interpolated value when it contains the
// expression start marker), an unquoted literal run.
func parseAttributeValue(s *scanner, helpers map[string]bool) (Expression, *Error) {
	switch {
	case s.hasPrefix(exprStart):
		return parseExprBlock(s, helpers, exprStart, exprEnd)
	case isQuote(s.peek()):
		quote := s.next()
		contentStart := s.pos
		for {
			r := s.next()
			if r == quote {
				break
			}
			if r == '\\' {
				s.next()
			}
			if r == eof {
				return nil, s.errorf(contentStart-1, "unterminated string")
			}
		}
		contentEnd := s.pos - 1
		content := s.substring(contentStart, contentEnd)
		if strings.Contains(content, exprStart) {
			return parseInterpolated(s.limit(contentStart, contentEnd), helpers)
		}
		lit := &Literal{Value: content, Raw: s.substring(contentStart-1, contentEnd+1)}
		s.astNode(lit, contentStart-1)
		return lit, nil
	default:
		start := s.pos
		if !s.eatWhile(isUnquoted) {
			return nil, s.errorf(start, "expecting attribute value")
		}
		raw := s.substring(start, s.pos)
		lit := &Literal{Value: coerceValue(raw), Raw: raw}
		s.astNode(lit, start)
		return lit, nil
	}
}

// parseInterpolated parses the interior of a quoted value as an ordered
// sequence of literal-text and expression fragments, collapsed to the single
// fragment when only one is produced.
func parseInterpolated(s *scanner, helpers map[string]bool) (Expression, *Error) {
	start := s.pos
	var elems []Expression
	for !s.eof() {
		if s.hasPrefix(exprStart) {
			prog, err := parseExprBlock(s, helpers, exprStart, exprEnd)
			if err != nil {
				return nil, err
			}
			elems = append(elems, prog)
			continue
		}
		textStart := s.pos
		for !s.eof() && !s.hasPrefix(exprStart) {
			s.next()
		}
		text := s.substring(textStart, s.pos)
		lit := &Literal{Value: text, Raw: text}
		s.astNode(lit, textStart)
		elems = append(elems, lit)
	}
	if len(elems) == 1 {
		return elems[0], nil
	}
	v := &ENDAttributeValueExpression{Elements: elems}
	s.astNode(v, start)
	return v, nil
}

// coerceValue maps an unquoted attribute value to a typed literal value:
// number, boolean, null, the Undefined sentinel, else the string itself.
func coerceValue(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	case "undefined":
		return Undefined
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}

// extractDirectives promotes attributes whose static name matches
// prefix:localName against the recognized-prefix whitelist. The attribute and
// directive lists are rebuilt fresh.
func extractDirectives(tag *parsedTag) {
	var attrs []*ENDAttribute
	var dirs []*ENDDirective
	for _, attr := range tag.attributes {
		id, ok := attr.Name.(*Identifier)
		if ok {
			if prefix, local, found := strings.Cut(id.Name, ":"); found && directivePrefixes[prefix] && local != "" {
				d := &ENDDirective{Prefix: prefix, Name: local, Value: attr.Value}
				d.NodeBase = attr.NodeBase
				dirs = append(dirs, d)
				continue
			}
		}
		attrs = append(attrs, attr)
	}
	tag.attributes = attrs
	tag.directives = dirs
}

// validateSlotAttrs enforces that slot-selector attributes (name on a slot
// tag, slot elsewhere) are string literals; a dynamic value here fails
// parsing.
func validateSlotAttrs(s *scanner, tag *parsedTag) *Error {
	selector := "slot"
	if tag.name.Name == "slot" {
		selector = "name"
	}
	for _, attr := range tag.attributes {
		id, ok := attr.Name.(*Identifier)
		if !ok || id.Name != selector || attr.Value == nil {
			continue
		}
		lit, ok := attr.Value.(*Literal)
		if !ok {
			return s.errorAtNode(attr, "%q attribute of <%s> must be a static string", selector, tag.name.Name)
		}
		if _, ok := lit.Value.(string); !ok {
			return s.errorAtNode(attr, "%q attribute of <%s> must be a static string", selector, tag.name.Name)
		}
	}
	return nil
}
