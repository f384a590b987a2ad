// Package endtpl parses component templates: an HTML-like markup dialect
// with embedded JS-like expressions, control-flow tags in the e: namespace,
// partials, imports and inline resources. The parser produces a fully
// located AST and performs no evaluation.
package endtpl

import "strings"

// Options configures a parse. The zero value is valid.
type Options struct {
	// URL identifies the source document in AST locations and errors.
	URL string

	// Helpers lists known helper function names. Unqualified calls to these
	// names resolve to helper context during identifier classification.
	Helpers []string

	// Offset shifts every node offset in a standalone expression parse, for
	// callers that parse an excerpt of a larger document.
	Offset int
}

// ParseTemplate parses a complete template document.
func ParseTemplate(text string, opts *Options) (*ENDProgram, error) {
	o := opts
	if o == nil {
		o = &Options{}
	}
	p := &templateParser{
		s:       newScanner(text, o.URL),
		helpers: helperSet(o.Helpers),
	}
	p.program = &ENDProgram{URL: o.URL}
	body, err := p.parseBody(nil, consumeTopLevel)
	if err != nil {
		return nil, err
	}
	p.program.Body = dropBlankText(body)
	p.s.astNode(p.program, 0, len(text))
	return p.program, nil
}

// ParseExpression parses a standalone expression the way an embedded
// {...} block is parsed, including identifier classification.
func ParseExpression(code string, opts *Options) (*Program, error) {
	o := opts
	if o == nil {
		o = &Options{}
	}
	base := Position{Line: 1, Column: 1, Offset: o.Offset}
	prog, err := parseJS(code, o.URL)
	if err != nil {
		if o.Offset != 0 {
			return nil, rebaseError(err, base, o.URL)
		}
		return nil, err
	}
	classify(prog, helperSet(o.Helpers))
	if o.Offset != 0 {
		rebaseNode(prog, base)
	}
	return prog, nil
}

// dropBlankText removes whitespace-only text between document-level
// statements, where it separates constructs rather than being content.
func dropBlankText(items []Statement) []Statement {
	out := items[:0]
	for _, it := range items {
		if lit, ok := it.(*Literal); ok {
			if text, isStr := lit.Value.(string); isStr && strings.TrimSpace(text) == "" {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

func helperSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// parseExprBlock parses one delimited expression block at the scanner's
// current position. The embedded code is parsed in its own coordinates and
// the resulting subtree is shifted into document coordinates afterwards; the
// returned program spans the delimiters, not just the code between them.
func parseExprBlock(s *scanner, helpers map[string]bool, open, close string) (*Program, *Error) {
	blockStart := s.pos
	inner, err := matchExprBounds(s, open, close)
	if err != nil {
		return nil, err
	}
	code := s.substring(inner[0], inner[1])
	base := s.loc(inner[0])
	prog, perr := parseJS(code, s.url)
	if perr != nil {
		return nil, rebaseError(perr, base, s.url)
	}
	classify(prog, helpers)
	rebaseNode(prog, base)
	s.astNode(prog, blockStart)
	return prog, nil
}
