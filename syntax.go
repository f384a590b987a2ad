package endtpl

import (
	"strings"
	"unicode"
)

// Expression block delimiters. Attribute values and text splices use a single
// brace pair; inner-HTML blocks use a doubled pair.
const (
	exprStart = "{"
	exprEnd   = "}"
	htmlStart = "{{"
	htmlEnd   = "}}"
)

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\f'
}

func isQuote(r rune) bool {
	return r == '"' || r == '\''
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// Tag names follow the markup grammar: alpha/underscore/namespace-colon
// start, then alphanumeric/dash/dot continuation. This is deliberately more
// permissive than the expression identifier grammar.
func isTagNameStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isTagName(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == ':' || r == '-' || r == '.'
}

// Expression identifiers may start with a binding sigil and may contain
// interior dashes; the tokenizer keeps such runs as a single token.
func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$' || r == '#' || r == '@'
}

func isIdent(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}

// isSigil reports whether r selects an identifier binding category.
func isSigil(r rune) bool { return r == '#' || r == '@' || r == '$' }

// eatQuoted consumes a quoted string with backslash escapes, starting at the
// opening quote. It reports false (leaving the scanner untouched) if the
// scanner is not at a quote, and fails on an unterminated string.
func eatQuoted(s *scanner) (bool, *Error) {
	start := s.pos
	quote := s.peek()
	if !isQuote(quote) {
		return false, nil
	}
	s.next()
	for {
		switch r := s.next(); r {
		case quote:
			return true, nil
		case '\\':
			s.next()
		case eof:
			return false, s.errorf(start, "unterminated string")
		}
	}
}

// matchExprBounds consumes an expression block fenced by the given delimiter
// pair, honoring nested braces and quoted strings, and returns the absolute
// offsets of the inner code range. The scanner ends up just past the closing
// delimiter.
func matchExprBounds(s *scanner, open, close string) (inner [2]int, err *Error) {
	blockStart := s.pos
	if !s.eatString(open) {
		return inner, s.errorf(s.pos, "expecting %q", open)
	}
	innerStart := s.pos
	depth := 0
	for {
		if depth == 0 && s.hasPrefix(close) {
			inner = [2]int{innerStart, s.pos}
			s.eatString(close)
			return inner, nil
		}
		switch r := s.peek(); r {
		case eof:
			return inner, s.errorf(blockStart, "expecting %q", close)
		case '"', '\'':
			if _, qerr := eatQuoted(s); qerr != nil {
				return inner, qerr
			}
		case '`':
			s.next()
			for {
				r := s.next()
				if r == '`' {
					break
				}
				if r == '\\' {
					s.next()
				}
				if r == eof {
					return inner, s.errorf(blockStart, "unterminated string")
				}
			}
		case '{':
			depth++
			s.next()
		case '}':
			depth--
			s.next()
		default:
			s.next()
		}
	}
}

// ignored consumes a section that produces no output: an HTML comment, a
// CDATA section, a processing instruction or a doctype declaration. Reports
// whether anything was consumed.
func ignored(s *scanner) (bool, *Error) {
	start := s.pos
	switch {
	case s.eatString("<!--"):
		if !skipUntil(s, "-->") {
			return false, s.errorf(start, "expecting comment closing")
		}
	case s.eatString("<![CDATA["):
		if !skipUntil(s, "]]>") {
			return false, s.errorf(start, "expecting CDATA closing")
		}
	case s.eatString("<?"):
		if !skipUntil(s, "?>") {
			return false, s.errorf(start, "expecting processing instruction closing")
		}
	case s.hasPrefix("<!"):
		// Doctype and other markup declarations run to the next ">".
		if !skipUntil(s, ">") {
			return false, s.errorf(start, "expecting \">\"")
		}
	default:
		return false, nil
	}
	return true, nil
}

// skipUntil advances the scanner just past the next occurrence of lit.
func skipUntil(s *scanner, lit string) bool {
	if i := strings.Index(s.text[s.pos:s.bound], lit); i >= 0 {
		s.pos += i + len(lit)
		return true
	}
	return false
}
