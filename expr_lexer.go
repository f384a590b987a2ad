package endtpl

import (
	"strconv"
	"strings"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokIdent
	tokNumber
	tokString
	tokPunct
)

// token is a single expression token. For identifiers val is the name
// including any leading sigil; for strings it is the cooked value; for
// numbers and punctuation it is the raw text.
type token struct {
	typ   tokenType
	val   string
	start int
	end   int
}

// puncts lists operators and delimiters, longest first so the lexer can take
// the longest match.
var puncts = []string{
	">>>=", "===", "!==", "**=", ">>>", "<<=", ">>=",
	"==", "!=", "<=", ">=", "&&", "||", "=>", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "**", "<<", ">>", "&=", "|=", "^=",
	"(", ")", "[", "]", "{", "}", ",", ".", ";", ":", "?",
	"+", "-", "*", "/", "%", "<", ">", "=", "!", "&", "|", "^", "~",
}

// exprLexer tokenizes the embedded expression dialect. It extends the
// ordinary grammar with sigil-prefixed (#, @, $) and dash-containing
// identifiers, which are captured as single identifier tokens.
type exprLexer struct {
	s *scanner
}

func newExprLexer(code, url string) *exprLexer {
	return &exprLexer{s: newScanner(code, url)}
}

func (l *exprLexer) next() (token, *Error) {
	s := l.s
	s.eatWhile(isSpace)
	s.skip()
	start := s.pos

	r := s.peek()
	switch {
	case r == eof:
		return token{typ: tokEOF, start: start, end: start}, nil
	case isIdentStart(r):
		return l.ident(start)
	case isDigit(r), r == '.' && isDigit(s.peekAt(1)):
		return l.number(start)
	case isQuote(r), r == '`':
		return l.str(start)
	}
	for _, p := range puncts {
		if s.eatString(p) {
			return token{typ: tokPunct, val: p, start: start, end: s.pos}, nil
		}
	}
	return token{}, s.errorf(start, "unexpected character %q", r)
}

func (l *exprLexer) ident(start int) (token, *Error) {
	s := l.s
	s.next() // sigil or first identifier character
	for {
		if s.eatFn(isIdent) {
			continue
		}
		// An interior dash is part of the name when an identifier character
		// follows; otherwise it is the minus operator.
		if s.peek() == '-' && isIdent(s.peekAt(1)) {
			s.next()
			continue
		}
		break
	}
	name := s.substring(start, s.pos)
	if len(name) == 1 && isSigil(rune(name[0])) {
		return token{}, s.errorf(start, "expecting identifier after %q", name)
	}
	return token{typ: tokIdent, val: name, start: start, end: s.pos}, nil
}

func (l *exprLexer) number(start int) (token, *Error) {
	s := l.s
	if s.hasPrefix("0x") || s.hasPrefix("0X") {
		s.pos += 2
		if !s.eatWhile(isHexDigit) {
			return token{}, s.errorf(start, "malformed hexadecimal number")
		}
		return token{typ: tokNumber, val: s.substring(start, s.pos), start: start, end: s.pos}, nil
	}
	s.eatWhile(isDigit)
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.next()
		s.eatWhile(isDigit)
	} else if s.peek() == '.' && !isIdentStart(s.peekAt(1)) {
		s.next()
	}
	if r := s.peek(); r == 'e' || r == 'E' {
		mark := s.pos
		s.next()
		if r := s.peek(); r == '+' || r == '-' {
			s.next()
		}
		if !s.eatWhile(isDigit) {
			s.pos = mark // not an exponent, e.g. `2em` is out of grammar anyway
		}
	}
	return token{typ: tokNumber, val: s.substring(start, s.pos), start: start, end: s.pos}, nil
}

func (l *exprLexer) str(start int) (token, *Error) {
	s := l.s
	quote := s.next()
	var sb strings.Builder
	for {
		r := s.next()
		switch r {
		case quote:
			return token{typ: tokString, val: sb.String(), start: start, end: s.pos}, nil
		case '\\':
			esc := s.next()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case eof:
				return token{}, s.errorf(start, "unterminated string")
			default:
				sb.WriteRune(esc)
			}
		case eof:
			return token{}, s.errorf(start, "unterminated string")
		default:
			sb.WriteRune(r)
		}
	}
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// parseNumber converts a numeric token value. Numbers are float64, matching
// the numeric model of the expression dialect.
func parseNumber(raw string) (float64, bool) {
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		n, err := strconv.ParseUint(raw[2:], 16, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
	n, err := strconv.ParseFloat(strings.TrimSuffix(raw, "."), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
