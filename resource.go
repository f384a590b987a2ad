package endtpl

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultStyleMime  = "text/css"
	defaultScriptMime = "text/javascript"
)

// parseTemplateTag handles a document-level <template> container. A template
// with a partial attribute defines a named partial; otherwise it is the
// component's main template body.
func parseTemplateTag(p *templateParser, tag *parsedTag) (Statement, *Error) {
	var id *Identifier
	var params []*ENDAttribute
	for _, attr := range tag.attributes {
		name, ok := attr.Name.(*Identifier)
		if ok && name.Name == "partial" && id == nil {
			lit, isLit := attr.Value.(*Literal)
			str, isStr := "", false
			if isLit {
				str, isStr = lit.Value.(string)
			}
			if !isStr {
				return nil, p.s.errorAtNode(attr, "partial name must be a string literal")
			}
			id = &Identifier{Name: str}
			id.NodeBase = lit.NodeBase
			continue
		}
		params = append(params, attr)
	}

	var body []Statement
	var err *Error
	if !tag.selfClosing {
		if body, err = p.parseBody(tag, consumeStatement); err != nil {
			return nil, err
		}
	}
	if id != nil {
		n := &ENDPartial{ID: id, Params: params, Body: body}
		p.s.astNode(n, tag.Start)
		p.program.Partials = append(p.program.Partials, n)
		return n, nil
	}
	n := &ENDTemplate{Body: body}
	p.s.astNode(n, tag.Start)
	return n, nil
}

// parseStylesheetTag records a <style> block on the program. A self-closing
// tag must carry an href and becomes an external reference; an inline block
// captures its raw text, and whitespace-only blocks are dropped.
func parseStylesheetTag(p *templateParser, tag *parsedTag) *Error {
	mime, err := mimeAttr(p, tag, defaultStyleMime)
	if err != nil {
		return err
	}
	if tag.selfClosing {
		href, err := stringAttr(p, tag, "href", true)
		if err != nil {
			return err
		}
		sheet := &ENDStylesheet{Mime: mime, URL: href}
		p.s.astNode(sheet, tag.Start)
		p.program.Stylesheets = append(p.program.Stylesheets, sheet)
		return nil
	}
	content, err := rawText(p, tag)
	if err != nil {
		return err
	}
	if isBlankLiteral(content) {
		return nil
	}
	sheet := &ENDStylesheet{Mime: mime, Content: content}
	p.s.astNode(sheet, tag.Start)
	p.program.Stylesheets = append(p.program.Stylesheets, sheet)
	return nil
}

// parseScriptTag records a <script> block on the program. A src attribute
// makes it an external reference; inline content is captured raw.
func parseScriptTag(p *templateParser, tag *parsedTag) *Error {
	mime, err := mimeAttr(p, tag, defaultScriptMime)
	if err != nil {
		return err
	}
	src, err := stringAttr(p, tag, "src", tag.selfClosing)
	if err != nil {
		return err
	}
	var content *Literal
	if !tag.selfClosing {
		if content, err = rawText(p, tag); err != nil {
			return err
		}
	}
	if src != "" {
		if content != nil && !isBlankLiteral(content) {
			return p.s.errorAtNode(content, "unexpected content in <script> with src")
		}
		script := &ENDScript{Mime: mime, URL: src}
		p.s.astNode(script, tag.Start)
		p.program.Scripts = append(p.program.Scripts, script)
		return nil
	}
	if isBlankLiteral(content) {
		return nil
	}
	script := &ENDScript{Mime: mime, Content: content}
	p.s.astNode(script, tag.Start)
	p.program.Scripts = append(p.program.Scripts, script)
	return nil
}

// isStylesheetLink reports whether a <link> tag is a stylesheet reference.
func isStylesheetLink(tag *parsedTag) bool {
	for _, attr := range tag.attributes {
		id, ok := attr.Name.(*Identifier)
		if !ok || id.Name != "rel" {
			continue
		}
		lit, ok := attr.Value.(*Literal)
		if !ok {
			return false
		}
		rel, _ := lit.Value.(string)
		return rel == "stylesheet"
	}
	return false
}

// parseLinkTag records <link rel="stylesheet" href="..."> as an external
// stylesheet reference.
func parseLinkTag(p *templateParser, tag *parsedTag) *Error {
	href, err := stringAttr(p, tag, "href", true)
	if err != nil {
		return err
	}
	mime, err := mimeAttr(p, tag, defaultStyleMime)
	if err != nil {
		return err
	}
	sheet := &ENDStylesheet{Mime: mime, URL: href}
	p.s.astNode(sheet, tag.Start)
	p.program.Stylesheets = append(p.program.Stylesheets, sheet)
	return nil
}

func mimeAttr(p *templateParser, tag *parsedTag, fallback string) (string, *Error) {
	mime, err := stringAttr(p, tag, "type", false)
	if err != nil {
		return "", err
	}
	if mime == "" {
		mime = fallback
	}
	return mime, nil
}

// rawText captures everything up to the matching close tag verbatim: nested
// tag and expression syntax inside a style or script block is not parsed.
func rawText(p *templateParser, tag *parsedTag) (*Literal, *Error) {
	s := p.s
	start := s.pos
	idx := closeTagIndex(s.text[s.pos:s.bound], tag.name.Name)
	if idx < 0 {
		return nil, s.errorf(tag.Start, "expecting closing tag for <%s>", tag.name.Name)
	}
	s.pos = start + idx
	text := s.substring(start, s.pos)
	lit := &Literal{Value: text, Raw: text}
	s.astNode(lit, start)
	ct, err := expect(s, closeTag, "expecting closing tag")
	if err != nil {
		return nil, err
	}
	if ct.name.Name != tag.name.Name {
		return nil, s.errorf(ct.Start, "unexpected closing tag </%s>, expecting </%s>",
			ct.name.Name, tag.name.Name)
	}
	return lit, nil
}

// closeTagIndex finds the offset of the first `</name` occurrence that is a
// whole close tag and not a prefix of a longer name (`</scripts>` must not
// terminate a `<script>` block).
func closeTagIndex(text, name string) int {
	lit := "</" + name
	off := 0
	for {
		i := strings.Index(text[off:], lit)
		if i < 0 {
			return -1
		}
		i += off
		rest := text[i+len(lit):]
		if rest == "" {
			return i // closeTag reports the missing ">" precisely
		}
		if r, _ := utf8.DecodeRuneInString(rest); !isTagName(r) {
			return i
		}
		off = i + len(lit)
	}
}

func isBlankLiteral(lit *Literal) bool {
	if lit == nil {
		return true
	}
	text, ok := lit.Value.(string)
	return ok && strings.TrimSpace(text) == ""
}