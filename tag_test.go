package endtpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"
)

func parseTag(t *testing.T, text string) *parsedTag {
	t.Helper()
	tag, err := openTag(newScanner(text, "test.html"), nil)
	require.Nil(t, err)
	require.NotNil(t, tag)
	return tag
}

func TestOpenTag_Basic(t *testing.T) {
	tag := parseTag(t, `<div class="box">`)
	assert.Equal(t, "div", tag.name.Name)
	assert.Equal(t, atom.Div, tag.atom)
	assert.False(t, tag.selfClosing)
	require.Len(t, tag.attributes, 1)

	attr := tag.attributes[0]
	assert.Equal(t, "class", attr.Name.(*Identifier).Name)
	assert.Equal(t, "box", attr.Value.(*Literal).Value)
}

func TestOpenTag_SelfClosing(t *testing.T) {
	tag := parseTag(t, `<img src="a.png" />`)
	assert.True(t, tag.selfClosing)
	assert.Equal(t, atom.Img, tag.atom)
}

func TestOpenTag_NotATag(t *testing.T) {
	s := newScanner("< div>", "test.html")
	tag, err := openTag(s, nil)
	require.Nil(t, err)
	assert.Nil(t, tag)
	assert.Equal(t, 0, s.pos, "scanner must be untouched")
}

func TestOpenTag_Unterminated(t *testing.T) {
	_, err := openTag(newScanner(`<div class="box"`, "test.html"), nil)
	require.NotNil(t, err)
	assert.Contains(t, err.Message, `expecting closing ">"`)
}

func TestAttribute_Expression(t *testing.T) {
	tag := parseTag(t, `<div hidden={!visible}>`)
	require.Len(t, tag.attributes, 1)
	prog, ok := tag.attributes[0].Value.(*Program)
	require.True(t, ok)
	un, ok := prog.Expression.(*UnaryExpression)
	require.True(t, ok)
	assert.Equal(t, "!", un.Operator)
}

func TestAttribute_DynamicName(t *testing.T) {
	tag := parseTag(t, `<div {attrName}="on">`)
	require.Len(t, tag.attributes, 1)
	prog, ok := tag.attributes[0].Name.(*Program)
	require.True(t, ok)
	assert.Equal(t, "attrName", prog.Expression.(*Identifier).Name)
	assert.Equal(t, "on", tag.attributes[0].Value.(*Literal).Value)
}

func TestAttribute_Interpolation(t *testing.T) {
	tag := parseTag(t, `<a href="/users/{id}/posts">`)
	require.Len(t, tag.attributes, 1)
	val, ok := tag.attributes[0].Value.(*ENDAttributeValueExpression)
	require.True(t, ok)
	require.Len(t, val.Elements, 3)
	assert.Equal(t, "/users/", val.Elements[0].(*Literal).Value)
	_, isExpr := val.Elements[1].(*Program)
	assert.True(t, isExpr)
	assert.Equal(t, "/posts", val.Elements[2].(*Literal).Value)
}

func TestAttribute_InterpolationCollapses(t *testing.T) {
	// A quoted value that is exactly one expression collapses to it.
	tag := parseTag(t, `<a href="{url}">`)
	prog, ok := tag.attributes[0].Value.(*Program)
	require.True(t, ok)
	assert.Equal(t, "url", prog.Expression.(*Identifier).Name)
}

func TestAttribute_UnquotedCoercion(t *testing.T) {
	tag := parseTag(t, `<x a=42 b=true c=false d=null e=undefined f=foo>`)
	want := []any{42.0, true, false, nil, Undefined, "foo"}
	require.Len(t, tag.attributes, len(want))
	for i, w := range want {
		assert.Equal(t, w, tag.attributes[i].Value.(*Literal).Value, "attr %d", i)
	}
}

func TestAttribute_Bare(t *testing.T) {
	tag := parseTag(t, `<input disabled>`)
	require.Len(t, tag.attributes, 1)
	assert.Equal(t, "disabled", tag.attributes[0].Name.(*Identifier).Name)
	assert.Nil(t, tag.attributes[0].Value)
}

func TestDirectives(t *testing.T) {
	tag := parseTag(t, `<button on:click={handle} ref:main class:active={selected} data-x="1">`)
	require.Len(t, tag.directives, 3)

	assert.Equal(t, "on", tag.directives[0].Prefix)
	assert.Equal(t, "click", tag.directives[0].Name)
	require.NotNil(t, tag.directives[0].Value)

	assert.Equal(t, "ref", tag.directives[1].Prefix)
	assert.Equal(t, "main", tag.directives[1].Name)
	assert.Nil(t, tag.directives[1].Value)

	assert.Equal(t, "class", tag.directives[2].Prefix)

	// Unrecognized prefixes stay ordinary attributes.
	require.Len(t, tag.attributes, 1)
	assert.Equal(t, "data-x", tag.attributes[0].Name.(*Identifier).Name)
}

func TestDirectives_UnknownPrefixKept(t *testing.T) {
	tag := parseTag(t, `<svg xlink:href="#icon">`)
	assert.Empty(t, tag.directives)
	require.Len(t, tag.attributes, 1)
	assert.Equal(t, "xlink:href", tag.attributes[0].Name.(*Identifier).Name)
}

func TestSlotSelectorsMustBeStatic(t *testing.T) {
	_, err := openTag(newScanner(`<slot name={dyn}>`, "test.html"), nil)
	require.NotNil(t, err)
	assert.Contains(t, err.Message, `"name" attribute of <slot> must be a static string`)

	_, err = openTag(newScanner(`<div slot={dyn}>`, "test.html"), nil)
	require.NotNil(t, err)
	assert.Contains(t, err.Message, `"slot" attribute of <div> must be a static string`)

	tag := parseTag(t, `<slot name="header">`)
	require.Len(t, tag.attributes, 1)
}

func TestCloseTag(t *testing.T) {
	s := newScanner("</div>", "test.html")
	tag, err := closeTag(s)
	require.Nil(t, err)
	require.NotNil(t, tag)
	assert.Equal(t, "div", tag.name.Name)
	assert.Equal(t, tagClose, tag.kind)
	assert.True(t, s.eof())
}

func TestTagNameGrammar(t *testing.T) {
	// The markup grammar is more permissive than expression identifiers:
	// colons, dashes and dots are all name characters.
	for _, name := range []string{"e:for-each", "my-widget", "ns:a.b"} {
		tag := parseTag(t, "<"+name+">")
		assert.Equal(t, name, tag.name.Name)
	}
}
