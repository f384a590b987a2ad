package endtpl

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump_Expression(t *testing.T) {
	prog, err := ParseExpression("#count + 1", nil)
	require.NoError(t, err)
	out := Dump(prog)

	assert.Contains(t, out, `<Program raw="#count + 1">`)
	assert.Contains(t, out, `<BinaryExpression op="+">`)
	assert.Contains(t, out, `<Identifier name="count" context="state"/>`)
	assert.Contains(t, out, `<Literal value="1"/>`)
}

func TestDump_Template(t *testing.T) {
	prog := parseDoc(t, `<e:import href="ui/my-icon.html"/><div class:big/>`)
	out := Dump(prog)

	// The outline must parse back as XML.
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "ENDProgram", root.Tag)

	assert.Contains(t, out, `<ENDImport name="my-icon" href="ui/my-icon.html"/>`)
	assert.Contains(t, out, `<ENDElement name="div"`)
	// The class directive was rewritten into the element body.
	assert.Contains(t, out, "<ENDAddClassStatement>")
	assert.NotContains(t, out, "ENDDirective")
}

func TestDump_Resources(t *testing.T) {
	prog := parseDoc(t, `<link rel="stylesheet" href="theme.css"><template><p/></template>`)
	out := Dump(prog)
	assert.Contains(t, out, `<ENDStylesheet mime="text/css" url="theme.css"/>`)
	assert.Contains(t, out, "<ENDTemplate>")
}
