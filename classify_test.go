package endtpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classifyString(t *testing.T, code string, helpers ...string) *Program {
	t.Helper()
	prog, err := ParseExpression(code, &Options{Helpers: helpers})
	require.NoError(t, err)
	return prog
}

// identByName finds the first classified identifier with the given name.
func identByName(t *testing.T, prog *Program, name string) *Identifier {
	t.Helper()
	var found *Identifier
	Walk(prog, func(n Node) {
		if id, ok := n.(*Identifier); ok && id.Name == name && found == nil {
			found = id
		}
	})
	require.NotNil(t, found, "identifier %q not found", name)
	return found
}

func TestClassify_Sigils(t *testing.T) {
	tests := []struct {
		code string
		name string
		want IdentifierContext
	}{
		{"plain", "plain", CtxProperty},
		{"#count", "count", CtxState},
		{"@index", "index", CtxVariable},
		{"$settings", "settings", CtxStore},
	}
	for _, tt := range tests {
		prog := classifyString(t, tt.code)
		id := identByName(t, prog, tt.name)
		assert.Equal(t, tt.want, id.Context, tt.code)
	}
}

func TestClassify_Helpers(t *testing.T) {
	prog := classifyString(t, "formatDate(created)", "formatDate")
	assert.Equal(t, CtxHelper, identByName(t, prog, "formatDate").Context)
	assert.Equal(t, CtxProperty, identByName(t, prog, "created").Context)

	// Without registration the same name is an ordinary property.
	prog = classifyString(t, "formatDate(created)")
	assert.Equal(t, CtxProperty, identByName(t, prog, "formatDate").Context)
}

func TestClassify_MemberProperty(t *testing.T) {
	prog := classifyString(t, "user.name")
	assert.Equal(t, CtxProperty, identByName(t, prog, "user").Context)
	assert.Equal(t, CtxUnset, identByName(t, prog, "name").Context)

	// A computed property is an ordinary reference.
	prog = classifyString(t, "user[key]")
	assert.Equal(t, CtxProperty, identByName(t, prog, "key").Context)
}

func TestClassify_ObjectKeys(t *testing.T) {
	prog := classifyString(t, "{ size: width }")
	assert.Equal(t, CtxUnset, identByName(t, prog, "size").Context)
	assert.Equal(t, CtxProperty, identByName(t, prog, "width").Context)

	// A shorthand property is both key and reference and gets classified.
	prog = classifyString(t, "{ width }")
	assert.Equal(t, CtxProperty, identByName(t, prog, "width").Context)
}

func TestClassify_FunctionParams(t *testing.T) {
	prog := classifyString(t, "items.map(item => item.id + total)")
	fn := nodesOfType[*ArrowFunctionExpression](prog)[0]
	assert.Equal(t, CtxUnset, fn.Params[0].Context)

	// The body reference to the parameter is shadowed; outer names are not.
	var refs []*Identifier
	Walk(fn.Body, func(n Node) {
		if id, ok := n.(*Identifier); ok {
			refs = append(refs, id)
		}
	})
	byName := map[string]IdentifierContext{}
	for _, id := range refs {
		byName[id.Name] = id.Context
	}
	assert.Equal(t, CtxUnset, byName["item"])
	assert.Equal(t, CtxProperty, byName["total"])
}

func TestClassify_NestedShadowing(t *testing.T) {
	// The inner arrow's parameter shadows at every depth below it.
	prog := classifyString(t, "rows.map(row => row.cells.map(cell => cell + row.id))")
	Walk(prog, func(n Node) {
		id, ok := n.(*Identifier)
		if !ok {
			return
		}
		switch id.Name {
		case "row", "cell":
			assert.Equal(t, CtxUnset, id.Context, id.Name)
		case "rows":
			assert.Equal(t, CtxProperty, id.Context)
		}
	})
}

func TestClassify_SigilMatchesParam(t *testing.T) {
	// A sigil-prefixed reference to an enclosing parameter is shadowed too:
	// the comparison strips sigils.
	prog := classifyString(t, "fn(item => #item)")
	fn := nodesOfType[*ArrowFunctionExpression](prog)[0]
	body, ok := fn.Body.(*Identifier)
	require.True(t, ok)
	assert.Equal(t, "#item", body.Name)
	assert.Equal(t, CtxUnset, body.Context)
}

func TestClassify_Intrinsics(t *testing.T) {
	prog := classifyString(t, "Math.round(price)")
	assert.Equal(t, CtxUnset, identByName(t, prog, "Math").Context)
	assert.Equal(t, CtxProperty, identByName(t, prog, "price").Context)
}

func TestClassify_AssignmentTarget(t *testing.T) {
	prog := classifyString(t, "total = total + 1")
	var ids []*Identifier
	Walk(prog, func(n Node) {
		if id, ok := n.(*Identifier); ok && id.Name == "total" {
			ids = append(ids, id)
		}
	})
	require.Len(t, ids, 2)
	assert.Equal(t, CtxUnset, ids[0].Context)
	assert.Equal(t, CtxProperty, ids[1].Context)
}

func TestClassify_Idempotent(t *testing.T) {
	prog := classifyString(t, "#count + @index + $store + plain")
	var before []string
	Walk(prog, func(n Node) {
		if id, ok := n.(*Identifier); ok {
			before = append(before, id.Name+"/"+string(id.Context))
		}
	})

	classify(prog, nil)

	var after []string
	Walk(prog, func(n Node) {
		if id, ok := n.(*Identifier); ok {
			after = append(after, id.Name+"/"+string(id.Context))
		}
	})
	assert.Equal(t, before, after)
}

func nodesOfType[T Node](root Node) []T {
	var out []T
	Walk(root, func(n Node) {
		if v, ok := n.(T); ok {
			out = append(out, v)
		}
	})
	return out
}
