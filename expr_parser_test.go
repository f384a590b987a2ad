package endtpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseExprString(t *testing.T, code string) *Program {
	t.Helper()
	prog, err := parseJS(code, "test.html")
	require.Nil(t, err, "parse %q", code)
	require.NotNil(t, prog.Expression)
	return prog
}

func TestParseJS_Precedence(t *testing.T) {
	prog := parseExprString(t, "1 + 2 * 3")
	add, ok := prog.Expression.(*BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, "+", add.Operator)
	mul, ok := add.Right.(*BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Operator)

	prog = parseExprString(t, "a || b && c")
	or, ok := prog.Expression.(*LogicalExpression)
	require.True(t, ok)
	assert.Equal(t, "||", or.Operator)
	and, ok := or.Right.(*LogicalExpression)
	require.True(t, ok)
	assert.Equal(t, "&&", and.Operator)
}

func TestParseJS_ExponentRightAssociative(t *testing.T) {
	prog := parseExprString(t, "2 ** 3 ** 2")
	top, ok := prog.Expression.(*BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, "**", top.Operator)
	_, leftIsLit := top.Left.(*Literal)
	assert.True(t, leftIsLit)
	right, ok := top.Right.(*BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, "**", right.Operator)
}

func TestParseJS_Conditional(t *testing.T) {
	prog := parseExprString(t, "enabled ? 'on' : 'off'")
	cond, ok := prog.Expression.(*ConditionalExpression)
	require.True(t, ok)
	test, ok := cond.Test.(*Identifier)
	require.True(t, ok)
	assert.Equal(t, "enabled", test.Name)
	assert.Equal(t, "on", cond.Consequent.(*Literal).Value)
	assert.Equal(t, "off", cond.Alternate.(*Literal).Value)
}

func TestParseJS_MemberAndCall(t *testing.T) {
	prog := parseExprString(t, "items.filter(f)[0].name")
	outer, ok := prog.Expression.(*MemberExpression)
	require.True(t, ok)
	assert.False(t, outer.Computed)
	assert.Equal(t, "name", outer.Property.(*Identifier).Name)

	idx, ok := outer.Object.(*MemberExpression)
	require.True(t, ok)
	assert.True(t, idx.Computed)

	call, ok := idx.Object.(*CallExpression)
	require.True(t, ok)
	require.Len(t, call.Arguments, 1)
	callee, ok := call.Callee.(*MemberExpression)
	require.True(t, ok)
	assert.Equal(t, "filter", callee.Property.(*Identifier).Name)
}

func TestParseJS_DashIdentifiers(t *testing.T) {
	// A dash followed by an identifier character continues the name.
	prog := parseExprString(t, "item-count")
	id, ok := prog.Expression.(*Identifier)
	require.True(t, ok)
	assert.Equal(t, "item-count", id.Name)

	// A dash followed by whitespace is subtraction, even between names.
	prog = parseExprString(t, "a - b")
	sub, ok := prog.Expression.(*BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, "-", sub.Operator)
	assert.Equal(t, "a", sub.Left.(*Identifier).Name)
	assert.Equal(t, "b", sub.Right.(*Identifier).Name)
}

func TestParseJS_SigilIdentifiers(t *testing.T) {
	prog := parseExprString(t, "#selected && @index > $count")
	and, ok := prog.Expression.(*LogicalExpression)
	require.True(t, ok)
	assert.Equal(t, "#selected", and.Left.(*Identifier).Name)
	gt, ok := and.Right.(*BinaryExpression)
	require.True(t, ok)
	assert.Equal(t, "@index", gt.Left.(*Identifier).Name)
	assert.Equal(t, "$count", gt.Right.(*Identifier).Name)
}

func TestParseJS_Numbers(t *testing.T) {
	tests := []struct {
		code string
		want float64
	}{
		{"42", 42},
		{"3.14", 3.14},
		{"0x1F", 31},
		{"1.5e2", 150},
		{".5", 0.5},
	}
	for _, tt := range tests {
		prog := parseExprString(t, tt.code)
		lit, ok := prog.Expression.(*Literal)
		require.True(t, ok, tt.code)
		assert.Equal(t, tt.want, lit.Value, tt.code)
	}
}

func TestParseJS_Strings(t *testing.T) {
	prog := parseExprString(t, `'it\'s'`)
	lit := prog.Expression.(*Literal)
	assert.Equal(t, "it's", lit.Value)

	prog = parseExprString(t, `"a\nb"`)
	lit = prog.Expression.(*Literal)
	assert.Equal(t, "a\nb", lit.Value)
}

func TestParseJS_KeywordLiterals(t *testing.T) {
	assert.Equal(t, true, parseExprString(t, "true").Expression.(*Literal).Value)
	assert.Equal(t, false, parseExprString(t, "false").Expression.(*Literal).Value)
	assert.Nil(t, parseExprString(t, "null").Expression.(*Literal).Value)
	assert.Equal(t, Undefined, parseExprString(t, "undefined").Expression.(*Literal).Value)
}

func TestParseJS_ObjectLiteral(t *testing.T) {
	prog := parseExprString(t, "{ a: 1, b, 'c d': 2 }")
	obj, ok := prog.Expression.(*ObjectExpression)
	require.True(t, ok)
	require.Len(t, obj.Properties, 3)
	assert.False(t, obj.Properties[0].Shorthand)
	assert.True(t, obj.Properties[1].Shorthand)
	key, ok := obj.Properties[2].Key.(*Literal)
	require.True(t, ok)
	assert.Equal(t, "c d", key.Value)
}

func TestParseJS_ArrowFunctions(t *testing.T) {
	prog := parseExprString(t, "(item, i) => item.id + i")
	fn, ok := prog.Expression.(*ArrowFunctionExpression)
	require.True(t, ok)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "item", fn.Params[0].Name)
	_, ok = fn.Body.(*BinaryExpression)
	assert.True(t, ok)

	prog = parseExprString(t, "x => x * 2")
	fn, ok = prog.Expression.(*ArrowFunctionExpression)
	require.True(t, ok)
	require.Len(t, fn.Params, 1)
}

func TestParseJS_FunctionExpression(t *testing.T) {
	prog := parseExprString(t, "function add(a, b) { return a + b }")
	fn, ok := prog.Expression.(*FunctionExpression)
	require.True(t, ok)
	require.NotNil(t, fn.ID)
	assert.Equal(t, "add", fn.ID.Name)
	require.Len(t, fn.Params, 2)
}

func TestParseJS_UpdateAndUnary(t *testing.T) {
	prog := parseExprString(t, "i++")
	upd, ok := prog.Expression.(*UpdateExpression)
	require.True(t, ok)
	assert.False(t, upd.Prefix)
	assert.Equal(t, "++", upd.Operator)

	prog = parseExprString(t, "--i")
	upd = prog.Expression.(*UpdateExpression)
	assert.True(t, upd.Prefix)

	prog = parseExprString(t, "!done")
	un, ok := prog.Expression.(*UnaryExpression)
	require.True(t, ok)
	assert.Equal(t, "!", un.Operator)

	prog = parseExprString(t, "typeof value")
	un = prog.Expression.(*UnaryExpression)
	assert.Equal(t, "typeof", un.Operator)
}

func TestParseJS_Sequence(t *testing.T) {
	prog := parseExprString(t, "a, b, c")
	seq, ok := prog.Expression.(*SequenceExpression)
	require.True(t, ok)
	assert.Len(t, seq.Expressions, 3)
}

func TestParseJS_Errors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"dangling operator", "a +", "expecting expression"},
		{"trailing token", "1 2", "unexpected token"},
		{"unclosed paren", "(a + b", `expecting ")"`},
		{"bad assignment target", "1 = 2", "invalid assignment target"},
		{"bad update target", "5++", "invalid update target"},
		{"unterminated string", "'abc", "unterminated string"},
		{"bare sigil", "# + 1", "expecting identifier"},
		{"empty input", "", "expecting expression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseJS(tt.code, "test.html")
			require.NotNil(t, err)
			assert.Contains(t, err.Message, tt.want)
		})
	}
}

func TestParseJS_Spans(t *testing.T) {
	code := "first + second"
	prog := parseExprString(t, code)
	assert.Equal(t, 0, prog.Start)
	assert.Equal(t, len(code), prog.End)

	bin := prog.Expression.(*BinaryExpression)
	left := bin.Left.(*Identifier)
	assert.Equal(t, 0, left.Start)
	assert.Equal(t, 5, left.End)
	right := bin.Right.(*Identifier)
	assert.Equal(t, 8, right.Start)
	assert.Equal(t, len(code), right.End)
}
