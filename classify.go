package endtpl

import "strings"

// intrinsicGlobals are names that refer to the host environment rather than
// component scope. They are never classified.
var intrinsicGlobals = map[string]bool{
	"Math": true, "JSON": true, "Array": true, "Object": true,
	"String": true, "Number": true, "Boolean": true, "Date": true,
	"RegExp": true, "console": true, "window": true,
	"NaN": true, "Infinity": true,
}

// classify tags every identifier in the expression tree with its binding
// category. The pass is purely syntactic and idempotent: a second run is a
// no-op because sigils have been stripped and contexts set.
func classify(prog *Program, helpers map[string]bool) {
	WalkAncestors(prog, func(n Node, ancestors []Node) {
		id, ok := n.(*Identifier)
		if !ok || id.Context != CtxUnset {
			return
		}
		if intrinsicGlobals[id.Name] {
			return
		}
		if reservedIdentifier(id, ancestors) {
			return
		}
		switch {
		case strings.HasPrefix(id.Name, "#"):
			id.Name = id.Name[1:]
			id.Context = CtxState
		case strings.HasPrefix(id.Name, "@"):
			id.Name = id.Name[1:]
			id.Context = CtxVariable
		case strings.HasPrefix(id.Name, "$"):
			id.Name = id.Name[1:]
			id.Context = CtxStore
		case helpers[id.Name]:
			id.Context = CtxHelper
		default:
			id.Context = CtxProperty
		}
	})
}

// reservedIdentifier reports whether id is fixed by its syntactic position
// and must keep an unset context: a parameter of any enclosing function or
// arrow literal (shadowing applies at every ancestor depth), the non-computed
// property name of a member access, a non-computed object key, or the direct
// target of an assignment.
func reservedIdentifier(id *Identifier, ancestors []Node) bool {
	if len(ancestors) > 0 {
		switch parent := ancestors[len(ancestors)-1].(type) {
		case *MemberExpression:
			if parent.Property == Expression(id) && !parent.Computed {
				return true
			}
		case *Property:
			if parent.Key == Expression(id) && !parent.Computed && !parent.Shorthand {
				return true
			}
		case *AssignmentExpression:
			if parent.Left == Expression(id) {
				return true
			}
		case *FunctionExpression:
			if parent.ID == id {
				return true
			}
		}
	}
	name := strings.TrimLeft(id.Name, "#@$")
	for _, anc := range ancestors {
		var params []*Identifier
		switch fn := anc.(type) {
		case *ArrowFunctionExpression:
			params = fn.Params
		case *FunctionExpression:
			params = fn.Params
		default:
			continue
		}
		for _, p := range params {
			if p == id || p.Name == name {
				return true
			}
		}
	}
	return false
}
