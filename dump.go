package endtpl

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Dump renders an indented XML outline of an AST subtree. The output is a
// diagnostic view for golden tests and debugging, not a serialization of the
// template.
func Dump(n Node) string {
	doc := etree.NewDocument()
	doc.AddChild(dumpNode(n))
	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return fmt.Sprintf("<!-- dump failed: %v -->", err)
	}
	return strings.TrimRight(out, "\n")
}

func dumpNode(n Node) *etree.Element {
	el := etree.NewElement(nodeName(n))
	switch v := n.(type) {
	case *Identifier:
		el.CreateAttr("name", v.Name)
		if v.Context != CtxUnset {
			el.CreateAttr("context", string(v.Context))
		}
	case *Literal:
		el.CreateAttr("value", literalString(v.Value))
	case *Program:
		if v.Raw != "" {
			el.CreateAttr("raw", v.Raw)
		}
	case *BinaryExpression:
		el.CreateAttr("op", v.Operator)
	case *LogicalExpression:
		el.CreateAttr("op", v.Operator)
	case *UnaryExpression:
		el.CreateAttr("op", v.Operator)
	case *UpdateExpression:
		el.CreateAttr("op", v.Operator)
		if v.Prefix {
			el.CreateAttr("prefix", "true")
		}
	case *AssignmentExpression:
		el.CreateAttr("op", v.Operator)
	case *MemberExpression:
		if v.Computed {
			el.CreateAttr("computed", "true")
		}
	case *Property:
		if v.Shorthand {
			el.CreateAttr("shorthand", "true")
		}
		if v.Computed {
			el.CreateAttr("computed", "true")
		}

	case *ENDProgram:
		if v.URL != "" {
			el.CreateAttr("url", v.URL)
		}
	case *ENDElement:
		el.CreateAttr("name", v.Name.Name)
		if v.Component {
			el.CreateAttr("component", "true")
		}
	case *ENDDirective:
		el.CreateAttr("prefix", v.Prefix)
		el.CreateAttr("name", v.Name)
	case *ENDVariable:
		el.CreateAttr("name", v.Name)
	case *ENDImport:
		el.CreateAttr("name", v.Name)
		el.CreateAttr("href", v.Href)
	case *ENDStylesheet:
		el.CreateAttr("mime", v.Mime)
		if v.URL != "" {
			el.CreateAttr("url", v.URL)
		}
	case *ENDScript:
		el.CreateAttr("mime", v.Mime)
		if v.URL != "" {
			el.CreateAttr("url", v.URL)
		}
	}
	for _, c := range children(n) {
		if c != nil {
			el.AddChild(dumpNode(c))
		}
	}
	if prog, ok := n.(*ENDProgram); ok {
		for _, sheet := range prog.Stylesheets {
			el.AddChild(dumpNode(sheet))
		}
		for _, script := range prog.Scripts {
			el.AddChild(dumpNode(script))
		}
	}
	return el
}

// nodeName maps a node to its element name in the outline.
func nodeName(n Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*endtpl.")
}

func literalString(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case undefinedValue:
		return "undefined"
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
