package endtpl

// children returns the child nodes of n in source order. This table drives
// the generic walkers; adding a node type means adding a case here.
func children(n Node) []Node {
	switch n := n.(type) {
	case *Program:
		if n.Expression != nil {
			return []Node{n.Expression}
		}
	case *Identifier, *Literal:
		// leaves
	case *MemberExpression:
		return []Node{n.Object, n.Property}
	case *CallExpression:
		out := []Node{n.Callee}
		for _, a := range n.Arguments {
			out = append(out, a)
		}
		return out
	case *BinaryExpression:
		return []Node{n.Left, n.Right}
	case *LogicalExpression:
		return []Node{n.Left, n.Right}
	case *ConditionalExpression:
		return []Node{n.Test, n.Consequent, n.Alternate}
	case *AssignmentExpression:
		return []Node{n.Left, n.Right}
	case *SequenceExpression:
		return nodesOf(n.Expressions)
	case *UnaryExpression:
		return []Node{n.Argument}
	case *UpdateExpression:
		return []Node{n.Argument}
	case *ArrowFunctionExpression:
		out := make([]Node, 0, len(n.Params)+1)
		for _, p := range n.Params {
			out = append(out, p)
		}
		return append(out, n.Body)
	case *FunctionExpression:
		out := make([]Node, 0, len(n.Params)+2)
		if n.ID != nil {
			out = append(out, n.ID)
		}
		for _, p := range n.Params {
			out = append(out, p)
		}
		return append(out, n.Body)
	case *ArrayExpression:
		return nodesOf(n.Elements)
	case *ObjectExpression:
		out := make([]Node, len(n.Properties))
		for i, p := range n.Properties {
			out[i] = p
		}
		return out
	case *Property:
		if n.Shorthand {
			return []Node{n.Value}
		}
		return []Node{n.Key, n.Value}

	case *ENDProgram:
		return nodesOf(n.Body)
	case *ENDTemplate:
		return nodesOf(n.Body)
	case *ENDPartial:
		out := []Node{n.ID}
		for _, p := range n.Params {
			out = append(out, p)
		}
		return append(out, nodesOf(n.Body)...)
	case *ENDElement:
		out := []Node{n.Name}
		for _, a := range n.Attributes {
			out = append(out, a)
		}
		for _, d := range n.Directives {
			out = append(out, d)
		}
		return append(out, nodesOf(n.Body)...)
	case *ENDAttribute:
		out := []Node{n.Name}
		if n.Value != nil {
			out = append(out, n.Value)
		}
		return out
	case *ENDDirective:
		if n.Value != nil {
			return []Node{n.Value}
		}
	case *ENDAttributeValueExpression:
		return nodesOf(n.Elements)
	case *ENDIfStatement:
		return append([]Node{n.Test}, nodesOf(n.Consequent)...)
	case *ENDChooseStatement:
		out := make([]Node, len(n.Cases))
		for i, c := range n.Cases {
			out[i] = c
		}
		return out
	case *ENDChooseCase:
		var out []Node
		if n.Test != nil {
			out = append(out, n.Test)
		}
		return append(out, nodesOf(n.Consequent)...)
	case *ENDForEachStatement:
		out := []Node{n.Select}
		if n.Key != nil {
			out = append(out, n.Key)
		}
		return append(out, nodesOf(n.Body)...)
	case *ENDVariableStatement:
		out := make([]Node, len(n.Variables))
		for i, v := range n.Variables {
			out[i] = v
		}
		return out
	case *ENDVariable:
		if n.Value != nil {
			return []Node{n.Value}
		}
	case *ENDAttributeStatement:
		var out []Node
		for _, a := range n.Attributes {
			out = append(out, a)
		}
		for _, d := range n.Directives {
			out = append(out, d)
		}
		return out
	case *ENDAddClassStatement:
		return nodesOf(n.Tokens)
	case *ENDInnerHTML:
		return []Node{n.Value}
	case *ENDPartialStatement:
		out := []Node{n.ID}
		for _, p := range n.Params {
			out = append(out, p)
		}
		return out
	case *ENDImport, *ENDStylesheet, *ENDScript:
		// leaves: content literals are raw text, not walkable markup
	}
	return nil
}

func nodesOf[T Node](list []T) []Node {
	out := make([]Node, len(list))
	for i, n := range list {
		out[i] = n
	}
	return out
}

// Walk traverses the tree rooted at n in pre-order, calling visit for every
// node. Callbacks may mutate node fields in place but must not change tree
// shape mid-walk.
func Walk(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range children(n) {
		Walk(c, visit)
	}
}

// WalkAncestors is Walk with an ancestor stack threaded through: visit
// receives the chain of enclosing nodes, outermost first, not including n
// itself. The slice is reused between calls; callers must copy it to retain.
func WalkAncestors(n Node, visit func(n Node, ancestors []Node)) {
	var stack []Node
	var rec func(Node)
	rec = func(n Node) {
		if n == nil {
			return
		}
		visit(n, stack)
		stack = append(stack, n)
		for _, c := range children(n) {
			rec(c)
		}
		stack = stack[:len(stack)-1]
	}
	rec(n)
}

// rebaseNode shifts every location in the tree rooted at n from inner-parse
// coordinates into document coordinates at base.
func rebaseNode(n Node, base Position) {
	Walk(n, func(n Node) {
		b := n.base()
		b.Start += base.Offset
		b.End += base.Offset
		if b.Loc != nil {
			b.Loc.Start = rebasePosition(b.Loc.Start, base)
			b.Loc.End = rebasePosition(b.Loc.End, base)
		}
	})
}
