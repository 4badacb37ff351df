package ast

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Convert builds a Program from a tree-sitter JavaScript or TypeScript parse
// tree. Parenthesized expressions are unwrapped and comments dropped, so the
// result has the same parent chains as an ESTree produced by a JS parser:
// a property value's third ancestor is the call its object literal is
// passed to.
func Convert(root *sitter.Node, source []byte) *Program {
	prog := &Program{}
	if root == nil {
		return prog
	}
	prog.span = spanOf(root)
	c := converter{source: source}
	prog.Body = c.list(namedChildren(root), prog)
	return prog
}

type converter struct {
	source []byte
}

func (c *converter) list(nodes []*sitter.Node, parent Node) []Node {
	var out []Node
	for _, n := range nodes {
		if conv := c.convert(n, parent); conv != nil {
			out = append(out, conv)
		}
	}
	return out
}

func (c *converter) convert(n *sitter.Node, parent Node) Node {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case "comment":
		return nil

	case "parenthesized_expression":
		kids := namedChildren(n)
		if len(kids) == 1 {
			return c.convert(kids[0], parent)
		}

	case "identifier", "property_identifier", "shorthand_property_identifier",
		"private_property_identifier", "statement_identifier":
		id := &Identifier{Name: n.Content(c.source)}
		attach(&id.base, n, parent)
		return id

	case "this":
		th := &ThisExpression{}
		attach(&th.base, n, parent)
		return th

	case "string", "template_string", "number", "true", "false", "null",
		"undefined", "regex":
		lit := &Literal{Raw: n.Content(c.source)}
		attach(&lit.base, n, parent)
		return lit

	case "member_expression":
		m := &MemberExpression{}
		attach(&m.base, n, parent)
		m.Object = c.convert(n.ChildByFieldName("object"), m)
		m.Property = c.convert(n.ChildByFieldName("property"), m)
		return m

	case "subscript_expression":
		m := &MemberExpression{Computed: true}
		attach(&m.base, n, parent)
		m.Object = c.convert(n.ChildByFieldName("object"), m)
		m.Property = c.convert(n.ChildByFieldName("index"), m)
		return m

	case "call_expression":
		call := &CallExpression{}
		attach(&call.base, n, parent)
		call.Callee = c.convert(n.ChildByFieldName("function"), call)
		call.Arguments = c.arguments(n.ChildByFieldName("arguments"), call)
		return call

	case "new_expression":
		call := &CallExpression{New: true}
		attach(&call.base, n, parent)
		call.Callee = c.convert(n.ChildByFieldName("constructor"), call)
		call.Arguments = c.arguments(n.ChildByFieldName("arguments"), call)
		return call

	case "object":
		obj := &ObjectExpression{}
		attach(&obj.base, n, parent)
		for _, kid := range namedChildren(n) {
			if p := c.property(kid, obj); p != nil {
				obj.Properties = append(obj.Properties, p)
			}
		}
		return obj

	case "pair", "method_definition":
		return c.property(n, parent)

	case "function_expression", "function", "arrow_function", "generator_function",
		"function_declaration", "generator_function_declaration":
		return c.function(n, parent)

	case "assignment_expression", "augmented_assignment_expression":
		a := &AssignmentExpression{Operator: "="}
		attach(&a.base, n, parent)
		if op := n.ChildByFieldName("operator"); op != nil {
			a.Operator = op.Content(c.source)
		}
		a.Left = c.convert(n.ChildByFieldName("left"), a)
		a.Right = c.convert(n.ChildByFieldName("right"), a)
		return a

	case "return_statement":
		r := &ReturnStatement{}
		attach(&r.base, n, parent)
		if kids := namedChildren(n); len(kids) > 0 {
			r.Argument = c.convert(kids[0], r)
		}
		return r
	}

	o := &Other{Type: n.Type()}
	attach(&o.base, n, parent)
	o.Children = c.list(namedChildren(n), o)
	return o
}

// arguments flattens the tree-sitter `arguments` wrapper so every argument is
// a direct child of the call. A tagged template passes its template as the
// only argument.
func (c *converter) arguments(args *sitter.Node, call *CallExpression) []Node {
	if args == nil {
		return nil
	}
	if args.Type() != "arguments" {
		if conv := c.convert(args, call); conv != nil {
			return []Node{conv}
		}
		return nil
	}
	return c.list(namedChildren(args), call)
}

func (c *converter) property(n *sitter.Node, parent Node) Node {
	switch n.Type() {
	case "pair":
		p := &Property{}
		attach(&p.base, n, parent)
		p.Key = c.convert(n.ChildByFieldName("key"), p)
		p.Value = c.convert(n.ChildByFieldName("value"), p)
		return p

	case "method_definition":
		p := &Property{Method: true}
		attach(&p.base, n, parent)
		p.Key = c.convert(n.ChildByFieldName("name"), p)
		p.Value = c.function(n, p)
		return p

	case "shorthand_property_identifier":
		p := &Property{Shorthand: true}
		attach(&p.base, n, parent)
		p.Key = c.convert(n, p)
		p.Value = c.convert(n, p)
		return p
	}
	return c.convert(n, parent)
}

func (c *converter) function(n *sitter.Node, parent Node) Node {
	fn := &FunctionExpression{Arrow: n.Type() == "arrow_function"}
	attach(&fn.base, n, parent)
	if single := n.ChildByFieldName("parameter"); single != nil {
		fn.Params = c.list([]*sitter.Node{single}, fn)
	} else if params := n.ChildByFieldName("parameters"); params != nil {
		fn.Params = c.list(namedChildren(params), fn)
	}
	fn.Body = c.convert(n.ChildByFieldName("body"), fn)
	return fn
}

func attach(b *base, n *sitter.Node, parent Node) {
	b.parent = parent
	b.span = spanOf(n)
}

func spanOf(n *sitter.Node) Span {
	start, end := n.StartPoint(), n.EndPoint()
	return Span{
		Start:     Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1},
		End:       Position{Line: int(end.Row) + 1, Column: int(end.Column) + 1},
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
	}
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}
