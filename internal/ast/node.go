// Package ast models the subset of an ESTree-shaped JavaScript syntax tree
// that the Backbone classifier and the lint rules inspect.
//
// Every node kind is its own struct implementing Node, so callers match on
// kinds with a type switch instead of probing loosely typed fields.
package ast

// Position is a 1-based line and 1-based column.
type Position struct {
	Line   int
	Column int
}

// Span locates a node in its source file.
type Span struct {
	Start     Position
	End       Position
	StartByte uint32
	EndByte   uint32
}

// Node is implemented by every syntax node kind in this package.
type Node interface {
	// Parent returns the enclosing node, or nil for the Program root.
	Parent() Node
	// Span returns the source location of the node.
	Span() Span

	setParent(Node)
}

type base struct {
	parent Node
	span   Span
}

func (b *base) Parent() Node { return b.parent }
func (b *base) Span() Span { return b.span }
func (b *base) setParent(p Node) { b.parent = p }

// Program is the root of a converted file.
type Program struct {
	base
	Body []Node
}

// Identifier is a bare name: a variable reference, a property name after a
// dot, or an object literal key.
type Identifier struct {
	base
	Name string
}

// MemberExpression is object.property, or object[property] when Computed.
type MemberExpression struct {
	base
	Object   Node
	Property Node
	Computed bool
}

// CallExpression is callee(arguments...). NewExpression calls use the same
// node with New set.
type CallExpression struct {
	base
	Callee    Node
	Arguments []Node
	New       bool
}

// ObjectExpression is an object literal.
type ObjectExpression struct {
	base
	Properties []Node
}

// Property is one key/value entry of an object literal. Method is set for
// the `name() {}` shorthand, Shorthand for `{ name }`.
type Property struct {
	base
	Key       Node
	Value     Node
	Method    bool
	Shorthand bool
}

// FunctionExpression covers function expressions, arrow functions and the
// function value of a method shorthand.
type FunctionExpression struct {
	base
	Params []Node
	Body   Node
	Arrow  bool
}

// ThisExpression is the `this` keyword.
type ThisExpression struct {
	base
}

// Literal is a string, number, boolean, null, regex or template literal.
type Literal struct {
	base
	Raw string
}

// AssignmentExpression is left = right, including compound operators.
type AssignmentExpression struct {
	base
	Operator string
	Left     Node
	Right    Node
}

// ReturnStatement is `return` with an optional argument.
type ReturnStatement struct {
	base
	Argument Node
}

// Other holds any construct without a dedicated kind. Type is the
// tree-sitter node type it was converted from.
type Other struct {
	base
	Type     string
	Children []Node
}

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	switch v := n.(type) {
	case *Program:
		out = append(out, v.Body...)
	case *MemberExpression:
		add(v.Object)
		add(v.Property)
	case *CallExpression:
		add(v.Callee)
		out = append(out, v.Arguments...)
	case *ObjectExpression:
		out = append(out, v.Properties...)
	case *Property:
		if v.Shorthand {
			add(v.Value)
			break
		}
		add(v.Key)
		add(v.Value)
	case *FunctionExpression:
		out = append(out, v.Params...)
		add(v.Body)
	case *AssignmentExpression:
		add(v.Left)
		add(v.Right)
	case *ReturnStatement:
		add(v.Argument)
	case *Other:
		out = append(out, v.Children...)
	case *Identifier, *ThisExpression, *Literal:
	}
	return out
}

// IdentName returns the name of n when n is an Identifier.
func IdentName(n Node) (string, bool) {
	id, ok := n.(*Identifier)
	if !ok || id == nil {
		return "", false
	}
	return id.Name, true
}

// IsIdentNamed reports whether n is an Identifier called name.
func IsIdentNamed(n Node, name string) bool {
	got, ok := IdentName(n)
	return ok && got == name
}

// PropertyName returns the static key of a non-computed object property:
// an identifier key or a string literal key with its quotes removed.
func PropertyName(p *Property) (string, bool) {
	if p == nil {
		return "", false
	}
	switch k := p.Key.(type) {
	case *Identifier:
		return k.Name, true
	case *Literal:
		if len(k.Raw) >= 2 && (k.Raw[0] == '"' || k.Raw[0] == '\'') && k.Raw[len(k.Raw)-1] == k.Raw[0] {
			return k.Raw[1 : len(k.Raw)-1], true
		}
	}
	return "", false
}

// Ancestors returns up to depth ancestors of n, nearest first.
func Ancestors(n Node, depth int) []Node {
	chain := make([]Node, 0, depth)
	for cur := n; cur != nil && len(chain) < depth; {
		p := cur.Parent()
		if p == nil {
			break
		}
		chain = append(chain, p)
		cur = p
	}
	return chain
}

// Text returns the source text covered by n.
func Text(n Node, source []byte) string {
	s := n.Span()
	if int(s.EndByte) > len(source) || s.StartByte > s.EndByte {
		return ""
	}
	return string(source[s.StartByte:s.EndByte])
}
