package rules

import (
	"github.com/phobologic/backbonelint/internal/ast"
	"github.com/phobologic/backbonelint/internal/backbone"
)

// Traverse walks root once and dispatches every node to each handler set.
func Traverse(root ast.Node, hs []Handlers) {
	ast.Walk(root, func(n ast.Node) bool {
		switch v := n.(type) {
		case *ast.CallExpression:
			for i := range hs {
				if hs[i].CallExpression != nil {
					hs[i].CallExpression(v)
				}
			}
		case *ast.MemberExpression:
			for i := range hs {
				if hs[i].MemberExpression != nil {
					hs[i].MemberExpression(v)
				}
			}
		case *ast.Property:
			for i := range hs {
				if hs[i].Property != nil {
					hs[i].Property(v)
				}
			}
		case *ast.AssignmentExpression:
			for i := range hs {
				if hs[i].AssignmentExpression != nil {
					hs[i].AssignmentExpression(v)
				}
			}
		}
		return true
	}, func(n ast.Node) {
		v, ok := n.(*ast.CallExpression)
		if !ok {
			return
		}
		for i := range hs {
			if hs[i].CallExpressionExit != nil {
				hs[i].CallExpressionExit(v)
			}
		}
	})
}

// definitionScope tracks how many definitions of one role enclose the node
// currently being visited.
type definitionScope struct {
	depth    int
	match    func(ast.Node, *backbone.Settings) bool
	settings *backbone.Settings
}

func newDefinitionScope(ctx *Context, match func(ast.Node, *backbone.Settings) bool) *definitionScope {
	return &definitionScope{match: match, settings: ctx.Settings}
}

func (s *definitionScope) enter(call *ast.CallExpression) {
	if s.match(call, s.settings) {
		s.depth++
	}
}

func (s *definitionScope) exit(call *ast.CallExpression) {
	if s.depth > 0 && s.match(call, s.settings) {
		s.depth--
	}
}

func (s *definitionScope) inside() bool {
	return s.depth > 0
}

// propertyChain returns the ancestors of p's value used by the
// backbone.IsPropertyIn* checks.
func propertyChain(p *ast.Property) []ast.Node {
	if p.Value == nil {
		return nil
	}
	return ast.Ancestors(p.Value, backbone.PropertyChainDepth)
}

// isThisMember reports whether n is this.<name>.
func isThisMember(n ast.Node, name string) bool {
	m, ok := n.(*ast.MemberExpression)
	if !ok || m.Computed {
		return false
	}
	_, isThis := m.Object.(*ast.ThisExpression)
	return isThis && ast.IsIdentNamed(m.Property, name)
}
