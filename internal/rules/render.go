package rules

import (
	"github.com/phobologic/backbonelint/internal/ast"
	"github.com/phobologic/backbonelint/internal/backbone"
)

func init() {
	register(&Rule{
		Name:        "render-return",
		Description: "Require a view's render method to return this",
		Recommended: Error,
		Create:      createRenderReturn,
	})
}

func createRenderReturn(ctx *Context) Handlers {
	return Handlers{
		Property: func(p *ast.Property) {
			if name, ok := ast.PropertyName(p); !ok || name != "render" {
				return
			}
			fn, ok := p.Value.(*ast.FunctionExpression)
			if !ok {
				return
			}
			if !backbone.IsPropertyInView(propertyChain(p), ctx.Settings) {
				return
			}
			if !returnsThis(fn) {
				ctx.Report(p, "render should return this")
			}
		},
	}
}

// returnsThis reports whether fn has a `return this` outside any nested
// function. An arrow function with an expression body returns that
// expression.
func returnsThis(fn *ast.FunctionExpression) bool {
	if fn.Body == nil {
		return false
	}
	if fn.Arrow {
		if _, ok := fn.Body.(*ast.ThisExpression); ok {
			return true
		}
	}

	found := false
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		if found {
			return false
		}
		switch v := n.(type) {
		case *ast.FunctionExpression:
			return false
		case *ast.ReturnStatement:
			if _, ok := v.Argument.(*ast.ThisExpression); ok {
				found = true
			}
		}
		return true
	})
	return found
}
