package rules

import (
	"slices"

	"github.com/phobologic/backbonelint/internal/ast"
	"github.com/phobologic/backbonelint/internal/backbone"
)

var defaultEventsAllow = []string{"tagName", "className"}

func init() {
	register(&Rule{
		Name:        "model-defaults",
		Description: "Require models to declare defaults",
		Recommended: Warn,
		Create: func(ctx *Context) Handlers {
			return requireProperty(ctx, backbone.IsModel, "defaults", "Model definition is missing a defaults property")
		},
	})
	register(&Rule{
		Name:        "collection-model",
		Description: "Require collections to declare their model",
		Recommended: Warn,
		Create: func(ctx *Context) Handlers {
			return requireProperty(ctx, backbone.IsCollection, "model", "Collection definition is missing a model property")
		},
	})
	register(&Rule{
		Name:        "defaults-on-top",
		Description: "Require defaults to be the first property of a model",
		Recommended: Warn,
		Create: func(ctx *Context) Handlers {
			return propertyOnTop(ctx, backbone.IsPropertyInModel, "defaults", nil, "defaults should be the first property of a model")
		},
	})
	register(&Rule{
		Name:        "events-on-top",
		Description: "Require events to be the first property of a view",
		Recommended: Warn,
		Create: func(ctx *Context) Handlers {
			allow := ctx.Options.Allow
			if allow == nil {
				allow = defaultEventsAllow
			}
			return propertyOnTop(ctx, backbone.IsPropertyInView, "events", allow, "events should be the first property of a view")
		},
	})
	register(&Rule{
		Name:        "no-constructor",
		Description: "Use initialize instead of overriding constructor in Backbone definitions",
		Recommended: Error,
		Create:      createNoConstructor,
	})
}

// definitionObject returns the object literal passed to a definition call.
// ok is false when the first argument is not an object literal.
func definitionObject(call *ast.CallExpression) (*ast.ObjectExpression, bool) {
	if len(call.Arguments) == 0 {
		return &ast.ObjectExpression{}, true
	}
	obj, ok := call.Arguments[0].(*ast.ObjectExpression)
	return obj, ok
}

func hasProperty(obj *ast.ObjectExpression, key string) bool {
	for _, n := range obj.Properties {
		if p, ok := n.(*ast.Property); ok {
			if name, ok := ast.PropertyName(p); ok && name == key {
				return true
			}
		}
	}
	return false
}

func requireProperty(ctx *Context, is func(ast.Node, *backbone.Settings) bool, key, msg string) Handlers {
	return Handlers{
		CallExpression: func(call *ast.CallExpression) {
			if !is(call, ctx.Settings) {
				return
			}
			obj, ok := definitionObject(call)
			if ok && !hasProperty(obj, key) {
				ctx.Report(call, msg)
			}
		},
	}
}

// propertyOnTop reports key when any property other than those in allow
// precedes it in the definition object.
func propertyOnTop(ctx *Context, in func([]ast.Node, *backbone.Settings) bool, key string, allow []string, msg string) Handlers {
	return Handlers{
		Property: func(p *ast.Property) {
			if name, ok := ast.PropertyName(p); !ok || name != key {
				return
			}
			if !in(propertyChain(p), ctx.Settings) {
				return
			}
			obj, ok := p.Parent().(*ast.ObjectExpression)
			if !ok {
				return
			}
			for _, sibling := range obj.Properties {
				if sibling == ast.Node(p) {
					return
				}
				sp, ok := sibling.(*ast.Property)
				if !ok {
					ctx.Report(p, msg)
					return
				}
				if name, ok := ast.PropertyName(sp); !ok || !slices.Contains(allow, name) {
					ctx.Report(p, msg)
					return
				}
			}
		},
	}
}

func createNoConstructor(ctx *Context) Handlers {
	return Handlers{
		Property: func(p *ast.Property) {
			if name, ok := ast.PropertyName(p); !ok || name != "constructor" {
				return
			}
			if backbone.IsPropertyInAny(propertyChain(p), ctx.Settings) {
				ctx.Report(p, "Use initialize instead of overriding constructor")
			}
		},
	}
}
