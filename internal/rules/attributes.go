package rules

import (
	"github.com/phobologic/backbonelint/internal/ast"
	"github.com/phobologic/backbonelint/internal/backbone"
)

func init() {
	register(&Rule{
		Name:        "no-view-model-attributes",
		Description: "Prevent access to a model's attributes collection inside views",
		Recommended: Error,
		Create:      createNoViewModelAttributes,
	})
	register(&Rule{
		Name:        "no-model-attributes",
		Description: "Use get and set instead of the attributes collection inside models",
		Recommended: Error,
		Create:      createNoModelAttributes,
	})
	register(&Rule{
		Name:        "no-el-assign",
		Description: "Use setElement instead of assigning el or $el inside views",
		Recommended: Error,
		Create:      createNoElAssign,
	})
}

func createNoViewModelAttributes(ctx *Context) Handlers {
	views := newDefinitionScope(ctx, backbone.IsView)
	return Handlers{
		CallExpression:     views.enter,
		CallExpressionExit: views.exit,
		MemberExpression: func(m *ast.MemberExpression) {
			if !views.inside() || m.Computed || !ast.IsIdentNamed(m.Property, "attributes") {
				return
			}
			if isThisMember(m.Object, "model") {
				ctx.Report(m, "Do not access model attributes directly inside a view; use this.model.get or this.model.toJSON")
			}
		},
	}
}

func createNoModelAttributes(ctx *Context) Handlers {
	models := newDefinitionScope(ctx, backbone.IsModel)
	return Handlers{
		CallExpression:     models.enter,
		CallExpressionExit: models.exit,
		MemberExpression: func(m *ast.MemberExpression) {
			if models.inside() && isThisMember(m, "attributes") {
				ctx.Report(m, "Use this.get and this.set instead of this.attributes")
			}
		},
	}
}

func createNoElAssign(ctx *Context) Handlers {
	views := newDefinitionScope(ctx, backbone.IsView)
	return Handlers{
		CallExpression:     views.enter,
		CallExpressionExit: views.exit,
		AssignmentExpression: func(a *ast.AssignmentExpression) {
			if !views.inside() {
				return
			}
			for _, name := range viewElementMembers {
				if isThisMember(a.Left, name) {
					ctx.Report(a, "Use this.setElement instead of assigning this."+name)
					return
				}
			}
		},
	}
}
