package rules

import (
	"slices"
	"strings"

	"github.com/phobologic/backbonelint/internal/ast"
	"github.com/phobologic/backbonelint/internal/backbone"
)

var (
	defaultJQueryAliases = []string{"jQuery", "$"}
	viewElementMembers   = []string{"el", "$el"}
)

const viewQualifiedTemplate = "Use {{identifier}}.$ or {{identifier}}.$el.find instead of view-scoped native jQuery"

func init() {
	register(&Rule{
		Name:        "no-view-qualified-jquery",
		Description: "Prevent usage of global $ to reach view elements",
		Recommended: Warn,
		Create:      createNoViewQualifiedJQuery,
	})
	register(&Rule{
		Name:        "no-native-jquery",
		Description: "Use this.$ instead of the global jQuery function inside views",
		Recommended: Warn,
		Create:      createNoNativeJQuery,
	})
}

func jqueryAliases(ctx *Context) []string {
	if ctx.Options.Identifiers != nil {
		return ctx.Options.Identifiers
	}
	return defaultJQueryAliases
}

// jqueryMatcher recognizes calls through one of the configured aliases.
type jqueryMatcher struct {
	aliases []string
}

func (j jqueryMatcher) isNative(n ast.Node) bool {
	name, ok := ast.IdentName(n)
	return ok && slices.Contains(j.aliases, name)
}

// isPotentialViewElement matches view.el and view.$el.
func isPotentialViewElement(n ast.Node) bool {
	m, ok := n.(*ast.MemberExpression)
	if !ok {
		return false
	}
	name, ok := ast.IdentName(m.Property)
	return ok && slices.Contains(viewElementMembers, name)
}

// isWrappedViewElement matches $(view.el) and $(view.$el).
func (j jqueryMatcher) isWrappedViewElement(n ast.Node) bool {
	call, ok := n.(*ast.CallExpression)
	if !ok || len(call.Arguments) == 0 {
		return false
	}
	return j.isNative(call.Callee) && isPotentialViewElement(call.Arguments[0])
}

func (j jqueryMatcher) isViewQualifier(n ast.Node) bool {
	return isPotentialViewElement(n) || j.isWrappedViewElement(n)
}

// viewIdentifier returns the source text of the view a qualifier refers to.
func viewIdentifier(ctx *Context, qualifier ast.Node) string {
	if m, ok := qualifier.(*ast.MemberExpression); ok {
		return ctx.Text(m.Object)
	}
	call := qualifier.(*ast.CallExpression)
	return ctx.Text(call.Arguments[0].(*ast.MemberExpression).Object)
}

// createNoViewQualifiedJQuery flags $(selector, context) where context is a
// view element: view.el, view.$el, $(view.el) or $(view.$el).
func createNoViewQualifiedJQuery(ctx *Context) Handlers {
	j := jqueryMatcher{aliases: jqueryAliases(ctx)}
	return Handlers{
		CallExpression: func(call *ast.CallExpression) {
			if !j.isNative(call.Callee) || len(call.Arguments) < 2 {
				return
			}
			qualifier := call.Arguments[1]
			if !j.isViewQualifier(qualifier) {
				return
			}
			msg := strings.ReplaceAll(viewQualifiedTemplate, "{{identifier}}", viewIdentifier(ctx, qualifier))
			ctx.Report(call, msg)
		},
	}
}

func createNoNativeJQuery(ctx *Context) Handlers {
	j := jqueryMatcher{aliases: jqueryAliases(ctx)}
	views := newDefinitionScope(ctx, backbone.IsView)
	return Handlers{
		CallExpression: func(call *ast.CallExpression) {
			views.enter(call)
			if views.inside() && !call.New && j.isNative(call.Callee) {
				ctx.Report(call, "Use this.$ instead of the global "+ctx.Text(call.Callee)+" inside views")
			}
		},
		CallExpressionExit: views.exit,
	}
}
