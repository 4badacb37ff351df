// Package lint runs the enabled rules over a single source file.
package lint

import (
	"context"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/backbonelint/internal/ast"
	"github.com/phobologic/backbonelint/internal/backbone"
	"github.com/phobologic/backbonelint/internal/config"
	"github.com/phobologic/backbonelint/internal/lang"
	"github.com/phobologic/backbonelint/internal/model"
	"github.com/phobologic/backbonelint/internal/rules"
)

var severities = map[rules.Severity]model.Severity{
	rules.Warn:  model.Warning,
	rules.Error: model.Error,
}

// File parses source and returns its diagnostics and Backbone definitions.
// The parser must be created for l. filePath is used only for reporting and
// should be the root-relative path.
func File(ctx context.Context, l *lang.Language, parser *sitter.Parser, source []byte, filePath string, cfg *config.Resolved) (model.FileReport, error) {
	report := model.FileReport{Path: filePath, Language: l.Name}
	if len(source) == 0 {
		return report, nil
	}

	tree, err := l.Parse(ctx, parser, source)
	if err != nil {
		return report, err
	}
	defer tree.Close()

	prog := ast.Convert(tree.RootNode(), source)
	settings := cfg.Settings

	handlers := make([]rules.Handlers, 0, len(cfg.Rules)+1)
	for _, er := range cfg.Rules {
		sev := severities[er.Severity]
		rctx := rules.NewContext(er.Rule.Name, filePath, source, &settings, er.Options, func(f rules.Finding) {
			start := f.Node.Span().Start
			report.Diagnostics = append(report.Diagnostics, model.Diagnostic{
				Rule:     f.Rule,
				Severity: sev,
				Message:  f.Message,
				File:     filePath,
				Line:     start.Line,
				Column:   start.Column,
			})
		})
		handlers = append(handlers, er.Rule.Create(rctx))
	}
	handlers = append(handlers, rules.Handlers{
		CallExpression: func(call *ast.CallExpression) {
			if def, ok := definition(call, source, &settings); ok {
				def.File = filePath
				report.Definitions = append(report.Definitions, def)
			}
		},
	})

	rules.Traverse(prog, handlers)

	sort.SliceStable(report.Diagnostics, func(i, j int) bool {
		a, b := report.Diagnostics[i], report.Diagnostics[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Rule < b.Rule
	})
	return report, nil
}

// definition describes call when it is a Backbone definition.
func definition(call *ast.CallExpression, source []byte, settings *backbone.Settings) (model.Definition, bool) {
	role, ok := backbone.RoleOf(call, settings)
	if !ok {
		return model.Definition{}, false
	}
	callee := call.Callee.(*ast.MemberExpression)
	return model.Definition{
		Line: call.Span().Start.Line,
		Role: role.String(),
		Name: bindingName(call, source),
		Base: ast.Text(callee.Object, source),
	}, true
}

// bindingName returns what a definition is assigned to: the declared
// variable, the assignment target or the object property key.
func bindingName(call *ast.CallExpression, source []byte) string {
	switch p := call.Parent().(type) {
	case *ast.AssignmentExpression:
		if p.Right == ast.Node(call) {
			return ast.Text(p.Left, source)
		}
	case *ast.Property:
		if p.Value == ast.Node(call) {
			name, _ := ast.PropertyName(p)
			return name
		}
	case *ast.Other:
		if p.Type == "variable_declarator" && len(p.Children) > 1 && p.Children[len(p.Children)-1] == ast.Node(call) {
			name, _ := ast.IdentName(p.Children[0])
			return name
		}
	}
	return ""
}
