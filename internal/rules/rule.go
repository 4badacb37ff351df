// Package rules holds the lint rules built on the Backbone classifier and the
// registry they are looked up from.
package rules

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/phobologic/backbonelint/internal/ast"
	"github.com/phobologic/backbonelint/internal/backbone"
)

// ErrInvalidSeverity is returned by ParseSeverity for unknown levels.
var ErrInvalidSeverity = errors.New("invalid severity")

// Severity is how a rule's findings are reported.
type Severity int

const (
	Off Severity = iota
	Warn
	Error
)

func (s Severity) String() string {
	switch s {
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "off"
	}
}

// ParseSeverity accepts "off", "warn", "error" and their numeric forms 0-2.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "0":
		return Off, nil
	case "warn", "warning", "1":
		return Warn, nil
	case "error", "2":
		return Error, nil
	}
	return Off, fmt.Errorf("%w %q (want off, warn or error)", ErrInvalidSeverity, s)
}

// Options are the per-rule settings a config file can supply. Each rule
// documents which fields it reads; a nil slice selects the rule's default.
type Options struct {
	Identifiers []string `toml:"identifiers" yaml:"identifiers"`
	Allow       []string `toml:"allow" yaml:"allow"`
}

// Finding is a single problem reported by a rule.
type Finding struct {
	Rule    string
	Node    ast.Node
	Message string
}

// Context is handed to a rule when it is instantiated for one file.
type Context struct {
	Rule     string
	File     string
	Source   []byte
	Settings *backbone.Settings
	Options  Options

	report func(Finding)
}

// NewContext creates a Context whose reports are passed to report.
func NewContext(rule, file string, source []byte, settings *backbone.Settings, opts Options, report func(Finding)) *Context {
	return &Context{
		Rule:     rule,
		File:     file,
		Source:   source,
		Settings: settings,
		Options:  opts,
		report:   report,
	}
}

// Report records a finding at n.
func (c *Context) Report(n ast.Node, msg string) {
	if c.report == nil {
		return
	}
	c.report(Finding{Rule: c.Rule, Node: n, Message: msg})
}

// Text returns the source text of n.
func (c *Context) Text(n ast.Node) string {
	return ast.Text(n, c.Source)
}

// Handlers are the callbacks a rule registers for one traversal. Nil
// callbacks are skipped.
type Handlers struct {
	CallExpression       func(*ast.CallExpression)
	CallExpressionExit   func(*ast.CallExpression)
	MemberExpression     func(*ast.MemberExpression)
	Property             func(*ast.Property)
	AssignmentExpression func(*ast.AssignmentExpression)
}

// Rule describes one lint rule.
type Rule struct {
	Name        string
	Description string
	Recommended Severity
	Create      func(ctx *Context) Handlers
}

// Rules maps rule names to their definitions.
// Populated by init() functions in per-rule files.
var Rules = map[string]*Rule{}

func register(r *Rule) {
	if _, dup := Rules[r.Name]; dup {
		panic("rules: duplicate rule " + r.Name)
	}
	Rules[r.Name] = r
}

// Names returns all rule names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Rules))
	for name := range Rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Recommended returns the recommended severity of every registered rule.
func Recommended() map[string]Severity {
	out := make(map[string]Severity, len(Rules))
	for name, r := range Rules {
		out[name] = r.Recommended
	}
	return out
}
