// Package backbone classifies syntax nodes as Backbone Model, View and
// Collection definitions using a configurable naming convention.
package backbone

import (
	"strings"
)

// Role is one of the three structural categories a definition can have.
type Role int

const (
	Model Role = iota
	View
	Collection
)

// Roles lists every role in a stable order.
var Roles = []Role{Model, View, Collection}

func (r Role) String() string {
	switch r {
	case Model:
		return "Model"
	case View:
		return "View"
	case Collection:
		return "Collection"
	default:
		return "unknown"
	}
}

// Default names recognized even when no settings are configured.
const (
	DefaultModel      = "Backbone.Model"
	DefaultView       = "Backbone.View"
	DefaultCollection = "Backbone.Collection"
)

// Settings is the user-supplied naming convention. Each entry is either a
// bare name ("MyModel") or a dotted one ("App.Model").
type Settings struct {
	Collection []string `toml:"Collection" yaml:"Collection"`
	Model      []string `toml:"Model" yaml:"Model"`
	View       []string `toml:"View" yaml:"View"`
}

// Signature is one recognized name pattern.
type Signature struct {
	Prefix  string
	Postfix string
}

// HasPostfix reports whether the signature came from a dotted name.
func (s Signature) HasPostfix() bool {
	return s.Postfix != ""
}

func (s Signature) String() string {
	if s.HasPostfix() {
		return s.Prefix + "." + s.Postfix
	}
	return s.Prefix
}

// ParseSignature splits name on dots. Segments after the second are ignored.
func ParseSignature(name string) Signature {
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		return Signature{Prefix: parts[0], Postfix: parts[1]}
	}
	return Signature{Prefix: parts[0]}
}

// Table is the normalized signature set for all three roles.
type Table struct {
	model      []Signature
	view       []Signature
	collection []Signature
}

// Normalize builds a fresh Table from s. The default Backbone name of each
// role is always appended after the caller's names. s may be nil and is
// never modified.
func Normalize(s *Settings) Table {
	if s == nil {
		s = &Settings{}
	}
	return Table{
		model:      parseAll(s.Model, DefaultModel),
		view:       parseAll(s.View, DefaultView),
		collection: parseAll(s.Collection, DefaultCollection),
	}
}

func parseAll(names []string, fallback string) []Signature {
	sigs := make([]Signature, 0, len(names)+1)
	for _, name := range names {
		sigs = append(sigs, ParseSignature(name))
	}
	return append(sigs, ParseSignature(fallback))
}

// Signatures returns a copy of the signatures registered for role.
func (t Table) Signatures(role Role) []Signature {
	sigs := t.group(role)
	out := make([]Signature, len(sigs))
	copy(out, sigs)
	return out
}

// hasPrefix reports whether name is the prefix of any signature of any role.
func (t Table) hasPrefix(name string) bool {
	for _, group := range [][]Signature{t.collection, t.model, t.view} {
		for _, sig := range group {
			if sig.Prefix == name {
				return true
			}
		}
	}
	return false
}

func (t Table) group(role Role) []Signature {
	switch role {
	case Model:
		return t.model
	case View:
		return t.view
	case Collection:
		return t.collection
	}
	return nil
}
