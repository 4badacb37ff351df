// Package model defines core data structures for backbonelint.
package model

// Severity is the level a diagnostic is reported at.
type Severity string

const (
	Warning Severity = "warn"
	Error   Severity = "error"
)

// Diagnostic is a single rule violation in a source file.
type Diagnostic struct {
	Rule     string
	Severity Severity
	Message  string
	File     string
	Line     int
	Column   int
}

// Definition is a Backbone Model, View or Collection definition call found
// in a source file. Name is the variable or member the definition is
// assigned to, empty for anonymous definitions. Base is the extended name,
// e.g. "Backbone.View".
type Definition struct {
	File string
	Line int
	Role string
	Name string
	Base string
}

// FileReport holds the lint results for a single source file.
type FileReport struct {
	Path        string
	Language    string
	Diagnostics []Diagnostic
	Definitions []Definition
}

// Count returns the number of diagnostics at sev.
func (f *FileReport) Count(sev Severity) int {
	n := 0
	for i := range f.Diagnostics {
		if f.Diagnostics[i].Severity == sev {
			n++
		}
	}
	return n
}

// Report is the complete lint result, ready for serialization.
type Report struct {
	Name  string
	Files []FileReport
}

// Totals returns the number of error and warning diagnostics across all files.
func (r *Report) Totals() (errors, warnings int) {
	for i := range r.Files {
		errors += r.Files[i].Count(Error)
		warnings += r.Files[i].Count(Warning)
	}
	return errors, warnings
}
