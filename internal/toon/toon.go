// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/backbonelint/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

const summaryKey = "summary{files,errors,warnings}:"

// Encode converts a lint Report into TOON format.
func Encode(r *model.Report) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("report: %s", encodeValue(r.Name)))

	errs, warns := r.Totals()
	parts = append(parts, fmt.Sprintf("%s %d,%d,%d", summaryKey, len(r.Files), errs, warns))

	var diagRows [][]string
	for i := range r.Files {
		fr := &r.Files[i]
		for j := range fr.Diagnostics {
			d := &fr.Diagnostics[j]
			diagRows = append(diagRows, []string{
				fr.Path,
				strconv.Itoa(d.Line),
				strconv.Itoa(d.Column),
				string(d.Severity),
				d.Rule,
				d.Message,
			})
		}
	}
	parts = append(parts, formatTabular("diagnostics", []string{"file", "line", "column", "severity", "rule", "message"}, diagRows))

	var defRows [][]string
	for i := range r.Files {
		fr := &r.Files[i]
		for j := range fr.Definitions {
			def := &fr.Definitions[j]
			defRows = append(defRows, []string{
				fr.Path,
				strconv.Itoa(def.Line),
				def.Role,
				def.Name,
				def.Base,
			})
		}
	}
	parts = append(parts, formatTabular("definitions", []string{"file", "line", "role", "name", "base"}, defRows))

	return strings.Join(parts, "\n")
}

// Summary reads the file, error and warning counts back from Encode output.
func Summary(encoded string) (files, errors, warnings int, ok bool) {
	for _, line := range strings.Split(encoded, "\n") {
		rest, found := strings.CutPrefix(line, summaryKey)
		if !found {
			continue
		}
		fields := strings.Split(strings.TrimSpace(rest), ",")
		if len(fields) != 3 {
			return 0, 0, 0, false
		}
		var counts [3]int
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return 0, 0, 0, false
			}
			counts[i] = n
		}
		return counts[0], counts[1], counts[2], true
	}
	return 0, 0, 0, false
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
