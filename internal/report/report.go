// Package report renders lint results as human-readable terminal text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phobologic/backbonelint/internal/model"
)

type styles struct {
	location lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	rule     lipgloss.Style
	summary  lipgloss.Style
	success  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		location: r.NewStyle().Bold(true),
		err:      r.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true),
		warn:     r.NewStyle().Foreground(lipgloss.Color("#FBBF24")),
		rule:     r.NewStyle().Foreground(lipgloss.Color("#64748B")),
		summary:  r.NewStyle().Bold(true),
		success:  r.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
	}
}

// Text writes one line per diagnostic, "path:line:col  severity  message  rule",
// followed by a problem count. Colors are only emitted when w is a terminal.
func Text(w io.Writer, r *model.Report) error {
	st := newStyles(lipgloss.NewRenderer(w))

	type row struct {
		loc, sev, msg, rule string
		sevStyle            lipgloss.Style
	}
	var rows []row
	locWidth, sevWidth, msgWidth := 0, 0, 0
	for i := range r.Files {
		fr := &r.Files[i]
		for j := range fr.Diagnostics {
			d := &fr.Diagnostics[j]
			rw := row{
				loc:      fmt.Sprintf("%s:%d:%d", fr.Path, d.Line, d.Column),
				sev:      string(d.Severity),
				msg:      d.Message,
				rule:     d.Rule,
				sevStyle: st.warn,
			}
			if d.Severity == model.Error {
				rw.sevStyle = st.err
			}
			locWidth = max(locWidth, len(rw.loc))
			sevWidth = max(sevWidth, len(rw.sev))
			msgWidth = max(msgWidth, len(rw.msg))
			rows = append(rows, rw)
		}
	}

	var b strings.Builder
	for _, rw := range rows {
		fmt.Fprintf(&b, "%s  %s  %s  %s\n",
			st.location.Render(pad(rw.loc, locWidth)),
			rw.sevStyle.Render(pad(rw.sev, sevWidth)),
			pad(rw.msg, msgWidth),
			st.rule.Render(rw.rule),
		)
	}

	errs, warns := r.Totals()
	if errs+warns == 0 {
		fmt.Fprintf(&b, "%s\n", st.success.Render(fmt.Sprintf("No problems found in %s", plural(len(r.Files), "file"))))
	} else {
		if len(rows) > 0 {
			b.WriteString("\n")
		}
		line := fmt.Sprintf("%s (%s, %s)", plural(errs+warns, "problem"), plural(errs, "error"), plural(warns, "warning"))
		style := st.warn
		if errs > 0 {
			style = st.err
		}
		fmt.Fprintf(&b, "%s\n", style.Render(line))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func pad(s string, width int) string {
	if n := width - len(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
