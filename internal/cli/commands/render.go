package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/soghomon-b/g2p/pkg/convert"
	"github.com/soghomon-b/g2p/pkg/core"
	"golang.org/x/term"
)

var outputStyle = lipgloss.NewStyle().Bold(true)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newTable starts a table with an optional title line.
func newTable(w io.Writer, title string, header table.Row) table.Writer {
	if title != "" {
		_, _ = fmt.Fprintln(w, title)
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(header)
	return t
}

// renderTable draws a styled table on a terminal and a Markdown table
// otherwise.
func renderTable(w io.Writer, t table.Writer) {
	if isTerminal(w) {
		t.SetStyle(table.StyleLight)
		t.Render()
		return
	}
	t.RenderMarkdown()
	_, _ = fmt.Fprintln(w)
}

// renderOutput prints converted text, bold on a terminal.
func renderOutput(w io.Writer, s string) {
	if isTerminal(w) {
		s = outputStyle.Render(s)
	}
	_, _ = fmt.Fprintln(w, s)
}

// renderIndex prints an alignment, one edge per row.
func renderIndex(w io.Writer, title string, a core.Alignment) {
	t := newTable(w, title, table.Row{"In", "Char", "Out", "Char"})
	for _, p := range a {
		t.AppendRow(table.Row{
			formatPos(p.In.Position),
			quote(p.In.Char),
			p.Out.Position,
			quote(p.Out.Char),
		})
	}
	renderTable(w, t)
}

// renderStages prints every rule firing along the conversion path.
func renderStages(w io.Writer, stages []convert.Stage) {
	for _, st := range stages {
		title := st.From + " -> " + st.To
		if st.Mapping != "" && st.Mapping != st.From+"->"+st.To {
			title += " (" + st.Mapping + ")"
		}
		t := newTable(w, title, table.Row{"Span", "Input", "Output", "Rule", "Before", "After"})
		for _, app := range st.Applications {
			t.AppendRow(table.Row{
				fmt.Sprintf("%d-%d", app.Start, app.End),
				quote(app.Input),
				quote(app.Output),
				app.Rule.From + " -> " + app.Rule.To,
				app.Rule.ContextBefore,
				app.Rule.ContextAfter,
			})
		}
		t.AppendFooter(table.Row{"", quote(st.Input), quote(st.Output)})
		renderTable(w, t)
	}
}

// renderList prints one item per line.
func renderList(w io.Writer, items []string) {
	for _, item := range items {
		_, _ = fmt.Fprintln(w, item)
	}
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func formatPos(pos int) string {
	if pos == core.Epenthesis {
		return "+"
	}
	return fmt.Sprint(pos)
}

// quote makes empty and whitespace characters visible.
func quote(s string) string {
	if s == "" || strings.TrimSpace(s) != s {
		return fmt.Sprintf("%q", s)
	}
	return s
}
