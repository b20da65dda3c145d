package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/ycomp/log"
)

// Report writes entries to w, one per line, followed by a count:
//
//	main.yaml:3:7: warn: undefined variable (name=nmae, suggestion=...)
//	1 warning
//
// Styling is applied only when w is a terminal that supports it.
func Report(w io.Writer, entries []log.Entry) {
	if len(entries) == 0 {
		return
	}

	r := lipgloss.NewRenderer(w)

	var (
		locStyle   = r.NewStyle().Foreground(lipgloss.Color("5"))
		levelStyle = r.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
		msgStyle   = r.NewStyle().Bold(true)
		attrStyle  = r.NewStyle().Faint(true)
	)

	for _, e := range entries {
		var sb strings.Builder

		if e.Location != "" {
			sb.WriteString(locStyle.Render(e.Location))
			sb.WriteString(": ")
		}

		sb.WriteString(levelStyle.Render(e.Level.String()))
		sb.WriteString(": ")
		sb.WriteString(msgStyle.Render(e.Message))

		if len(e.Attrs) > 0 {
			attrs := make([]string, len(e.Attrs))
			for i, a := range e.Attrs {
				attrs[i] = a.Key + "=" + a.Value.String()
			}

			sb.WriteString(" ")
			sb.WriteString(attrStyle.Render("(" + strings.Join(attrs, ", ") + ")"))
		}

		fmt.Fprintln(w, sb.String())
	}

	noun := "warnings"
	if len(entries) == 1 {
		noun = "warning"
	}

	fmt.Fprintf(w, "%d %s\n", len(entries), noun)
}
