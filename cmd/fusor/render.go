package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"fusor/internal/eval"
)

// renderer formats evaluation reports, optionally styled for terminals.
type renderer struct {
	color bool

	headerStyle lipgloss.Style
	keyStyle    lipgloss.Style
	valueStyle  lipgloss.Style
	dtypeStyle  lipgloss.Style
	absentStyle lipgloss.Style
}

func newRenderer(color bool) *renderer {
	return &renderer{
		color:       color,
		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		keyStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		valueStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		dtypeStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		absentStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

func (r *renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

func (r *renderer) header(path, name string) string {
	title := path
	if name != "" {
		title = fmt.Sprintf("%s (%s)", path, name)
	}
	return r.style(r.headerStyle, title) + "\n"
}

func (r *renderer) target(name, value, dtype string) string {
	return fmt.Sprintf("  %s = %s %s\n",
		r.style(r.keyStyle, name),
		r.style(r.valueStyle, value),
		r.style(r.dtypeStyle, "; "+dtype))
}

func (r *renderer) absent(name string) string {
	return fmt.Sprintf("  %s = %s\n",
		r.style(r.keyStyle, name),
		r.style(r.absentStyle, "<unresolved>"))
}

// dump renders a context dump as aligned key/value/kind columns.
func (r *renderer) dump(d eval.ContextDump) string {
	var sb strings.Builder
	sb.WriteString(r.style(r.headerStyle, "evaluation context") + "\n")
	sb.WriteString(r.section(d.Known))
	sb.WriteString(r.section(d.Named))
	if d.Precomputed != nil || d.PrecomputedReady {
		sb.WriteString(r.style(r.headerStyle, fmt.Sprintf("precomputed values (ready=%v)", d.PrecomputedReady)) + "\n")
		sb.WriteString(r.section(d.Precomputed))
	}
	return sb.String()
}

func (r *renderer) section(entries []eval.DumpEntry) string {
	width := 0
	for _, e := range entries {
		width = max(width, runewidth.StringWidth(e.Key))
	}
	var sb strings.Builder
	for _, e := range entries {
		key := runewidth.FillRight(e.Key, width)
		sb.WriteString(r.target(key, e.Value.String(), e.DType.String()))
	}
	return sb.String()
}
