package prompt

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	highlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14")).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color("14"))
	indexStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

// Highlight prints msg as an emphasized heading framed by blank lines.
func Highlight(w io.Writer, msg string) {
	fmt.Fprintf(w, "\n%s\n\n", highlightStyle.Render(msg))
}

// Entry formats one numbered list entry, e.g. " 0:  alsa_output.0".
func Entry(index int, name, note string) string {
	line := fmt.Sprintf("%s:  %s", indexStyle.Render(fmt.Sprintf("%2d", index)), nameStyle.Render(name))
	if note != "" {
		line += "  " + hintStyle.Render(note)
	}
	return line
}
