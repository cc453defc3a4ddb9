package tokens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Swatches renders every color token as a colored block followed by its
// name and value, for previewing a token set in a terminal.
func (t Tokens) Swatches() string {
	nameStyle := lipgloss.NewStyle().Width(16)
	valueStyle := lipgloss.NewStyle().Faint(true)

	lines := make([]string, 0, len(t.Colors))
	for _, name := range sortedKeys(t.Colors) {
		value := t.Colors[name]
		block := lipgloss.NewStyle().
			Background(lipgloss.Color(value)).
			Render("    ")
		lines = append(lines, fmt.Sprintf("%s  %s %s", block, nameStyle.Render(name), valueStyle.Render(value)))
	}
	return strings.Join(lines, "\n")
}
