package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Header is the title block above an appliance view.
type Header struct {
	Title    string
	Subtitle string
	Fields   []Field
	Width    int
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	top := lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(h.Title)),
		HeaderSubtitleStyle.Render(h.Subtitle),
	)
	if len(h.Fields) == 0 {
		return BoxStyle(width, PrimaryColor).Render(top)
	}

	dividerWidth := width - 6
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Render(strings.Repeat("─", dividerWidth))

	return BoxStyle(width, PrimaryColor).
		Render(lipgloss.JoinVertical(lipgloss.Left, top, divider, renderFields(h.Fields)))
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
