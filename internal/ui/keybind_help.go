package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// RenderKeybindHelp renders the hint bar shown while a leader sequence is
// pending, listing the next keys valid in mode.
func RenderKeybindHelp(keyHandler *KeyHandler, mode AppMode) string {
	if keyHandler == nil || keyHandler.Registry == nil {
		return ""
	}
	seq := keyHandler.Sequence()
	if seq == "" {
		seq = keyHandler.LeaderSeq
	}
	bindings := keyHandler.Registry.HintBindings(seq, mode)
	if len(bindings) == 0 {
		return ""
	}

	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHighlight)).Bold(true)
	h.Styles.ShortDesc = Styles.Muted
	h.Styles.ShortSeparator = Styles.Muted

	content := Styles.Muted.Render(seq) + " " + h.ShortHelpView(bindings)
	return Styles.HintBar.Render(content)
}
