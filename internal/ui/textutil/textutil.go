// Package textutil sizes text by terminal columns so tables line up with
// wide runes and styled cells.
package textutil

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Width returns the column width of s, ignoring ANSI styling.
func Width(s string) int {
	return lipgloss.Width(s)
}

// Truncate shortens plain s to at most maxWidth columns, ending in
// Ellipsis when anything was cut.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// PadRight truncates or space-pads plain s to exactly width columns.
func PadRight(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// Row lays plain cells out in fixed-width columns separated by two spaces.
// Cells beyond len(widths) are dropped; the last column is not padded.
func Row(widths []int, cells ...string) string {
	n := min(len(widths), len(cells))
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		if i == n-1 {
			parts[i] = Truncate(cells[i], widths[i])
		} else {
			parts[i] = PadRight(cells[i], widths[i])
		}
	}
	return strings.Join(parts, "  ")
}

// Mask hides a secret value, keeping a short hint of its length.
func Mask(value string) string {
	if value == "" {
		return "••••••"
	}
	return strings.Repeat("•", min(runewidth.StringWidth(value), 12))
}
