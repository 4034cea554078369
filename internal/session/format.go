package session

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Unit selects how a Metric value is printed.
type Unit int

const (
	UnitCount Unit = iota
	UnitCurrency
	UnitPercent
)

var printer = message.NewPrinter(language.English)

// FormatCount groups thousands: 1204338 -> "1,204,338".
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// Format renders the metric value in its unit.
func (m Metric) Format() string {
	switch m.Unit {
	case UnitCurrency:
		return printer.Sprintf("$%.2f", m.Value)
	case UnitPercent:
		return printer.Sprintf("%.2f%%", m.Value)
	default:
		return printer.Sprintf("%d", int(m.Value+0.5))
	}
}

// FormatChange renders the period-over-period change with a sign.
func (m Metric) FormatChange() string {
	return printer.Sprintf("%+.1f%%", m.Change)
}
