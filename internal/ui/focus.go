package ui

import "slices"

// FocusManager rotates focus across named panes.
type FocusManager struct {
	Current  string
	Order    []string
	OnChange func(from, to string)
}

// NewFocusManager focuses the first pane in order.
func NewFocusManager(order ...string) *FocusManager {
	f := &FocusManager{Order: order}
	if len(order) > 0 {
		f.Current = order[0]
	}
	return f
}

// Next focuses the following pane, wrapping.
func (f *FocusManager) Next() string { return f.move(1) }

// Prev focuses the preceding pane, wrapping.
func (f *FocusManager) Prev() string { return f.move(-1) }

// Is reports whether id has focus.
func (f *FocusManager) Is(id string) bool { return f.Current == id }

// SetFocus focuses id; false when id is not in Order.
func (f *FocusManager) SetFocus(id string) bool {
	if !slices.Contains(f.Order, id) {
		return false
	}
	f.change(id)
	return true
}

func (f *FocusManager) move(delta int) string {
	n := len(f.Order)
	if n == 0 {
		return ""
	}
	i := slices.Index(f.Order, f.Current)
	if i < 0 && delta < 0 {
		i = 0
	}
	f.change(f.Order[((i+delta)%n+n)%n])
	return f.Current
}

func (f *FocusManager) change(to string) {
	from := f.Current
	f.Current = to
	if f.OnChange != nil && from != to {
		f.OnChange(from, to)
	}
}
