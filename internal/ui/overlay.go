package ui

import (
	"demodeck/internal/modal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// dismissKeys close a read-only modal.
var dismissKeys = map[string]bool{"esc": true, "enter": true, "q": true, " ": true}

// Overlay renders the dispatcher's single modal slot. Interactive payloads
// that implement View receive keys; every other modal closes on a dismiss
// key.
type Overlay struct {
	modals *modal.Dispatcher
}

// NewOverlay wraps d.
func NewOverlay(d *modal.Dispatcher) *Overlay {
	return &Overlay{modals: d}
}

// Open reports whether a modal is showing.
func (o *Overlay) Open() bool {
	return o.modals != nil && o.modals.State().Open()
}

// form returns the open modal's payload when it is interactive.
func (o *Overlay) form() (View, bool) {
	v, ok := o.modals.State().Payload.(View)
	return v, ok
}

// Update routes msg to the open modal. handled is false when no modal is
// open or msg was not meant for it.
func (o *Overlay) Update(msg tea.Msg) (handled bool, cmd tea.Cmd) {
	if !o.Open() {
		return false, nil
	}
	if _, ok := msg.(DismissModalMsg); ok {
		o.modals.Close()
		return true, nil
	}
	if f, ok := o.form(); ok {
		v, cmd := f.Update(msg)
		o.modals.SetPayload(v)
		_, isKey := msg.(tea.KeyMsg)
		return isKey || cmd != nil, cmd
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		if dismissKeys[k.String()] {
			o.modals.Close()
		}
		return true, nil
	}
	return false, nil
}

// Render draws the open modal as a bordered box, or "" when closed.
func (o *Overlay) Render() string {
	if o.modals == nil {
		return ""
	}
	c, ok := o.modals.Render()
	if !ok {
		return ""
	}
	style, title := Styles.Modal, Styles.Title
	if c.Kind == modal.KindAPIError || c.Fallback {
		style, title = Styles.ModalError, Styles.TitleWarning
	}
	hint := "enter/esc: close"
	if _, ok := o.form(); ok {
		hint = "enter: save  esc: cancel"
	}
	body := title.Render(c.Title) + "\n\n" + c.Body + "\n\n" + Styles.Muted.Render(hint)
	return style.Render(body)
}

// Place centres the modal in a width×height area; base is returned
// unchanged when no modal is open or the size is unknown.
func (o *Overlay) Place(base string, width, height int) string {
	box := o.Render()
	if box == "" {
		return base
	}
	if width <= 0 || height <= 0 {
		return base + "\n" + box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "))
}
