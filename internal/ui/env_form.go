package ui

import (
	"strings"

	"demodeck/internal/vercel"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Form fields in focus order.
const (
	fieldKey = iota
	fieldValue
	fieldType
	fieldTargets
	fieldCount
)

var envTypes = []string{vercel.EnvEncrypted, vercel.EnvPlain, vercel.EnvSensitive}

// EnvForm is the create-env modal payload. It renders itself and, on enter,
// emits CreateEnvMsg once the key and value pass validation.
type EnvForm struct {
	ProjectID   string
	ProjectName string

	key     textinput.Model
	value   textinput.Model
	typeIdx int
	targets map[string]bool
	cursor  int // selected target while fieldTargets is focused
	focus   int
	err     string
}

var _ View = (*EnvForm)(nil)

// NewEnvForm creates an empty form for a project.
func NewEnvForm(projectID, projectName string) *EnvForm {
	k := textinput.New()
	k.Placeholder = "API_TOKEN"
	k.Width = 36
	k.CharLimit = 128
	k.Focus()

	v := textinput.New()
	v.Placeholder = "value"
	v.Width = 36
	v.EchoMode = textinput.EchoPassword
	v.EchoCharacter = '•'

	targets := make(map[string]bool, len(vercel.AllTargets))
	for _, t := range vercel.AllTargets {
		targets[t] = true
	}
	return &EnvForm{
		ProjectID:   projectID,
		ProjectName: projectName,
		key:         k,
		value:       v,
		targets:     targets,
	}
}

// Init implements View.
func (f *EnvForm) Init() tea.Cmd {
	return textinput.Blink
}

// Request builds the create request from the current input.
func (f *EnvForm) Request() vercel.CreateEnvRequest {
	var target []string
	for _, t := range vercel.AllTargets {
		if f.targets[t] {
			target = append(target, t)
		}
	}
	return vercel.CreateEnvRequest{
		Key:    strings.TrimSpace(f.key.Value()),
		Value:  f.value.Value(),
		Type:   envTypes[f.typeIdx],
		Target: target,
	}
}

// Err returns the last validation message.
func (f *EnvForm) Err() string { return f.err }

func (f *EnvForm) validate() string {
	req := f.Request()
	switch {
	case req.Key == "":
		return "key is required"
	case !vercel.ValidEnvKey(req.Key):
		return "key may only contain letters, digits and underscores"
	case req.Value == "":
		return "value is required"
	case len(req.Target) == 0:
		return "select at least one target"
	}
	return ""
}

// Update implements View.
func (f *EnvForm) Update(msg tea.Msg) (View, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, f.updateInputs(msg)
	}
	switch k.String() {
	case "esc":
		return f, func() tea.Msg { return DismissModalMsg{} }
	case "enter":
		if f.err = f.validate(); f.err != "" {
			return f, nil
		}
		req, id := f.Request(), f.ProjectID
		return f, func() tea.Msg { return CreateEnvMsg{ProjectID: id, Request: req} }
	case "tab", "down":
		return f, f.setFocus(f.focus + 1)
	case "shift+tab", "up":
		return f, f.setFocus(f.focus - 1)
	}

	switch f.focus {
	case fieldType:
		switch k.String() {
		case "left", "h":
			f.typeIdx = (f.typeIdx + len(envTypes) - 1) % len(envTypes)
		case "right", "l", " ":
			f.typeIdx = (f.typeIdx + 1) % len(envTypes)
		}
		return f, nil
	case fieldTargets:
		n := len(vercel.AllTargets)
		switch k.String() {
		case "left", "h":
			f.cursor = (f.cursor + n - 1) % n
		case "right", "l":
			f.cursor = (f.cursor + 1) % n
		case " ", "x":
			t := vercel.AllTargets[f.cursor]
			f.targets[t] = !f.targets[t]
		}
		return f, nil
	}
	return f, f.updateInputs(msg)
}

func (f *EnvForm) updateInputs(msg tea.Msg) tea.Cmd {
	var kc, vc tea.Cmd
	f.key, kc = f.key.Update(msg)
	f.value, vc = f.value.Update(msg)
	return tea.Batch(kc, vc)
}

func (f *EnvForm) setFocus(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	f.key.Blur()
	f.value.Blur()
	switch f.focus {
	case fieldKey:
		return f.key.Focus()
	case fieldValue:
		return f.value.Focus()
	}
	return nil
}

// View implements View and modal.Viewer.
func (f *EnvForm) View() string {
	label := func(field int, s string) string {
		if f.focus == field {
			return Styles.Selected.Render("› " + s)
		}
		return Styles.Muted.Render("  " + s)
	}

	var b strings.Builder
	b.WriteString(Styles.Muted.Render("Project: ") + f.ProjectName + "\n\n")
	b.WriteString(label(fieldKey, "Key") + "\n  " + f.key.View() + "\n")
	b.WriteString(label(fieldValue, "Value") + "\n  " + f.value.View() + "\n")

	b.WriteString(label(fieldType, "Type") + "  ")
	for i, t := range envTypes {
		if i == f.typeIdx {
			b.WriteString(Styles.Selected.Render("["+t+"]") + " ")
		} else {
			b.WriteString(Styles.Muted.Render(" "+t+" ") + " ")
		}
	}
	b.WriteString("\n")

	b.WriteString(label(fieldTargets, "Targets") + "  ")
	for i, t := range vercel.AllTargets {
		box := "[ ]"
		if f.targets[t] {
			box = "[x]"
		}
		item := box + " " + t
		if f.focus == fieldTargets && i == f.cursor {
			item = Styles.Selected.Render(item)
		}
		b.WriteString(item + "  ")
	}

	if f.err != "" {
		b.WriteString("\n\n" + Styles.Danger.Render(f.err))
	}
	return b.String()
}
