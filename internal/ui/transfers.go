package ui

import (
	"fmt"
	"strings"

	"demodeck/internal/progress"
	"demodeck/internal/session"

	bar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

const (
	defaultBarWidth = 40
	logHeight       = 8
	maxLogLines     = 200
)

// TransfersView shows a bar per simulator and a scrolling event log.
type TransfersView struct {
	sess     *session.Session
	bar      bar.Model
	log      viewport.Model
	lines    []string
	selected int
}

var _ View = (*TransfersView)(nil)

// NewTransfersView creates the transfers page for sess.
func NewTransfersView(sess *session.Session) *TransfersView {
	b := bar.New(bar.WithDefaultGradient(), bar.WithWidth(defaultBarWidth))
	vp := viewport.New(defaultBarWidth+30, logHeight)
	vp.Style = Styles.Box
	t := &TransfersView{sess: sess, bar: b, log: vp}
	t.refreshLog()
	return t
}

// Init implements View.
func (t *TransfersView) Init() tea.Cmd { return nil }

// Selected returns the ID of the highlighted simulator.
func (t *TransfersView) Selected() string {
	return session.SimIDs[t.selected]
}

// Record appends a simulator event to the log.
func (t *TransfersView) Record(ev progress.Event) {
	// Ticks would flood the log; keep lifecycle changes only.
	if ev.Status == progress.StatusRunning {
		return
	}
	line := fmt.Sprintf("%s %s %-8s %s %3.0f%%",
		ev.Timestamp.Format("15:04:05"), statusIcon(ev.Status), ev.Label, ev.Status, ev.Value)
	t.lines = append(t.lines, line)
	if len(t.lines) > maxLogLines {
		t.lines = t.lines[len(t.lines)-maxLogLines:]
	}
	t.refreshLog()
}

// Update implements View.
func (t *TransfersView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := min(max(msg.Width-30, 20), 80)
		t.bar.Width = w
		t.log.Width = msg.Width - 2
		t.refreshLog()
		return t, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			t.selected = min(t.selected+1, len(session.SimIDs)-1)
			return t, nil
		case "k", "up":
			t.selected = max(t.selected-1, 0)
			return t, nil
		case "enter", "s":
			t.sess.StartTransfer(t.Selected())
			return t, nil
		case "u":
			t.sess.StartUpload()
			return t, nil
		case "d":
			t.sess.StartDownload()
			return t, nil
		case "e":
			t.sess.ExportReport()
			return t, nil
		case "x", "c":
			_ = t.sess.CancelTransfer(t.Selected())
			return t, nil
		}
	}
	var cmd tea.Cmd
	t.log, cmd = t.log.Update(msg)
	return t, cmd
}

// View implements View.
func (t *TransfersView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Transfers") + "\n\n")
	for i, st := range t.sess.Transfers() {
		cursor := "  "
		name := Styles.Normal.Render(fmt.Sprintf("%-14s", st.Label))
		if i == t.selected {
			cursor = Styles.Selected.Render("› ")
			name = Styles.Selected.Render(fmt.Sprintf("%-14s", st.Label))
		}
		b.WriteString(cursor + name + " " + t.bar.ViewAs(st.Fraction()) + " " + transferState(st) + "\n")
		detail := st.File
		if st.Bytes > 0 {
			done := uint64(float64(st.Bytes) * st.Fraction())
			detail += fmt.Sprintf("  %s / %s", humanize.Bytes(done), humanize.Bytes(st.Bytes))
		}
		b.WriteString("                 " + Styles.Muted.Render(detail) + "\n")
	}
	b.WriteString("\n" + t.log.View() + "\n")
	b.WriteString(Styles.Muted.Render("j/k: select  enter: start  u/d/e: upload/download/export  x: cancel"))
	return b.String()
}

func (t *TransfersView) refreshLog() {
	content := strings.Join(t.lines, "\n")
	if content == "" {
		content = Styles.Empty.Render("No transfers yet")
	}
	t.log.SetContent(content)
	t.log.GotoBottom()
}

func transferState(st session.TransferStatus) string {
	switch {
	case st.Running:
		return Styles.Normal.Render("running")
	case st.Value >= progress.Max:
		return Styles.Success.Render("done")
	default:
		return Styles.Muted.Render("idle")
	}
}

func statusIcon(s progress.Status) string {
	switch s {
	case progress.StatusRunning:
		return "●"
	case progress.StatusDone:
		return "✓"
	case progress.StatusCancelled:
		return "✗"
	default:
		return "•"
	}
}
