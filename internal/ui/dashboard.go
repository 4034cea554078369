package ui

import (
	"fmt"
	"strings"

	"demodeck/internal/session"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// notificationItem implements list.DefaultItem for a finished run.
type notificationItem struct {
	session.Notification
}

func (n notificationItem) FilterValue() string { return n.Message }
func (n notificationItem) Title() string {
	return n.At.Format("15:04:05") + "  " + n.Message
}
func (n notificationItem) Description() string { return "" }

// DashboardView is the analytics page: headline metrics for the selected
// range and the list of finished transfers.
type DashboardView struct {
	sess  *session.Session
	list  list.Model
	shown int // notifications currently in the list
	width int
}

var _ View = (*DashboardView)(nil)

// NewDashboardView creates the analytics page for sess.
func NewDashboardView(sess *session.Session) *DashboardView {
	return &DashboardView{
		sess: sess,
		list: newList("Notifications", NewCompactListDelegate()),
	}
}

// Init implements View.
func (d *DashboardView) Init() tea.Cmd { return nil }

// Selected returns the highlighted notification index.
func (d *DashboardView) Selected() int { return d.list.Index() }

// syncNotifications copies new notifications into the list, newest first.
func (d *DashboardView) syncNotifications() tea.Cmd {
	notes := d.sess.Notifications()
	if len(notes) == d.shown {
		return nil
	}
	d.shown = len(notes)
	items := make([]list.Item, len(notes))
	for i, n := range notes {
		items[len(notes)-1-i] = notificationItem{Notification: n}
	}
	return d.list.SetItems(items)
}

// Update implements View.
func (d *DashboardView) Update(msg tea.Msg) (View, tea.Cmd) {
	cmds := []tea.Cmd{d.syncNotifications()}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.list.SetWidth(msg.Width)
		d.list.SetHeight(max(msg.Height-14, 4))
		return d, tea.Batch(cmds...)
	case tea.KeyMsg:
		switch msg.String() {
		case "[", "left", "h":
			d.sess.CycleRange(-1)
			return d, tea.Batch(cmds...)
		case "]", "right", "l":
			d.sess.CycleRange(1)
			return d, tea.Batch(cmds...)
		case "e":
			d.sess.ExportReport()
			return d, tea.Batch(cmds...)
		}
	}
	var cmd tea.Cmd
	d.list, cmd = d.list.Update(msg)
	cmds = append(cmds, cmd)
	return d, tea.Batch(cmds...)
}

// View implements View.
func (d *DashboardView) View() string {
	d.syncNotifications()
	a := d.sess.Analytics

	var ranges []string
	for _, r := range a.Ranges {
		if r == a.Range {
			ranges = append(ranges, Styles.TabActive.Render(r))
		} else {
			ranges = append(ranges, Styles.Tab.Render(r))
		}
	}

	cards := make([]string, 0, len(a.Metrics))
	for _, m := range a.Metrics {
		change := Styles.Success.Render(m.FormatChange())
		if m.Change < 0 {
			change = Styles.Danger.Render(m.FormatChange())
		}
		cards = append(cards, Styles.Card.Render(
			Styles.Muted.Render(m.Name)+"\n"+Styles.Normal.Bold(true).Render(m.Format())+"\n"+change,
		))
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render("Analytics") + "  " + strings.Join(ranges, "") + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n")

	st, _ := d.sess.Status(session.SimExport)
	if st.Running {
		b.WriteString(Styles.Muted.Render(fmt.Sprintf("Exporting report… %.0f%%", st.Value)) + "\n")
	}
	b.WriteString(Styles.Muted.Render("[/]: range  e: export report") + "\n\n")

	if d.shown == 0 {
		b.WriteString(Styles.Title.Render("Notifications") + "\n")
		b.WriteString(Styles.Empty.Render("No finished transfers yet"))
		return b.String()
	}
	b.WriteString(d.list.View())
	return b.String()
}
