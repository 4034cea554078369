package ui

import (
	"strings"
	"time"

	"demodeck/internal/ui/textutil"
	"demodeck/internal/vercel"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	paneProjects = "projects"
	paneEnvs     = "envs"
)

// projectItem implements list.DefaultItem for a project.
type projectItem struct {
	vercel.Project
	team string
}

func (p projectItem) FilterValue() string { return p.Name }
func (p projectItem) Title() string {
	if p.team == "" {
		return p.Name
	}
	return p.Name + "  " + p.team
}
func (p projectItem) Description() string { return p.Framework }

// DeploymentsView lists projects and the selected project's environment
// variables from a vercel.Store. Data from earlier successful loads stays on
// screen when a later call fails.
type DeploymentsView struct {
	store    *vercel.Store
	projects list.Model
	envIdx   int
	focus    *FocusManager
	spinner  spinner.Model
	loading  int
	width    int
}

var _ View = (*DeploymentsView)(nil)

// NewDeploymentsView creates the deployments page. store may be nil, in
// which case the page only explains how to connect.
func NewDeploymentsView(store *vercel.Store) *DeploymentsView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Title
	return &DeploymentsView{
		store:    store,
		projects: newList("Projects", NewCompactListDelegate()),
		focus:    NewFocusManager(paneProjects, paneEnvs),
		spinner:  s,
	}
}

// Init implements View.
func (d *DeploymentsView) Init() tea.Cmd {
	return d.Refresh()
}

// Refresh reloads teams and projects.
func (d *DeploymentsView) Refresh() tea.Cmd {
	if d.store == nil {
		return nil
	}
	d.store.ClearError()
	return d.track(2, loadOverviewCmd(d.store))
}

// Loading reports whether any store call started here is in flight.
func (d *DeploymentsView) Loading() bool { return d.loading > 0 }

// track counts n in-flight calls and starts the spinner with cmd.
func (d *DeploymentsView) track(n int, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	start := d.loading == 0
	d.loading += n
	if start {
		return tea.Batch(cmd, d.spinner.Tick)
	}
	return cmd
}

// SelectedProject returns the highlighted project, if any.
func (d *DeploymentsView) SelectedProject() (vercel.Project, bool) {
	it, ok := d.projects.SelectedItem().(projectItem)
	if !ok {
		return vercel.Project{}, false
	}
	return it.Project, true
}

// CreateEnv submits a create request for projectID.
func (d *DeploymentsView) CreateEnv(projectID string, req vercel.CreateEnvRequest) tea.Cmd {
	return d.track(1, createEnvCmd(d.store, projectID, req))
}

// Update implements View.
func (d *DeploymentsView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.projects.SetWidth(min(msg.Width/3, 40))
		d.projects.SetHeight(max(msg.Height-8, 5))
		return d, nil
	case spinner.TickMsg:
		if d.loading == 0 {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	case StoreLoadedMsg:
		d.done()
		return d, d.syncProjects()
	case EnvCreatedMsg:
		d.done()
		return d, nil
	case SelectProjectMsg:
		d.envIdx = 0
		return d, d.track(2, loadProjectCmd(d.store, msg.ID))
	case RefreshMsg:
		return d, d.Refresh()
	case tea.KeyMsg:
		return d, d.handleKey(msg)
	}
	return d, nil
}

func (d *DeploymentsView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "l", "right":
		d.focus.Next()
		return nil
	case "h", "left":
		d.focus.Prev()
		return nil
	case "r":
		return func() tea.Msg { return RefreshMsg{} }
	case "n":
		return func() tea.Msg { return ShowCreateEnvMsg{} }
	case "enter":
		if p, ok := d.SelectedProject(); ok {
			id := p.ID
			d.focus.SetFocus(paneEnvs)
			return func() tea.Msg { return SelectProjectMsg{ID: id} }
		}
		return nil
	}

	if d.focus.Is(paneEnvs) {
		n := len(d.envs())
		switch msg.String() {
		case "j", "down":
			d.envIdx = min(d.envIdx+1, max(n-1, 0))
		case "k", "up":
			d.envIdx = max(d.envIdx-1, 0)
		}
		return nil
	}
	var cmd tea.Cmd
	d.projects, cmd = d.projects.Update(msg)
	return cmd
}

func (d *DeploymentsView) done() {
	if d.loading > 0 {
		d.loading--
	}
}

func (d *DeploymentsView) envs() []vercel.EnvVar {
	if d.store == nil {
		return nil
	}
	return d.store.Snapshot().Envs
}

// syncProjects refreshes list items from the store, keeping the selection.
func (d *DeploymentsView) syncProjects() tea.Cmd {
	if d.store == nil {
		return nil
	}
	snap := d.store.Snapshot()
	teams := make(map[string]string, len(snap.Teams))
	for _, t := range snap.Teams {
		teams[t.ID] = t.Name
	}
	items := make([]list.Item, len(snap.Projects))
	for i, p := range snap.Projects {
		items[i] = projectItem{Project: p, team: teams[p.TeamID]}
	}
	idx := d.projects.Index()
	cmd := d.projects.SetItems(items)
	if idx < len(items) {
		d.projects.Select(idx)
	}
	return cmd
}

// View implements View.
func (d *DeploymentsView) View() string {
	if d.store == nil {
		return Styles.Title.Render("Deployments") + "\n\n" +
			Styles.Empty.Render("No API configured. Set api.base_url or run `demodeck serve`.")
	}
	snap := d.store.Snapshot()

	header := Styles.Title.Render("Deployments")
	if d.loading > 0 {
		header += " " + d.spinner.View()
	}

	left := d.projects.View()
	if len(snap.Projects) == 0 {
		left = Styles.Title.Render("Projects") + "\n" + Styles.Empty.Render("No projects loaded")
	}
	leftBox, rightBox := Styles.Box, Styles.Box
	if !d.focus.Is(paneProjects) {
		leftBox = leftBox.BorderForeground(lipgloss.Color(ColorMuted))
	}
	if !d.focus.Is(paneEnvs) {
		rightBox = rightBox.BorderForeground(lipgloss.Color(ColorMuted))
	}

	var b strings.Builder
	b.WriteString(header + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		leftBox.Render(left),
		rightBox.Render(d.envTable(snap)),
	))
	if snap.Err != nil {
		b.WriteString("\n" + Styles.TitleWarning.Render("Error: ") + Styles.Danger.Render(snap.Err.Error()))
	}
	b.WriteString("\n" + Styles.Muted.Render("h/l: pane  enter: open project  n: new variable  r: refresh"))
	return b.String()
}

var envColumns = []int{24, 10, 28, 12}

func (d *DeploymentsView) envTable(snap vercel.Snapshot) string {
	var b strings.Builder
	title := "Environment variables"
	if snap.Project != nil && snap.Project.ID == snap.EnvProject {
		title += " · " + snap.Project.Name
	}
	b.WriteString(Styles.Title.Render(title) + "\n")
	if snap.EnvProject == "" {
		b.WriteString(Styles.Empty.Render("Select a project and press enter"))
		return b.String()
	}
	if len(snap.Envs) == 0 {
		b.WriteString(Styles.Empty.Render("No variables"))
		return b.String()
	}
	b.WriteString(Styles.Muted.Render(textutil.Row(envColumns, "KEY", "TYPE", "TARGET", "VALUE")) + "\n")
	for i, ev := range snap.Envs {
		value := ev.Value
		if ev.Type != vercel.EnvPlain {
			value = textutil.Mask(ev.Value)
		}
		line := textutil.Row(envColumns, ev.Key, ev.Type, strings.Join(ev.Target, ","), value)
		if d.focus.Is(paneEnvs) && i == d.envIdx {
			line = Styles.Selected.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if ev := snap.Envs[min(d.envIdx, len(snap.Envs)-1)]; ev.CreatedAt > 0 {
		b.WriteString(Styles.Muted.Render("created " + time.UnixMilli(ev.CreatedAt).UTC().Format("2006-01-02 15:04")))
	}
	return b.String()
}
