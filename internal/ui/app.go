package ui

import (
	"log/slog"
	"strings"

	"demodeck/internal/modal"
	"demodeck/internal/progress"
	"demodeck/internal/session"
	"demodeck/internal/vercel"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AppModel is the root model. It owns one view per page, routes simulator
// events into the session and draws the modal overlay on top of the page.
type AppModel struct {
	Mode        AppMode
	Session     *session.Session
	Store       *vercel.Store
	Events      <-chan progress.Event
	KeyHandler  *KeyHandler
	Dashboard   *DashboardView
	Product     *ProductView
	Video       *VideoView
	Transfers   *TransfersView
	Deployments *DeploymentsView
	Overlay     *Overlay

	width, height int
	logger        *slog.Logger
}

var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root model. events carries simulator output and
// store may be nil when no API is configured.
func NewAppModel(sess *session.Session, store *vercel.Store, events <-chan progress.Event) *AppModel {
	m := &AppModel{
		Mode:        ModeDashboard,
		Session:     sess,
		Store:       store,
		Events:      events,
		KeyHandler:  NewKeyHandler(newKeymap()),
		Dashboard:   NewDashboardView(sess),
		Product:     NewProductView(sess),
		Video:       NewVideoView(sess),
		Transfers:   NewTransfersView(sess),
		Deployments: NewDeploymentsView(store),
		Overlay:     NewOverlay(sess.Modals()),
		logger:      slog.Default(),
	}
	return m
}

// WithLogger sets the logger used for routing decisions.
func (m *AppModel) WithLogger(l *slog.Logger) *AppModel {
	if l != nil {
		m.logger = l
	}
	return m
}

// AsTeaModel returns a tea.Model for the program.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func newKeymap() *KeybindRegistry {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.BindWithDesc("ctrl+c", tea.Quit, "Quit")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindWithDesc("tab", send(CycleModeMsg{Delta: 1}), "Next page")
	reg.BindWithDesc("shift+tab", send(CycleModeMsg{Delta: -1}), "Previous page")

	goKeys := map[AppMode]string{
		ModeDashboard:   "d",
		ModeProduct:     "p",
		ModeVideo:       "v",
		ModeTransfers:   "t",
		ModeDeployments: "D",
	}
	for i, mode := range Modes {
		sw := send(SwitchModeMsg{Mode: mode})
		reg.Bind(string(rune('1'+i)), sw)
		reg.BindWithDesc("SPC g "+goKeys[mode], sw, mode.String())
	}

	product := []AppMode{ModeProduct}
	reg.BindWithDescForMode("SPC p a", send(AddToCartMsg{}), "Add to cart", product)
	reg.BindWithDescForMode("SPC p s", send(ShareProductMsg{}), "Share", product)
	reg.BindWithDescForMode("SPC p g", send(ShowSizeGuideMsg{}), "Size guide", product)

	video := []AppMode{ModeVideo}
	reg.BindWithDescForMode("SPC v s", send(ToggleSubscribeMsg{}), "Subscribe", video)
	reg.BindWithDescForMode("SPC v l", send(ToggleLikeMsg{}), "Like", video)
	reg.BindWithDescForMode("SPC v h", send(ShareVideoMsg{}), "Share", video)

	// Transfers can run from any page; completion opens a modal wherever
	// the user is.
	reg.BindWithDesc("SPC t u", send(StartTransferMsg{ID: session.SimUpload}), "Upload")
	reg.BindWithDesc("SPC t d", send(StartTransferMsg{ID: session.SimDownload}), "Download")
	reg.BindWithDesc("SPC t e", send(StartTransferMsg{ID: session.SimExport}), "Export report")
	reg.BindWithDescForMode("SPC t c", send(CancelTransferMsg{}), "Cancel selected", []AppMode{ModeTransfers})

	deployments := []AppMode{ModeDeployments}
	reg.BindWithDescForMode("SPC d n", send(ShowCreateEnvMsg{}), "New variable", deployments)
	reg.BindWithDescForMode("SPC d r", send(RefreshMsg{}), "Refresh", deployments)
	return reg
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(
		waitForProgress(a.Events),
		a.Deployments.Init(),
		a.Dashboard.Init(),
	)
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progress.Event:
		if a.Session.HandleEvent(msg) {
			a.Transfers.Record(msg)
		}
		return a, waitForProgress(a.Events)
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		page := tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-3, 1)}
		var cmds []tea.Cmd
		for _, mode := range Modes {
			_, cmd := a.view(mode).Update(page)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)
	case spinner.TickMsg, StoreLoadedMsg, SelectProjectMsg, RefreshMsg:
		_, cmd := a.Deployments.Update(msg)
		return a, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "ctrl+c" {
		return a, tea.Quit
	}
	if handled, cmd := a.Overlay.Update(msg); handled {
		return a, cmd
	}

	switch msg := msg.(type) {
	case SwitchModeMsg:
		a.Mode = msg.Mode
		return a, nil
	case CycleModeMsg:
		a.Mode = a.Mode.Shift(msg.Delta)
		return a, nil
	case StartTransferMsg:
		if _, err := a.Session.StartTransfer(msg.ID); err != nil {
			a.logger.Warn("start transfer", "error", err)
		}
		return a, nil
	case CancelTransferMsg:
		id := msg.ID
		if id == "" {
			id = a.Transfers.Selected()
		}
		if err := a.Session.CancelTransfer(id); err != nil {
			a.logger.Warn("cancel transfer", "error", err)
		}
		return a, nil
	case AddToCartMsg:
		a.Session.AddToCart()
		return a, nil
	case ShareProductMsg:
		a.Session.ShareProduct()
		return a, nil
	case ShowSizeGuideMsg:
		a.Session.ShowSizeGuide()
		return a, nil
	case ToggleSubscribeMsg:
		a.Session.ToggleSubscribe()
		return a, nil
	case ToggleLikeMsg:
		a.Session.ToggleLike()
		return a, nil
	case ShareVideoMsg:
		a.Session.ShareVideo()
		return a, nil
	case ShowCreateEnvMsg:
		return a, a.showCreateEnv()
	case CreateEnvMsg:
		a.Session.Modals().Close()
		return a, a.Deployments.CreateEnv(msg.ProjectID, msg.Request)
	case EnvCreatedMsg:
		a.Deployments.Update(msg)
		a.envCreated(msg)
		return a, nil
	case tea.KeyMsg:
		if consumed, cmd := a.KeyHandler.Handle(msg, a.Mode); consumed {
			return a, cmd
		}
	}

	v, cmd := a.view(a.Mode).Update(msg)
	a.setView(a.Mode, v)
	return a, cmd
}

func (a *appModelAdapter) showCreateEnv() tea.Cmd {
	p, ok := a.Deployments.SelectedProject()
	if !ok {
		a.Session.Modals().Open(modal.KindAPIError, modal.ErrorPayload{
			Op:      "create env",
			Message: "No project selected. Load projects first.",
		})
		return nil
	}
	form := NewEnvForm(p.ID, p.Name)
	a.Session.Modals().Open(modal.KindCreateEnv, form)
	return form.Init()
}

func (a *appModelAdapter) envCreated(msg EnvCreatedMsg) {
	if msg.Err != nil {
		a.Session.Modals().Open(modal.KindAPIError, modal.ErrorPayload{Op: "create env", Message: msg.Err.Error()})
		return
	}
	project := msg.ProjectID
	if p, ok := a.Deployments.SelectedProject(); ok && p.ID == msg.ProjectID {
		project = p.Name
	}
	a.Session.Modals().Open(modal.KindEnvCreated, modal.EnvVarPayload{
		Project: project,
		Key:     msg.Env.Key,
		Type:    msg.Env.Type,
		Target:  msg.Env.Target,
	})
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	var b strings.Builder
	b.WriteString(a.tabBar() + "\n\n")
	b.WriteString(a.view(a.Mode).View())
	if a.KeyHandler.LeaderWaiting {
		if hints := RenderKeybindHelp(a.KeyHandler, a.Mode); hints != "" {
			b.WriteString("\n" + hints)
		}
	}
	if a.Overlay.Open() {
		return a.Overlay.Place(b.String(), a.width, a.height)
	}
	return b.String()
}

func (a *appModelAdapter) tabBar() string {
	tabs := make([]string, len(Modes))
	for i, mode := range Modes {
		label := string(rune('1'+i)) + " " + mode.String()
		if mode == a.Mode {
			tabs[i] = Styles.TabActive.Render(label)
		} else {
			tabs[i] = Styles.Tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *appModelAdapter) view(mode AppMode) View {
	switch mode {
	case ModeProduct:
		return a.Product
	case ModeVideo:
		return a.Video
	case ModeTransfers:
		return a.Transfers
	case ModeDeployments:
		return a.Deployments
	default:
		return a.Dashboard
	}
}

func (a *appModelAdapter) setView(mode AppMode, v View) {
	switch v := v.(type) {
	case *DashboardView:
		a.Dashboard = v
	case *ProductView:
		a.Product = v
	case *VideoView:
		a.Video = v
	case *TransfersView:
		a.Transfers = v
	case *DeploymentsView:
		a.Deployments = v
	}
}
