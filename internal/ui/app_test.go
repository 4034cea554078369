package ui

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"demodeck/internal/modal"
	"demodeck/internal/progress"
	"demodeck/internal/proxy"
	"demodeck/internal/session"
	"demodeck/internal/vercel"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

const testInterval = 200 * time.Millisecond

type testApp struct {
	*appModelAdapter
	clock  *clockwork.FakeClock
	events chan progress.Event
}

func newTestApp(t *testing.T, store *vercel.Store) *testApp {
	t.Helper()
	fc := clockwork.NewFakeClock()
	ch := make(chan progress.Event, 64)
	sess := session.New(context.Background(),
		session.WithClock(fc),
		session.WithInterval(testInterval),
		session.WithStepper(progress.FixedStep(50)),
		session.WithEmitter(&progress.ChanEmitter{Ch: ch}),
	)
	t.Cleanup(func() {
		for _, id := range session.SimIDs {
			_ = sess.CancelTransfer(id)
		}
		sess.Wait()
	})
	m := NewAppModel(sess, store, ch)
	return &testApp{appModelAdapter: m.AsTeaModel().(*appModelAdapter), clock: fc, events: ch}
}

func newTestStore(t *testing.T) *vercel.Store {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(proxy.NewRouter(proxy.NewMemoryBackend(), nil, nil))
	t.Cleanup(srv.Close)
	client, err := vercel.NewClient(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	return vercel.NewStore(client, nil)
}

func (a *testApp) send(msg tea.Msg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}

// settle runs cmd and feeds back every app message it yields, recursively.
// Timer-driven messages (spinner ticks, cursor blinks) are dropped.
func (a *testApp) settle(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	for _, msg := range runCmd(cmd) {
		if isAppMsg(msg) {
			a.settle(t, a.send(msg))
		}
	}
}

func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func isAppMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case SwitchModeMsg, CycleModeMsg, StartTransferMsg, CancelTransferMsg,
		AddToCartMsg, ShareProductMsg, ShowSizeGuideMsg,
		ToggleSubscribeMsg, ToggleLikeMsg, ShareVideoMsg,
		ShowCreateEnvMsg, CreateEnvMsg, SelectProjectMsg, RefreshMsg,
		StoreLoadedMsg, EnvCreatedMsg, DismissModalMsg:
		return true
	}
	return false
}

// nextEvent reads one simulator event and routes it through the app.
func (a *testApp) nextEvent(t *testing.T) progress.Event {
	t.Helper()
	select {
	case ev := <-a.events:
		a.send(ev)
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for progress event")
		return progress.Event{}
	}
}

func (a *testApp) tick(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatal(err)
	}
	a.clock.Advance(testInterval)
}

func (a *testApp) activeModal() modal.Kind {
	return a.Session.Modals().Active()
}

func TestApp_ModeSwitching(t *testing.T) {
	a := newTestApp(t, nil)

	a.settle(t, a.send(keyMsg("2")))
	if a.Mode != ModeProduct {
		t.Errorf("after 2: mode = %v, want Product", a.Mode)
	}
	a.settle(t, a.send(keyMsg("tab")))
	if a.Mode != ModeVideo {
		t.Errorf("after tab: mode = %v, want Video", a.Mode)
	}
	a.settle(t, a.send(keyMsg("shift+tab")))
	a.settle(t, a.send(keyMsg("shift+tab")))
	if a.Mode != ModeDashboard {
		t.Errorf("after shift+tab x2: mode = %v, want Dashboard", a.Mode)
	}
	a.settle(t, a.send(keyMsg("shift+tab")))
	if a.Mode != ModeDeployments {
		t.Errorf("shift+tab should wrap: mode = %v", a.Mode)
	}

	for _, k := range []string{" ", "g", "t"} {
		a.settle(t, a.send(keyMsg(k)))
	}
	if a.Mode != ModeTransfers {
		t.Errorf("after SPC g t: mode = %v, want Transfers", a.Mode)
	}
	if !strings.Contains(a.View(), "Transfers") {
		t.Error("view should render the transfers page")
	}
}

func TestApp_QuitKeys(t *testing.T) {
	a := newTestApp(t, nil)
	cmd := a.send(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not produce QuitMsg")
	}

	a.Session.AddToCart()
	cmd = a.send(keyMsg("ctrl+c"))
	if cmd == nil {
		t.Fatal("ctrl+c should quit even with a modal open")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not produce QuitMsg")
	}
}

func TestApp_LeaderOpensModal(t *testing.T) {
	a := newTestApp(t, nil)
	a.settle(t, a.send(SwitchModeMsg{Mode: ModeProduct}))

	for _, k := range []string{" ", "p"} {
		a.settle(t, a.send(keyMsg(k)))
	}
	if !a.KeyHandler.LeaderWaiting {
		t.Fatal("expected leader waiting after SPC p")
	}
	if !strings.Contains(a.View(), "Add to cart") {
		t.Error("hint bar should list SPC p a")
	}

	a.settle(t, a.send(keyMsg("a")))
	if a.activeModal() != modal.KindAddToCart {
		t.Fatalf("active modal = %v, want add-to-cart", a.activeModal())
	}
	if a.Session.Product.CartItems != 1 {
		t.Errorf("cart items = %d, want 1", a.Session.Product.CartItems)
	}
	if !strings.Contains(a.View(), "Added to cart") {
		t.Error("view should render the modal")
	}

	// Keys are swallowed by the modal until it closes.
	a.settle(t, a.send(keyMsg("3")))
	if a.Mode != ModeProduct {
		t.Error("key leaked past an open modal")
	}
	a.settle(t, a.send(keyMsg("esc")))
	if a.activeModal() != modal.None {
		t.Error("esc should close the modal")
	}
}

func TestApp_ModeScopedLeaderBindings(t *testing.T) {
	a := newTestApp(t, nil)
	for _, k := range []string{" ", "v", "s"} {
		a.settle(t, a.send(keyMsg(k)))
	}
	if a.activeModal() != modal.None || a.Session.Video.Subscribed {
		t.Error("SPC v s must not fire outside the video page")
	}

	a.settle(t, a.send(SwitchModeMsg{Mode: ModeVideo}))
	for _, k := range []string{" ", "v", "s"} {
		a.settle(t, a.send(keyMsg(k)))
	}
	if a.activeModal() != modal.KindSubscribe {
		t.Errorf("active modal = %v, want subscribe", a.activeModal())
	}
}

func TestApp_TransferCompletes(t *testing.T) {
	a := newTestApp(t, nil)
	a.settle(t, a.send(StartTransferMsg{ID: session.SimUpload}))

	if ev := a.nextEvent(t); ev.Status != progress.StatusStarted {
		t.Fatalf("first event = %v, want started", ev.Status)
	}
	for {
		a.tick(t)
		if ev := a.nextEvent(t); ev.Status.Terminal() {
			break
		}
	}

	if a.activeModal() != modal.KindUploadComplete {
		t.Fatalf("active modal = %v, want upload-complete", a.activeModal())
	}
	view := a.View()
	if !strings.Contains(view, "Upload complete") {
		t.Errorf("view missing modal title:\n%s", view)
	}
	if n := len(a.Session.Notifications()); n != 1 {
		t.Errorf("notifications = %d, want 1", n)
	}
	if len(a.Transfers.lines) != 2 {
		t.Errorf("transfer log = %v, want started and done", a.Transfers.lines)
	}
}

func TestApp_CancelSelectedTransfer(t *testing.T) {
	a := newTestApp(t, nil)
	a.settle(t, a.send(SwitchModeMsg{Mode: ModeTransfers}))
	a.settle(t, a.send(keyMsg("j")))
	if a.Transfers.Selected() != session.SimDownload {
		t.Fatalf("selected = %q", a.Transfers.Selected())
	}

	a.settle(t, a.send(StartTransferMsg{ID: session.SimDownload}))
	a.nextEvent(t)

	for _, k := range []string{" ", "t", "c"} {
		a.settle(t, a.send(keyMsg(k)))
	}
	if ev := a.nextEvent(t); ev.Status != progress.StatusCancelled {
		t.Fatalf("event = %v, want cancelled", ev.Status)
	}
	if a.activeModal() != modal.KindTransferCanceled {
		t.Errorf("active modal = %v, want transfer-cancelled", a.activeModal())
	}
}

func TestApp_CreateEnvFlow(t *testing.T) {
	a := newTestApp(t, newTestStore(t))
	a.settle(t, a.send(SwitchModeMsg{Mode: ModeDeployments}))
	a.settle(t, a.Deployments.Refresh())

	p, ok := a.Deployments.SelectedProject()
	if !ok || p.ID != "prj_storefront" {
		t.Fatalf("selected project = %+v, %v", p, ok)
	}
	if a.Deployments.Loading() {
		t.Error("loading should settle after both calls finish")
	}

	a.settle(t, a.send(keyMsg("n")))
	if a.activeModal() != modal.KindCreateEnv {
		t.Fatalf("active modal = %v, want create-env", a.activeModal())
	}
	for _, r := range "NEW_FLAG" {
		a.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	a.send(keyMsg("tab"))
	for _, r := range "on" {
		a.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if a.Mode != ModeDeployments {
		t.Fatal("typing in the form changed the page")
	}

	a.settle(t, a.send(keyMsg("enter")))
	if a.activeModal() != modal.KindEnvCreated {
		t.Fatalf("active modal = %v, want env-created", a.activeModal())
	}
	payload, ok := a.Session.Modals().State().Payload.(modal.EnvVarPayload)
	if !ok {
		t.Fatalf("payload = %T", a.Session.Modals().State().Payload)
	}
	if payload.Key != "NEW_FLAG" || payload.Project != "storefront" {
		t.Errorf("payload = %+v", payload)
	}
	a.settle(t, a.send(keyMsg("enter")))

	// The same key again collides on every target.
	a.settle(t, a.send(keyMsg("n")))
	for _, r := range "NEW_FLAG" {
		a.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	a.send(keyMsg("tab"))
	a.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	a.settle(t, a.send(keyMsg("enter")))
	if a.activeModal() != modal.KindAPIError {
		t.Fatalf("active modal = %v, want api-error", a.activeModal())
	}
	content, _ := a.Session.Modals().Render()
	if !strings.Contains(content.Body, "already exists") {
		t.Errorf("error body = %q", content.Body)
	}
}

func TestApp_LoadProjectEnvs(t *testing.T) {
	a := newTestApp(t, newTestStore(t))
	a.settle(t, a.send(SwitchModeMsg{Mode: ModeDeployments}))
	a.settle(t, a.Deployments.Refresh())

	a.settle(t, a.send(keyMsg("enter")))
	snap := a.Store.Snapshot()
	if snap.EnvProject != "prj_storefront" || len(snap.Envs) != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
	view := a.View()
	if !strings.Contains(view, "NEXT_PUBLIC_API_URL") {
		t.Errorf("env table missing plain key:\n%s", view)
	}
	if strings.Contains(view, "sk_test_123") {
		t.Error("secret value leaked into the view")
	}
}

func TestApp_CreateEnvWithoutProject(t *testing.T) {
	a := newTestApp(t, nil)
	a.settle(t, a.send(ShowCreateEnvMsg{}))
	if a.activeModal() != modal.KindAPIError {
		t.Errorf("active modal = %v, want api-error", a.activeModal())
	}
}
