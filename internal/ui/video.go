package ui

import (
	"strings"

	"demodeck/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// VideoView is the video watch page.
type VideoView struct {
	sess *session.Session
}

var _ View = (*VideoView)(nil)

// NewVideoView creates the video page for sess.
func NewVideoView(sess *session.Session) *VideoView {
	return &VideoView{sess: sess}
}

// Init implements View.
func (v *VideoView) Init() tea.Cmd { return nil }

// Update implements View.
func (v *VideoView) Update(msg tea.Msg) (View, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "s":
			v.sess.ToggleSubscribe()
		case "l":
			v.sess.ToggleLike()
		case "S":
			v.sess.ShareVideo()
		}
	}
	return v, nil
}

// View implements View.
func (v *VideoView) View() string {
	pg := v.sess.Video
	var b strings.Builder

	b.WriteString(Styles.Box.Render("▶  " + pg.Video.Title + "  " + Styles.Muted.Render(pg.Video.Duration)))
	b.WriteString("\n")
	b.WriteString(Styles.Muted.Render(session.FormatCount(pg.Video.Views)+" views") + "\n\n")

	sub := "Subscribe"
	if pg.Subscribed {
		sub = Styles.Success.Render("Subscribed ✓")
	}
	b.WriteString(Styles.Title.Render(pg.Video.Channel) + "  " +
		Styles.Muted.Render(session.FormatCount(pg.Subscribers)+" subscribers") + "  " + sub + "\n")

	like := "♡"
	if pg.Liked {
		like = Styles.Selected.Render("♥")
	}
	b.WriteString(like + " " + session.FormatCount(pg.Likes) + "\n\n")
	b.WriteString(Styles.Muted.Render("s: subscribe  l: like  S: share"))
	return b.String()
}
