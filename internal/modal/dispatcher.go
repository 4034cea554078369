package modal

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

// State is the open modal and its payload. Payload is only meaningful when
// Active is not None.
type State struct {
	Active  Kind
	Payload any
}

// Open reports whether a modal is showing.
func (s State) Open() bool { return s.Active != None }

// Content is a rendered modal.
type Content struct {
	Kind     Kind
	Title    string
	Body     string
	Fallback bool // Kind had no registered renderer
}

// Renderer maps a payload to a title and body. It must be pure and must not
// panic on an unexpected payload type.
type Renderer func(payload any) (title, body string)

// Typed builds a Renderer for payloads of type P. Any other payload renders
// a generic body under the same title.
func Typed[P any](title string, body func(P) string) Renderer {
	return func(payload any) (string, string) {
		p, ok := payload.(P)
		if !ok {
			return title, genericBody(payload)
		}
		return title, body(p)
	}
}

// Dispatcher holds the single open modal. It belongs to one event loop and
// is not safe for concurrent use.
type Dispatcher struct {
	state     State
	renderers map[Kind]Renderer
	onOpen    func(Kind)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithOpenHook calls fn with the kind on every Open.
func WithOpenHook(fn func(Kind)) Option {
	return func(d *Dispatcher) { d.onOpen = fn }
}

// NewDispatcher returns a closed dispatcher with the default renderers.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{renderers: make(map[Kind]Renderer)}
	for k, r := range defaultRenderers() {
		d.renderers[k] = r
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register adds or replaces the renderer for kind.
func (d *Dispatcher) Register(kind Kind, r Renderer) {
	d.renderers[kind] = r
}

// Known reports whether kind has a renderer.
func (d *Dispatcher) Known(kind Kind) bool {
	_, ok := d.renderers[kind]
	return ok
}

// Kinds returns the registered kinds, sorted.
func (d *Dispatcher) Kinds() []Kind {
	out := make([]Kind, 0, len(d.renderers))
	for k := range d.renderers {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Open shows kind with payload, replacing any open modal. Opening None is
// the same as Close.
func (d *Dispatcher) Open(kind Kind, payload any) {
	if kind == None {
		d.Close()
		return
	}
	d.state = State{Active: kind, Payload: payload}
	if d.onOpen != nil {
		d.onOpen(kind)
	}
}

// Close hides the open modal.
func (d *Dispatcher) Close() {
	d.state = State{}
}

// State returns the open modal and payload.
func (d *Dispatcher) State() State {
	return d.state
}

// Active returns the open kind, or None.
func (d *Dispatcher) Active() Kind {
	return d.state.Active
}

// SetPayload replaces the payload of the open modal without changing its
// kind. No-op when closed.
func (d *Dispatcher) SetPayload(payload any) {
	if d.state.Active != None {
		d.state.Payload = payload
	}
}

// Render maps the open modal to content. ok is false when closed. A kind
// without a renderer gets a fallback body instead of an error.
func (d *Dispatcher) Render() (Content, bool) {
	kind := d.state.Active
	if kind == None {
		return Content{}, false
	}
	r, ok := d.renderers[kind]
	if !ok {
		return Content{
			Kind:     kind,
			Title:    "Notice",
			Body:     d.fallbackBody(kind),
			Fallback: true,
		}, true
	}
	title, body := r(d.state.Payload)
	return Content{Kind: kind, Title: title, Body: body}, true
}

func (d *Dispatcher) fallbackBody(kind Kind) string {
	body := fmt.Sprintf("Nothing to show for %q.", string(kind))
	if s, ok := d.suggest(kind); ok {
		body += fmt.Sprintf("\nDid you mean %q?", string(s))
	}
	return body
}

// suggest returns the registered kind closest to kind by edit distance,
// when it is close enough to be a plausible typo.
func (d *Dispatcher) suggest(kind Kind) (Kind, bool) {
	best, bestDist := None, -1
	for _, k := range d.Kinds() {
		dist := levenshtein.ComputeDistance(string(kind), string(k))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = k, dist
		}
	}
	if bestDist < 0 || bestDist > 3 {
		return None, false
	}
	return best, true
}

func genericBody(payload any) string {
	if payload == nil {
		return "Done."
	}
	if v, ok := payload.(Viewer); ok {
		return v.View()
	}
	if s, ok := payload.(fmt.Stringer); ok {
		return s.String()
	}
	if s, ok := payload.(string); ok {
		return s
	}
	return "Done."
}
