package correlate

import (
	"fmt"

	"github.com/dshills/compscope/internal/event"
	"github.com/dshills/compscope/internal/view"
)

// sessionState tracks whether a session currently has highlights applied.
type sessionState int

const (
	// stateIdle means no highlight is applied in either view.
	stateIdle sessionState = iota
	// stateActive means a correlated highlight set is applied.
	stateActive
)

// Session is the live wiring of one Index to a (source view, generated
// view) pair. It reacts to cursor movement and view-leave events in
// either view by clearing and re-applying highlights in the opposite
// view.
//
// All handlers run synchronously on the publishing goroutine and never
// suspend. Within the session's namespace at most one highlight set is
// visible per target view: every apply is preceded by a clear of that
// view's namespace.
type Session struct {
	index     *Index
	source    view.View
	generated view.View
	namespace string
	state     sessionState
	subs      []event.Subscription
	bus       *event.Bus
}

// attach subscribes the session to cursor and leave events on the bus.
func (s *Session) attach(bus *event.Bus) error {
	s.bus = bus
	moveSub, err := bus.Subscribe(view.TopicCursorMoved, s.onCursorMoved)
	if err != nil {
		return err
	}
	leftSub, err := bus.Subscribe(view.TopicLeft, s.onLeft)
	if err != nil {
		bus.Unsubscribe(moveSub) //nolint:errcheck // best-effort rollback
		return err
	}
	s.subs = []event.Subscription{moveSub, leftSub}
	return nil
}

// detach removes the session's subscriptions. Highlights are left in
// place; a replacing session clears them before its first apply.
func (s *Session) detach() {
	for _, sub := range s.subs {
		s.bus.Unsubscribe(sub) //nolint:errcheck // already-removed is fine
	}
	s.subs = nil
}

// Namespace returns the highlight namespace owned by this view pair.
func (s *Session) Namespace() string { return s.namespace }

// Active reports whether the session currently has highlights applied.
func (s *Session) Active() bool { return s.state == stateActive }

// onCursorMoved handles cursor movement in either view of the pair.
func (s *Session) onCursorMoved(env event.Envelope) {
	moved, ok := env.Payload.(view.CursorMoved)
	if !ok {
		return
	}
	switch moved.View {
	case s.source.ID():
		s.syncFromSource(moved.Line)
	case s.generated.ID():
		s.syncFromGenerated(moved.Line)
	}
}

// onLeft handles a view losing focus: whatever this session has applied
// in the opposite view is cleared so no stale highlight lingers.
func (s *Session) onLeft(env event.Envelope) {
	left, ok := env.Payload.(view.Left)
	if !ok {
		return
	}
	switch left.View {
	case s.source.ID():
		s.generated.ClearHighlights(s.namespace)
	case s.generated.ID():
		s.source.ClearHighlights(s.namespace)
	default:
		return
	}
	s.state = stateIdle
}

// syncFromSource highlights the generated lines correlated with a source
// cursor line.
func (s *Session) syncFromSource(line int) {
	s.generated.ClearHighlights(s.namespace)
	gens := s.index.GeneratedFor(line)
	if len(gens) == 0 {
		s.state = stateIdle
		return
	}
	for _, g := range gens {
		s.generated.ApplyHighlight(s.namespace, g)
	}
	s.state = stateActive
}

// syncFromGenerated highlights the source line a generated cursor line
// was derived from.
func (s *Session) syncFromGenerated(line int) {
	s.source.ClearHighlights(s.namespace)
	src, ok := s.index.SourceFor(line)
	if !ok {
		s.state = stateIdle
		return
	}
	s.source.ApplyHighlight(s.namespace, src)
	s.state = stateActive
}

// Controller owns the highlight sessions, keyed by view pair. Starting a
// session for a pair that already has one replaces the old session: the
// old session is detached from the bus and dropped, and its highlights
// are overwritten by the new session's first clear-before-apply in each
// view (both sessions of a pair share one namespace).
type Controller struct {
	bus      *event.Bus
	sessions map[pairKey]*Session
}

type pairKey struct {
	source    view.ID
	generated view.ID
}

// NewController creates a controller publishing-side wired to the bus.
func NewController(bus *event.Bus) *Controller {
	return &Controller{
		bus:      bus,
		sessions: make(map[pairKey]*Session),
	}
}

// Start wires an index to a view pair and begins highlight
// synchronization. Any prior session for the same pair is replaced.
func (c *Controller) Start(ix *Index, source, generated view.View) (*Session, error) {
	key := pairKey{source: source.ID(), generated: generated.ID()}
	if old, ok := c.sessions[key]; ok {
		old.detach()
		delete(c.sessions, key)
	}

	s := &Session{
		index:     ix,
		source:    source,
		generated: generated,
		namespace: namespaceFor(key),
		state:     stateIdle,
	}
	if err := s.attach(c.bus); err != nil {
		return nil, err
	}
	c.sessions[key] = s
	return s, nil
}

// Stop tears down the session for a view pair, clearing its highlights
// in both views. It is a no-op when no session exists for the pair.
func (c *Controller) Stop(source, generated view.ID) {
	key := pairKey{source: source, generated: generated}
	s, ok := c.sessions[key]
	if !ok {
		return
	}
	s.detach()
	s.source.ClearHighlights(s.namespace)
	s.generated.ClearHighlights(s.namespace)
	s.state = stateIdle
	delete(c.sessions, key)
}

// StopViews tears down every session involving the given view. Used when
// a view is closed.
func (c *Controller) StopViews(id view.ID) {
	for key := range c.sessions {
		if key.source == id || key.generated == id {
			c.Stop(key.source, key.generated)
		}
	}
}

// Session returns the live session for a view pair, or nil.
func (c *Controller) Session(source, generated view.ID) *Session {
	return c.sessions[pairKey{source: source, generated: generated}]
}

// namespaceFor derives the highlight namespace shared by every session
// on the same view pair.
func namespaceFor(key pairKey) string {
	return fmt.Sprintf("correlate:%s>%s", key.source, key.generated)
}
