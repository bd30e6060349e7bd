package ui

import (
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/compscope/internal/event"
	"github.com/dshills/compscope/internal/view"
)

// View identifiers for the two panes.
const (
	SourceViewID    view.ID = "source"
	GeneratedViewID view.ID = "generated"
)

// Handlers are the application actions bound to keys.
type Handlers struct {
	// Compile submits the full source buffer.
	Compile func()

	// Format submits the source buffer for formatting.
	Format func()

	// Quit exits the application.
	Quit func()
}

// UI owns the terminal surface: the source pane, the generated pane
// (created on first output), the status line, and at most one open
// modal. All methods must be called on the scheduler loop.
type UI struct {
	screen    tcell.Screen
	bus       *event.Bus
	styles    Styles
	source    *Pane
	generated *Pane
	focus     *Pane
	modal     modal
	handlers  Handlers
	status    string
	statusErr bool
	fini      atomic.Bool
}

// New creates a UI on a fresh tcell screen.
func New(bus *event.Bus, highlightStyle string) (*UI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, bus, highlightStyle), nil
}

// NewWithScreen creates a UI on the given screen. Tests pass a tcell
// simulation screen.
func NewWithScreen(screen tcell.Screen, bus *event.Bus, highlightStyle string) *UI {
	u := &UI{
		screen: screen,
		bus:    bus,
		styles: NewStyles(highlightStyle),
	}
	u.source = NewPane(SourceViewID, "source", bus)
	u.focus = u.source
	if bus != nil {
		// Content replacement can come from a flow rather than a key
		// press; repaint as soon as it lands.
		bus.Subscribe(view.TopicUpdated, func(event.Envelope) { u.Draw() }) //nolint:errcheck // topic is always valid
	}
	return u
}

// Init initializes the screen. Fini must be called on every exit path.
func (u *UI) Init() error {
	return u.screen.Init()
}

// Fini restores the terminal and stops the event pump. A flow that
// unwinds after shutdown may still report status; Draw becomes a no-op
// from here on.
func (u *UI) Fini() {
	u.fini.Store(true)
	u.screen.Fini()
}

// SetHandlers binds the application actions.
func (u *UI) SetHandlers(h Handlers) {
	u.handlers = h
}

// Source returns the source pane as a view.
func (u *UI) Source() view.View { return u.source }

// SourcePane returns the source pane itself.
func (u *UI) SourcePane() *Pane { return u.source }

// EnsureGenerated returns the generated-output pane, creating it on
// first use.
func (u *UI) EnsureGenerated() view.View {
	if u.generated == nil {
		u.generated = NewPane(GeneratedViewID, "generated", u.bus)
	}
	return u.generated
}

// SetStatus replaces the status-line message.
func (u *UI) SetStatus(msg string, isErr bool) {
	u.status = msg
	u.statusErr = isErr
	u.Draw()
}

// Choice opens a picker modal. The completion fires exactly once with
// the picked item's index, or ok=false on dismissal.
func (u *UI) Choice(title string, items []Item, complete func(index int, ok bool)) {
	u.modal = newPicker(title, items, complete)
	u.Draw()
}

// Text opens a one-line input modal.
func (u *UI) Text(title, initial string, complete func(value string, ok bool)) {
	u.modal = newTextInput(title, initial, complete)
	u.Draw()
}

// StartEventPump reads terminal events on a dedicated goroutine and
// posts their handling onto the loop. It returns immediately; the pump
// stops when Fini interrupts PollEvent.
func (u *UI) StartEventPump(post func(func())) {
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return
			}
			post(func() { u.HandleEvent(ev) })
		}
	}()
}

// HandleEvent processes one terminal event on the loop.
func (u *UI) HandleEvent(ev tcell.Event) {
	switch tev := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
		u.Draw()
	case *tcell.EventKey:
		u.handleKey(tev)
	}
}

// handleKey routes a key press to the open modal or the global bindings.
func (u *UI) handleKey(ev *tcell.EventKey) {
	if u.modal != nil {
		if u.modal.HandleKey(ev) {
			u.modal = nil
		}
		u.Draw()
		return
	}

	switch ev.Key() {
	case tcell.KeyCtrlC:
		u.quit()
		return
	case tcell.KeyEscape:
		u.focus.ClearSelection()
	case tcell.KeyTab:
		u.switchFocus()
	case tcell.KeyUp:
		u.focus.MoveCursor(-1)
	case tcell.KeyDown:
		u.focus.MoveCursor(1)
	case tcell.KeyPgUp:
		u.focus.MoveCursor(-u.focus.PageSize())
	case tcell.KeyPgDn:
		u.focus.MoveCursor(u.focus.PageSize())
	case tcell.KeyF5:
		u.compile()
	case tcell.KeyF6:
		u.format()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			u.quit()
			return
		case 'k':
			u.focus.MoveCursor(-1)
		case 'j':
			u.focus.MoveCursor(1)
		case 'g':
			u.focus.SetCursor(1)
		case 'G':
			u.focus.SetCursor(u.focus.LineCount())
		case 'v':
			u.focus.ToggleSelection()
		case 'c':
			u.compile()
		case 'f':
			u.format()
		}
	}
	u.Draw()
}

// switchFocus moves focus to the other pane, publishing a leave event
// for the pane being left so its session highlights are cleared.
func (u *UI) switchFocus() {
	if u.generated == nil {
		return
	}
	leaving := u.focus
	if u.focus == u.source {
		u.focus = u.generated
	} else {
		u.focus = u.source
	}
	leaving.Leave()
}

func (u *UI) compile() {
	if u.handlers.Compile != nil {
		u.handlers.Compile()
	}
}

func (u *UI) format() {
	if u.handlers.Format != nil {
		u.handlers.Format()
	}
}

func (u *UI) quit() {
	if u.handlers.Quit != nil {
		u.handlers.Quit()
	}
}

// Draw repaints the whole surface.
func (u *UI) Draw() {
	if u.fini.Load() {
		return
	}
	u.screen.Clear()
	w, h := u.screen.Size()
	if h < 2 || w < 2 {
		u.screen.Show()
		return
	}
	contentH := h - 1

	if u.generated == nil {
		u.source.Render(u.screen, 0, 0, w, contentH, u.focus == u.source, u.styles)
	} else {
		half := w / 2
		u.source.Render(u.screen, 0, 0, half, contentH, u.focus == u.source, u.styles)
		drawVertical(u.screen, half, 0, contentH, u.styles.Border)
		u.generated.Render(u.screen, half+1, 0, w-half-1, contentH, u.focus == u.generated, u.styles)
	}

	statusStyle := u.styles.Status
	if u.statusErr {
		statusStyle = u.styles.StatusErr
	}
	drawText(u.screen, 0, h-1, w, " "+u.status, statusStyle)

	if u.modal != nil {
		u.modal.Render(u.screen, u.styles)
	}
	u.screen.Show()
}

// drawVertical draws a one-column separator.
func drawVertical(s tcell.Screen, x, y, h int, style tcell.Style) {
	for row := 0; row < h; row++ {
		s.SetContent(x, y+row, tcell.RuneVLine, nil, style)
	}
}
