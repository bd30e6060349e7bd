package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/compscope/internal/event"
	"github.com/dshills/compscope/internal/view"
)

// gutterWidth is the line-number column width including the separator.
const gutterWidth = 5

// Pane is a rendered view: lines, a cursor, a scroll position, and
// namespaced highlights. It implements view.View, and publishes cursor
// and leave events on the bus so highlight sessions can react.
type Pane struct {
	id         view.ID
	title      string
	bus        *event.Bus
	lines      []string
	cursor     int // 1-based; 0 when empty
	top        int // first visible line, 1-based
	height     int // last rendered content height, for paging
	anchor     int // selection anchor line; 0 when no selection
	highlights map[string]map[int]struct{}
}

// NewPane creates an empty pane.
func NewPane(id view.ID, title string, bus *event.Bus) *Pane {
	return &Pane{
		id:         id,
		title:      title,
		bus:        bus,
		top:        1,
		highlights: make(map[string]map[int]struct{}),
	}
}

// ID returns the pane's view identifier.
func (p *Pane) ID() view.ID { return p.id }

// Title returns the pane's display title.
func (p *Pane) Title() string { return p.title }

// LineCount returns the number of content lines.
func (p *Pane) LineCount() int { return len(p.lines) }

// CursorLine returns the cursor line, 1-based, or 0 when empty.
func (p *Pane) CursorLine() int { return p.cursor }

// Lines returns a copy of the pane contents.
func (p *Pane) Lines() []string {
	out := make([]string, len(p.lines))
	copy(out, p.lines)
	return out
}

// ReplaceContents replaces the pane contents wholesale, clamping the
// cursor and scroll position.
func (p *Pane) ReplaceContents(lines []string) {
	p.lines = make([]string, len(lines))
	copy(p.lines, lines)
	p.anchor = 0
	switch {
	case len(p.lines) == 0:
		p.cursor = 0
		p.top = 1
	case p.cursor == 0:
		p.cursor = 1
		p.top = 1
	case p.cursor > len(p.lines):
		p.cursor = len(p.lines)
	}
	p.scrollIntoView()
	p.publish(view.TopicUpdated, view.Updated{View: p.id})
}

// ToggleSelection starts a line selection anchored at the cursor, or
// drops the selection when one is active.
func (p *Pane) ToggleSelection() {
	if p.anchor != 0 {
		p.anchor = 0
		return
	}
	if p.cursor == 0 {
		return
	}
	p.anchor = p.cursor
}

// ClearSelection drops any active selection.
func (p *Pane) ClearSelection() {
	p.anchor = 0
}

// Selection returns the selected line range, inclusive and ordered,
// with ok=false when no selection is active.
func (p *Pane) Selection() (start, end int, ok bool) {
	if p.anchor == 0 {
		return 0, 0, false
	}
	start, end = p.anchor, p.cursor
	if start > end {
		start, end = end, start
	}
	return start, end, true
}

// SelectedLines returns a copy of the selected lines, or nil when no
// selection is active.
func (p *Pane) SelectedLines() []string {
	start, end, ok := p.Selection()
	if !ok {
		return nil
	}
	out := make([]string, end-start+1)
	copy(out, p.lines[start-1:end])
	return out
}

// ApplyHighlight highlights one line in a namespace. Out-of-range lines
// are ignored.
func (p *Pane) ApplyHighlight(namespace string, line int) {
	if line < 1 || line > len(p.lines) {
		return
	}
	set, ok := p.highlights[namespace]
	if !ok {
		set = make(map[int]struct{})
		p.highlights[namespace] = set
	}
	set[line] = struct{}{}
}

// ClearHighlights removes every highlight in a namespace.
func (p *Pane) ClearHighlights(namespace string) {
	delete(p.highlights, namespace)
}

// MoveCursor moves the cursor by delta lines, scrolls it into view, and
// publishes the movement.
func (p *Pane) MoveCursor(delta int) {
	p.SetCursor(p.cursor + delta)
}

// SetCursor moves the cursor to a line, clamped to the contents, and
// publishes the movement when the line changed.
func (p *Pane) SetCursor(line int) {
	if len(p.lines) == 0 {
		return
	}
	if line < 1 {
		line = 1
	}
	if line > len(p.lines) {
		line = len(p.lines)
	}
	if line == p.cursor {
		return
	}
	p.cursor = line
	p.scrollIntoView()
	p.publish(view.TopicCursorMoved, view.CursorMoved{View: p.id, Line: p.cursor})
}

// PageSize returns the number of lines one page movement covers.
func (p *Pane) PageSize() int {
	if p.height <= 1 {
		return 1
	}
	return p.height - 1
}

// Leave publishes a focus-leave event for the pane.
func (p *Pane) Leave() {
	p.publish(view.TopicLeft, view.Left{View: p.id})
}

// publish sends one event on the bus, when one is attached.
func (p *Pane) publish(topic event.Topic, payload any) {
	if p.bus == nil {
		return
	}
	env := event.Envelope{Topic: topic, Payload: payload}
	p.bus.Publish(env) //nolint:errcheck // topic is always valid
}

// scrollIntoView keeps the cursor inside the last rendered window.
func (p *Pane) scrollIntoView() {
	if p.height <= 0 {
		return
	}
	if p.cursor > 0 && p.cursor < p.top {
		p.top = p.cursor
	}
	if p.cursor >= p.top+p.height {
		p.top = p.cursor - p.height + 1
	}
	if p.top < 1 {
		p.top = 1
	}
}

// highlighted reports whether any namespace highlights the line.
func (p *Pane) highlighted(line int) bool {
	for _, set := range p.highlights {
		if _, ok := set[line]; ok {
			return true
		}
	}
	return false
}

// Render draws the pane into the given rectangle. The first row is the
// title bar; the rest is content with a line-number gutter.
func (p *Pane) Render(s tcell.Screen, x, y, w, h int, focused bool, st Styles) {
	if w <= 0 || h <= 0 {
		return
	}

	title := " " + p.title + " "
	titleStyle := st.Border
	if focused {
		titleStyle = st.Title
	}
	drawText(s, x, y, w, title, titleStyle)

	p.height = h - 1
	p.scrollIntoView()
	selStart, selEnd, selected := p.Selection()

	for row := 0; row < p.height; row++ {
		lineNo := p.top + row
		sy := y + 1 + row
		if lineNo > len(p.lines) {
			drawText(s, x, sy, w, "", st.Base)
			continue
		}

		style := st.Base
		switch {
		case p.highlighted(lineNo):
			style = st.Highlight
		case selected && lineNo >= selStart && lineNo <= selEnd:
			style = st.Selected
		case focused && lineNo == p.cursor:
			style = st.Cursor
		}

		gutter := fmt.Sprintf("%4d ", lineNo)
		drawText(s, x, sy, gutterWidth, gutter, st.Gutter)
		drawText(s, x+gutterWidth, sy, w-gutterWidth, p.lines[lineNo-1], style)
	}
}

// drawText writes a string into a clipped row, padding with spaces so
// the style covers the full width.
func drawText(s tcell.Screen, x, y, w int, text string, style tcell.Style) {
	col := 0
	for _, r := range text {
		if col >= w {
			break
		}
		s.SetContent(x+col, y, r, nil, style)
		col++
	}
	for ; col < w; col++ {
		s.SetContent(x+col, y, ' ', nil, style)
	}
}
