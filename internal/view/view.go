package view

import "github.com/dshills/compscope/internal/event"

// ID identifies a view within the application.
type ID string

// Topics published for view activity.
const (
	// TopicCursorMoved is published when the cursor moves to a new line
	// within a view.
	TopicCursorMoved event.Topic = "view.cursor.moved"

	// TopicLeft is published when a view loses focus or visibility.
	TopicLeft event.Topic = "view.left"

	// TopicUpdated is published when a view's contents are replaced,
	// so rendering surfaces can repaint without waiting for input.
	TopicUpdated event.Topic = "view.updated"
)

// CursorMoved is the payload for TopicCursorMoved events.
type CursorMoved struct {
	// View is the view whose cursor moved.
	View ID

	// Line is the new cursor line, 1-based.
	Line int
}

// Left is the payload for TopicLeft events.
type Left struct {
	// View is the view that lost focus.
	View ID
}

// Updated is the payload for TopicUpdated events.
type Updated struct {
	// View is the view whose contents were replaced.
	View ID
}

// View is a pane holding lines of text with a cursor and namespaced
// line highlights.
//
// Highlight semantics: applying to a line outside the current contents
// is a no-op, and clearing an already-clear namespace is a no-op. Within
// one namespace the expected discipline is clear-then-apply, so at most
// one highlight set is visible per namespace at a time.
type View interface {
	// ID returns the view's identifier.
	ID() ID

	// LineCount returns the number of content lines.
	LineCount() int

	// CursorLine returns the current cursor line, 1-based. It returns 0
	// for an empty view.
	CursorLine() int

	// ReplaceContents replaces the full contents of the view. The cursor
	// is clamped to the new contents.
	ReplaceContents(lines []string)

	// ApplyHighlight highlights one line within a namespace. Lines
	// outside the contents are ignored.
	ApplyHighlight(namespace string, line int)

	// ClearHighlights removes every highlight in a namespace.
	ClearHighlights(namespace string)
}
