package view

import "sort"

// Memory is an in-memory View with no terminal attached. It backs tests
// and headless runs.
type Memory struct {
	id         ID
	lines      []string
	cursor     int
	highlights map[string]map[int]struct{}
}

// NewMemory creates an empty in-memory view.
func NewMemory(id ID) *Memory {
	return &Memory{
		id:         id,
		highlights: make(map[string]map[int]struct{}),
	}
}

// ID returns the view's identifier.
func (m *Memory) ID() ID { return m.id }

// LineCount returns the number of content lines.
func (m *Memory) LineCount() int { return len(m.lines) }

// CursorLine returns the current cursor line, 1-based, or 0 when empty.
func (m *Memory) CursorLine() int { return m.cursor }

// Line returns the content of a 1-based line, or "" when out of range.
func (m *Memory) Line(n int) string {
	if n < 1 || n > len(m.lines) {
		return ""
	}
	return m.lines[n-1]
}

// Lines returns a copy of the view contents.
func (m *Memory) Lines() []string {
	out := make([]string, len(m.lines))
	copy(out, m.lines)
	return out
}

// ReplaceContents replaces the full contents and clamps the cursor.
func (m *Memory) ReplaceContents(lines []string) {
	m.lines = make([]string, len(lines))
	copy(m.lines, lines)
	switch {
	case len(m.lines) == 0:
		m.cursor = 0
	case m.cursor == 0:
		m.cursor = 1
	case m.cursor > len(m.lines):
		m.cursor = len(m.lines)
	}
}

// SetCursor moves the cursor to a 1-based line, clamped to the contents.
func (m *Memory) SetCursor(line int) {
	if len(m.lines) == 0 {
		m.cursor = 0
		return
	}
	if line < 1 {
		line = 1
	}
	if line > len(m.lines) {
		line = len(m.lines)
	}
	m.cursor = line
}

// ApplyHighlight highlights one line within a namespace. Out-of-range
// lines are ignored.
func (m *Memory) ApplyHighlight(namespace string, line int) {
	if line < 1 || line > len(m.lines) {
		return
	}
	set, ok := m.highlights[namespace]
	if !ok {
		set = make(map[int]struct{})
		m.highlights[namespace] = set
	}
	set[line] = struct{}{}
}

// ClearHighlights removes every highlight in a namespace.
func (m *Memory) ClearHighlights(namespace string) {
	delete(m.highlights, namespace)
}

// Highlights returns the highlighted lines in a namespace, sorted.
func (m *Memory) Highlights(namespace string) []int {
	set := m.highlights[namespace]
	if len(set) == 0 {
		return nil
	}
	out := make([]int, 0, len(set))
	for line := range set {
		out = append(out, line)
	}
	sort.Ints(out)
	return out
}

// HasHighlight reports whether a line is highlighted in a namespace.
func (m *Memory) HasHighlight(namespace string, line int) bool {
	_, ok := m.highlights[namespace][line]
	return ok
}
