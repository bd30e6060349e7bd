package view

import (
	"reflect"
	"testing"
)

func TestMemoryReplaceContents(t *testing.T) {
	m := NewMemory("v")
	if m.CursorLine() != 0 {
		t.Errorf("empty view cursor = %d, want 0", m.CursorLine())
	}

	m.ReplaceContents([]string{"a", "b", "c"})
	if m.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", m.LineCount())
	}
	if m.CursorLine() != 1 {
		t.Errorf("cursor after first contents = %d, want 1", m.CursorLine())
	}

	m.SetCursor(3)
	m.ReplaceContents([]string{"x"})
	if m.CursorLine() != 1 {
		t.Errorf("cursor should clamp to new contents, got %d", m.CursorLine())
	}
	if m.Line(1) != "x" {
		t.Errorf("Line(1) = %q, want x", m.Line(1))
	}
	if m.Line(5) != "" {
		t.Errorf("out-of-range Line = %q, want empty", m.Line(5))
	}
}

func TestMemorySetCursorClamps(t *testing.T) {
	m := NewMemory("v")
	m.SetCursor(10)
	if m.CursorLine() != 0 {
		t.Errorf("cursor on empty view = %d, want 0", m.CursorLine())
	}

	m.ReplaceContents([]string{"a", "b"})
	m.SetCursor(-3)
	if m.CursorLine() != 1 {
		t.Errorf("cursor = %d, want 1", m.CursorLine())
	}
	m.SetCursor(99)
	if m.CursorLine() != 2 {
		t.Errorf("cursor = %d, want 2", m.CursorLine())
	}
}

func TestMemoryHighlights(t *testing.T) {
	m := NewMemory("v")
	m.ReplaceContents([]string{"a", "b", "c"})

	m.ApplyHighlight("ns", 2)
	m.ApplyHighlight("ns", 1)
	m.ApplyHighlight("ns", 99) // out of range: no-op
	m.ApplyHighlight("other", 3)

	if got := m.Highlights("ns"); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("Highlights(ns) = %v, want [1 2]", got)
	}
	if !m.HasHighlight("other", 3) {
		t.Error("namespace other should have line 3")
	}

	m.ClearHighlights("ns")
	if got := m.Highlights("ns"); got != nil {
		t.Errorf("Highlights after clear = %v, want nil", got)
	}
	if !m.HasHighlight("other", 3) {
		t.Error("clearing one namespace must not touch another")
	}

	// Clearing an already-clear namespace is a no-op.
	m.ClearHighlights("ns")
}
