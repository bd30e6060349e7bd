package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Item is one entry offered by a choice picker.
type Item struct {
	// ID is the value reported when the item is picked.
	ID string

	// Label is the text shown in the list.
	Label string
}

// modal is a surface element that captures all key input while open.
// HandleKey returns true when the modal has completed and should be
// removed; completion callbacks fire exactly once.
type modal interface {
	HandleKey(ev *tcell.EventKey) bool
	Render(s tcell.Screen, st Styles)
}

// pickerMaxRows caps the visible list height.
const pickerMaxRows = 12

// picker is a filterable choice list. Typing narrows the list, Enter
// completes with the selected item's original index, Escape dismisses.
type picker struct {
	title    string
	items    []Item
	query    string
	filtered []int // indices into items
	selected int   // index into filtered
	complete func(index int, ok bool)
	done     bool
}

func newPicker(title string, items []Item, complete func(int, bool)) *picker {
	p := &picker{title: title, items: items, complete: complete}
	p.refilter()
	return p
}

// finish fires the completion exactly once.
func (p *picker) finish(index int, ok bool) {
	if p.done {
		return
	}
	p.done = true
	p.complete(index, ok)
}

// refilter recomputes the visible items for the current query.
func (p *picker) refilter() {
	p.filtered = p.filtered[:0]
	q := strings.ToLower(p.query)
	for i, item := range p.items {
		if q == "" || strings.Contains(strings.ToLower(item.Label), q) {
			p.filtered = append(p.filtered, i)
		}
	}
	if p.selected >= len(p.filtered) {
		p.selected = len(p.filtered) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

func (p *picker) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		p.finish(0, false)
		return true
	case tcell.KeyEnter:
		if len(p.filtered) == 0 {
			p.finish(0, false)
			return true
		}
		p.finish(p.filtered[p.selected], true)
		return true
	case tcell.KeyUp, tcell.KeyCtrlP:
		if p.selected > 0 {
			p.selected--
		}
	case tcell.KeyDown, tcell.KeyCtrlN:
		if p.selected < len(p.filtered)-1 {
			p.selected++
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if p.query != "" {
			p.query = p.query[:len(p.query)-1]
			p.refilter()
		}
	case tcell.KeyRune:
		p.query += string(ev.Rune())
		p.refilter()
	}
	return false
}

func (p *picker) Render(s tcell.Screen, st Styles) {
	sw, sh := s.Size()
	rows := len(p.filtered)
	if rows > pickerMaxRows {
		rows = pickerMaxRows
	}
	boxW := sw * 2 / 3
	boxH := rows + 3 // title, query, list, bottom border padding
	x := (sw - boxW) / 2
	y := (sh - boxH) / 3
	if x < 0 || y < 0 {
		x, y = 0, 0
	}

	drawText(s, x, y, boxW, " "+p.title, st.Title)
	drawText(s, x, y+1, boxW, " > "+p.query, st.Base)

	// Keep the selection visible within the capped window.
	first := 0
	if p.selected >= rows {
		first = p.selected - rows + 1
	}
	for row := 0; row < rows; row++ {
		idx := first + row
		style := st.Base
		if idx == p.selected {
			style = st.Selected
		}
		drawText(s, x, y+2+row, boxW, "  "+p.items[p.filtered[idx]].Label, style)
	}
	if len(p.filtered) == 0 {
		drawText(s, x, y+2, boxW, "  (no matches)", st.Gutter)
	}
}

// textInput is a one-line editable prompt. Enter completes with the
// value, Escape dismisses.
type textInput struct {
	title    string
	value    string
	complete func(value string, ok bool)
	done     bool
}

func newTextInput(title, initial string, complete func(string, bool)) *textInput {
	return &textInput{title: title, value: initial, complete: complete}
}

func (t *textInput) finish(value string, ok bool) {
	if t.done {
		return
	}
	t.done = true
	t.complete(value, ok)
}

func (t *textInput) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		t.finish("", false)
		return true
	case tcell.KeyEnter:
		t.finish(t.value, true)
		return true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if t.value != "" {
			t.value = t.value[:len(t.value)-1]
		}
	case tcell.KeyCtrlU:
		t.value = ""
	case tcell.KeyRune:
		t.value += string(ev.Rune())
	}
	return false
}

func (t *textInput) Render(s tcell.Screen, st Styles) {
	sw, sh := s.Size()
	boxW := sw * 2 / 3
	x := (sw - boxW) / 2
	y := sh / 3
	if x < 0 || y < 0 {
		x, y = 0, 0
	}
	drawText(s, x, y, boxW, " "+t.title, st.Title)
	drawText(s, x, y+1, boxW, " > "+t.value+"_", st.Base)
}
