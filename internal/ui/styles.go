package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles holds the resolved styles for every surface element.
type Styles struct {
	Base      tcell.Style
	Gutter    tcell.Style
	Cursor    tcell.Style
	Highlight tcell.Style
	Status    tcell.Style
	StatusErr tcell.Style
	Title     tcell.Style
	Selected  tcell.Style
	Border    tcell.Style
}

// NewStyles resolves a highlight style name into the full style set.
// The name is either a known identifier ("cursorline", "reverse") or a
// hex color used as the correlation highlight background.
func NewStyles(highlight string) Styles {
	base := tcell.StyleDefault
	st := Styles{
		Base:      base,
		Gutter:    base.Foreground(tcell.ColorGray),
		Cursor:    base.Background(tcell.ColorDarkSlateGray),
		Status:    base.Reverse(true),
		StatusErr: base.Foreground(tcell.ColorRed).Reverse(true),
		Title:     base.Bold(true),
		Selected:  base.Reverse(true),
		Border:    base.Foreground(tcell.ColorGray),
	}

	switch {
	case strings.HasPrefix(highlight, "#"):
		st.Highlight = base.Background(hexColor(highlight))
	case highlight == "reverse":
		st.Highlight = base.Reverse(true)
	default: // "cursorline" and anything unrecognized
		st.Highlight = base.Background(tcell.ColorDarkBlue)
	}
	return st
}

// hexColor converts "#rrggbb" into a terminal color, softening it
// toward the dark end so highlighted text stays readable.
func hexColor(hex string) tcell.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.ColorDarkBlue
	}
	// Blend toward black so a bright user color works as a background.
	dimmed := c.BlendLab(colorful.Color{}, 0.35).Clamped()
	r, g, b := dimmed.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
