// Package ui renders the application surface on a terminal via tcell:
// two panes (source and generated output) with line-number gutters,
// cursor and correlation highlights, a status line, and the modal
// prompts (choice picker, text input) the flows suspend on.
//
// The UI never mutates state on its own goroutine. The tcell event pump
// forwards every terminal event through a post function onto the
// scheduler loop, so pane contents, highlights, and modal state are only
// ever touched from there.
package ui
