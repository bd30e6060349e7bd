// Package view defines the editor-view surface the correlation core
// works against: a pane with replaceable line contents, a cursor, and
// namespaced line highlights.
//
// Views are deliberately narrow. The core only ever replaces a view's
// contents wholesale, reads its cursor line, and clears-then-applies
// highlights within a namespace it owns. Memory implements the interface
// without any terminal attached and backs both tests and headless runs;
// the ui package provides the tcell-rendered implementation.
package view
