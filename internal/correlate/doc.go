// Package correlate builds and serves the line correlation index that
// links a source buffer to the generated output produced from it.
//
// The remote compile service annotates each output line with the source
// line it was derived from, when one exists. BuildIndex folds those
// annotations into a bidirectional lookup structure, and Session layers a
// small event-driven state machine on top of it that keeps highlights in
// a (source view, generated view) pair synchronized as the cursor moves.
//
// The index is immutable once built and is a pure function of its input:
// rebuilding from the same annotated lines yields an identical structure.
// Session handlers run synchronously and never suspend; they only read
// the index and issue highlight clear/apply calls on the opposite view.
package correlate
