package correlate

// AnnotatedLine is one line of generated output together with the source
// position it was derived from. Line numbers are 1-based. Source is 0 when
// the line carries no source annotation (directives, blank separators).
type AnnotatedLine struct {
	// Index is the 1-based position of the line in the generated output.
	Index int

	// Text is the line content.
	Text string

	// Source is the 1-based source line this output line was derived
	// from, or 0 when the line has no source position.
	Source int
}

// Index is the bidirectional lookup built from a sequence of annotated
// lines. It answers "which generated lines came from this source line"
// and "which source line produced this generated line" in O(1).
//
// Index is immutable after BuildIndex returns and is safe for concurrent
// readers.
type Index struct {
	sourceToGen map[int][]int
	genToSource map[int]int
}

// BuildIndex constructs an Index from an ordered sequence of annotated
// lines in a single pass. It never fails: an empty or nil input produces
// an index with two empty mappings, and lines without a source annotation
// contribute to neither mapping.
//
// Duplicate source references across generated lines are preserved in
// encounter order, so one source line expanding into several generated
// lines (contiguous or not) round-trips faithfully. Source references are
// stored as-is even when they fall outside the original buffer; the view
// layer treats out-of-range highlight targets as a no-op.
func BuildIndex(lines []AnnotatedLine) *Index {
	ix := &Index{
		sourceToGen: make(map[int][]int),
		genToSource: make(map[int]int, len(lines)),
	}
	for _, ln := range lines {
		if ln.Source == 0 {
			continue
		}
		ix.sourceToGen[ln.Source] = append(ix.sourceToGen[ln.Source], ln.Index)
		ix.genToSource[ln.Index] = ln.Source
	}
	return ix
}

// GeneratedFor returns the generated line numbers derived from the given
// source line, in generated-line order. It returns nil when the source
// line produced no output.
func (ix *Index) GeneratedFor(sourceLine int) []int {
	return ix.sourceToGen[sourceLine]
}

// SourceFor returns the source line a generated line was derived from.
// The second return value is false when the generated line carries no
// source annotation.
func (ix *Index) SourceFor(generatedLine int) (int, bool) {
	s, ok := ix.genToSource[generatedLine]
	return s, ok
}

// Empty reports whether the index contains no correlations at all.
func (ix *Index) Empty() bool {
	return len(ix.genToSource) == 0
}

// SourceLines returns the number of distinct source lines with at least
// one correlated generated line.
func (ix *Index) SourceLines() int {
	return len(ix.sourceToGen)
}

// GeneratedLines returns the number of generated lines that carry a
// source annotation.
func (ix *Index) GeneratedLines() int {
	return len(ix.genToSource)
}
