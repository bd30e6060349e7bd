package correlate

import (
	"reflect"
	"testing"
)

func TestBuildIndexEmpty(t *testing.T) {
	for _, lines := range [][]AnnotatedLine{nil, {}} {
		ix := BuildIndex(lines)
		if !ix.Empty() {
			t.Error("expected empty index")
		}
		if ix.SourceLines() != 0 || ix.GeneratedLines() != 0 {
			t.Errorf("expected zero sizes, got %d/%d", ix.SourceLines(), ix.GeneratedLines())
		}
		if got := ix.GeneratedFor(1); got != nil {
			t.Errorf("expected nil lookup, got %v", got)
		}
		if _, ok := ix.SourceFor(1); ok {
			t.Error("expected no source for line 1")
		}
	}
}

func TestBuildIndexFanOut(t *testing.T) {
	lines := []AnnotatedLine{
		{Index: 1, Text: "a", Source: 5},
		{Index: 2, Text: "b", Source: 5},
		{Index: 3, Text: "c", Source: 6},
	}
	ix := BuildIndex(lines)

	if got := ix.GeneratedFor(5); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("GeneratedFor(5) = %v, want [1 2]", got)
	}
	if got := ix.GeneratedFor(6); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("GeneratedFor(6) = %v, want [3]", got)
	}
	want := map[int]int{1: 5, 2: 5, 3: 6}
	for gen, src := range want {
		got, ok := ix.SourceFor(gen)
		if !ok || got != src {
			t.Errorf("SourceFor(%d) = %d,%v, want %d,true", gen, got, ok, src)
		}
	}
}

func TestBuildIndexNoAnnotation(t *testing.T) {
	ix := BuildIndex([]AnnotatedLine{{Index: 1, Text: "x"}})
	if !ix.Empty() {
		t.Error("unannotated line must contribute to neither mapping")
	}
}

func TestBuildIndexNonContiguousFanOut(t *testing.T) {
	// One source line expanding into non-adjacent generated lines
	// (loop-unrolled output) preserves encounter order.
	lines := []AnnotatedLine{
		{Index: 1, Text: "mov", Source: 2},
		{Index: 2, Text: ".L1:"},
		{Index: 3, Text: "add", Source: 2},
		{Index: 4, Text: "ret", Source: 3},
		{Index: 5, Text: "nop", Source: 2},
	}
	ix := BuildIndex(lines)
	if got := ix.GeneratedFor(2); !reflect.DeepEqual(got, []int{1, 3, 5}) {
		t.Errorf("GeneratedFor(2) = %v, want [1 3 5]", got)
	}
}

func TestBuildIndexDeterministic(t *testing.T) {
	lines := []AnnotatedLine{
		{Index: 1, Text: "a", Source: 1},
		{Index: 2, Text: "b"},
		{Index: 3, Text: "c", Source: 9},
	}
	if !reflect.DeepEqual(BuildIndex(lines), BuildIndex(lines)) {
		t.Error("rebuilding from the same input must yield an identical index")
	}
}

func TestBuildIndexCrossConsistency(t *testing.T) {
	lines := []AnnotatedLine{
		{Index: 1, Text: "a", Source: 4},
		{Index: 2, Text: "b", Source: 4},
		{Index: 3, Text: "c"},
		{Index: 4, Text: "d", Source: 7},
		{Index: 5, Text: "e", Source: 1},
	}
	ix := BuildIndex(lines)

	// Every generated->source entry appears in the opposite mapping.
	for gen, src := range ix.genToSource {
		found := false
		for _, g := range ix.sourceToGen[src] {
			if g == gen {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("generated %d -> source %d missing from sourceToGen", gen, src)
		}
	}
	// And the converse.
	for src, gens := range ix.sourceToGen {
		if len(gens) == 0 {
			t.Errorf("sourceToGen[%d] is empty; keys must be non-empty by construction", src)
		}
		for _, gen := range gens {
			if got := ix.genToSource[gen]; got != src {
				t.Errorf("genToSource[%d] = %d, want %d", gen, got, src)
			}
		}
	}
}

func TestBuildIndexOutOfRangeStoredAsIs(t *testing.T) {
	// References beyond the original buffer are kept; the view layer
	// no-ops when asked to highlight a line it does not have.
	ix := BuildIndex([]AnnotatedLine{{Index: 1, Text: "a", Source: 9999}})
	if got := ix.GeneratedFor(9999); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("GeneratedFor(9999) = %v, want [1]", got)
	}
}
