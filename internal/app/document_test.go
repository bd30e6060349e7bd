package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "square.CPP")
	content := "int square(int n) {\n    return n * n;\n}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}
	if doc.Name != "square.CPP" {
		t.Errorf("expected name square.CPP, got %q", doc.Name)
	}
	if doc.Extension != ".cpp" {
		t.Errorf("extension should be lowercased, got %q", doc.Extension)
	}
	if len(doc.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(doc.Lines), doc.Lines)
	}
	if doc.Lines[2] != "}" {
		t.Errorf("unexpected last line %q", doc.Lines[2])
	}
}

func TestLoadDocumentMissing(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "absent.c"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNewScratchDocument(t *testing.T) {
	doc := NewScratchDocument()
	if doc.Path != "" {
		t.Errorf("scratch document should have no path, got %q", doc.Path)
	}
	if doc.Extension != "" {
		t.Errorf("scratch document should have no extension, got %q", doc.Extension)
	}
	if len(doc.Lines) != 1 || doc.Lines[0] != "" {
		t.Errorf("scratch document should hold one empty line, got %v", doc.Lines)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"trailing newline dropped", "a\nb\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"crlf normalized", "a\r\nb\r\n", []string{"a", "b"}},
		{"empty content", "", []string{""}},
		{"blank interior lines kept", "a\n\nb\n", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
