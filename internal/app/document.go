package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is the source text under inspection: where it came from and
// its lines as loaded.
type Document struct {
	// Path is the file path (empty for a scratch buffer).
	Path string

	// Name is the display name (filename or "scratch").
	Name string

	// Extension is the lowercased file extension including the dot,
	// used to narrow the language catalog. Empty for scratch buffers.
	Extension string

	// Lines is the file content split into lines.
	Lines []string
}

// LoadDocument reads a file into a document.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Document{
		Path:      path,
		Name:      filepath.Base(path),
		Extension: strings.ToLower(filepath.Ext(path)),
		Lines:     splitLines(string(data)),
	}, nil
}

// NewScratchDocument creates an empty unsaved document.
func NewScratchDocument() *Document {
	return &Document{Name: "scratch", Lines: []string{""}}
}

// splitLines splits file content into lines, normalizing CRLF endings
// and dropping the empty slot a trailing newline would produce.
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
