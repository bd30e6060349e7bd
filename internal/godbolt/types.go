package godbolt

import "github.com/dshills/compscope/internal/correlate"

// Language describes one language the service can compile.
type Language struct {
	// ID is the service's language identifier ("c++", "rust").
	ID string

	// Name is the display name.
	Name string

	// Extensions are the file extensions associated with the language,
	// with leading dot (".cpp").
	Extensions []string
}

// Compiler describes one compiler available for a language.
type Compiler struct {
	// ID is the service's compiler identifier ("g132", "clang1700").
	ID string

	// Name is the display name.
	Name string

	// Lang is the language ID the compiler belongs to.
	Lang string
}

// Formatter describes one source formatter the service offers.
type Formatter struct {
	// Type is the service's formatter identifier ("clangformat").
	Type string

	// Name is the display name.
	Name string

	// Styles are the base styles the formatter accepts ("Google", "LLVM").
	Styles []string
}

// CompileRequest describes one compilation round trip.
type CompileRequest struct {
	// CompilerID selects the compiler.
	CompilerID string

	// Source is the full text to compile.
	Source string

	// UserArguments are extra compiler flags, as one shell-style string.
	UserArguments string

	// Intel requests Intel assembly syntax.
	Intel bool
}

// CompileResult is the parsed response of one compilation.
type CompileResult struct {
	// Code is the compiler's exit code.
	Code int

	// Lines are the generated output lines with their source
	// annotations, in output order, 1-based.
	Lines []correlate.AnnotatedLine

	// Stdout and Stderr carry the compiler's diagnostics.
	Stdout []string
	Stderr []string
}

// Texts returns the bare output line texts, for rendering into a view.
func (r *CompileResult) Texts() []string {
	out := make([]string, len(r.Lines))
	for i, ln := range r.Lines {
		out[i] = ln.Text
	}
	return out
}

// FormatRequest describes one formatting round trip.
type FormatRequest struct {
	// FormatterType selects the formatter.
	FormatterType string

	// Style is the base style, if the formatter accepts one.
	Style string

	// Source is the full text to format.
	Source string
}

// FormatResult is the parsed response of one formatting call.
type FormatResult struct {
	// Exit is the formatter's exit code.
	Exit int

	// Text is the formatted source.
	Text string
}
