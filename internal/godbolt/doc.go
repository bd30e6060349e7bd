// Package godbolt is a client for Compiler Explorer-style REST services.
//
// It covers the small API surface the application needs: listing
// languages, compilers, and formatters, compiling a source text into
// annotated output lines, and formatting a source text. Each call is a
// single round trip with no retries; failures surface as error values
// carrying the service's message, never as silent empty results.
package godbolt
