// Package diag defines the structured diagnostic values produced by every
// stage of the compiler pipeline.
//
// A [Diagnostic] carries a message, an optional named source buffer, an
// optional byte-offset [Span] into that buffer, optional help text, and any
// number of related sub-diagnostics (e.g. later parse errors attached to the
// first fatal one). Diagnostics propagate by return value; nothing in this
// package renders source-underlined output -- that is an external
// collaborator's job (see cmd/idl's renderer).
package diag

import "fmt"

// Span is a byte-offset range into a named source buffer.
type Span struct {
	Source string // buffer name, e.g. a file path or "<stdin>"
	Offset int    // byte offset of the span's start
	Length int     // length in bytes; 0 means a point location
}

// Diagnostic is a structured error value carrying enough context to render
// a source-underlined message, without doing so itself.
type Diagnostic struct {
	Message string
	Span    *Span
	Help    string
	Related []*Diagnostic
}

// New creates a Diagnostic with no span or help text.
func New(message string) *Diagnostic {
	return &Diagnostic{Message: message}
}

// Newf creates a Diagnostic from a format string.
func Newf(format string, args ...any) *Diagnostic {
	return &Diagnostic{Message: fmt.Sprintf(format, args...)}
}

// At returns a copy of d with its span set.
func (d *Diagnostic) At(span Span) *Diagnostic {
	cp := *d
	cp.Span = &span

	return &cp
}

// WithHelp returns a copy of d with its help text set.
func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	cp := *d
	cp.Help = help

	return &cp
}

// WithRelated appends related sub-diagnostics and returns d.
func (d *Diagnostic) WithRelated(related ...*Diagnostic) *Diagnostic {
	d.Related = append(d.Related, related...)

	return d
}

// Error implements the error interface. It renders the message and, when
// present, the source/offset -- never a source-underlined excerpt.
func (d *Diagnostic) Error() string {
	if d.Span == nil {
		return d.Message
	}

	if d.Span.Source == "" {
		return fmt.Sprintf("%s (at byte %d)", d.Message, d.Span.Offset)
	}

	return fmt.Sprintf("%s (%s@%d)", d.Message, d.Span.Source, d.Span.Offset)
}

// Unwrap supports errors.Is/As against sentinel errors wrapped into related
// diagnostics is not meaningful here since Diagnostic is a leaf value type;
// Unwrap is intentionally absent. Use [Diagnostic.Related] to walk a chain.

// Warning is a non-fatal diagnostic: out-of-place doc comments, lexer
// recognition quirks. Warnings never change the compiler's exit code.
type Warning struct {
	Message string
	Pos     Position
}

// Position is a human-facing location: line/column plus the byte offset and
// length it corresponds to.
type Position struct {
	Source string
	Line   int
	Column int
	Offset int
	Length int
}

func (w Warning) String() string {
	if w.Pos.Source == "" {
		return fmt.Sprintf("warning: %s", w.Message)
	}

	return fmt.Sprintf("warning: %s:%d:%d: %s", w.Pos.Source, w.Pos.Line, w.Pos.Column, w.Message)
}

// Collector accumulates warnings during a compilation pass, passed explicitly
// through the pipeline as an out-parameter (per spec.md §9's "no global
// state" design note).
type Collector struct {
	warnings []Warning
}

// Add records a warning.
func (c *Collector) Add(w Warning) {
	c.warnings = append(c.warnings, w)
}

// Addf records a warning built from a format string at pos.
func (c *Collector) Addf(pos Position, format string, args ...any) {
	c.Add(Warning{Message: fmt.Sprintf(format, args...), Pos: pos})
}

// All returns the accumulated warnings in emission order.
func (c *Collector) All() []Warning {
	return c.warnings
}

// Merge appends another collector's warnings, typically used when folding
// an import's warnings into the caller's collector (prefixed by the caller).
func (c *Collector) Merge(other *Collector) {
	if other == nil {
		return
	}

	c.warnings = append(c.warnings, other.warnings...)
}
