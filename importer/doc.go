// Package importer resolves the three import forms an Avro IDL file may
// declare -- `import idl`, `import protocol`, and `import schema` -- against
// a base directory and a repeatable search-path list, per spec.md §4.2.
//
// idl imports are folded back through [go.jacobcolvin.com/avdl/internal/grammar]
// and [go.jacobcolvin.com/avdl/walker] so their own nested imports and
// declarations are available to the compiler in the same recursive,
// source-ordered pass; protocol and schema imports read pre-compiled Avro
// JSON, tolerating the reference tool's `//` and `/* */` comments, and are
// converted directly into [schema.Schema]/[schema.Protocol] values without
// going through the grammar at all. The compiler package owns the recursive
// walk over a file's item list (including items folded in from idl
// imports); this package only resolves and loads one import at a time.
package importer
