// Package walker turns one file's [grammar.File] parse tree into the
// tentative in-memory model the rest of the compiler pipeline operates on:
// [schema.Schema] values for every declaration, doc comments attached via
// [go.jacobcolvin.com/avdl/doccomment], and an ordered item list the
// compiler threads through import resolution and registration in source
// order (spec.md §4.1, §9).
//
// The walker resolves namespacing, expands the `T?` nullable shorthand,
// builds logical types from both shorthand syntax and the legacy
// `@logicalType(...)` annotation on a type expression (an array element, a
// map value, a union member, a main schema), and rejects the structural
// errors spec.md
// §3's invariants name: reserved type names, reserved property names,
// annotated type references, malformed unions, out-of-range enum defaults
// and fixed sizes. Annotations written ahead of a field's, a message's or a
// message parameter's type belong to that field, message or parameter, not to
// the type, so `@logicalType` in that position is rejected as a reserved
// property and builds no logical type. It does not resolve cross-file references (that is
// [go.jacobcolvin.com/avdl/registry]'s job) or validate default-value shapes
// against possibly-forward-declared or imported types (the compiler does
// that once every file in an import graph has been registered).
package walker
