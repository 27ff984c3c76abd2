// Package serialize renders a compiled [schema.File] (or an individual
// [schema.Schema]/[schema.Protocol]) to the Avro JSON text spec.md §4.6
// describes: known-names-set-based first-occurrence inlining of named
// types, alias and reference name-shortening, namespace-key emission rules,
// logical-type emission, and empty-container omission (except a protocol's
// "messages", which is always emitted even when empty).
package serialize
