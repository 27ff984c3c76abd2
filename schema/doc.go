// Package schema defines the in-memory Avro schema model produced by the
// tree walker and consumed by the registry, resolver, and JSON serialiser.
//
// # Variant Set
//
// A [Schema] is a closed tagged variant, not an interface hierarchy: the set
// of concrete kinds ([Primitive], [Logical], [Record], [Enum], [Fixed],
// [Array], [Map], [Union], [Reference]) is fixed, and every exhaustive switch
// over [Schema.Kind] in this module and its callers is expected to cover all
// nine. Adding a kind means extending the constant set and every switch, not
// adding a new implementation behind an existing abstract method.
//
// # Construction and Mutation
//
// Schemas are built once during the tree walk. Property merging
// ([WithMergedProperties]) consumes the previous schema value and returns the
// merged one: a bare primitive becomes a new annotated primitive or, when the
// merged properties carry a recognised logicalType key, a new [Logical]
// schema; every other variant gets the merged map set on it in place and is
// returned as the same value. After a declaration's
// schema is registered it is treated as immutable for the remainder of
// compilation; it may be shared by reference from the registry, a
// [Protocol]'s type list, and the serialiser's lookup table without cloning.
//
// # Naming
//
// [FullName] returns "namespace.simple" for named schemas (or "simple" when
// the namespace is empty). A named schema computes it on the first call and
// caches it on the value, so serialisation does not rebuild it on every call;
// it is not computed at construction time.
package schema
