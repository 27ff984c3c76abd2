package schema

// Kind identifies which variant of the closed Schema sum a value represents.
type Kind string

// Schema kind constants. Primitive kinds double as their Avro "type" name.
const (
	KindNull    Kind = "null"
	KindBoolean Kind = "boolean"
	KindInt     Kind = "int"
	KindLong    Kind = "long"
	KindFloat   Kind = "float"
	KindDouble  Kind = "double"
	KindBytes   Kind = "bytes"
	KindString  Kind = "string"

	KindRecord    Kind = "record"
	KindEnum      Kind = "enum"
	KindFixed     Kind = "fixed"
	KindArray     Kind = "array"
	KindMap       Kind = "map"
	KindUnion     Kind = "union"
	KindReference Kind = "<ref>"
)

// IsPrimitive reports whether k is one of the eight Avro primitive kinds.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindNull, KindBoolean, KindInt, KindLong, KindFloat, KindDouble, KindBytes, KindString:
		return true
	default:
		return false
	}
}

// IsNamed reports whether k is a named-schema kind (record, enum, fixed).
func (k Kind) IsNamed() bool {
	switch k {
	case KindRecord, KindEnum, KindFixed:
		return true
	default:
		return false
	}
}

// LogicalType is a semantic tag layered on a primitive's underlying kind.
type LogicalType string

// Logical type constants, per spec.md §3.
const (
	LogicalDate                  LogicalType = "date"
	LogicalTimeMillis            LogicalType = "time-millis"
	LogicalTimeMicros            LogicalType = "time-micros"
	LogicalTimestampMillis       LogicalType = "timestamp-millis"
	LogicalTimestampMicros       LogicalType = "timestamp-micros"
	LogicalLocalTimestampMillis  LogicalType = "local-timestamp-millis"
	LogicalLocalTimestampMicros  LogicalType = "local-timestamp-micros"
	LogicalUUID                  LogicalType = "uuid"
	LogicalDecimal               LogicalType = "decimal"
)

// UnderlyingForLogical returns the primitive kind required for a logical
// type, and whether the logical type name is recognised at all. Exported for
// the tree walker, which builds [Logical] values directly from IDL shorthand
// syntax (e.g. a bare `date` type use) rather than through
// [WithMergedProperties].
func UnderlyingForLogical(lt LogicalType) (Kind, bool) {
	return underlyingForLogical(lt)
}

// underlyingForLogical returns the primitive kind required for a logical
// type, and whether the logical type name is recognised at all.
func underlyingForLogical(lt LogicalType) (Kind, bool) {
	switch lt {
	case LogicalDate, LogicalTimeMillis:
		return KindInt, true
	case LogicalTimeMicros, LogicalTimestampMillis, LogicalTimestampMicros,
		LogicalLocalTimestampMillis, LogicalLocalTimestampMicros:
		return KindLong, true
	case LogicalUUID:
		return KindString, true
	case LogicalDecimal:
		return KindBytes, true
	default:
		return "", false
	}
}

// reservedTypeNames are Avro built-in type keywords that may not be used as
// a user-defined named schema's simple name (spec.md §3 invariants).
var reservedTypeNames = map[string]bool{
	"boolean": true, "int": true, "long": true, "float": true, "double": true,
	"null": true, "bytes": true, "string": true,
	"date": true, "time_ms": true, "timestamp_ms": true, "local_timestamp_ms": true,
	"time_us": true, "timestamp_us": true, "local_timestamp_us": true,
	"uuid": true, "decimal": true,
}

// IsReservedTypeName reports whether name collides with an Avro built-in
// type keyword and therefore cannot be used as a named schema's simple name.
func IsReservedTypeName(name string) bool {
	return reservedTypeNames[name]
}

// serialiserKeywords are names that collide with Avro JSON "type" keywords;
// the serialiser always fully-qualifies a reference whose simple name
// matches one of these, per spec.md §4.6.
var serialiserKeywords = map[string]bool{
	"record": true, "enum": true, "array": true, "map": true,
	"union": true, "fixed": true,
	"boolean": true, "int": true, "long": true, "float": true, "double": true,
	"null": true, "bytes": true, "string": true,
}

// IsSerialiserKeyword reports whether name collides with an Avro type
// keyword for the purposes of name-shortening ambiguity avoidance.
func IsSerialiserKeyword(name string) bool {
	return serialiserKeywords[name]
}
