package schema

import "strconv"

// ReservedPropertyNames are the Avro JSON keys every context reserves; a
// `@name(value)` annotation using one of these is rejected rather than
// folded into the custom property bag (spec.md §4.1).
var ReservedPropertyNames = map[string]bool{
	"name": true, "type": true, "doc": true, "fields": true, "items": true,
	"values": true, "symbols": true, "namespace": true, "size": true,
	"logicalType": true, "aliases": true, "default": true,
}

// IsReservedProperty reports whether name is reserved in every context.
func IsReservedProperty(name string) bool {
	return ReservedPropertyNames[name]
}

// WithMergedProperties merges props into s and returns the result. For a
// bare [Primitive] it returns a new annotated primitive; when the
// merged bag carries a recognised "logicalType" key (with precision/scale
// fitting a 32-bit signed integer for decimal) it promotes further to
// [Logical]. Unrecognised logicalType values are kept as ordinary custom
// properties, matching the Java reference's ignore-invalid behaviour
// (spec.md §4.3). Every other variant has the merged map set on it in place
// and is returned as the same value.
func WithMergedProperties(s Schema, props map[string]any) Schema {
	if len(props) == 0 {
		return s
	}

	switch v := s.(type) {
	case *Primitive:
		merged := mergeMap(v.Props, props)

		if lt, ok := logicalFromProps(v.Of, merged); ok {
			return lt
		}

		return &Primitive{Of: v.Of, Props: merged}

	case *Logical:
		v.Props = mergeMap(v.Props, props)

		return v

	case *Record:
		v.Props = mergeMap(v.Props, props)

		return v

	case *Enum:
		v.Props = mergeMap(v.Props, props)

		return v

	case *Fixed:
		v.Props = mergeMap(v.Props, props)

		return v

	case *Array:
		v.Props = mergeMap(v.Props, props)

		return v

	case *Map:
		v.Props = mergeMap(v.Props, props)

		return v

	default:
		return s
	}
}

// logicalFromProps attempts to promote a primitive of kind underlying into a
// Logical schema using the "logicalType" (and, for decimal, "precision" /
// "scale") entries of props. Returns ok=false if the entries don't describe
// a recognised, valid logical type for underlying -- the caller then keeps
// the properties as ordinary annotations instead.
func logicalFromProps(underlying Kind, props map[string]any) (*Logical, bool) {
	raw, hasLT := props["logicalType"]
	if !hasLT {
		return nil, false
	}

	ltStr, ok := raw.(string)
	if !ok {
		return nil, false
	}

	lt := LogicalType(ltStr)

	wantUnderlying, known := underlyingForLogical(lt)
	if !known || wantUnderlying != underlying {
		return nil, false
	}

	rest := make(map[string]any, len(props))

	for k, v := range props {
		if k == "logicalType" {
			continue
		}

		rest[k] = v
	}

	if lt != LogicalDecimal {
		return &Logical{Underlying: underlying, Type: lt, Props: rest}, true
	}

	precision, ok := intProp(props, "precision")
	if !ok || precision < 1 || precision > 1<<31-1 {
		return nil, false
	}

	scale, ok := intProp(props, "scale")
	if !ok {
		scale = 0
	}

	if scale < 0 || scale > precision {
		return nil, false
	}

	delete(rest, "precision")
	delete(rest, "scale")

	return &Logical{Underlying: underlying, Type: lt, Precision: precision, Scale: scale, Props: rest}, true
}

// intProp extracts an integer-valued property that may have been decoded as
// float64 (JSON numbers), int, or a numeric string.
func intProp(props map[string]any, key string) (int, bool) {
	v, ok := props[key]
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	case string:
		i, err := strconv.Atoi(n)

		return i, err == nil
	default:
		return 0, false
	}
}

func mergeMap(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}

	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}

	for k, v := range src {
		out[k] = v
	}

	return out
}

// SplitAlias splits a (possibly qualified) alias at its last '.', returning
// the namespace portion (empty if unqualified) and the simple name.
func SplitAlias(alias string) (namespace, simple string) {
	for i := len(alias) - 1; i >= 0; i-- {
		if alias[i] == '.' {
			return alias[:i], alias[i+1:]
		}
	}

	return "", alias
}
