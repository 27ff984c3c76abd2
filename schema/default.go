package schema

import "unicode/utf8"

// Resolver looks up a fully-qualified name in the registry. It is the seam
// default-validation uses to defer through [Reference] schemas without this
// package importing the registry package (which itself imports schema).
type Resolver func(fullName string) (Schema, bool)

// IsValidDefault reports whether value is a structurally valid default for
// schema s, per spec.md §4.1. A nil Resolver treats every [Reference] as
// unresolved, which always fails validation involving it.
func IsValidDefault(value any, s Schema, resolve Resolver) bool {
	switch v := s.(type) {
	case *Primitive:
		return isValidPrimitiveDefault(value, v.Of)

	case *Logical:
		return isValidPrimitiveDefault(value, v.Underlying)

	case *Enum:
		str, ok := value.(string)
		if !ok {
			return false
		}

		for _, sym := range v.Symbols {
			if sym == str {
				return true
			}
		}

		return false

	case *Fixed:
		str, ok := value.(string)
		if !ok {
			return false
		}

		return isLatin1(str)

	case *Record:
		obj, ok := value.(map[string]any)
		if !ok {
			return false
		}

		for _, f := range v.Fields {
			fv, present := obj[f.Name]
			if !present {
				if f.HasDefault {
					continue
				}

				return false
			}

			if !IsValidDefault(fv, f.Type, resolve) {
				return false
			}
		}

		return true

	case *Array:
		arr, ok := value.([]any)
		if !ok {
			return false
		}

		for _, el := range arr {
			if !IsValidDefault(el, v.Items, resolve) {
				return false
			}
		}

		return true

	case *Map:
		obj, ok := value.(map[string]any)
		if !ok {
			return false
		}

		for _, val := range obj {
			if !IsValidDefault(val, v.Values, resolve) {
				return false
			}
		}

		return true

	case *Union:
		// The Java reference relaxes the spec's "first-member only" rule:
		// valid if it matches ANY member.
		for _, member := range v.Types {
			if IsValidDefault(value, member, resolve) {
				return true
			}
		}

		return false

	case *Reference:
		if resolve == nil {
			return false
		}

		target, ok := resolve(v.Name)
		if !ok {
			return false
		}

		return IsValidDefault(value, target, resolve)

	default:
		return false
	}
}

func isValidPrimitiveDefault(value any, kind Kind) bool {
	switch kind {
	case KindNull:
		return value == nil
	case KindBoolean:
		_, ok := value.(bool)

		return ok
	case KindInt:
		n, ok := asInt(value)

		return ok && n >= -1<<31 && n <= 1<<31-1
	case KindLong:
		_, ok := asInt(value)

		return ok
	case KindFloat, KindDouble:
		return isJSONNumber(value)
	case KindBytes, KindString:
		str, ok := value.(string)
		if !ok {
			return false
		}

		if kind == KindBytes {
			return isLatin1(str)
		}

		return true
	default:
		return false
	}
}

func isJSONNumber(value any) bool {
	switch value.(type) {
	case float64, int, int64:
		return true
	default:
		return false
	}
}

// asInt extracts an integral value from a decoded JSON number, accepting
// float64 values that have no fractional part (as encoding/json produces
// for all JSON numbers by default).
func asInt(value any) (int64, bool) {
	switch n := value.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}

		return int64(n), true
	default:
		return 0, false
	}
}

// isLatin1 reports whether every rune in s is a valid byte value (0-255),
// per spec.md §4.1's bytes/fixed default rule.
func isLatin1(s string) bool {
	for _, r := range s {
		if r == utf8.RuneError || r > 0xFF {
			return false
		}
	}

	return true
}

// PromoteDefault widens a JSON integer default that fits in 32 bits to an
// int64 when the field's schema is long (or a union with long before int),
// per spec.md §4.1's type-promotion rule. It has no effect on JSON output;
// it only matters to downstream inspection of the in-memory model.
func PromoteDefault(value any, s Schema) any {
	n, ok := value.(float64)
	if !ok {
		return value
	}

	if n != float64(int32(n)) {
		return value
	}

	switch v := s.(type) {
	case *Primitive:
		if v.Of == KindLong {
			return int64(n)
		}

	case *Union:
		for _, m := range v.Types {
			p, ok := m.(*Primitive)
			if !ok {
				continue
			}

			switch p.Of {
			case KindLong:
				return int64(n)
			case KindInt:
				return value
			}
		}
	}

	return value
}
