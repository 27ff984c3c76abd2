package walker

import (
	"strings"

	"go.jacobcolvin.com/avdl/diag"
	"go.jacobcolvin.com/avdl/internal/grammar"
	"go.jacobcolvin.com/avdl/registry"
	"go.jacobcolvin.com/avdl/schema"
)

// convertType turns a parsed type expression into a Schema, qualifying bare
// named references against namespace and expanding `T?` into a two-member
// union per spec.md §4.1.
func (w *Walker) convertType(t *grammar.TypeExpr, namespace string) (schema.Schema, *diag.Diagnostic) {
	switch t.Kind {
	case grammar.TypePrimitive:
		return w.convertPrimitive(t)

	case grammar.TypeNamed:
		if len(t.Annotations) > 0 {
			return nil, spanErr(t.Span, "%s", schema.ErrAnnotationOnRef)
		}

		full := t.Name
		if !strings.Contains(full, ".") {
			full = registry.Qualify(namespace, full)
		}

		return &schema.Reference{Name: full, Span: t.Span}, nil

	case grammar.TypeArray:
		elem, err := w.convertType(t.Element, namespace)
		if err != nil {
			return nil, err
		}

		ex, errD := extractAnnotations(t.Annotations, flags{logicalType: true})
		if errD != nil {
			return nil, errD
		}

		return schema.WithMergedProperties(&schema.Array{Items: elem}, ex.props), nil

	case grammar.TypeMap:
		val, err := w.convertType(t.Value, namespace)
		if err != nil {
			return nil, err
		}

		ex, errD := extractAnnotations(t.Annotations, flags{logicalType: true})
		if errD != nil {
			return nil, errD
		}

		return schema.WithMergedProperties(&schema.Map{Values: val}, ex.props), nil

	case grammar.TypeUnion:
		if len(t.Annotations) > 0 {
			return nil, spanErr(t.Span, "annotations are not valid on a union type")
		}

		members := make([]schema.Schema, 0, len(t.Members))

		for _, m := range t.Members {
			ms, err := w.convertType(m, namespace)
			if err != nil {
				return nil, err
			}

			members = append(members, ms)
		}

		if err := schema.ValidateUnion(members); err != nil {
			return nil, spanErr(t.Span, "%s", err)
		}

		return &schema.Union{Types: members}, nil

	case grammar.TypeNullable:
		inner, err := w.convertType(t.Inner, namespace)
		if err != nil {
			return nil, err
		}

		if inner.Kind() == schema.KindNull {
			return nil, spanErr(t.Span, "%s", schema.ErrNullableOnNull)
		}

		// The parser rejects '?' on array/map/union bases, so inner can never
		// itself be a union here; no flattening is needed.
		members := []schema.Schema{&schema.Primitive{Of: schema.KindNull}, inner}

		if err := schema.ValidateUnion(members); err != nil {
			return nil, spanErr(t.Span, "%s", err)
		}

		return &schema.Union{Types: members, NullableSugar: true}, nil

	default:
		return nil, spanErr(t.Span, "unrecognised type expression")
	}
}

func (w *Walker) convertPrimitive(t *grammar.TypeExpr) (schema.Schema, *diag.Diagnostic) {
	ex, errD := extractAnnotations(t.Annotations, flags{logicalType: true})
	if errD != nil {
		return nil, errD
	}

	if kind, ok := primitiveKind(t.Name); ok {
		return schema.WithMergedProperties(&schema.Primitive{Of: kind}, ex.props), nil
	}

	// IDL shorthand spells time types with underscores and an _ms/_us suffix
	// (time_ms, local_timestamp_us); the logical type names use hyphens and
	// -millis/-micros (time-millis, local-timestamp-micros).
	lt := schema.LogicalType(t.Name)
	if base, found := strings.CutSuffix(t.Name, "_ms"); found {
		lt = schema.LogicalType(strings.ReplaceAll(base, "_", "-") + "-millis")
	} else if base, found := strings.CutSuffix(t.Name, "_us"); found {
		lt = schema.LogicalType(strings.ReplaceAll(base, "_", "-") + "-micros")
	}

	underlying, ok := schema.UnderlyingForLogical(lt)
	if !ok {
		return nil, spanErr(t.Span, "unrecognised type name %q", t.Name)
	}

	l := &schema.Logical{Underlying: underlying, Type: lt, Props: ex.props}

	if t.Name == "decimal" {
		if err := schema.ValidateDecimal(t.Precision, t.Scale); err != nil {
			return nil, spanErr(t.Span, "%s", err)
		}

		l.Precision = t.Precision
		l.Scale = t.Scale
	}

	return l, nil
}

func primitiveKind(name string) (schema.Kind, bool) {
	switch name {
	case "null":
		return schema.KindNull, true
	case "boolean":
		return schema.KindBoolean, true
	case "int":
		return schema.KindInt, true
	case "long":
		return schema.KindLong, true
	case "float":
		return schema.KindFloat, true
	case "double":
		return schema.KindDouble, true
	case "bytes":
		return schema.KindBytes, true
	case "string":
		return schema.KindString, true
	default:
		return "", false
	}
}
