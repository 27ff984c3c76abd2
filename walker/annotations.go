package walker

import (
	"go.jacobcolvin.com/avdl/diag"
	"go.jacobcolvin.com/avdl/internal/grammar"
	"go.jacobcolvin.com/avdl/schema"
)

// flags selects which pseudo-properties a declaration context recognises;
// every other non-reserved annotation name is folded into the custom
// property bag. Matches spec.md §4.1's property extraction table.
type flags struct {
	namespace    bool
	aliases      bool
	order        bool
	logicalType  bool // type-expression sites only: @logicalType(...) legacy syntax
}

// extracted is the parsed-out result of a declaration's annotation list.
type extracted struct {
	namespace    string
	hasNamespace bool
	aliases      []string
	order        schema.Order
	hasOrder     bool
	props        map[string]any
}

func extractAnnotations(anns []*grammar.Annotation, f flags) (extracted, *diag.Diagnostic) {
	var out extracted

	for _, a := range anns {
		switch {
		case f.namespace && a.Name == "namespace":
			s, ok := a.Value.(string)
			if !ok {
				return out, spanErr(a.Span, "@namespace requires a string value")
			}

			out.namespace = s
			out.hasNamespace = true

		case f.aliases && a.Name == "aliases":
			list, ok := a.Value.([]any)
			if !ok {
				return out, spanErr(a.Span, "@aliases requires an array of strings")
			}

			for _, v := range list {
				s, ok := v.(string)
				if !ok {
					return out, spanErr(a.Span, "@aliases requires an array of strings")
				}

				out.aliases = append(out.aliases, s)
			}

			if err := schema.ValidateAliases(out.aliases); err != nil {
				return out, spanErr(a.Span, "%s", err)
			}

		case f.order && a.Name == "order":
			s, ok := a.Value.(string)
			if !ok {
				return out, spanErr(a.Span, "@order requires a string value")
			}

			o := schema.Order(s)
			if o != schema.OrderAscending && o != schema.OrderDescending && o != schema.OrderIgnore {
				return out, spanErr(a.Span, "invalid field order %q", s)
			}

			out.order = o
			out.hasOrder = true

		case a.Name == "logicalType" && !f.logicalType:
			return out, spanErr(a.Span, "%s: %q", schema.ErrReservedProperty, a.Name)

		default:
			if schema.IsReservedProperty(a.Name) && !(f.logicalType && a.Name == "logicalType") {
				return out, spanErr(a.Span, "%s: %q", schema.ErrReservedProperty, a.Name)
			}

			if out.props == nil {
				out.props = map[string]any{}
			}

			out.props[a.Name] = a.Value
		}
	}

	return out, nil
}

func spanErr(span diag.Span, format string, args ...any) *diag.Diagnostic {
	return diag.Newf(format, args...).At(span)
}
