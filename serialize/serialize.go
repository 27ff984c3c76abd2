package serialize

import (
	"fmt"

	"go.jacobcolvin.com/avdl/schema"
)

// Serializer renders schemas to JSON-able values, tracking the set of
// fully-qualified names already emitted in full so that a second occurrence
// of the same named type is inlined as a short reference instead of
// repeated in full (spec.md §4.6's "known names set"). A Serializer is
// scoped to one output: `idl` shares one Serializer across an entire
// protocol/schema file; `idl2schemata` constructs a fresh one per output
// file (SPEC_FULL's supplemented feature).
type Serializer struct {
	known map[string]bool
}

// New creates a Serializer with an empty known-names set.
func New() *Serializer {
	return &Serializer{known: map[string]bool{}}
}

// File renders a compiled [schema.File]. Bag files have no single top-level
// JSON value (each named schema in the bag serialises independently, for
// idl2schemata); callers with a [schema.FileBag] should use [Schemata]
// instead.
func File(f *schema.File) (any, error) {
	s := New()

	switch f.Kind {
	case schema.FileProtocol:
		return s.Protocol(f.Protocol), nil
	case schema.FileSchema:
		return s.value(f.Schema, ""), nil
	default:
		return nil, fmt.Errorf("a bag-of-schemas file has no single JSON representation")
	}
}

// Schemata renders every named schema in named independently, each with its
// own fresh known-names set, keyed by simple name -- the shape
// `idl2schemata` writes one file per entry for (SPEC_FULL's supplemented
// feature, flat OUTPUT_DIR/<simple_name>.avsc, no namespace mirroring).
func Schemata(named []schema.Named) map[string]any {
	out := make(map[string]any, len(named))

	for _, n := range named {
		s := New()

		sc, ok := n.(schema.Schema)
		if !ok {
			continue
		}

		out[n.SimpleName()] = s.value(sc, "")
	}

	return out
}

// Protocol renders p, including its "messages" key which -- unlike every
// other container -- is always emitted, even when p has no messages
// (spec.md §4.6).
func (s *Serializer) Protocol(p *schema.Protocol) *object {
	obj := newObject().set("protocol", p.Name)

	if p.Namespace != "" {
		obj.set("namespace", p.Namespace)
	}

	if p.Doc != "" {
		obj.set("doc", p.Doc)
	}

	if len(p.Types) > 0 {
		types := make([]any, 0, len(p.Types))

		for _, t := range p.Types {
			types = append(types, s.value(t, p.Namespace))
		}

		obj.set("types", types)
	}

	messages := newObject()

	for _, m := range p.Messages {
		messages.set(m.Name, s.message(m, p.Namespace))
	}

	obj.set("messages", messages)
	obj.setProps(p.Props)

	return obj
}

func (s *Serializer) message(m *schema.Message, namespace string) *object {
	obj := newObject()

	if m.Doc != "" {
		obj.set("doc", m.Doc)
	}

	request := make([]any, 0, len(m.Request))

	for _, f := range m.Request {
		request = append(request, s.field(f, namespace))
	}

	obj.set("request", request)

	if m.Response == nil {
		obj.set("response", "null")
	} else {
		obj.set("response", s.value(m.Response, namespace))
	}

	if m.OneWay {
		obj.set("one-way", true)
	} else {
		errs := make([]any, 0, len(m.Errors)+1)

		if m.HasImplicitError {
			errs = append(errs, schema.SystemError)
		}

		for _, e := range m.Errors {
			errs = append(errs, s.value(e, namespace))
		}

		obj.set("errors", errs)
	}

	obj.setProps(m.Props)

	return obj
}

func (s *Serializer) field(f *schema.Field, namespace string) *object {
	obj := newObject().
		set("name", f.Name).
		set("type", s.value(f.Type, namespace))

	if f.Doc != "" {
		obj.set("doc", f.Doc)
	}

	if f.HasDefault {
		obj.set("default", f.Default)
	}

	if f.HasOrder {
		obj.set("order", string(f.Order))
	}

	if len(f.Aliases) > 0 {
		obj.set("aliases", toAnySlice(f.Aliases))
	}

	obj.setProps(f.Props)

	return obj
}

// value renders any Schema in the context of the given enclosing namespace,
// used to decide whether a named type needs an explicit "namespace" key and
// whether a reference can be shortened to its simple name.
func (s *Serializer) value(sc schema.Schema, namespace string) any {
	switch v := sc.(type) {
	case *schema.Primitive:
		if len(v.Props) == 0 {
			return string(v.Of)
		}

		return newObject().set("type", string(v.Of)).setProps(v.Props)

	case *schema.Logical:
		obj := newObject().
			set("type", string(v.Underlying)).
			set("logicalType", string(v.Type))

		if v.Type == schema.LogicalDecimal {
			obj.set("precision", v.Precision)
			obj.set("scale", v.Scale)
		}

		obj.setProps(v.Props)

		return obj

	case *schema.Reference:
		return s.shortenRef(v.Name, namespace)

	case *schema.Array:
		obj := newObject().
			set("type", "array").
			set("items", s.value(v.Items, namespace))

		obj.setProps(v.Props)

		return obj

	case *schema.Map:
		obj := newObject().
			set("type", "map").
			set("values", s.value(v.Values, namespace))

		obj.setProps(v.Props)

		return obj

	case *schema.Union:
		members := make([]any, 0, len(v.Types))

		for _, m := range v.Types {
			members = append(members, s.value(m, namespace))
		}

		return members

	case *schema.Record:
		return s.namedValue(v, namespace, v.IsError)

	case *schema.Enum:
		return s.namedValue(v, namespace, false)

	case *schema.Fixed:
		return s.namedValue(v, namespace, false)

	default:
		return nil
	}
}

func (s *Serializer) namedValue(n schema.Named, enclosingNamespace string, isError bool) any {
	full := n.FullName()

	if s.known[full] {
		return s.shortenRef(full, enclosingNamespace)
	}

	s.known[full] = true

	typeKey := typeKeyOf(n, isError)

	obj := newObject().
		set("type", typeKey).
		set("name", n.SimpleName())

	if n.FullNamespace() != enclosingNamespace {
		obj.set("namespace", n.FullNamespace())
	}

	if n.GetDoc() != "" {
		obj.set("doc", n.GetDoc())
	}

	switch v := n.(type) {
	case *schema.Record:
		fields := make([]any, 0, len(v.Fields))

		for _, f := range v.Fields {
			fields = append(fields, s.field(f, n.FullNamespace()))
		}

		obj.set("fields", fields)

	case *schema.Enum:
		obj.set("symbols", toAnySlice(v.Symbols))

		if v.HasDefault {
			obj.set("default", v.Default)
		}

	case *schema.Fixed:
		obj.set("size", v.Size)
	}

	obj.setProps(n.GetProps())

	if aliases := n.GetAliases(); len(aliases) > 0 {
		short := make([]any, len(aliases))
		for i, a := range aliases {
			short[i] = s.shortenRef(a, n.FullNamespace())
		}

		obj.set("aliases", short)
	}

	return obj
}

func typeKeyOf(n schema.Named, isError bool) string {
	switch n.(type) {
	case *schema.Record:
		if isError {
			return "error"
		}

		return "record"
	case *schema.Enum:
		return "enum"
	case *schema.Fixed:
		return "fixed"
	default:
		return ""
	}
}

// shortenRef decides whether a named-type reference string can be shortened
// to its simple name: only when its namespace matches the enclosing one and
// the simple name does not collide with an Avro type keyword (spec.md
// §4.6's schema_ref_name rule).
func (s *Serializer) shortenRef(fullName, enclosingNamespace string) string {
	namespace, simple := schema.SplitAlias(fullName)

	if namespace == enclosingNamespace && !schema.IsSerialiserKeyword(simple) {
		return simple
	}

	return fullName
}

func toAnySlice(strs []string) []any {
	out := make([]any, len(strs))
	for i, s := range strs {
		out[i] = s
	}

	return out
}
