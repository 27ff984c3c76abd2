package schema

import "go.jacobcolvin.com/avdl/diag"

// Schema is an Avro schema: exactly one of [Primitive], [Logical], [Record],
// [Enum], [Fixed], [Array], [Map], [Union], or [Reference]. See the package
// doc comment for the closed-variant design.
type Schema interface {
	// Kind returns the variant tag.
	Kind() Kind

	// schema is unexported so the variant set stays closed to this package.
	schema()
}

// Named is implemented by the three named-schema variants.
type Named interface {
	Schema
	SimpleName() string
	FullNamespace() string
	FullName() string
	GetDoc() string
	GetAliases() []string
	GetProps() map[string]any
}

// Propertied is implemented by every schema variant that can carry custom
// properties (everything except [Reference]).
type Propertied interface {
	Schema
	GetProps() map[string]any
}

// Primitive is a bare or annotated primitive schema. A nil/empty Props marks
// it "bare"; any entries promote it to what spec.md calls an
// AnnotatedPrimitive. The two are modelled as a single Go type because the
// only observable difference is whether Props is empty.
type Primitive struct {
	Of    Kind
	Props map[string]any
}

func (p *Primitive) Kind() Kind               { return p.Of }
func (p *Primitive) GetProps() map[string]any { return p.Props }
func (*Primitive) schema()                    {}

// Logical is a primitive carrying a logical-type tag.
type Logical struct {
	Underlying Kind
	Type       LogicalType
	Precision  int // decimal only
	Scale      int // decimal only
	Props      map[string]any
}

func (l *Logical) Kind() Kind               { return l.Underlying }
func (l *Logical) GetProps() map[string]any { return l.Props }
func (*Logical) schema()                    {}

// Record is a named schema with an ordered field list. IsError marks a
// record declared with the IDL `error` keyword (or JSON `"type": "error"`),
// which serialises with that type name instead of "record" but is otherwise
// structurally identical -- spec.md's GLOSSARY treats "error" as a record
// variant, not a distinct Schema kind.
type Record struct {
	Name      string
	Namespace string
	Doc       string
	Fields    []*Field
	Aliases   []string
	Props     map[string]any
	IsError   bool
	full      string
}

func (r *Record) Kind() Kind               { return KindRecord }
func (r *Record) SimpleName() string       { return r.Name }
func (r *Record) FullNamespace() string    { return r.Namespace }
func (r *Record) GetDoc() string           { return r.Doc }
func (r *Record) GetAliases() []string     { return r.Aliases }
func (r *Record) GetProps() map[string]any { return r.Props }
func (*Record) schema()                    {}

// FullName returns the cached fully-qualified name, computing and caching it
// on first use.
func (r *Record) FullName() string {
	if r.full == "" {
		r.full = fullName(r.Namespace, r.Name)
	}

	return r.full
}

// Enum is a named schema with an ordered symbol list and optional default.
type Enum struct {
	Name       string
	Namespace  string
	Doc        string
	Symbols    []string
	Default    string
	HasDefault bool
	Aliases    []string
	Props      map[string]any
	full       string
}

func (e *Enum) Kind() Kind               { return KindEnum }
func (e *Enum) SimpleName() string       { return e.Name }
func (e *Enum) FullNamespace() string    { return e.Namespace }
func (e *Enum) GetDoc() string           { return e.Doc }
func (e *Enum) GetAliases() []string     { return e.Aliases }
func (e *Enum) GetProps() map[string]any { return e.Props }
func (*Enum) schema()                    {}

func (e *Enum) FullName() string {
	if e.full == "" {
		e.full = fullName(e.Namespace, e.Name)
	}

	return e.full
}

// Fixed is a named schema with a byte size.
type Fixed struct {
	Name      string
	Namespace string
	Doc       string
	Size      int
	Aliases   []string
	Props     map[string]any
	full      string
}

func (f *Fixed) Kind() Kind               { return KindFixed }
func (f *Fixed) SimpleName() string       { return f.Name }
func (f *Fixed) FullNamespace() string    { return f.Namespace }
func (f *Fixed) GetDoc() string           { return f.Doc }
func (f *Fixed) GetAliases() []string     { return f.Aliases }
func (f *Fixed) GetProps() map[string]any { return f.Props }
func (*Fixed) schema()                    {}

func (f *Fixed) FullName() string {
	if f.full == "" {
		f.full = fullName(f.Namespace, f.Name)
	}

	return f.full
}

// Array is a homogeneous, ordered collection schema.
type Array struct {
	Items Schema
	Props map[string]any
}

func (a *Array) Kind() Kind               { return KindArray }
func (a *Array) GetProps() map[string]any { return a.Props }
func (*Array) schema()                    {}

// Map is a string-keyed, homogeneous-valued collection schema.
type Map struct {
	Values Schema
	Props  map[string]any
}

func (m *Map) Kind() Kind               { return KindMap }
func (m *Map) GetProps() map[string]any { return m.Props }
func (*Map) schema()                    {}

// Union is an ordered list of alternative schemas. NullableSugar marks a
// union synthesised from the `T?` shorthand; it has no effect on output, but
// downstream inspection (and the reference tool's default-validation
// relaxation) may want to know the union's origin.
type Union struct {
	Types         []Schema
	NullableSugar bool
}

func (u *Union) Kind() Kind { return KindUnion }
func (*Union) schema()      {}

// Reference is a not-yet-resolved use of a named schema, carrying the source
// span of the use site for diagnostics.
type Reference struct {
	Name string
	Span diag.Span
}

func (r *Reference) Kind() Kind { return KindReference }
func (*Reference) schema()      {}

// fullName joins a namespace and simple name per spec.md's glossary
// definition: "namespace.simple", or just "simple" when namespace is empty.
func fullName(namespace, simple string) string {
	if namespace == "" {
		return simple
	}

	return namespace + "." + simple
}

// FullName returns the fully-qualified name for any Schema, or "" for
// unnamed variants (primitives, logical types, arrays, maps, unions,
// references -- a reference's Name is already its use-site spelling, not
// necessarily qualified).
func FullName(s Schema) string {
	if n, ok := s.(Named); ok {
		return n.FullName()
	}

	return ""
}

// UnionTypeKey returns the key used to detect duplicate members inside a
// union, per spec.md §3: primitives key on their name, logical types on
// their underlying primitive name, arrays on "array", maps on "map", named
// types on their fully-qualified name. Unions have no valid key (nesting is
// forbidden outright); callers must check for that separately.
func UnionTypeKey(s Schema) string {
	switch v := s.(type) {
	case *Primitive:
		return string(v.Of)
	case *Logical:
		return string(v.Underlying)
	case *Array:
		return "array"
	case *Map:
		return "map"
	case Named:
		return v.FullName()
	case *Reference:
		return v.Name
	default:
		return ""
	}
}
