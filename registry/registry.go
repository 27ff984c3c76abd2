// Package registry owns the name-to-schema index used to bind unresolved
// [schema.Reference] nodes and reject duplicate named-schema declarations.
package registry

import (
	"errors"
	"fmt"

	"go.jacobcolvin.com/avdl/diag"
	"go.jacobcolvin.com/avdl/schema"
)

// ErrDuplicateName is returned by [Registry.Register] when a fully-qualified
// name is registered twice.
var ErrDuplicateName = errors.New("duplicate schema name")

// entry pairs a registered schema with the span of its declaration, so a
// duplicate-registration diagnostic can point at both occurrences.
type entry struct {
	schema schema.Named
	span   *diag.Span
}

// Registry is an insertion-ordered map from fully-qualified name to the
// named schema registered under it.
type Registry struct {
	order   []string
	entries map[string]entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds s under its [schema.Named.FullName]. span, if non-nil, is
// the source location of the declaration and is used to enrich a duplicate
// diagnostic.
func (r *Registry) Register(s schema.Named, span *diag.Span) error {
	name := s.FullName()

	if existing, ok := r.entries[name]; ok {
		d := diag.Newf("%s: %q already registered", ErrDuplicateName, name)
		if existing.span != nil {
			d = d.WithRelated(diag.New(fmt.Sprintf("first declared here: %s", existing.span.Source)).At(*existing.span))
		}

		if span != nil {
			d = d.At(*span)
		}

		return d
	}

	r.entries[name] = entry{schema: s, span: span}
	r.order = append(r.order, name)

	return nil
}

// Lookup returns the schema registered under name, if any.
func (r *Registry) Lookup(name string) (schema.Named, bool) {
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}

	return e.schema, true
}

// Resolve adapts Lookup to the [schema.Resolver] signature used by default
// value validation.
func (r *Registry) Resolve(name string) (schema.Schema, bool) {
	s, ok := r.Lookup(name)
	if !ok {
		return nil, false
	}

	return s, true
}

// Names returns every registered fully-qualified name in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)

	return out
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	return len(r.order)
}

// All returns every registered schema in registration order.
func (r *Registry) All() []schema.Named {
	out := make([]schema.Named, 0, len(r.order))

	for _, name := range r.order {
		out = append(out, r.entries[name].schema)
	}

	return out
}
