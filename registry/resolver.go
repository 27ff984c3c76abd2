package registry

import (
	"go.jacobcolvin.com/avdl/schema"
)

// Qualify resolves an unqualified reference name against the current
// namespace, per spec.md §4.1's "Resolution scoping": if currentNamespace is
// empty, the name is used as-is; otherwise it is qualified to
// "currentNamespace.name". Qualify does not look for a '.' in name:
// qualification only ever applies to the bare identifier spelled at the
// reference's use site, so callers check for an already-qualified name
// (one containing a '.') themselves and call Qualify only for bare ones.
func Qualify(currentNamespace, name string) string {
	if currentNamespace == "" {
		return name
	}

	return currentNamespace + "." + name
}

// Unresolved is one [schema.Reference] whose name has no registered schema.
type Unresolved struct {
	Ref *schema.Reference
}

// ValidateReferences walks every Schema reachable from root (through
// records, arrays, maps, and unions) and returns every [schema.Reference]
// that does not resolve in r. A non-empty result is always fatal per
// spec.md §4.4 -- there is no silent-warning path for unresolved references.
func (r *Registry) ValidateReferences(root schema.Schema) []Unresolved {
	var out []Unresolved

	visited := make(map[schema.Schema]bool)
	r.walk(root, visited, &out)

	return out
}

// ValidateProtocolReferences additionally walks a protocol's message request
// parameters, response types, and error types, per spec.md §4.4: "the
// resolver is also responsible for validating references reachable through
// protocol messages."
func (r *Registry) ValidateProtocolReferences(p *schema.Protocol) []Unresolved {
	var out []Unresolved

	visited := make(map[schema.Schema]bool)

	for _, t := range p.Types {
		r.walk(t, visited, &out)
	}

	for _, m := range p.Messages {
		for _, param := range m.Request {
			r.walk(param.Type, visited, &out)
		}

		r.walk(m.Response, visited, &out)

		for _, e := range m.Errors {
			r.walk(e, visited, &out)
		}
	}

	return out
}

func (r *Registry) walk(s schema.Schema, visited map[schema.Schema]bool, out *[]Unresolved) {
	if s == nil || visited[s] {
		return
	}

	visited[s] = true

	switch v := s.(type) {
	case *schema.Reference:
		if _, ok := r.Lookup(v.Name); !ok {
			*out = append(*out, Unresolved{Ref: v})
		}

	case *schema.Record:
		for _, f := range v.Fields {
			r.walk(f.Type, visited, out)
		}

	case *schema.Array:
		r.walk(v.Items, visited, out)

	case *schema.Map:
		r.walk(v.Values, visited, out)

	case *schema.Union:
		for _, m := range v.Types {
			r.walk(m, visited, out)
		}
	}
}
