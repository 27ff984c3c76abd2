package serialize

import (
	"bytes"
	"encoding/json"
)

// object is an insertion-ordered JSON object. encoding/json randomises
// map[string]any key order on marshal; spec.md §4.6 requires a stable,
// reference-tool-matching key order for named schemas ("type"/"name" before
// "namespace" before "doc" before the type-specific keys before custom
// properties), so every JSON object this package builds goes through object
// rather than a bare map.
type object struct {
	keys []string
	vals map[string]any
}

func newObject() *object {
	return &object{vals: map[string]any{}}
}

// set appends key in insertion order the first time it is seen, and
// overwrites its value on any later call (used to let custom properties
// with reserved-looking names never actually collide, since the walker
// already rejects those before they reach here).
func (o *object) set(key string, value any) *object {
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}

	o.vals[key] = value

	return o
}

func (o *object) has(key string) bool {
	_, ok := o.vals[key]

	return ok
}

// setProps appends every entry of props in map-iteration order (custom
// properties have no meaningful relative order of their own in the source
// IDL once collected into a single bag).
func (o *object) setProps(props map[string]any) *object {
	for k, v := range props {
		o.set(k, v)
	}

	return o
}

func (o *object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}

		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}

		buf.Write(vb)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
