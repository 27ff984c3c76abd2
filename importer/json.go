package importer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.jacobcolvin.com/avdl/registry"
	"go.jacobcolvin.com/avdl/schema"
)

// jsonReserved are the object keys extractJSONProps never turns into custom
// properties: convertObject/convertRecord/convertField read the ones they
// handle (a primitive's logicalType/precision/scale included) and drop the
// rest; everything else on the same object becomes a custom property,
// mirroring [schema.ReservedPropertyNames] for hand-parsed IDL.
var jsonReserved = map[string]bool{
	"type": true, "name": true, "namespace": true, "doc": true,
	"fields": true, "items": true, "values": true, "symbols": true,
	"size": true, "aliases": true, "default": true, "order": true,
	"logicalType": true, "precision": true, "scale": true,
}

// jsonImporter converts already-decoded Avro protocol/schema JSON (`any`
// values from encoding/json, objects as map[string]any) into [schema.Schema]
// values, recording every named schema it creates in declaration order so
// the caller can register them.
type jsonImporter struct {
	order []schema.Named
}

// StripJSONComments removes `//` line comments and `/* */` block comments
// from data, tolerating the reference tool's non-standard-JSON convention
// for .avpr/.avsc files (spec.md §4.2). Comment-looking sequences inside
// double-quoted string literals are left untouched.
func StripJSONComments(data []byte) []byte {
	out := make([]byte, 0, len(data))

	inString := false
	escaped := false

	for i := 0; i < len(data); i++ {
		c := data[i]

		if inString {
			out = append(out, c)

			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}

			continue
		}

		switch {
		case c == '"':
			inString = true

			out = append(out, c)

		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			for i < len(data) && data[i] != '\n' {
				i++
			}

			i--

		case c == '/' && i+1 < len(data) && data[i+1] == '*':
			i += 2

			for i+1 < len(data) && !(data[i] == '*' && data[i+1] == '/') {
				i++
			}

			i++

		default:
			out = append(out, c)
		}
	}

	return out
}

// LoadSchema decodes a tolerant-JSON .avsc buffer into a Schema, returning
// every named schema discovered (including nested ones) for registration.
func LoadSchema(data []byte) (schema.Schema, []schema.Named, error) {
	var v any
	if err := json.Unmarshal(StripJSONComments(data), &v); err != nil {
		return nil, nil, fmt.Errorf("invalid schema JSON: %w", err)
	}

	ji := &jsonImporter{}

	s, err := ji.convert(v, "")
	if err != nil {
		return nil, nil, err
	}

	return s, ji.order, nil
}

// LoadProtocol decodes a tolerant-JSON .avpr buffer into a Protocol.
func LoadProtocol(data []byte) (*schema.Protocol, error) {
	var v map[string]any
	if err := json.Unmarshal(StripJSONComments(data), &v); err != nil {
		return nil, fmt.Errorf("invalid protocol JSON: %w", err)
	}

	ji := &jsonImporter{}

	name, _ := v["protocol"].(string)
	namespace, _ := v["namespace"].(string)
	namespace, name = splitQualified(name, namespace)

	doc, _ := v["doc"].(string)

	p := &schema.Protocol{Name: name, Namespace: namespace, Doc: doc}

	if typesRaw, ok := v["types"].([]any); ok {
		for _, t := range typesRaw {
			if _, err := ji.convert(t, namespace); err != nil {
				return nil, err
			}
		}
	}

	p.Types = make([]schema.Schema, 0, len(ji.order))
	for _, n := range ji.order {
		p.Types = append(p.Types, n.(schema.Schema))
	}

	if msgsRaw, ok := v["messages"].(map[string]any); ok {
		for msgName, mv := range msgsRaw {
			mobj, ok := mv.(map[string]any)
			if !ok {
				continue
			}

			msg, err := convertJSONMessage(ji, msgName, mobj, namespace)
			if err != nil {
				return nil, err
			}

			p.Messages = append(p.Messages, msg)
		}
	}

	p.Props = extractJSONProps(v, "protocol", "namespace", "doc", "types", "messages")

	return p, nil
}

func convertJSONMessage(ji *jsonImporter, name string, obj map[string]any, namespace string) (*schema.Message, error) {
	m := &schema.Message{Name: name}

	if req, ok := obj["request"].([]any); ok {
		for _, rv := range req {
			robj, ok := rv.(map[string]any)
			if !ok {
				continue
			}

			f, err := convertJSONField(ji, robj, namespace)
			if err != nil {
				return nil, err
			}

			m.Request = append(m.Request, f)
		}
	}

	if resp, ok := obj["response"]; ok {
		r, err := ji.convert(resp, namespace)
		if err != nil {
			return nil, err
		}

		m.Response = r
	}

	if ow, ok := obj["one-way"].(bool); ok {
		m.OneWay = ow
	}

	if errs, ok := obj["errors"].([]any); ok {
		for i, ev := range errs {
			if i == 0 {
				if s, isStr := ev.(string); isStr && s == schema.SystemError {
					m.HasImplicitError = true

					continue
				}
			}

			s, err := ji.convert(ev, namespace)
			if err != nil {
				return nil, err
			}

			m.Errors = append(m.Errors, s)
		}
	} else if !m.OneWay {
		m.HasImplicitError = true
	}

	m.Props = extractJSONProps(obj, "request", "response", "one-way", "errors")

	return m, nil
}

func convertJSONField(ji *jsonImporter, obj map[string]any, namespace string) (*schema.Field, error) {
	name, _ := obj["name"].(string)

	typ, err := ji.convert(obj["type"], namespace)
	if err != nil {
		return nil, err
	}

	f := &schema.Field{Name: name, Type: typ}

	if doc, ok := obj["doc"].(string); ok {
		f.Doc = doc
	}

	if def, ok := obj["default"]; ok {
		f.HasDefault = true
		f.Default = def
	}

	if ord, ok := obj["order"].(string); ok {
		f.Order = schema.Order(ord)
		f.HasOrder = true
	}

	f.Aliases = stringSlice(obj["aliases"])
	f.Props = extractJSONProps(obj, "name", "type", "doc", "default", "order", "aliases")

	return f, nil
}

func (ji *jsonImporter) convert(v any, namespace string) (schema.Schema, error) {
	switch t := v.(type) {
	case string:
		return ji.convertStringType(t, namespace)

	case []any:
		members := make([]schema.Schema, 0, len(t))

		for _, m := range t {
			s, err := ji.convert(m, namespace)
			if err != nil {
				return nil, err
			}

			members = append(members, s)
		}

		if err := schema.ValidateUnion(members); err != nil {
			return nil, err
		}

		return &schema.Union{Types: members}, nil

	case map[string]any:
		return ji.convertObject(t, namespace)

	case nil:
		return &schema.Primitive{Of: schema.KindNull}, nil

	default:
		return nil, fmt.Errorf("unsupported JSON schema node %T", v)
	}
}

func (ji *jsonImporter) convertStringType(name, namespace string) (schema.Schema, error) {
	if kind, ok := jsonPrimitiveKind(name); ok {
		return &schema.Primitive{Of: kind}, nil
	}

	full := name
	if !strings.Contains(full, ".") {
		full = registry.Qualify(namespace, full)
	}

	return &schema.Reference{Name: full}, nil
}

func (ji *jsonImporter) convertObject(obj map[string]any, namespace string) (schema.Schema, error) {
	typVal, ok := obj["type"]
	if !ok {
		return nil, fmt.Errorf("schema object missing %q", "type")
	}

	switch tv := typVal.(type) {
	case string:
		switch tv {
		case "record", "error":
			return ji.convertRecord(obj, namespace, tv == "error")
		case "enum":
			return ji.convertEnum(obj, namespace)
		case "fixed":
			return ji.convertFixed(obj, namespace)
		case "array":
			elem, err := ji.convert(obj["items"], namespace)
			if err != nil {
				return nil, err
			}

			props := extractJSONProps(obj, "type", "items")

			return schema.WithMergedProperties(&schema.Array{Items: elem}, props), nil
		case "map":
			val, err := ji.convert(obj["values"], namespace)
			if err != nil {
				return nil, err
			}

			props := extractJSONProps(obj, "type", "values")

			return schema.WithMergedProperties(&schema.Map{Values: val}, props), nil
		default:
			if kind, ok := jsonPrimitiveKind(tv); ok {
				props := extractJSONProps(obj, "type")

				for _, k := range []string{"logicalType", "precision", "scale"} {
					if v, ok := obj[k]; ok {
						if props == nil {
							props = map[string]any{}
						}

						props[k] = v
					}
				}

				return schema.WithMergedProperties(&schema.Primitive{Of: kind}, props), nil
			}

			full := tv
			if !strings.Contains(full, ".") {
				full = registry.Qualify(namespace, full)
			}

			return &schema.Reference{Name: full}, nil
		}

	default:
		return ji.convert(tv, namespace)
	}
}

func (ji *jsonImporter) convertRecord(obj map[string]any, enclosing string, isError bool) (schema.Schema, error) {
	name, _ := obj["name"].(string)

	ns := enclosing
	if v, ok := obj["namespace"].(string); ok {
		ns = v
	}

	declNamespace, simple := splitQualified(name, ns)

	doc, _ := obj["doc"].(string)

	fieldsRaw, _ := obj["fields"].([]any)
	fields := make([]*schema.Field, 0, len(fieldsRaw))

	for _, fr := range fieldsRaw {
		fobj, ok := fr.(map[string]any)
		if !ok {
			continue
		}

		f, err := convertJSONField(ji, fobj, declNamespace)
		if err != nil {
			return nil, err
		}

		fields = append(fields, f)
	}

	props := extractJSONProps(obj, "type", "name", "namespace", "doc", "fields", "aliases")

	r := &schema.Record{
		Name: simple, Namespace: declNamespace, Doc: doc,
		Fields: fields, Aliases: stringSlice(obj["aliases"]), Props: props, IsError: isError,
	}

	ji.order = append(ji.order, r)

	return r, nil
}

func (ji *jsonImporter) convertEnum(obj map[string]any, enclosing string) (schema.Schema, error) {
	name, _ := obj["name"].(string)

	ns := enclosing
	if v, ok := obj["namespace"].(string); ok {
		ns = v
	}

	declNamespace, simple := splitQualified(name, ns)

	doc, _ := obj["doc"].(string)

	e := &schema.Enum{
		Name: simple, Namespace: declNamespace, Doc: doc,
		Symbols: stringSlice(obj["symbols"]), Aliases: stringSlice(obj["aliases"]),
		Props: extractJSONProps(obj, "type", "name", "namespace", "doc", "symbols", "aliases", "default"),
	}

	if def, ok := obj["default"].(string); ok {
		e.Default = def
		e.HasDefault = true
	}

	ji.order = append(ji.order, e)

	return e, nil
}

func (ji *jsonImporter) convertFixed(obj map[string]any, enclosing string) (schema.Schema, error) {
	name, _ := obj["name"].(string)

	ns := enclosing
	if v, ok := obj["namespace"].(string); ok {
		ns = v
	}

	declNamespace, simple := splitQualified(name, ns)

	size := 0

	switch v := obj["size"].(type) {
	case float64:
		size = int(v)
	case string:
		size, _ = strconv.Atoi(v)
	}

	f := &schema.Fixed{
		Name: simple, Namespace: declNamespace,
		Size: size, Aliases: stringSlice(obj["aliases"]),
		Props: extractJSONProps(obj, "type", "name", "namespace", "size", "aliases"),
	}

	ji.order = append(ji.order, f)

	return f, nil
}

func jsonPrimitiveKind(name string) (schema.Kind, bool) {
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

// splitQualified splits a possibly-dotted declared name, falling back to
// fallbackNamespace when name carries no namespace of its own.
func splitQualified(name, fallbackNamespace string) (namespace, simple string) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}

	return fallbackNamespace, name
}

func stringSlice(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(list))

	for _, e := range list {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

// extractJSONProps copies every key of obj not named in reserved into a
// custom-property bag, skipping the well-known Avro JSON keys for the
// calling context.
func extractJSONProps(obj map[string]any, reserved ...string) map[string]any {
	skip := make(map[string]bool, len(reserved))
	for _, k := range reserved {
		skip[k] = true
	}

	var props map[string]any

	for k, v := range obj {
		if skip[k] || jsonReserved[k] {
			continue
		}

		if props == nil {
			props = map[string]any{}
		}

		props[k] = v
	}

	return props
}
