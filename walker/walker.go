package walker

import (
	"strings"

	"go.jacobcolvin.com/avdl/diag"
	"go.jacobcolvin.com/avdl/internal/grammar"
	"go.jacobcolvin.com/avdl/registry"
	"go.jacobcolvin.com/avdl/schema"
)

// ItemKind discriminates one member of a [Walked] file's ordered item list.
type ItemKind int

// Item kinds.
const (
	ItemImport ItemKind = iota
	ItemNamed
	ItemMessage
	ItemMain
)

// Import is an import directive, passed through unresolved for the importer
// package to act on.
type Import struct {
	Kind grammar.ImportKind
	Path string
	Span diag.Span
}

// Message is a walked protocol message: request parameters and response,
// error, and property types are fully converted, but any named-type
// references they contain are left as [schema.Reference] values for the
// resolver pass.
type Message struct {
	Name             string
	Doc              string
	Request          []*schema.Field
	Response         schema.Schema
	Void             bool
	OneWay           bool
	Errors           []schema.Schema
	HasImplicitError bool
	Props            map[string]any
	Span             diag.Span
}

// Item is one member of a file's body, in source order.
type Item struct {
	Kind    ItemKind
	Import  *Import
	Named   schema.Named
	Message *Message
	Main    schema.Schema
	Span    diag.Span
}

// Walked is the tentative model produced from one parsed file: an ordered
// item list plus protocol-level metadata, not yet registered or resolved.
type Walked struct {
	FileKind          schema.FileKind
	ProtocolName      string
	ProtocolNamespace string
	ProtocolDoc       string
	ProtocolProps     map[string]any
	Items             []*Item
	// Schema is set when FileKind is schema.FileSchema: either the lone
	// main-schema type expression, or the lone named declaration, whichever
	// form the file took.
	Schema schema.Schema
}

// Walker converts one file's parse tree at a time; it carries no state
// between calls, matching spec.md §9's "no global state" design note.
type Walker struct{}

// New creates a Walker.
func New() *Walker { return &Walker{} }

// Walk converts f into a [Walked] tentative model. Warnings encountered
// during the walk (beyond the doc-comment placement warnings already folded
// into grammar.Parse's result) are added to col.
func (w *Walker) Walk(f *grammar.File, col *diag.Collector) (*Walked, *diag.Diagnostic) {
	out := &Walked{}

	enclosingNamespace := ""

	if f.IsProtocol {
		out.FileKind = schema.FileProtocol
		out.ProtocolName = f.Name

		ex, err := extractAnnotations(f.Annotations, flags{namespace: true})
		if err != nil {
			return nil, err
		}

		if ex.hasNamespace {
			enclosingNamespace = ex.namespace
		}

		out.ProtocolNamespace = enclosingNamespace
		out.ProtocolProps = ex.props

		if f.Doc != nil {
			out.ProtocolDoc = f.Doc.Text
		}

		for _, item := range f.Items {
			converted, err := w.walkItem(item, enclosingNamespace)
			if err != nil {
				return nil, err
			}

			out.Items = append(out.Items, converted)
		}

		for _, m := range f.Messages {
			msg, err := w.walkMessage(m, enclosingNamespace)
			if err != nil {
				return nil, err
			}

			out.Items = append(out.Items, &Item{Kind: ItemMessage, Message: msg, Span: m.Span})
		}

		return out, nil
	}

	var namedItems, mainItems []*Item

	for _, item := range f.Items {
		converted, err := w.walkItem(item, enclosingNamespace)
		if err != nil {
			return nil, err
		}

		out.Items = append(out.Items, converted)

		switch converted.Kind {
		case ItemNamed:
			namedItems = append(namedItems, converted)
		case ItemMain:
			mainItems = append(mainItems, converted)
		}
	}

	switch {
	case len(mainItems) == 1 && len(namedItems) == 0:
		out.FileKind = schema.FileSchema
		out.Schema = mainItems[0].Main
	case len(mainItems) == 0 && len(namedItems) == 1:
		out.FileKind = schema.FileSchema
		out.Schema = namedItems[0].Named
	default:
		out.FileKind = schema.FileBag
	}

	return out, nil
}

func (w *Walker) walkItem(item *grammar.Item, namespace string) (*Item, *diag.Diagnostic) {
	switch item.Kind {
	case grammar.ItemImportDecl:
		return &Item{
			Kind: ItemImport,
			Import: &Import{
				Kind: item.Import.Kind,
				Path: item.Import.Path,
				Span: item.Import.Span,
			},
			Span: item.Import.Span,
		}, nil

	case grammar.ItemNamedDecl:
		named, err := w.walkNamed(item.Named, namespace)
		if err != nil {
			return nil, err
		}

		return &Item{Kind: ItemNamed, Named: named, Span: item.Named.Span}, nil

	default: // grammar.ItemMainSchema
		s, err := w.convertType(item.Main, namespace)
		if err != nil {
			return nil, err
		}

		return &Item{Kind: ItemMain, Main: s, Span: item.Main.Span}, nil
	}
}

func (w *Walker) walkNamed(n *grammar.Named, enclosing string) (schema.Named, *diag.Diagnostic) {
	namespace, simple := splitDeclaredName(n.Name, enclosing)

	ex, err := extractAnnotations(n.Annotations, flags{namespace: true, aliases: true})
	if err != nil {
		return nil, err
	}

	if !strings.Contains(n.Name, ".") && ex.hasNamespace {
		namespace = ex.namespace
	}

	if verr := schema.ValidateName(simple); verr != nil {
		return nil, spanErr(n.Span, "%q: %s", simple, verr)
	}

	doc := ""
	if n.Doc != nil {
		doc = n.Doc.Text
	}

	switch n.Kind {
	case grammar.NamedRecord, grammar.NamedError:
		fields := make([]*schema.Field, 0, len(n.Fields))
		seen := make(map[string]bool, len(n.Fields))

		for _, gf := range n.Fields {
			if seen[gf.Name] {
				return nil, spanErr(gf.Span, "duplicate field name %q in %q", gf.Name, simple)
			}

			seen[gf.Name] = true

			f, err := w.walkField(gf, namespace)
			if err != nil {
				return nil, err
			}

			fields = append(fields, f)
		}

		return &schema.Record{
			Name: simple, Namespace: namespace, Doc: doc,
			Fields: fields, Aliases: ex.aliases, Props: ex.props,
			IsError: n.Kind == grammar.NamedError,
		}, nil

	case grammar.NamedEnum:
		symbols := make([]string, 0, len(n.Symbols))
		for _, s := range n.Symbols {
			symbols = append(symbols, s.Name)
		}

		if verr := schema.ValidateEnumDefault(symbols, n.DefaultSymbol, n.HasDefault); verr != nil {
			return nil, spanErr(n.Span, "%s", verr)
		}

		return &schema.Enum{
			Name: simple, Namespace: namespace, Doc: doc,
			Symbols: symbols, Default: n.DefaultSymbol, HasDefault: n.HasDefault,
			Aliases: ex.aliases, Props: ex.props,
		}, nil

	default: // grammar.NamedFixed
		size := int(n.Size.Value)
		if verr := schema.ValidateFixedSize(size); verr != nil {
			return nil, spanErr(n.Span, "%s", verr)
		}

		return &schema.Fixed{
			Name: simple, Namespace: namespace, Doc: doc,
			Size: size, Aliases: ex.aliases, Props: ex.props,
		}, nil
	}
}

func (w *Walker) walkField(gf *grammar.Field, namespace string) (*schema.Field, *diag.Diagnostic) {
	typ, err := w.convertType(gf.Type, namespace)
	if err != nil {
		return nil, err
	}

	ex, errD := extractAnnotations(gf.Annotations, flags{order: true, aliases: true})
	if errD != nil {
		return nil, errD
	}

	doc := ""
	if gf.Doc != nil {
		doc = gf.Doc.Text
	}

	span := gf.Span

	return &schema.Field{
		Name: gf.Name, Type: typ, Doc: doc,
		Default: gf.Default, HasDefault: gf.HasDefault,
		Order: ex.order, HasOrder: ex.hasOrder,
		Aliases: ex.aliases, Props: ex.props,
		Span: &span,
	}, nil
}

func (w *Walker) walkMessage(gm *grammar.Message, namespace string) (*Message, *diag.Diagnostic) {
	ex, errD := extractAnnotations(gm.Annotations, flags{})
	if errD != nil {
		return nil, errD
	}

	var response schema.Schema

	if !gm.Void {
		r, err := w.convertType(gm.Response, namespace)
		if err != nil {
			return nil, err
		}

		response = r
	}

	request := make([]*schema.Field, 0, len(gm.Params))

	for _, p := range gm.Params {
		f, err := w.walkField(p, namespace)
		if err != nil {
			return nil, err
		}

		request = append(request, f)
	}

	if gm.OneWay && len(gm.Errors) > 0 {
		return nil, spanErr(gm.Span, "a one-way message may not declare errors")
	}

	if gm.OneWay && !gm.Void {
		return nil, spanErr(gm.Span, "a one-way message must return void")
	}

	var errs []schema.Schema

	for _, name := range gm.Errors {
		full := name
		if !strings.Contains(full, ".") {
			full = registry.Qualify(namespace, full)
		}

		errs = append(errs, &schema.Reference{Name: full, Span: gm.Span})
	}

	doc := ""
	if gm.Doc != nil {
		doc = gm.Doc.Text
	}

	return &Message{
		Name: gm.Name, Doc: doc, Request: request, Response: response,
		Void: gm.Void, OneWay: gm.OneWay, Errors: errs,
		HasImplicitError: !gm.OneWay, Props: ex.props, Span: gm.Span,
	}, nil
}

// splitDeclaredName applies spec.md §4.1's namespacing priority: a dotted
// declared name always wins and splits into namespace+simple; otherwise the
// enclosing namespace applies until overridden by an explicit @namespace
// annotation (handled by the caller).
func splitDeclaredName(name, enclosing string) (namespace, simple string) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}

	return enclosing, name
}
