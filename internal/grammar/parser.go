package grammar

import (
	"fmt"
	"strconv"
	"strings"

	"go.jacobcolvin.com/avdl/diag"
	"go.jacobcolvin.com/avdl/doccomment"
)

// primitiveNames is the set of bare type-name identifiers that lex a
// TypePrimitive rather than a TypeNamed reference.
var primitiveNames = map[string]bool{
	"null": true, "boolean": true, "int": true, "long": true,
	"float": true, "double": true, "bytes": true, "string": true,
	"date": true, "time_ms": true, "time_us": true,
	"timestamp_ms": true, "timestamp_us": true,
	"local_timestamp_ms": true, "local_timestamp_us": true,
	"uuid": true, "decimal": true,
}

// Parse lexes and parses src into a [*File] parse tree. Lexical and syntax
// errors are fatal and stop parsing at the first one (matching how a
// hand-rolled descent parser without a full recovery strategy behaves);
// warnings are comment-placement diagnostics collected while walking
// doc-comment slots, returned regardless of whether parsing ultimately
// succeeds.
func Parse(src []byte, source string) (file *File, warnings []diag.Warning, fatal *diag.Diagnostic) {
	tokens, comments, lexErrs := Lex(src, source)

	if len(lexErrs) > 0 {
		e := lexErrs[0]

		return nil, nil, diag.Newf("%s", e.Message).At(diag.Span{Source: source, Offset: e.Pos, Length: 1})
	}

	p := &parser{tokens: tokens, comments: comments, source: source}

	defer func() {
		if r := recover(); r != nil {
			if ab, ok := r.(parseAbort); ok {
				file, warnings, fatal = nil, p.warnings, ab.d

				return
			}

			panic(r)
		}
	}()

	file = p.parseFile()
	warnings = p.warnings

	return file, warnings, nil
}

type parseAbort struct{ d *diag.Diagnostic }

type parser struct {
	tokens   []Token
	comments []Comment
	source   string
	pos      int
	warnings []diag.Warning
}

func (p *parser) cur() Token { return p.tokens[p.pos] }

func (p *parser) advance() Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}

	return t
}

func (p *parser) atPunct(text string) bool {
	t := p.cur()

	return t.Kind == KindPunct && t.Text == text
}

func (p *parser) atKeyword(text string) bool {
	t := p.cur()

	return t.Kind == KindKeyword && t.Text == text
}

func (p *parser) atEOF() bool { return p.cur().Kind == KindEOF }

func (p *parser) fail(format string, args ...any) {
	tok := p.cur()
	msg := fmt.Sprintf(format, args...)
	d := diag.Newf("%s", msg).At(diag.Span{Source: p.source, Offset: tok.Pos, Length: max(tok.End-tok.Pos, 1)})

	panic(parseAbort{d})
}

func (p *parser) expectPunct(text string) error {
	if !p.atPunct(text) {
		p.fail("expected %q, found %q", text, p.cur().Text)
	}

	p.advance()

	return nil
}

func (p *parser) expectKeyword(text string) {
	if !p.atKeyword(text) {
		p.fail("expected %q, found %q", text, p.cur().Text)
	}

	p.advance()
}

func (p *parser) expectIdent() string {
	t := p.cur()
	if t.Kind != KindIdent && t.Kind != KindKeyword {
		p.fail("expected an identifier, found %q", t.Text)
	}

	p.advance()

	return t.Text
}

// docSlot collects the comment candidates immediately preceding the token at
// index idx and consumes them into a [*Doc], recording any placement
// warnings on the parser.
func (p *parser) docSlot(idx int) *Doc {
	var candidates []doccomment.Raw

	for _, c := range p.comments {
		if c.BeforeToken == idx {
			candidates = append(candidates, doccomment.Raw{Text: c.Text, Span: c.Span})
		}
	}

	text, warnings := doccomment.Consume(candidates)
	p.warnings = append(p.warnings, warnings...)

	if text == "" {
		return nil
	}

	return &Doc{Text: text}
}

// orphanTrailingComments reports warnings for doc blocks that precede EOF
// with nothing left to attach to.
func (p *parser) orphanTrailingComments() {
	var candidates []doccomment.Raw

	last := len(p.tokens) - 1

	for _, c := range p.comments {
		if c.BeforeToken == last {
			candidates = append(candidates, doccomment.Raw{Text: c.Text, Span: c.Span})
		}
	}

	p.warnings = append(p.warnings, doccomment.Orphaned(candidates)...)
}

func (p *parser) parseFile() *File {
	start := p.pos
	warnCount := len(p.warnings)
	doc := p.docSlot(p.pos)
	annotations := p.parseAnnotations()

	f := &File{}

	if p.atKeyword("protocol") {
		p.advance()

		f.Doc, f.Annotations = doc, annotations
		f.IsProtocol = true
		f.Name = p.expectIdent()

		p.expectPunct("{")

		for !p.atPunct("}") {
			p.parseProtocolMember(f)
		}

		p.expectPunct("}")
	} else {
		// Without a protocol header the leading doc comment and annotations
		// belong to the first item: rewind so that item claims them.
		p.pos = start
		p.warnings = p.warnings[:warnCount]

		for !p.atEOF() {
			if p.atKeyword("import") {
				f.Items = append(f.Items, &Item{Kind: ItemImportDecl, Import: p.parseImport()})

				continue
			}

			if p.startsNamedDecl() {
				f.Items = append(f.Items, &Item{Kind: ItemNamedDecl, Named: p.parseNamed()})

				continue
			}

			// A standalone main-schema expression: a bare type expression
			// statement. The parser accepts any number of these at any
			// position among the items; it does not check their count or place.
			typ := p.parseTypeExpr()
			p.expectPunct(";")
			f.Items = append(f.Items, &Item{Kind: ItemMainSchema, Main: typ})
		}
	}

	p.orphanTrailingComments()

	f.Span = diag.Span{Source: p.source, Offset: p.tokens[start].Pos, Length: p.cur().End - p.tokens[start].Pos}

	return f
}

func (p *parser) parseProtocolMember(f *File) {
	if p.atKeyword("import") {
		f.Items = append(f.Items, &Item{Kind: ItemImportDecl, Import: p.parseImport()})

		return
	}

	if p.startsNamedDecl() {
		f.Items = append(f.Items, &Item{Kind: ItemNamedDecl, Named: p.parseNamed()})

		return
	}

	f.Messages = append(f.Messages, p.parseMessage())
}

// startsNamedDecl looks ahead past any leading annotations to see whether
// the upcoming declaration is record/error/enum/fixed.
func (p *parser) startsNamedDecl() bool {
	save := p.pos

	for p.atPunct("@") {
		p.skipAnnotation()
	}

	isNamed := p.atKeyword("record") || p.atKeyword("error") || p.atKeyword("enum") || p.atKeyword("fixed")
	p.pos = save

	return isNamed
}

func (p *parser) skipAnnotation() {
	p.advance() // '@'
	p.advance() // name

	if p.atPunct("(") {
		depth := 0

		for {
			if p.atPunct("(") {
				depth++
			} else if p.atPunct(")") {
				depth--
				if depth == 0 {
					p.advance()

					break
				}
			}

			p.advance()
		}
	}
}

func (p *parser) parseImport() *Import {
	start := p.cur().Pos

	p.expectKeyword("import")

	var kind ImportKind

	switch {
	case p.atKeyword("idl"):
		kind = ImportIDL
	case p.atKeyword("protocol"):
		kind = ImportProtocol
	case p.atKeyword("schema"):
		kind = ImportSchema
	default:
		p.fail("expected idl, protocol, or schema after import, found %q", p.cur().Text)
	}

	p.advance()

	pathTok := p.cur()
	if pathTok.Kind != KindString {
		p.fail("expected a quoted import path, found %q", pathTok.Text)
	}

	p.advance()
	p.expectPunct(";")

	return &Import{
		Kind: kind,
		Path: pathTok.Text,
		Span: diag.Span{Source: p.source, Offset: start, Length: p.tokens[p.pos-1].End - start},
	}
}

func (p *parser) parseAnnotations() []*Annotation {
	var out []*Annotation

	for p.atPunct("@") {
		start := p.cur().Pos
		p.advance()

		name := p.expectIdent()

		var value any

		if p.atPunct("(") {
			p.advance()

			v, err := p.parseLiteral()
			if err != nil {
				p.fail("%s", err.Error())
			}

			value = v
			p.expectPunct(")")
		}

		out = append(out, &Annotation{
			Name:  name,
			Value: value,
			Span:  diag.Span{Source: p.source, Offset: start, Length: p.tokens[p.pos-1].End - start},
		})
	}

	return out
}

func (p *parser) parseNamed() *Named {
	docIdx := p.pos
	doc := p.docSlot(docIdx)
	annotations := p.parseAnnotations()

	n := &Named{Doc: doc, Annotations: annotations}

	switch {
	case p.atKeyword("record"):
		n.Kind = NamedRecord
	case p.atKeyword("error"):
		n.Kind = NamedError
	case p.atKeyword("enum"):
		n.Kind = NamedEnum
	case p.atKeyword("fixed"):
		n.Kind = NamedFixed
	default:
		p.fail("expected record, error, enum, or fixed, found %q", p.cur().Text)
	}

	p.advance()
	n.Name = p.parseDottedName()

	switch n.Kind {
	case NamedRecord, NamedError:
		p.expectPunct("{")

		for !p.atPunct("}") {
			n.Fields = append(n.Fields, p.parseField())
		}

		p.expectPunct("}")

	case NamedEnum:
		p.expectPunct("{")

		for !p.atPunct("}") {
			symStart := p.cur().Pos
			name := p.expectIdent()
			n.Symbols = append(n.Symbols, &EnumSymbol{
				Name: name,
				Span: diag.Span{Source: p.source, Offset: symStart, Length: p.tokens[p.pos-1].End - symStart},
			})

			if p.atPunct(",") {
				p.advance()

				continue
			}

			break
		}

		p.expectPunct("}")

		if p.atPunct("=") {
			p.advance()
			n.HasDefault = true
			n.DefaultSymbol = p.expectIdent()
		}

		p.expectPunct(";")

	case NamedFixed:
		p.expectPunct("(")

		sizeTok := p.cur()
		if sizeTok.Kind != KindInt {
			p.fail("expected an integer fixed size, found %q", sizeTok.Text)
		}

		p.advance()

		val, _ := strconv.ParseInt(sizeTok.Text, 10, 64)
		n.Size = &IntLit{Value: val, Span: diag.Span{Source: p.source, Offset: sizeTok.Pos, Length: sizeTok.End - sizeTok.Pos}}

		p.expectPunct(")")
		p.expectPunct(";")
	}

	n.Span = diag.Span{Source: p.source, Offset: p.tokens[docIdx].Pos, Length: p.tokens[p.pos-1].End - p.tokens[docIdx].Pos}

	return n
}

// parseDottedName accepts `foo`, `foo.Bar`, `foo.bar.Baz` as a single name
// token sequence joined with '.'.
func (p *parser) parseDottedName() string {
	var b strings.Builder

	b.WriteString(p.expectIdent())

	for p.atPunct(".") {
		p.advance()
		b.WriteByte('.')
		b.WriteString(p.expectIdent())
	}

	return b.String()
}

func (p *parser) parseField() *Field {
	docIdx := p.pos
	doc := p.docSlot(docIdx)
	annotations := p.parseAnnotations()

	typ := p.parseTypeExpr()
	name := p.expectIdent()

	f := &Field{Doc: doc, Annotations: annotations, Type: typ, Name: name}

	if p.atPunct("=") {
		p.advance()

		v, err := p.parseLiteral()
		if err != nil {
			p.fail("%s", err.Error())
		}

		f.HasDefault = true
		f.Default = v
	}

	p.expectPunct(";")

	f.Span = diag.Span{Source: p.source, Offset: p.tokens[docIdx].Pos, Length: p.tokens[p.pos-1].End - p.tokens[docIdx].Pos}

	return f
}

func (p *parser) parseMessage() *Message {
	docIdx := p.pos
	doc := p.docSlot(docIdx)
	annotations := p.parseAnnotations()

	m := &Message{Doc: doc, Annotations: annotations}

	if p.atKeyword("void") {
		p.advance()

		m.Void = true
	} else {
		m.Response = p.parseTypeExpr()
	}

	m.Name = p.expectIdent()

	p.expectPunct("(")

	for !p.atPunct(")") {
		m.Params = append(m.Params, p.parseField())

		if p.atPunct(",") {
			p.advance()

			continue
		}

		break
	}

	p.expectPunct(")")

	switch {
	case p.atKeyword("oneway"):
		p.advance()

		m.OneWay = true

	case p.atKeyword("throws"):
		p.advance()

		for {
			m.Errors = append(m.Errors, p.parseDottedName())

			if p.atPunct(",") {
				p.advance()

				continue
			}

			break
		}
	}

	p.expectPunct(";")

	m.Span = diag.Span{Source: p.source, Offset: p.tokens[docIdx].Pos, Length: p.tokens[p.pos-1].End - p.tokens[docIdx].Pos}

	return m
}

// parseTypeExpr parses fullType: annotations, a base type (primitive, named
// reference, array<T>, map<T>, union{...}), and an optional trailing '?'
// nullable-shorthand marker.
func (p *parser) parseTypeExpr() *TypeExpr {
	start := p.cur().Pos
	annotations := p.parseAnnotations()

	var base *TypeExpr

	switch {
	case p.atKeyword("array"):
		p.advance()
		p.expectPunct("<")

		elem := p.parseTypeExpr()

		p.expectPunct(">")

		base = &TypeExpr{Kind: TypeArray, Element: elem}

	case p.atKeyword("map"):
		p.advance()
		p.expectPunct("<")

		val := p.parseTypeExpr()

		p.expectPunct(">")

		base = &TypeExpr{Kind: TypeMap, Value: val}

	case p.atKeyword("union"):
		p.advance()
		p.expectPunct("{")

		var members []*TypeExpr

		for !p.atPunct("}") {
			members = append(members, p.parseTypeExpr())

			if p.atPunct(",") {
				p.advance()

				continue
			}

			break
		}

		p.expectPunct("}")

		base = &TypeExpr{Kind: TypeUnion, Members: members}

	default:
		name := p.expectIdent()

		if primitiveNames[name] {
			base = &TypeExpr{Kind: TypePrimitive, Name: name}

			if name == "decimal" && p.atPunct("(") {
				p.advance()

				precTok := p.cur()
				if precTok.Kind != KindInt {
					p.fail("expected decimal precision, found %q", precTok.Text)
				}

				p.advance()

				prec, _ := strconv.ParseInt(precTok.Text, 10, 64)
				base.Precision = int(prec)

				if p.atPunct(",") {
					p.advance()

					scaleTok := p.cur()
					if scaleTok.Kind != KindInt {
						p.fail("expected decimal scale, found %q", scaleTok.Text)
					}

					p.advance()

					scale, _ := strconv.ParseInt(scaleTok.Text, 10, 64)
					base.Scale = int(scale)
					base.HasScale = true
				}

				p.expectPunct(")")
			}
		} else {
			full := name

			for p.atPunct(".") {
				p.advance()
				full += "." + p.expectIdent()
			}

			base = &TypeExpr{Kind: TypeNamed, Name: full}
		}
	}

	base.Annotations = annotations

	if p.atPunct("?") {
		if base.Kind == TypeArray || base.Kind == TypeMap || base.Kind == TypeUnion {
			p.fail("nullable shorthand %q is not allowed on array, map, or union types", "?")
		}

		p.advance()

		base = &TypeExpr{Kind: TypeNullable, Inner: base}
	}

	base.Span = diag.Span{Source: p.source, Offset: start, Length: p.tokens[p.pos-1].End - start}

	return base
}
