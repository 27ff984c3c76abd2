package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.jacobcolvin.com/avdl/diag"
	"go.jacobcolvin.com/avdl/importer"
	"go.jacobcolvin.com/avdl/internal/grammar"
	"go.jacobcolvin.com/avdl/registry"
	"go.jacobcolvin.com/avdl/schema"
	"go.jacobcolvin.com/avdl/walker"
)

// ErrNotAProtocol is returned by Compile when the input file is a standalone
// schema or a bag of named schemas rather than a `protocol { ... }` file.
var ErrNotAProtocol = errors.New("input is not a protocol")

// ErrNotASchema is returned by CompileSchema when the input file is a
// protocol or a bag of named schemas rather than a single standalone schema
// expression.
var ErrNotASchema = errors.New("input is not a standalone schema")

// Result is the outcome of a successful compile: the model plus every
// warning accumulated along the way (doc-comment placement, import
// warnings). Fatal errors are returned separately as a *diag.Diagnostic,
// per spec.md §7's "errors propagate via return value" design note.
type Result struct {
	File     *schema.File
	Warnings []diag.Warning
}

// Compile reads and compiles path as a protocol. A relative path is read
// from under baseDir, which also anchors relative imports (spec.md §4.2);
// searchDirs is the repeatable --import-dir list.
func Compile(path, baseDir string, searchDirs []string) (*Result, *diag.Diagnostic, error) {
	res, err := compileFile(path, baseDir, searchDirs)
	if err != nil {
		return nil, nil, err
	}

	if res.fatal != nil {
		return nil, res.fatal, nil
	}

	if res.walked.FileKind != schema.FileProtocol {
		return nil, nil, ErrNotAProtocol
	}

	return &Result{File: &schema.File{Kind: schema.FileProtocol, Protocol: res.protocol}, Warnings: res.warnings}, nil, nil
}

// CompileSchema reads and compiles path as a standalone schema.
func CompileSchema(path, baseDir string, searchDirs []string) (*Result, *diag.Diagnostic, error) {
	res, err := compileFile(path, baseDir, searchDirs)
	if err != nil {
		return nil, nil, err
	}

	if res.fatal != nil {
		return nil, res.fatal, nil
	}

	if res.walked.FileKind != schema.FileSchema {
		return nil, nil, ErrNotASchema
	}

	return &Result{File: &schema.File{Kind: schema.FileSchema, Schema: res.schema}, Warnings: res.warnings}, nil, nil
}

// CompileSchemata reads and compiles path -- a protocol or a bag of named
// schemas -- and returns every named schema registered along the way, for
// `idl2schemata`'s one-file-per-type output (SPEC_FULL's supplemented
// feature).
func CompileSchemata(path, baseDir string, searchDirs []string) ([]schema.Named, []diag.Warning, *diag.Diagnostic, error) {
	res, err := compileFile(path, baseDir, searchDirs)
	if err != nil {
		return nil, nil, nil, err
	}

	if res.fatal != nil {
		return nil, nil, res.fatal, nil
	}

	return res.reg.All(), res.warnings, nil, nil
}

// compiled is the internal working result of compiling one top-level file,
// before the caller decides which public shape (protocol/schema/schemata) it
// wants back.
type compiled struct {
	walked   *walker.Walked
	reg      *registry.Registry
	protocol *schema.Protocol
	schema   schema.Schema
	warnings []diag.Warning
	fatal    *diag.Diagnostic
}

func compileFile(path, baseDir string, searchDirs []string) (*compiled, error) {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(baseDir, path)
	}

	abs, err := filepath.Abs(full)
	if err != nil {
		return nil, err
	}

	ctx := importer.NewContext(baseDir, searchDirs)
	ctx.Enter(abs)

	walked, warnings, fatal, err := importer.LoadIDL(abs)
	if err != nil {
		return nil, err
	}

	if fatal != nil {
		return &compiled{fatal: fatal}, nil
	}

	reg := registry.New()

	var col diag.Collector
	for _, w := range warnings {
		col.Add(w)
	}

	c := &collector{ctx: ctx, reg: reg, col: &col}

	if d := c.process(walked.Items); d != nil {
		return &compiled{fatal: d}, nil
	}

	out := &compiled{walked: walked, reg: reg, warnings: col.All()}

	switch walked.FileKind {
	case schema.FileProtocol:
		p := &schema.Protocol{
			Name: walked.ProtocolName, Namespace: walked.ProtocolNamespace,
			Doc: walked.ProtocolDoc, Props: walked.ProtocolProps,
		}

		for _, n := range reg.All() {
			p.Types = append(p.Types, n.(schema.Schema))
		}

		for _, m := range c.messages {
			p.Messages = append(p.Messages, m)
		}

		if d := resolveDefaults(reg, p); d != nil {
			return &compiled{fatal: d}, nil
		}

		unresolved := reg.ValidateProtocolReferences(p)
		if len(unresolved) > 0 {
			return &compiled{fatal: unresolvedDiag(unresolved)}, nil
		}

		out.protocol = p

	case schema.FileSchema:
		out.schema = walked.Schema

		if d := resolveDefaults(reg, nil); d != nil {
			return &compiled{fatal: d}, nil
		}

		unresolved := reg.ValidateReferences(walked.Schema)
		if len(unresolved) > 0 {
			return &compiled{fatal: unresolvedDiag(unresolved)}, nil
		}

	case schema.FileBag:
		if d := resolveDefaults(reg, nil); d != nil {
			return &compiled{fatal: d}, nil
		}

		for _, n := range reg.All() {
			unresolved := reg.ValidateReferences(n.(schema.Schema))
			if len(unresolved) > 0 {
				return &compiled{fatal: unresolvedDiag(unresolved)}, nil
			}
		}
	}

	return out, nil
}

func unresolvedDiag(unresolved []registry.Unresolved) *diag.Diagnostic {
	d := diag.Newf("%d unresolved reference(s)", len(unresolved))

	for _, u := range unresolved {
		d = d.WithRelated(diag.Newf("unresolved reference to %q", u.Ref.Name).At(u.Ref.Span))
	}

	return d
}

// collector walks a file's ordered item list, recursively resolving idl
// imports (folding their own items in at the point of import, per spec.md
// §9's "declarations and imports interleaved in source order, single pass")
// and registering every named schema and message it encounters.
type collector struct {
	ctx          *importer.Context
	reg          *registry.Registry
	col          *diag.Collector
	messages     []*schema.Message
	messageNames map[string]bool
	mainSchema   schema.Schema
}

// addMessage registers m as belonging to the protocol under construction,
// rejecting a name already claimed by a prior declaration or import (spec.md
// §4's "message names unique within a protocol").
func (c *collector) addMessage(m *schema.Message, span diag.Span) *diag.Diagnostic {
	if c.messageNames == nil {
		c.messageNames = make(map[string]bool)
	}

	if c.messageNames[m.Name] {
		return diag.Newf("duplicate message name %q", m.Name).At(span)
	}

	c.messageNames[m.Name] = true
	c.messages = append(c.messages, m)

	return nil
}

func (c *collector) process(items []*walker.Item) *diag.Diagnostic {
	for _, item := range items {
		switch item.Kind {
		case walker.ItemImport:
			if d := c.processImport(item.Import); d != nil {
				return d
			}

		case walker.ItemNamed:
			if err := c.reg.Register(item.Named, &item.Span); err != nil {
				return toDiag(err)
			}

		case walker.ItemMessage:
			if d := c.addMessage(c.buildMessage(item.Message), item.Message.Span); d != nil {
				return d
			}

		case walker.ItemMain:
			c.mainSchema = item.Main
		}
	}

	return nil
}

func (c *collector) buildMessage(m *walker.Message) *schema.Message {
	response := m.Response
	if m.Void {
		response = &schema.Primitive{Of: schema.KindNull}
	}

	return &schema.Message{
		Name: m.Name, Doc: m.Doc, Request: m.Request, Response: response,
		OneWay: m.OneWay, Errors: m.Errors, HasImplicitError: m.HasImplicitError, Props: m.Props,
	}
}

func (c *collector) processImport(imp *walker.Import) *diag.Diagnostic {
	switch imp.Kind {
	case grammar.ImportIDL:
		resolved, err := c.ctx.Resolve(imp.Path)
		if err != nil {
			return diag.Newf("%s", err).At(imp.Span)
		}

		if c.ctx.Enter(resolved) {
			return nil // already imported (diamond); not a cycle re-walk
		}

		walked, warnings, fatal, err := importer.LoadIDL(resolved)
		if err != nil {
			return diag.Newf("importing %q: %s", imp.Path, err).At(imp.Span)
		}

		if fatal != nil {
			return fatal
		}

		for _, w := range warnings {
			c.col.Add(w)
		}

		return c.process(walked.Items)

	case grammar.ImportProtocol:
		resolved, err := c.ctx.Resolve(imp.Path)
		if err != nil {
			return diag.Newf("%s", err).At(imp.Span)
		}

		data, err := readFile(resolved)
		if err != nil {
			return diag.Newf("importing %q: %s", imp.Path, err).At(imp.Span)
		}

		p, err := importer.LoadProtocol(data)
		if err != nil {
			return diag.Newf("importing %q: %s", imp.Path, err).At(imp.Span)
		}

		for _, t := range p.Types {
			named, ok := t.(schema.Named)
			if !ok {
				continue
			}

			if regErr := c.reg.Register(named, &imp.Span); regErr != nil {
				return toDiag(regErr)
			}
		}

		for _, m := range p.Messages {
			if !m.OneWay {
				m.HasImplicitError = true
			}

			if d := c.addMessage(m, imp.Span); d != nil {
				return d
			}
		}

		return nil

	case grammar.ImportSchema:
		resolved, err := c.ctx.Resolve(imp.Path)
		if err != nil {
			return diag.Newf("%s", err).At(imp.Span)
		}

		data, err := readFile(resolved)
		if err != nil {
			return diag.Newf("importing %q: %s", imp.Path, err).At(imp.Span)
		}

		_, named, err := importer.LoadSchema(data)
		if err != nil {
			return diag.Newf("importing %q: %s", imp.Path, err).At(imp.Span)
		}

		for _, n := range named {
			if regErr := c.reg.Register(n, &imp.Span); regErr != nil {
				return toDiag(regErr)
			}
		}

		return nil

	default:
		return diag.Newf("unrecognised import kind")
	}
}

func toDiag(err error) *diag.Diagnostic {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		return d
	}

	return diag.Newf("%s", err)
}

// resolveDefaults validates and promotes every field default across the
// registry (and a protocol's message request fields, if p is non-nil),
// deferred until every import in the graph has been registered so forward
// and cross-file references resolve correctly.
func resolveDefaults(reg *registry.Registry, p *schema.Protocol) *diag.Diagnostic {
	resolve := reg.Resolve

	for _, n := range reg.All() {
		rec, ok := n.(*schema.Record)
		if !ok {
			continue
		}

		for _, f := range rec.Fields {
			if !f.HasDefault {
				continue
			}

			f.Default = schema.PromoteDefault(f.Default, f.Type)

			if !schema.IsValidDefault(f.Default, f.Type, resolve) {
				span := diag.Span{}
				if f.Span != nil {
					span = *f.Span
				}

				return diag.Newf("default value for field %q does not match its schema", f.Name).At(span)
			}
		}
	}

	if p == nil {
		return nil
	}

	for _, m := range p.Messages {
		for _, f := range m.Request {
			if !f.HasDefault {
				continue
			}

			f.Default = schema.PromoteDefault(f.Default, f.Type)

			if !schema.IsValidDefault(f.Default, f.Type, resolve) {
				span := diag.Span{}
				if f.Span != nil {
					span = *f.Span
				}

				return diag.Newf("default value for parameter %q does not match its schema", f.Name).At(span)
			}
		}
	}

	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}

	return data, nil
}
