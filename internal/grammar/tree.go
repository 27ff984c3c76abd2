package grammar

import "go.jacobcolvin.com/avdl/diag"

// Doc is a doc-comment body already stripped of its `/** */` delimiters and
// indentation, attached to the node that follows it.
type Doc struct {
	Text string
	Span diag.Span
}

// Annotation is a `@name(value)` or bare `@name` property annotation.
type Annotation struct {
	Name  string
	Value any // JSON-shaped literal; nil for a bare @name with no parenthesised value
	Span  diag.Span
}

// TypeExprKind discriminates the shape of a parsed type expression.
type TypeExprKind int

// Type expression kinds.
const (
	TypePrimitive TypeExprKind = iota
	TypeNamed                  // an identifier reference, possibly dotted
	TypeArray
	TypeMap
	TypeUnion
	TypeNullable // T? sugar
)

// TypeExpr is a parsed type-use site: `int`, `array<string>`,
// `union { null, Foo }`, `Foo?`, or a bare reference to a named type.
type TypeExpr struct {
	Kind        TypeExprKind
	Name        string      // TypePrimitive, TypeNamed
	Element     *TypeExpr   // TypeArray
	Value       *TypeExpr   // TypeMap
	Members     []*TypeExpr // TypeUnion
	Inner       *TypeExpr   // TypeNullable
	Precision   int         // TypePrimitive Name=="decimal"
	Scale       int         // TypePrimitive Name=="decimal"
	HasScale    bool
	Annotations []*Annotation
	Span        diag.Span
}

// Field is a record/error field declaration, or (reused) a message
// parameter -- the two constructs share grammar and shape.
type Field struct {
	Doc         *Doc
	Annotations []*Annotation
	Type        *TypeExpr
	Name        string
	HasDefault  bool
	Default     any
	Span        diag.Span
}

// EnumSymbol is one symbol in an enum declaration.
type EnumSymbol struct {
	Name string
	Span diag.Span
}

// NamedKind discriminates the three named-schema declaration forms.
type NamedKind int

// Named declaration kinds.
const (
	NamedRecord NamedKind = iota
	NamedError
	NamedEnum
	NamedFixed
)

// Named is a record/error/enum/fixed declaration.
type Named struct {
	Kind           NamedKind
	Doc            *Doc
	Annotations    []*Annotation
	Name           string
	Fields         []*Field      // record, error
	Symbols        []*EnumSymbol // enum
	DefaultSymbol  string        // enum
	HasDefault     bool          // enum
	Size           *IntLit       // fixed
	Span           diag.Span
}

// IntLit is a parsed integer literal, signed.
type IntLit struct {
	Value int64
	Span  diag.Span
}

// Import is an `import idl|protocol|schema "path";` declaration.
type Import struct {
	Kind ImportKind
	Path string
	Span diag.Span
}

// ImportKind discriminates the three import forms.
type ImportKind int

// Import kinds.
const (
	ImportIDL ImportKind = iota
	ImportProtocol
	ImportSchema
)

// Message is a `response name(params) [oneway|throws ...];` declaration
// inside a protocol.
type Message struct {
	Doc         *Doc
	Annotations []*Annotation
	Void        bool
	Response    *TypeExpr
	Name        string
	Params      []*Field
	OneWay      bool
	Errors      []string
	Span        diag.Span
}

// ItemKind discriminates a top-level (or protocol-body) item.
type ItemKind int

// Item kinds.
const (
	ItemImportDecl ItemKind = iota
	ItemNamedDecl
	ItemMainSchema
)

// Item is one member of a file's (or protocol's) body, in source order.
type Item struct {
	Kind    ItemKind
	Import  *Import
	Named   *Named
	Main    *TypeExpr // ItemMainSchema: a standalone type expression statement
}

// File is the parse tree for one IDL source buffer: either a protocol
// wrapper or a bag of zero-or-more imports/named declarations, optionally
// ending in a single standalone main-schema expression.
type File struct {
	IsProtocol  bool
	Doc         *Doc
	Annotations []*Annotation
	Name        string // protocol name; empty when !IsProtocol
	Items       []*Item
	Messages    []*Message // only populated when IsProtocol
	Span        diag.Span
}
