// Package grammar is the Avro IDL parse-tree-producing layer: a lexer and a
// recursive-descent parser that turn a source buffer into a [*File] parse
// tree plus a channel of fatal parse diagnostics, mirroring the boundary
// spec.md §1 describes the ANTLR grammar/lexer/parser as exposing to the
// core ("the core consumes a parse tree and an error-listener channel").
//
// spec.md scopes the real ANTLR parser generator and its runtime out of the
// system as an external collaborator; since this repository has no .g4
// toolchain to compile a real grammar, and fabricating a hand-written
// stand-in for ANTLR's generated ATN machinery would just be a fake
// "generated" parser wearing a different hat, this package is instead an
// honestly hand-written recursive-descent implementation. The walker
// package only depends on the node and diagnostic shapes defined here, not
// on how they were produced -- the same interface boundary spec.md
// describes.
package grammar

// Kind identifies a lexical token category.
type Kind int

// Token kinds.
const (
	KindEOF Kind = iota
	KindIdent
	KindInt
	KindFloat
	KindString
	KindPunct
	KindKeyword
)

// Token is one lexical token, with the byte span it occupies in the source.
type Token struct {
	Kind Kind
	Text string
	Pos  int // byte offset of the first byte
	End  int // byte offset one past the last byte
}

// keywords are reserved words of the IDL grammar; an identifier matching one
// of these lexes as KindKeyword instead of KindIdent.
var keywords = map[string]bool{
	"protocol": true, "record": true, "error": true, "enum": true,
	"fixed": true, "array": true, "map": true, "union": true,
	"import": true, "idl": true, "schema": true, "oneway": true,
	"throws": true, "void": true, "true": true, "false": true, "null": true,
}
