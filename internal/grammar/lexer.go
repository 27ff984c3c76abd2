package grammar

import (
	"fmt"
	"strings"

	"go.jacobcolvin.com/avdl/diag"
)

// Comment is a lexed comment, tagged with the index (into the token stream
// returned by [Lex]) of the first significant token that follows it. A
// comment trailing the last significant token carries the index of the
// closing EOF token, len(tokens)-1 -- the parser reports those as orphaned.
type Comment struct {
	Text        string
	Span        diag.Span
	BeforeToken int
}

// LexError is a fatal lexical error: an unterminated string or comment, or a
// byte the grammar has no rule for.
type LexError struct {
	Message string
	Pos     int
}

// Lex scans src and returns its significant tokens, its comments (including
// doc-comment blocks), and any fatal lexical errors. A non-empty errs does
// not stop scanning -- the lexer recovers at the next plausible token
// boundary so a single bad byte does not suppress every later diagnostic, per
// spec.md §7's "accumulate, don't stop at the first error" posture.
func Lex(src []byte, source string) (tokens []Token, comments []Comment, errs []LexError) {
	l := &lexer{src: src, source: source}

	for {
		l.skipSpace()

		if l.done() {
			break
		}

		if l.peekComment() {
			l.lexComment(&comments)

			continue
		}

		tok, err := l.lexToken()
		if err != nil {
			errs = append(errs, *err)

			continue
		}

		tokens = append(tokens, tok)
	}

	tokens = append(tokens, Token{Kind: KindEOF, Pos: len(src), End: len(src)})

	for i := range comments {
		comments[i].BeforeToken = l.tokenIndexAfter(tokens, comments[i].Span.Offset+comments[i].Span.Length)
	}

	return tokens, comments, errs
}

// tokenIndexAfter returns the index of the first token starting at or after
// pos.
func (l *lexer) tokenIndexAfter(tokens []Token, pos int) int {
	for i, t := range tokens {
		if t.Pos >= pos {
			return i
		}
	}

	return len(tokens) - 1
}

type lexer struct {
	src    []byte
	source string
	pos    int
}

func (l *lexer) done() bool { return l.pos >= len(l.src) }

func (l *lexer) skipSpace() {
	for !l.done() {
		switch l.src[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) peekComment() bool {
	return l.pos+1 < len(l.src) && l.src[l.pos] == '/' && (l.src[l.pos+1] == '/' || l.src[l.pos+1] == '*')
}

func (l *lexer) lexComment(out *[]Comment) {
	start := l.pos

	if l.src[l.pos+1] == '/' {
		for !l.done() && l.src[l.pos] != '\n' {
			l.pos++
		}
	} else {
		l.pos += 2

		for {
			if l.pos+1 >= len(l.src) {
				l.pos = len(l.src)

				break
			}

			if l.src[l.pos] == '*' && l.src[l.pos+1] == '/' {
				l.pos += 2

				break
			}

			l.pos++
		}
	}

	text := string(l.src[start:l.pos])
	*out = append(*out, Comment{
		Text: text,
		Span: diag.Span{Source: l.source, Offset: start, Length: l.pos - start},
	})
}

func (l *lexer) lexToken() (Token, *LexError) {
	start := l.pos
	c := l.src[l.pos]

	switch {
	case isIdentStart(c):
		for !l.done() && isIdentPart(l.src[l.pos]) {
			l.pos++
		}

		text := string(l.src[start:l.pos])
		kind := KindIdent

		if keywords[text] {
			kind = KindKeyword
		}

		return Token{Kind: kind, Text: text, Pos: start, End: l.pos}, nil

	case c >= '0' && c <= '9':
		return l.lexNumber(start), nil

	case c == '"':
		return l.lexString(start)

	case strings.ContainsRune("{}()[]<>,;:=@.?-", rune(c)):
		l.pos++

		return Token{Kind: KindPunct, Text: string(c), Pos: start, End: l.pos}, nil

	default:
		l.pos++

		return Token{}, &LexError{Message: fmt.Sprintf("unexpected character %q", c), Pos: start}
	}
}

func (l *lexer) lexNumber(start int) Token {
	isFloat := false

	for !l.done() && isDigit(l.src[l.pos]) {
		l.pos++
	}

	if !l.done() && l.src[l.pos] == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) {
		isFloat = true
		l.pos++

		for !l.done() && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}

	if !l.done() && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		save := l.pos
		l.pos++

		if !l.done() && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}

		if !l.done() && isDigit(l.src[l.pos]) {
			isFloat = true

			for !l.done() && isDigit(l.src[l.pos]) {
				l.pos++
			}
		} else {
			l.pos = save
		}
	}

	kind := KindInt
	if isFloat {
		kind = KindFloat
	}

	return Token{Kind: kind, Text: string(l.src[start:l.pos]), Pos: start, End: l.pos}
}

func (l *lexer) lexString(start int) (Token, *LexError) {
	l.pos++ // opening quote

	var b strings.Builder

	for {
		if l.done() {
			return Token{}, &LexError{Message: "unterminated string literal", Pos: start}
		}

		c := l.src[l.pos]

		if c == '"' {
			l.pos++

			break
		}

		if c == '\\' && l.pos+1 < len(l.src) {
			l.pos++
			esc := l.src[l.pos]

			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"', '\\', '/':
				b.WriteByte(esc)
			case 'u':
				if l.pos+4 < len(l.src) {
					hex := string(l.src[l.pos+1 : l.pos+5])

					var r rune
					if _, err := fmt.Sscanf(hex, "%04x", &r); err == nil {
						b.WriteRune(r)
					}

					l.pos += 4
				}
			default:
				b.WriteByte(esc)
			}

			l.pos++

			continue
		}

		b.WriteByte(c)
		l.pos++
	}

	return Token{Kind: KindString, Text: b.String(), Pos: start, End: l.pos}, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// PositionIn resolves a byte offset/length pair into a human-facing
// [diag.Position] by scanning src for line boundaries. Lines are 1-based;
// columns are 1-based byte offsets within the line.
func PositionIn(src []byte, source string, offset, length int) diag.Position {
	line, col := 1, 1

	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return diag.Position{Source: source, Line: line, Column: col, Offset: offset, Length: length}
}
