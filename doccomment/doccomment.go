// Package doccomment harvests `/** ... */` doc-comment blocks from Avro IDL
// source text and attaches them to the declaration that immediately follows,
// per spec.md §4.5.
package doccomment

import (
	"strings"

	"go.jacobcolvin.com/avdl/diag"
)

// Raw is a comment token as lexed from the source, independent of whether it
// is a doc comment, a plain block comment, or a line comment.
type Raw struct {
	Text string // includes delimiters, e.g. "/** foo */" or "// foo"
	Span diag.Span
}

// IsDocBlock reports whether raw is a `/** ... */` doc-comment block (as
// opposed to an ordinary `/* ... */` or `//` comment).
func IsDocBlock(raw string) bool {
	return strings.HasPrefix(raw, "/**") &&
		strings.HasSuffix(raw, "*/") &&
		raw != "/**/"
}

// Consume scans candidates -- every comment lexed in the gap between the
// previous token and a declaration's first token -- and returns the doc
// text that should attach to that declaration, plus warnings for any
// out-of-place blocks.
//
// When more than one `/** ... */` block appears in the slot, the last one
// wins (matching "closest comment to the declaration") and every earlier
// block is reported as an out-of-place warning; ordinary (non-doc)
// comments in the same slot are ignored entirely.
func Consume(candidates []Raw) (doc string, warnings []diag.Warning) {
	var blocks []Raw

	for _, c := range candidates {
		if IsDocBlock(c.Text) {
			blocks = append(blocks, c)
		}
	}

	if len(blocks) == 0 {
		return "", nil
	}

	last := blocks[len(blocks)-1]

	for _, c := range blocks[:len(blocks)-1] {
		warnings = append(warnings, diag.Warning{
			Message: "doc comment is not attached to any declaration",
			Pos:     positionOf(c.Span),
		})
	}

	return ExtractBody(last.Text), warnings
}

// Orphaned reports a warning for every doc-comment block in candidates, for
// use at points in the source (e.g. end of file) where no declaration
// follows to consume them.
func Orphaned(candidates []Raw) []diag.Warning {
	var warnings []diag.Warning

	for _, c := range candidates {
		if IsDocBlock(c.Text) {
			warnings = append(warnings, diag.Warning{
				Message: "doc comment is not attached to any declaration",
				Pos:     positionOf(c.Span),
			})
		}
	}

	return warnings
}

// ExtractBody strips the `/**`/`*/` delimiters from a doc block and applies
// the strip-indent rules from spec.md §4.5: for each line, trim leading
// whitespace, drop a single leading '*' if present, drop at most one
// horizontal-whitespace character after the star, trim trailing whitespace.
// Leading and trailing blank lines produced by the delimiters sitting on
// their own line are trimmed from the result. Original line-ending style
// (CRLF vs LF) is honoured when splitting; the returned body always joins
// with '\n'.
func ExtractBody(raw string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(raw, "/**"), "*/")

	lines := splitLines(inner)

	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, stripIndent(line))
	}

	cleaned = trimBlankEdges(cleaned)

	return strings.Join(cleaned, "\n")
}

func stripIndent(line string) string {
	l := strings.TrimLeft(line, " \t")
	l = strings.TrimPrefix(l, "*")

	if len(l) > 0 && (l[0] == ' ' || l[0] == '\t') {
		l = l[1:]
	}

	return strings.TrimRight(l, " \t")
}

// splitLines splits s on line boundaries, treating a "\r\n" pair as a single
// boundary rather than normalising it away first.
func splitLines(s string) []string {
	var lines []string

	start := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				lines = append(lines, s[start:i])
				start = i + 2
				i++
			} else {
				lines = append(lines, s[start:i])
				start = i + 1
			}
		}
	}

	lines = append(lines, s[start:])

	return lines
}

func trimBlankEdges(lines []string) []string {
	start, end := 0, len(lines)

	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}

	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}

	return lines[start:end]
}

func positionOf(span diag.Span) diag.Position {
	return diag.Position{Source: span.Source, Offset: span.Offset, Length: span.Length}
}
