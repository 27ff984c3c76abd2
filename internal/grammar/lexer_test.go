package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexBasicTokens(t *testing.T) {
	t.Parallel()

	tokens, comments, errs := Lex([]byte(`record Foo { string name; }`), "a.avdl")
	require.Empty(t, errs)
	assert.Empty(t, comments)

	var texts []string
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}

	assert.Equal(t, []string{"record", "Foo", "{", "string", "name", ";", "}", ""}, texts)
	assert.Equal(t, KindEOF, tokens[len(tokens)-1].Kind)
	assert.Equal(t, KindKeyword, tokens[0].Kind)
	assert.Equal(t, KindIdent, tokens[1].Kind)
}

func TestLexStringEscapes(t *testing.T) {
	t.Parallel()

	tokens, _, errs := Lex([]byte(`"a\nb\t\"c\""`), "a.avdl")
	require.Empty(t, errs)
	require.Len(t, tokens, 2) // string + EOF
	assert.Equal(t, "a\nb\t\"c\"", tokens[0].Text)
}

func TestLexNumbers(t *testing.T) {
	t.Parallel()

	tokens, _, errs := Lex([]byte(`1 2.5 3e10 -4`), "a.avdl")
	require.Empty(t, errs)

	assert.Equal(t, KindInt, tokens[0].Kind)
	assert.Equal(t, KindFloat, tokens[1].Kind)
	assert.Equal(t, KindFloat, tokens[2].Kind)
	assert.Equal(t, KindPunct, tokens[3].Kind)
	assert.Equal(t, KindInt, tokens[4].Kind)
}

func TestLexUnterminatedString(t *testing.T) {
	t.Parallel()

	_, _, errs := Lex([]byte(`"unterminated`), "a.avdl")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "unterminated string")
}

func TestLexUnexpectedByte(t *testing.T) {
	t.Parallel()

	_, _, errs := Lex([]byte("record Foo { # }"), "a.avdl")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "unexpected character")
}

func TestLexCommentsBeforeToken(t *testing.T) {
	t.Parallel()

	src := "/** doc */\nrecord Foo {}"
	tokens, comments, errs := Lex([]byte(src), "a.avdl")
	require.Empty(t, errs)
	require.Len(t, comments, 1)

	assert.Equal(t, "/** doc */", comments[0].Text)
	assert.Equal(t, tokens[0].Text, "record")
	assert.Equal(t, 0, comments[0].BeforeToken)
}

func TestLexOrphanTrailingComment(t *testing.T) {
	t.Parallel()

	src := "record Foo {}\n// trailing"
	tokens, comments, errs := Lex([]byte(src), "a.avdl")
	require.Empty(t, errs)
	require.Len(t, comments, 1)

	assert.Equal(t, len(tokens)-1, comments[0].BeforeToken)
}

func TestLexLineCommentStopsAtNewline(t *testing.T) {
	t.Parallel()

	tokens, comments, errs := Lex([]byte("// hi\nrecord"), "a.avdl")
	require.Empty(t, errs)
	require.Len(t, comments, 1)
	assert.Equal(t, "// hi", comments[0].Text)
	assert.Equal(t, "record", tokens[0].Text)
}

func TestPositionIn(t *testing.T) {
	t.Parallel()

	src := []byte("line one\nline two\nline three")
	pos := PositionIn(src, "a.avdl", len("line one\nline "), 3)

	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 6, pos.Column)
	assert.Equal(t, "a.avdl", pos.Source)
}
