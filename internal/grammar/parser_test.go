package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/avdl/internal/grammar"
)

func TestParseRecord(t *testing.T) {
	t.Parallel()

	src := `
/** A person. */
record Person {
  string name;
  int age = 0;
}
`
	file, warnings, fatal := grammar.Parse([]byte(src), "a.avdl")
	require.Nil(t, fatal)
	assert.Empty(t, warnings)
	require.False(t, file.IsProtocol)
	require.Len(t, file.Items, 1)

	item := file.Items[0]
	require.Equal(t, grammar.ItemNamedDecl, item.Kind)

	n := item.Named
	require.Equal(t, grammar.NamedRecord, n.Kind)
	require.NotNil(t, n.Doc)
	assert.Equal(t, "A person.", n.Doc.Text)
	assert.Equal(t, "Person", n.Name)
	require.Len(t, n.Fields, 2)
	assert.Equal(t, "name", n.Fields[0].Name)
	assert.Equal(t, "age", n.Fields[1].Name)
	assert.True(t, n.Fields[1].HasDefault)
	assert.Equal(t, int64(0), n.Fields[1].Default)
}

func TestParseErrorDecl(t *testing.T) {
	t.Parallel()

	file, _, fatal := grammar.Parse([]byte(`error Boom { string message; }`), "a.avdl")
	require.Nil(t, fatal)
	require.Len(t, file.Items, 1)
	assert.Equal(t, grammar.NamedError, file.Items[0].Named.Kind)
}

func TestParseEnumWithDefault(t *testing.T) {
	t.Parallel()

	file, _, fatal := grammar.Parse([]byte(`enum Suit { SPADES, HEARTS, CLUBS } = SPADES;`), "a.avdl")
	require.Nil(t, fatal)
	require.Len(t, file.Items, 1)

	n := file.Items[0].Named
	require.Equal(t, grammar.NamedEnum, n.Kind)
	require.Len(t, n.Symbols, 3)
	assert.Equal(t, "SPADES", n.Symbols[0].Name)
	assert.True(t, n.HasDefault)
	assert.Equal(t, "SPADES", n.DefaultSymbol)
}

func TestParseFixed(t *testing.T) {
	t.Parallel()

	file, _, fatal := grammar.Parse([]byte(`fixed MD5(16);`), "a.avdl")
	require.Nil(t, fatal)
	n := file.Items[0].Named
	require.Equal(t, grammar.NamedFixed, n.Kind)
	require.NotNil(t, n.Size)
	assert.Equal(t, int64(16), n.Size.Value)
}

func TestParseNullableShorthand(t *testing.T) {
	t.Parallel()

	file, _, fatal := grammar.Parse([]byte(`record R { string? name; }`), "a.avdl")
	require.Nil(t, fatal)

	typ := file.Items[0].Named.Fields[0].Type
	require.Equal(t, grammar.TypeNullable, typ.Kind)
	require.NotNil(t, typ.Inner)
	assert.Equal(t, grammar.TypePrimitive, typ.Inner.Kind)
	assert.Equal(t, "string", typ.Inner.Name)
}

func TestParseDecimalPrecisionScale(t *testing.T) {
	t.Parallel()

	file, _, fatal := grammar.Parse([]byte(`record R { decimal(9,2) amount; }`), "a.avdl")
	require.Nil(t, fatal)

	typ := file.Items[0].Named.Fields[0].Type
	assert.Equal(t, "decimal", typ.Name)
	assert.Equal(t, 9, typ.Precision)
	assert.True(t, typ.HasScale)
	assert.Equal(t, 2, typ.Scale)
}

func TestParseArrayMapUnion(t *testing.T) {
	t.Parallel()

	src := `record R {
  array<string> tags;
  map<int> counts;
  union { null, string } nickname;
}`
	file, _, fatal := grammar.Parse([]byte(src), "a.avdl")
	require.Nil(t, fatal)

	fields := file.Items[0].Named.Fields
	assert.Equal(t, grammar.TypeArray, fields[0].Type.Kind)
	assert.Equal(t, grammar.TypeMap, fields[1].Type.Kind)
	assert.Equal(t, grammar.TypeUnion, fields[2].Type.Kind)
	require.Len(t, fields[2].Type.Members, 2)
}

func TestParseNullableOnArrayIsRejected(t *testing.T) {
	t.Parallel()

	file, _, fatal := grammar.Parse([]byte(`record R { array<string>? tags; }`), "a.avdl")
	assert.Nil(t, file)
	require.NotNil(t, fatal)
	assert.Contains(t, fatal.Message, "nullable shorthand")
}

func TestParseNullableOnMapIsRejected(t *testing.T) {
	t.Parallel()

	file, _, fatal := grammar.Parse([]byte(`record R { map<int>? counts; }`), "a.avdl")
	assert.Nil(t, file)
	require.NotNil(t, fatal)
	assert.Contains(t, fatal.Message, "nullable shorthand")
}

func TestParseNullableOnUnionIsRejected(t *testing.T) {
	t.Parallel()

	file, _, fatal := grammar.Parse([]byte(`record R { union { null, string }? nickname; }`), "a.avdl")
	assert.Nil(t, file)
	require.NotNil(t, fatal)
	assert.Contains(t, fatal.Message, "nullable shorthand")
}

func TestParseNamedReference(t *testing.T) {
	t.Parallel()

	file, _, fatal := grammar.Parse([]byte(`record R { other.Thing x; }`), "a.avdl")
	require.Nil(t, fatal)

	typ := file.Items[0].Named.Fields[0].Type
	assert.Equal(t, grammar.TypeNamed, typ.Kind)
	assert.Equal(t, "other.Thing", typ.Name)
}

func TestParseImport(t *testing.T) {
	t.Parallel()

	file, _, fatal := grammar.Parse([]byte(`import idl "other.avdl";`), "a.avdl")
	require.Nil(t, fatal)
	require.Len(t, file.Items, 1)

	imp := file.Items[0].Import
	assert.Equal(t, grammar.ImportIDL, imp.Kind)
	assert.Equal(t, "other.avdl", imp.Path)
}

func TestParseProtocolWithMessages(t *testing.T) {
	t.Parallel()

	src := `
protocol Mail {
  import idl "shared.avdl";

  record Message {
    string to;
    string body;
  }

  void send(Message m) throws IOException;
  string ping() oneway;
}
`
	file, _, fatal := grammar.Parse([]byte(src), "a.avdl")
	require.Nil(t, fatal)
	require.True(t, file.IsProtocol)
	assert.Equal(t, "Mail", file.Name)
	require.Len(t, file.Items, 2) // import + record
	require.Len(t, file.Messages, 2)

	send := file.Messages[0]
	assert.True(t, send.Void)
	assert.Equal(t, "send", send.Name)
	require.Len(t, send.Params, 1)
	assert.Equal(t, []string{"IOException"}, send.Errors)

	ping := file.Messages[1]
	assert.False(t, ping.Void)
	assert.True(t, ping.OneWay)
}

func TestParseMainSchema(t *testing.T) {
	t.Parallel()

	file, _, fatal := grammar.Parse([]byte(`array<string>;`), "a.avdl")
	require.Nil(t, fatal)
	require.Len(t, file.Items, 1)
	assert.Equal(t, grammar.ItemMainSchema, file.Items[0].Kind)
	assert.Equal(t, grammar.TypeArray, file.Items[0].Main.Kind)
}

func TestParseAnnotations(t *testing.T) {
	t.Parallel()

	file, _, fatal := grammar.Parse([]byte(`@namespace("com.example") record R { @order("ascending") string name; }`), "a.avdl")
	require.Nil(t, fatal)

	n := file.Items[0].Named
	require.Len(t, n.Annotations, 1)
	assert.Equal(t, "namespace", n.Annotations[0].Name)
	assert.Equal(t, "com.example", n.Annotations[0].Value)

	require.Len(t, n.Fields[0].Annotations, 1)
	assert.Equal(t, "order", n.Fields[0].Annotations[0].Name)
}

func TestParseSyntaxError(t *testing.T) {
	t.Parallel()

	file, _, fatal := grammar.Parse([]byte(`record R { string name }`), "a.avdl")
	assert.Nil(t, file)
	require.NotNil(t, fatal)
	assert.Contains(t, fatal.Message, "expected")
}

func TestParseLexErrorIsFatal(t *testing.T) {
	t.Parallel()

	file, warnings, fatal := grammar.Parse([]byte(`record R { # }`), "a.avdl")
	assert.Nil(t, file)
	assert.Nil(t, warnings)
	require.NotNil(t, fatal)
	assert.Contains(t, fatal.Message, "unexpected character")
}

func TestParseDocCommentLastWinsWarning(t *testing.T) {
	t.Parallel()

	src := `
/** first */
/** second */
record R {}
`
	file, warnings, fatal := grammar.Parse([]byte(src), "a.avdl")
	require.Nil(t, fatal)
	require.NotNil(t, file.Items[0].Named.Doc)
	assert.Equal(t, "second", file.Items[0].Named.Doc.Text)
	require.Len(t, warnings, 1)
}
