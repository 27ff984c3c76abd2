package importer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/avdl/importer"
	"go.jacobcolvin.com/avdl/schema"
)

func TestStripJSONCommentsLineAndBlock(t *testing.T) {
	t.Parallel()

	in := []byte(`{
  // a line comment
  "type": "string", /* a block
  comment */ "name": "x"
}`)

	out := importer.StripJSONComments(in)
	assert.NotContains(t, string(out), "line comment")
	assert.NotContains(t, string(out), "block")
	assert.Contains(t, string(out), `"type": "string"`)
}

func TestStripJSONCommentsStringAware(t *testing.T) {
	t.Parallel()

	in := []byte(`{"doc": "a // not a comment and /* not either */"}`)
	out := importer.StripJSONComments(in)
	assert.Equal(t, string(in), string(out))
}

func TestLoadSchemaPrimitive(t *testing.T) {
	t.Parallel()

	s, named, err := importer.LoadSchema([]byte(`"string"`))
	require.NoError(t, err)
	assert.Empty(t, named)
	prim, ok := s.(*schema.Primitive)
	require.True(t, ok)
	assert.Equal(t, schema.KindString, prim.Of)
}

func TestLoadSchemaRecord(t *testing.T) {
	t.Parallel()

	data := []byte(`{
  "type": "record",
  "name": "Foo",
  "namespace": "com.example",
  "fields": [
    {"name": "id", "type": "long"}
  ]
}`)

	s, named, err := importer.LoadSchema(data)
	require.NoError(t, err)
	require.Len(t, named, 1)

	rec, ok := s.(*schema.Record)
	require.True(t, ok)
	assert.Equal(t, "Foo", rec.Name)
	assert.Equal(t, "com.example", rec.Namespace)
	require.Len(t, rec.Fields, 1)
	assert.Equal(t, "id", rec.Fields[0].Name)
}

func TestLoadProtocol(t *testing.T) {
	t.Parallel()

	data := []byte(`{
  "protocol": "Mail",
  "namespace": "com.example",
  "types": [
    {"type": "record", "name": "Message", "fields": [{"name": "body", "type": "string"}]}
  ],
  "messages": {
    "send": {
      "request": [{"name": "m", "type": "Message"}],
      "response": "null"
    }
  }
}`)

	p, err := importer.LoadProtocol(data)
	require.NoError(t, err)
	assert.Equal(t, "Mail", p.Name)
	assert.Equal(t, "com.example", p.Namespace)
	require.Len(t, p.Types, 1)
	require.Len(t, p.Messages, 1)
	assert.Equal(t, "send", p.Messages[0].Name)
	assert.True(t, p.Messages[0].HasImplicitError)
}

func TestLoadProtocolOneWayNoImplicitError(t *testing.T) {
	t.Parallel()

	data := []byte(`{
  "protocol": "P",
  "messages": {
    "ping": {"request": [], "response": "null", "one-way": true}
  }
}`)

	p, err := importer.LoadProtocol(data)
	require.NoError(t, err)
	require.Len(t, p.Messages, 1)
	assert.True(t, p.Messages[0].OneWay)
	assert.False(t, p.Messages[0].HasImplicitError)
}

func TestLoadIDL(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.avdl")
	require.NoError(t, os.WriteFile(path, []byte(`record Foo { string name; }`), 0o644))

	walked, warnings, fatal, err := importer.LoadIDL(path)
	require.NoError(t, err)
	require.Nil(t, fatal)
	assert.Empty(t, warnings)
	assert.Equal(t, schema.FileSchema, walked.FileKind)
}

func TestLoadIDLParseError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.avdl")
	require.NoError(t, os.WriteFile(path, []byte(`record Foo { string name }`), 0o644))

	walked, _, fatal, err := importer.LoadIDL(path)
	require.NoError(t, err)
	assert.Nil(t, walked)
	require.NotNil(t, fatal)
}

func TestContextResolveBaseDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shared.avdl"), []byte(``), 0o644))

	ctx := importer.NewContext(dir, nil)
	resolved, err := ctx.Resolve("shared.avdl")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shared.avdl"), resolved)
}

func TestContextResolveSearchDirFallback(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	search := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(search, "shared.avdl"), []byte(``), 0o644))

	ctx := importer.NewContext(base, []string{search})
	resolved, err := ctx.Resolve("shared.avdl")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(search, "shared.avdl"), resolved)
}

func TestContextResolveNotFound(t *testing.T) {
	t.Parallel()

	ctx := importer.NewContext(t.TempDir(), nil)
	_, err := ctx.Resolve("missing.avdl")
	require.ErrorIs(t, err, importer.ErrImportNotFound)
}

func TestContextEnterCycleGuard(t *testing.T) {
	t.Parallel()

	ctx := importer.NewContext(t.TempDir(), nil)

	assert.False(t, ctx.Enter("/a/b.avdl"))
	assert.True(t, ctx.Enter("/a/b.avdl"))
}
