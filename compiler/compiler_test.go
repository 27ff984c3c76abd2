package compiler_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/avdl/compiler"
	"go.jacobcolvin.com/avdl/schema"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	return path
}

func TestCompileProtocol(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "p.avdl", `
protocol P {
  record Foo { string name; }
  void ping();
}
`)

	res, fatal, err := compiler.Compile("p.avdl", dir, nil)
	require.NoError(t, err)
	require.Nil(t, fatal)
	require.Equal(t, schema.FileProtocol, res.File.Kind)
	assert.Equal(t, "P", res.File.Protocol.Name)
	require.Len(t, res.File.Protocol.Messages, 1)
	assert.True(t, res.File.Protocol.Messages[0].HasImplicitError)
}

func TestCompileNotAProtocol(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "s.avdl", `record Foo { string name; }`)

	_, _, err := compiler.Compile("s.avdl", dir, nil)
	require.ErrorIs(t, err, compiler.ErrNotAProtocol)
}

func TestCompileSchema(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "s.avdl", `record Foo { string name; }`)

	res, fatal, err := compiler.CompileSchema("s.avdl", dir, nil)
	require.NoError(t, err)
	require.Nil(t, fatal)
	require.Equal(t, schema.FileSchema, res.File.Kind)

	rec, ok := res.File.Schema.(*schema.Record)
	require.True(t, ok)
	assert.Equal(t, "Foo", rec.Name)
}

func TestCompileSchemaRejectsProtocol(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "p.avdl", `protocol P { void ping(); }`)

	_, _, err := compiler.CompileSchema("p.avdl", dir, nil)
	require.ErrorIs(t, err, compiler.ErrNotASchema)
}

func TestCompileSchemataBag(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "bag.avdl", `record Foo {} record Bar {}`)

	named, _, fatal, err := compiler.CompileSchemata("bag.avdl", dir, nil)
	require.NoError(t, err)
	require.Nil(t, fatal)
	require.Len(t, named, 2)
}

func TestCompileUnresolvedReferenceIsFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "s.avdl", `record Foo { Missing x; }`)

	_, fatal, err := compiler.CompileSchema("s.avdl", dir, nil)
	require.NoError(t, err)
	require.NotNil(t, fatal)
}

func TestCompileIDLImportFoldsNamedDecls(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "shared.avdl", `record Shared { string value; }`)
	writeFile(t, dir, "main.avdl", `
protocol P {
  import idl "shared.avdl";
  void ping(Shared s);
}
`)

	res, fatal, err := compiler.Compile("main.avdl", dir, nil)
	require.NoError(t, err)
	require.Nil(t, fatal)

	var found bool
	for _, typ := range res.File.Protocol.Types {
		if rec, ok := typ.(*schema.Record); ok && rec.Name == "Shared" {
			found = true
		}
	}

	assert.True(t, found)
}

func TestCompileDiamondImportIsNotFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "base.avdl", `record Base {}`)
	writeFile(t, dir, "mid1.avdl", `import idl "base.avdl"; record Mid1 { Base b; }`)
	writeFile(t, dir, "mid2.avdl", `import idl "base.avdl"; record Mid2 { Base b; }`)
	writeFile(t, dir, "top.avdl", `
protocol P {
  import idl "mid1.avdl";
  import idl "mid2.avdl";
  void ping();
}
`)

	res, fatal, err := compiler.Compile("top.avdl", dir, nil)
	require.NoError(t, err)
	require.Nil(t, fatal)
	assert.NotEmpty(t, res.File.Protocol.Types)
}

func TestCompileInvalidDefaultIsFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "s.avdl", `record Foo { int n = "not an int"; }`)

	_, fatal, err := compiler.CompileSchema("s.avdl", dir, nil)
	require.NoError(t, err)
	require.NotNil(t, fatal)
}

func TestCompileImportDirSearchPath(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	search := t.TempDir()

	writeFile(t, search, "shared.avdl", `record Shared {}`)
	writeFile(t, base, "main.avdl", `
protocol P {
  import idl "shared.avdl";
  void ping(Shared s);
}
`)

	res, fatal, err := compiler.Compile("main.avdl", base, []string{search})
	require.NoError(t, err)
	require.Nil(t, fatal)
	assert.NotEmpty(t, res.File.Protocol.Types)
}

func TestCompileDuplicateMessageNameIsFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "p.avdl", `
protocol P {
  void ping();
  void ping();
}
`)

	_, fatal, err := compiler.Compile("p.avdl", dir, nil)
	require.NoError(t, err)
	require.NotNil(t, fatal)
	assert.Contains(t, fatal.Message, "ping")
}

func TestCompileImportProtocolDuplicateMessageNameIsFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "other.avpr", `
{
  "protocol": "Other",
  "messages": {
    "ping": { "request": [], "response": "null" }
  }
}
`)
	writeFile(t, dir, "p.avdl", `
protocol P {
  import protocol "other.avpr";
  void ping();
}
`)

	_, fatal, err := compiler.Compile("p.avdl", dir, nil)
	require.NoError(t, err)
	require.NotNil(t, fatal)
	assert.Contains(t, fatal.Message, "ping")
}
