package apply

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sted/internal/config"
	"sted/internal/syntax"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	r := NewRunner(config.DefaultConfig(), nil)
	t.Cleanup(r.Close)
	return r
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func mustPlan(t *testing.T, doc string) *Plan {
	t.Helper()
	plan, err := ParsePlan([]byte(doc))
	require.NoError(t, err)
	return plan
}

func TestRun_AddTypeParamWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lib.x", "function pair<K>(k: K) { k }\n")
	plan := mustPlan(t, `
actions:
  - action: add_type_param
    files: "*.x"
    function: pair
    param: V
`)

	results, err := newTestRunner(t).Run(context.Background(), plan, dir, Options{Write: true})

	require.NoError(t, err)
	require.Len(t, results, 1)
	res := results[0]
	require.NoError(t, res.Err)
	assert.Equal(t, "lib.x", res.Path)
	assert.True(t, res.Changed)
	assert.Contains(t, res.Diff, "-function pair<K>(k: K) { k }")
	assert.Contains(t, res.Diff, "+function pair<K, V>(k: K) { k }")
	_, err = uuid.Parse(res.SessionID)
	assert.NoError(t, err)

	assert.Equal(t, "function pair<K, V>(k: K) { k }\n", readFile(t, path))
}

func TestRun_PreviewLeavesFilesAlone(t *testing.T) {
	dir := t.TempDir()
	src := "function pair<K>(k: K) { k }\n"
	path := writeFile(t, dir, "lib.x", src)
	plan := mustPlan(t, `
actions:
  - action: add_type_param
    files: "lib.x"
    function: pair
    param: V
`)

	results, err := newTestRunner(t).Run(context.Background(), plan, dir, Options{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Changed)
	assert.NotEmpty(t, results[0].Diff)
	assert.Equal(t, src, readFile(t, path))
}

func TestRun_EditsOnlyMatchingFunctions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.x", "function pair<K>(k: K) { k }\n")
	writeFile(t, dir, "b.x", "function other<K>(k: K) { k }\n")
	plan := mustPlan(t, `
actions:
  - action: add_type_param
    files: "*.x"
    function: pair
    param: V
`)

	results, err := newTestRunner(t).Run(context.Background(), plan, dir, Options{})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a.x", results[0].Path)
	assert.True(t, results[0].Changed)
	assert.Equal(t, "b.x", results[1].Path)
	assert.False(t, results[1].Changed)
	assert.Empty(t, results[1].Diff)
}

func TestRun_RemoveImportPlan(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.x", "import std.io;\nimport std.fs;\n\nfunction main() {  }\n")
	plan := mustPlan(t, `
actions:
  - action: remove_import
    files: "main.x"
    path: std.io
`)

	_, err := newTestRunner(t).Run(context.Background(), plan, dir, Options{Write: true})

	require.NoError(t, err)
	assert.Equal(t, "import std.fs;\n\nfunction main() {  }\n", readFile(t, path))
}

func TestRun_RemoveImportClausePlan(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.x", "import std.collections.{map, set};\n")
	plan := mustPlan(t, `
actions:
  - action: remove_import_clause
    files: "main.x"
    path: map
`)

	_, err := newTestRunner(t).Run(context.Background(), plan, dir, Options{Write: true})

	require.NoError(t, err)
	assert.Equal(t, "import std.collections.{set};\n", readFile(t, path))
}

func TestRun_RecordCountsMappings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.x", "function pair<K>(k: K) { k }\n")
	plan := mustPlan(t, `
actions:
  - action: add_type_param
    files: "lib.x"
    function: pair
    param: V
    bounds: ["x.Ord"]
`)

	results, err := newTestRunner(t).Run(context.Background(), plan, dir, Options{Record: true})

	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	// The inserted parameter maps its name and its bound list.
	assert.Equal(t, 2, results[0].Mappings)
}

func TestRun_ConflictingActionsBecomeFileError(t *testing.T) {
	dir := t.TempDir()
	src := "import std.io;\n"
	path := writeFile(t, dir, "main.x", src)
	plan := mustPlan(t, `
actions:
  - action: remove_import
    files: "main.x"
    path: std.io
  - action: remove_import
    files: "main.x"
    path: std.io
`)

	results, err := newTestRunner(t).Run(context.Background(), plan, dir, Options{Write: true})

	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "removed twice")
	assert.Equal(t, src, readFile(t, path))
}

func TestRun_ForeignSourcesCannotTakeActions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	plan := mustPlan(t, `
actions:
  - action: remove_import
    files: "*.go"
    path: std.io
`)

	results, err := newTestRunner(t).Run(context.Background(), plan, dir, Options{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.ErrorContains(t, results[0].Err, "structural actions need .x sources")
}

func TestRun_MalformedSourceBecomesFileError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.x", "function {{{\n")
	plan := mustPlan(t, `
actions:
  - action: remove_import
    files: "bad.x"
    path: std.io
`)

	results, err := newTestRunner(t).Run(context.Background(), plan, dir, Options{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestRun_NoMatchingFiles(t *testing.T) {
	plan := mustPlan(t, `
actions:
  - action: remove_import
    files: "*.x"
    path: std.io
`)

	results, err := newTestRunner(t).Run(context.Background(), plan, t.TempDir(), Options{})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestParseAny(t *testing.T) {
	r := newTestRunner(t)

	t.Run("editing language by extension", func(t *testing.T) {
		tree, err := r.ParseAny(context.Background(), "m.x", []byte("let a = 1;"))
		require.NoError(t, err)
		assert.Equal(t, syntax.SourceFile, tree.Root().Kind())
	})

	t.Run("foreign grammar by extension", func(t *testing.T) {
		tree, err := r.ParseAny(context.Background(), "m.go", []byte("package m\n"))
		require.NoError(t, err)
		assert.Equal(t, "source_file", tree.Root().Kind().String())
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := r.ParseAny(context.Background(), "m.txt", []byte("x"))
		assert.Error(t, err)
	})
}
