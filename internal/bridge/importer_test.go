package bridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sted/internal/syntax"
)

func TestImport_RoundTripsSource(t *testing.T) {
	cases := []struct {
		lang string
		src  string
	}{
		{"go", "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n"},
		{"javascript", "import { x } from './x.js';\n\nexport function f(a) {\n  return a + 1;\n}\n"},
		{"typescript", "interface Point {\n  x: number;\n}\n\nconst p: Point = { x: 1 };\n"},
		{"python", "import os\n\n\ndef main() -> None:\n    print(os.getcwd())\n"},
		{"rust", "use std::io;\n\nfn main() {\n    println!(\"hi\");\n}\n"},
	}

	im := NewImporter(nil)
	defer im.Close()

	for _, c := range cases {
		t.Run(c.lang, func(t *testing.T) {
			tree, err := im.Import(context.Background(), c.lang, []byte(c.src))
			require.NoError(t, err)
			require.True(t, tree.Frozen())
			assert.Equal(t, c.src, tree.Text())
		})
	}
}

func TestImport_RegistersForeignKinds(t *testing.T) {
	im := NewImporter(nil)
	defer im.Close()

	tree, err := im.Import(context.Background(), "go", []byte("package main\n"))
	require.NoError(t, err)

	require.Equal(t, "source_file", tree.Root().Kind().String())
	dump := syntax.Dump(tree.Root())
	assert.Contains(t, dump, "package_clause")
	assert.Contains(t, dump, `"package"`)
}

func TestImport_BlankRunsBecomeWhitespace(t *testing.T) {
	im := NewImporter(nil)
	defer im.Close()

	tree, err := im.Import(context.Background(), "go", []byte("package main\n\nvar x = 1\n"))
	require.NoError(t, err)

	blanks := 0
	syntax.Walk(tree.Root(), func(el syntax.Element) {
		if tok, ok := el.(*syntax.Token); ok && tok.Kind() == syntax.Whitespace {
			blanks++
		}
	})
	assert.Greater(t, blanks, 0)
}

func TestImport_UnknownLanguage(t *testing.T) {
	im := NewImporter(nil)
	defer im.Close()

	_, err := im.Import(context.Background(), "cobol", []byte("x"))
	assert.ErrorContains(t, err, `unknown language "cobol"`)
}

func TestImportFile(t *testing.T) {
	im := NewImporter(nil)
	defer im.Close()

	t.Run("selects the grammar by extension", func(t *testing.T) {
		src := "def f():\n    return 1\n"
		tree, err := im.ImportFile(context.Background(), "pkg/f.py", []byte(src))
		require.NoError(t, err)
		assert.Equal(t, src, tree.Text())
		assert.Equal(t, "module", tree.Root().Kind().String())
	})

	t.Run("rejects unrecognized extensions", func(t *testing.T) {
		_, err := im.ImportFile(context.Background(), "notes.txt", []byte("x"))
		assert.ErrorContains(t, err, `no grammar for ".txt" files`)
	})
}

func TestLanguageFor(t *testing.T) {
	cases := map[string]string{
		"a/b/c.go": "go",
		"x.js":     "javascript",
		"x.mjs":    "javascript",
		"x.ts":     "typescript",
		"x.py":     "python",
		"x.rs":     "rust",
		"x.GO":     "go",
		"x.txt":    "",
		"Makefile": "",
	}
	for path, want := range cases {
		assert.Equal(t, want, LanguageFor(path), "path %s", path)
	}
}

func TestLanguages(t *testing.T) {
	assert.Equal(t, []string{"go", "javascript", "python", "rust", "typescript"}, Languages())
}
