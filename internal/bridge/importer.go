// Package bridge imports tree-sitter parse trees into the syntax model,
// giving the editing layer real-language input. Foreign grammar kinds are
// carried as dynamically registered kinds, and token text is sliced
// straight from the source so the imported tree renders back byte for
// byte.
package bridge

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"go.uber.org/zap"

	"sted/internal/syntax"
)

var grammars = map[string]*sitter.Language{
	"go":         golang.GetLanguage(),
	"javascript": javascript.GetLanguage(),
	"typescript": typescript.GetLanguage(),
	"python":     python.GetLanguage(),
	"rust":       rust.GetLanguage(),
}

var extensions = map[string]string{
	".go":  "go",
	".js":  "javascript",
	".mjs": "javascript",
	".cjs": "javascript",
	".ts":  "typescript",
	".py":  "python",
	".rs":  "rust",
}

// Languages lists the supported grammar names, sorted.
func Languages() []string {
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LanguageFor returns the grammar name for a file path, or "" when the
// extension is not recognized.
func LanguageFor(path string) string {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// Importer parses source with tree-sitter grammars and converts the
// result into frozen trees. The underlying parsers are not reentrant, so
// parsing is serialized; converted trees are independent of the importer.
type Importer struct {
	mu      sync.Mutex
	parsers map[string]*sitter.Parser
	logger  *zap.Logger
}

// NewImporter creates an importer with one parser per supported grammar.
// A nil logger disables logging.
func NewImporter(logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	parsers := make(map[string]*sitter.Parser, len(grammars))
	for name, lang := range grammars {
		p := sitter.NewParser()
		p.SetLanguage(lang)
		parsers[name] = p
	}
	return &Importer{parsers: parsers, logger: logger}
}

// Close releases the underlying parsers.
func (im *Importer) Close() {
	for _, p := range im.parsers {
		p.Close()
	}
}

// ImportFile parses src as the language implied by path's extension.
func (im *Importer) ImportFile(ctx context.Context, path string, src []byte) (*syntax.Tree, error) {
	lang := LanguageFor(path)
	if lang == "" {
		return nil, fmt.Errorf("bridge: no grammar for %q files", filepath.Ext(path))
	}
	return im.Import(ctx, lang, src)
}

// Import parses src with the named grammar and converts the parse tree
// into a frozen syntax tree whose text round-trips src.
func (im *Importer) Import(ctx context.Context, lang string, src []byte) (*syntax.Tree, error) {
	parser, ok := im.parsers[lang]
	if !ok {
		return nil, fmt.Errorf("bridge: unknown language %q", lang)
	}

	start := time.Now()
	im.mu.Lock()
	parsed, err := parser.ParseCtx(ctx, nil, src)
	im.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("bridge: parse %s: %w", lang, err)
	}
	defer parsed.Close()

	root := parsed.RootNode()
	els := convertChildren(root, src, 0, uint32(len(src)))
	tree := syntax.NewTree(syntax.NewNode(syntax.RegisterNodeKind(root.Type()), els...))

	im.logger.Debug("imported source",
		zap.String("language", lang),
		zap.Int("bytes", len(src)),
		zap.Bool("had_errors", root.HasError()),
		zap.Duration("elapsed", time.Since(start)))
	return tree, nil
}

// convertChildren maps n's children onto elements covering src[from:to].
// Byte ranges the grammar did not claim become gap tokens, so nothing of
// the source is lost.
func convertChildren(n *sitter.Node, src []byte, from, to uint32) []syntax.Element {
	var els []syntax.Element
	pos := from
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.StartByte() > pos {
			els = append(els, gapToken(string(src[pos:c.StartByte()])))
		}
		els = append(els, convert(c, src))
		pos = c.EndByte()
	}
	if to > pos {
		els = append(els, gapToken(string(src[pos:to])))
	}
	return els
}

func convert(c *sitter.Node, src []byte) syntax.Element {
	if c.ChildCount() == 0 {
		text := string(src[c.StartByte():c.EndByte()])
		return syntax.NewToken(syntax.RegisterTokenKind(c.Type()), text)
	}
	kind := syntax.RegisterNodeKind(c.Type())
	return syntax.NewNode(kind, convertChildren(c, src, c.StartByte(), c.EndByte())...)
}

// gapToken carries text between claimed spans. Blank runs are ordinary
// whitespace; anything else was skipped by error recovery and keeps its
// own kind so dumps show it.
func gapToken(text string) *syntax.Token {
	if strings.Trim(text, " \t\r\n") == "" {
		return syntax.NewToken(syntax.Whitespace, text)
	}
	return syntax.NewToken(syntax.RegisterTokenKind("unparsed"), text)
}
