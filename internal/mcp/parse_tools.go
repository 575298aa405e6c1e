package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"sted/internal/bridge"
	"sted/internal/syntax"
)

// --- parse_source ---

type ParseSourceInput struct {
	Path   string `json:"path" jsonschema:"file to parse, relative to the root"`
	Source string `json:"source,omitempty" jsonschema:"source text; read from path when omitted"`
	Root   string `json:"root,omitempty" jsonschema:"directory paths resolve against (defaults to the server root)"`
}

// ParseSourceResult is the structured output of parse_source.
type ParseSourceResult struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
	RootKind string `json:"root_kind"`
	Tree     string `json:"tree"`
}

func registerParseTools(s *mcpsdk.Server, state *Server) {
	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "parse_source",
		Description: "Parse a source file and return its kind tree. Files with the editing-language extension use the native parser; other files go through a tree-sitter grammar.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in ParseSourceInput) (*mcpsdk.CallToolResult, any, error) {
		path := in.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(state.resolveRoot(in.Root), path)
		}

		src := []byte(in.Source)
		if in.Source == "" {
			var err error
			src, err = os.ReadFile(path)
			if err != nil {
				return errResult(fmt.Errorf("read: %w", err)), nil, nil
			}
		}

		tree, err := state.runner.ParseAny(ctx, path, src)
		if err != nil {
			return errResult(err), nil, nil
		}

		state.logger.Debug("parsed source",
			zap.String("path", in.Path),
			zap.Int("bytes", len(src)))
		return textResult(&ParseSourceResult{
			Path:     in.Path,
			Language: bridge.LanguageFor(path),
			RootKind: tree.Root().Kind().String(),
			Tree:     syntax.Dump(tree.Root()),
		}), nil, nil
	})
}
