// Package mcp exposes the plan runner over the Model Context Protocol so
// agent clients can inspect trees and land structural edits.
package mcp

import (
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"sted/internal/apply"
	"sted/internal/config"
)

// serverName identifies this server to MCP clients.
const serverName = "sted"

// Server holds the shared state behind the tool handlers: the resolved
// configuration, the plan runner, and the root directory that relative
// paths and file globs resolve against when a call does not name one.
type Server struct {
	cfg    *config.Config
	root   string
	runner *apply.Runner
	logger *zap.Logger
}

// NewServer creates the shared tool state. A nil logger disables logging.
func NewServer(cfg *config.Config, root string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:    cfg,
		root:   root,
		runner: apply.NewRunner(cfg, logger),
		logger: logger,
	}
}

// NewSDKServer builds the MCP server advertised as "sted" with every tool
// registered.
func NewSDKServer(state *Server, version string) *mcpsdk.Server {
	srv := mcpsdk.NewServer(&mcpsdk.Implementation{Name: serverName, Version: version}, nil)
	RegisterAllTools(srv, state)
	return srv
}

// Close releases the runner's parsers.
func (s *Server) Close() { s.runner.Close() }

// resolveRoot picks the per-call root, falling back to the server's.
func (s *Server) resolveRoot(root string) string {
	if root != "" {
		return root
	}
	return s.root
}
