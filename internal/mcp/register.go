package mcp

import mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

// RegisterAllTools wires every sted tool into the MCP server.
func RegisterAllTools(s *mcpsdk.Server, state *Server) {
	registerParseTools(s, state)
	registerEditTools(s, state)
	registerPlanTools(s, state)
}
