package mcp

import (
	"context"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"sted/internal/apply"
)

// --- apply_plan ---

type ApplyPlanInput struct {
	Plan    string `json:"plan" jsonschema:"path to the yaml plan file, relative to the root"`
	Root    string `json:"root,omitempty" jsonschema:"directory plan paths and file globs resolve against (defaults to the server root)"`
	Preview bool   `json:"preview,omitempty" jsonschema:"stage and diff without writing files"`
	Record  bool   `json:"record,omitempty" jsonschema:"count how many created nodes map back to their staged originals"`
}

func registerPlanTools(s *mcpsdk.Server, state *Server) {
	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "apply_plan",
		Description: "Load a yaml plan file and run every action in it, one editing session per matched file.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in ApplyPlanInput) (*mcpsdk.CallToolResult, any, error) {
		path := in.Plan
		if !filepath.IsAbs(path) {
			path = filepath.Join(state.resolveRoot(in.Root), path)
		}

		plan, err := apply.LoadPlan(path)
		if err != nil {
			return errResult(err), nil, nil
		}
		return state.runPlan(ctx, plan, "apply plan "+in.Plan, in.Root, in.Preview, in.Record)
	})
}
