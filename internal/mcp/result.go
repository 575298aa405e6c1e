package mcp

import (
	"context"
	"encoding/json"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"sted/internal/apply"
)

// FileOutcome is the per-file slice of a plan outcome.
type FileOutcome struct {
	Path      string `json:"path"`
	SessionID string `json:"session_id"`
	Changed   bool   `json:"changed"`
	Diff      string `json:"diff,omitempty"`
	Mappings  int    `json:"mappings,omitempty"`
	Error     string `json:"error,omitempty"`
}

// PlanOutcome is the structured output returned by the editing tools.
type PlanOutcome struct {
	Description  string        `json:"description"`
	Preview      bool          `json:"preview"`
	Files        []FileOutcome `json:"files"`
	ChangedFiles int           `json:"changed_files"`
}

// runPlan executes a plan and renders the outcome the editing tools share.
// Per-file failures stay inside the outcome; only plan-level problems turn
// into tool errors.
func (s *Server) runPlan(ctx context.Context, plan *apply.Plan, desc, root string, preview, record bool) (*mcpsdk.CallToolResult, any, error) {
	results, err := s.runner.Run(ctx, plan, s.resolveRoot(root), apply.Options{
		Write:  !preview,
		Record: record,
	})
	if err != nil {
		return errResult(err), nil, nil
	}

	out := &PlanOutcome{Description: desc, Preview: preview, Files: make([]FileOutcome, 0, len(results))}
	for _, r := range results {
		f := FileOutcome{
			Path:      r.Path,
			SessionID: r.SessionID,
			Changed:   r.Changed,
			Diff:      r.Diff,
			Mappings:  r.Mappings,
		}
		if r.Err != nil {
			f.Error = r.Err.Error()
		}
		if r.Changed {
			out.ChangedFiles++
		}
		out.Files = append(out.Files, f)
	}

	s.logger.Info("tool plan finished",
		zap.String("plan", desc),
		zap.Int("files", len(out.Files)),
		zap.Int("changed", out.ChangedFiles))
	return textResult(out), nil, nil
}

// textResult marshals v to JSON and wraps it in a CallToolResult with a
// single TextContent block.
func textResult(v any) *mcpsdk.CallToolResult {
	b, _ := json.MarshalIndent(v, "", "  ")
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(b)},
		},
	}
}

// errResult returns a CallToolResult that signals a tool error.
func errResult(err error) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		IsError: true,
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
	}
}
