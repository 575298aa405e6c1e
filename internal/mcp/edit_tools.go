package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"sted/internal/apply"
)

// --- add_type_param ---

type AddTypeParamInput struct {
	Function string   `json:"function" jsonschema:"name of the function to extend"`
	Param    string   `json:"param" jsonschema:"type parameter name to add"`
	Bounds   []string `json:"bounds,omitempty" jsonschema:"bound names joined with + after the parameter"`
	Files    string   `json:"files" jsonschema:"glob naming the files to edit, relative to the root"`
	Root     string   `json:"root,omitempty" jsonschema:"directory file globs resolve against (defaults to the server root)"`
	Preview  bool     `json:"preview,omitempty" jsonschema:"stage and diff without writing files"`
	Record   bool     `json:"record,omitempty" jsonschema:"count how many created nodes map back to their staged originals"`
}

// --- remove_import ---

type RemoveImportInput struct {
	Path    string `json:"path" jsonschema:"dotted import path of the declaration to remove"`
	Files   string `json:"files" jsonschema:"glob naming the files to edit, relative to the root"`
	Root    string `json:"root,omitempty" jsonschema:"directory file globs resolve against (defaults to the server root)"`
	Preview bool   `json:"preview,omitempty" jsonschema:"stage and diff without writing files"`
}

// --- remove_import_clause ---

type RemoveImportClauseInput struct {
	Path    string `json:"path" jsonschema:"name of the clause to remove from its import group"`
	Files   string `json:"files" jsonschema:"glob naming the files to edit, relative to the root"`
	Root    string `json:"root,omitempty" jsonschema:"directory file globs resolve against (defaults to the server root)"`
	Preview bool   `json:"preview,omitempty" jsonschema:"stage and diff without writing files"`
}

func registerEditTools(s *mcpsdk.Server, state *Server) {
	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "add_type_param",
		Description: "Add a type parameter to every function with the given name in the matched files. Extends an existing parameter list or creates one after the function name.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in AddTypeParamInput) (*mcpsdk.CallToolResult, any, error) {
		plan := &apply.Plan{Actions: []apply.Action{{
			Name:     apply.ActionAddTypeParam,
			Files:    in.Files,
			Function: in.Function,
			Param:    in.Param,
			Bounds:   in.Bounds,
		}}}
		desc := fmt.Sprintf("add type parameter %s to %s", in.Param, in.Function)
		return state.runPlan(ctx, plan, desc, in.Root, in.Preview, in.Record)
	})

	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "remove_import",
		Description: "Remove every import declaration with the given path from the matched files, along with the line it occupied.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in RemoveImportInput) (*mcpsdk.CallToolResult, any, error) {
		plan := &apply.Plan{Actions: []apply.Action{{
			Name:  apply.ActionRemoveImport,
			Files: in.Files,
			Path:  in.Path,
		}}}
		desc := fmt.Sprintf("remove import %s", in.Path)
		return state.runPlan(ctx, plan, desc, in.Root, in.Preview, false)
	})

	mcpsdk.AddTool(s, &mcpsdk.Tool{
		Name:        "remove_import_clause",
		Description: "Remove one clause from a grouped import in the matched files, dropping the separator toward its nearest surviving neighbor.",
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest, in RemoveImportClauseInput) (*mcpsdk.CallToolResult, any, error) {
		plan := &apply.Plan{Actions: []apply.Action{{
			Name:  apply.ActionRemoveImportClause,
			Files: in.Files,
			Path:  in.Path,
		}}}
		desc := fmt.Sprintf("remove import clause %s", in.Path)
		return state.runPlan(ctx, plan, desc, in.Root, in.Preview, false)
	})
}
