// Package apply executes edit plans over file trees. A plan is a yaml
// document listing structural actions and the files each one targets;
// the runner gives every matching file its own editing session and runs
// the sessions concurrently under a bounded group.
package apply

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Action names understood by the runner.
const (
	ActionAddTypeParam       = "add_type_param"
	ActionRemoveImport       = "remove_import"
	ActionRemoveImportClause = "remove_import_clause"
)

// Action is one structural edit applied to every file matching Files.
// Files is a path or filepath.Match pattern relative to the run root.
type Action struct {
	Name  string `yaml:"action"`
	Files string `yaml:"files"`

	// add_type_param
	Function string   `yaml:"function,omitempty"`
	Param    string   `yaml:"param,omitempty"`
	Bounds   []string `yaml:"bounds,omitempty"`

	// remove_import and remove_import_clause
	Path string `yaml:"path,omitempty"`
}

// Plan is a parsed plan document.
type Plan struct {
	Actions []Action `yaml:"actions"`
}

// LoadPlan reads and parses a plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	plan, err := ParsePlan(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

// ParsePlan parses and validates a yaml plan document.
func ParsePlan(data []byte) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	if err := plan.validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Patterns returns the plan's file patterns, deduplicated in first-use
// order. Watch mode filters filesystem events against these.
func (p *Plan) Patterns() []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range p.Actions {
		if !seen[a.Files] {
			seen[a.Files] = true
			out = append(out, a.Files)
		}
	}
	return out
}

func (p *Plan) validate() error {
	if len(p.Actions) == 0 {
		return fmt.Errorf("plan has no actions")
	}
	for i, a := range p.Actions {
		if err := a.validate(); err != nil {
			return fmt.Errorf("action %d: %w", i+1, err)
		}
	}
	return nil
}

func (a *Action) validate() error {
	switch a.Name {
	case ActionAddTypeParam:
		if a.Function == "" || a.Param == "" {
			return fmt.Errorf("add_type_param needs function and param")
		}
	case ActionRemoveImport, ActionRemoveImportClause:
		if a.Path == "" {
			return fmt.Errorf("%s needs path", a.Name)
		}
	default:
		return fmt.Errorf("unknown action %q", a.Name)
	}
	if a.Files == "" {
		return fmt.Errorf("%s: files is required", a.Name)
	}
	return nil
}
