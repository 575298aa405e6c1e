package apply

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sted/internal/ast"
	"sted/internal/bridge"
	"sted/internal/config"
	"sted/internal/diff"
	"sted/internal/edit"
	"sted/internal/lang"
	"sted/internal/syntax"
)

// Options tune one plan run.
type Options struct {
	// Write persists changed files; otherwise the run only previews.
	Write bool
	// Record captures new-to-old mappings and reports entry counts.
	Record bool
	// Parallel overrides the configured parallelism when positive.
	Parallel int
}

// Result reports the outcome of one file's editing session.
type Result struct {
	Path      string
	SessionID string
	Changed   bool
	Diff      string
	Mappings  int
	Err       error
}

// Runner executes plans.
type Runner struct {
	cfg      *config.Config
	logger   *zap.Logger
	importer *bridge.Importer
}

// NewRunner creates a runner. A nil logger disables logging.
func NewRunner(cfg *config.Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger, importer: bridge.NewImporter(logger)}
}

// Close releases the runner's tree-sitter parsers.
func (r *Runner) Close() { r.importer.Close() }

// ParseAny parses src by path extension: the editing language for lang.Ext
// files, a tree-sitter grammar otherwise.
func (r *Runner) ParseAny(ctx context.Context, path string, src []byte) (*syntax.Tree, error) {
	if strings.EqualFold(filepath.Ext(path), lang.Ext) {
		tree, err := lang.Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return tree, nil
	}
	return r.importer.ImportFile(ctx, path, src)
}

// Run resolves the plan's targets under root and runs one editing session
// per matching file. Per-file failures land in that file's Result; the
// returned error covers plan-level problems only.
func (r *Runner) Run(ctx context.Context, plan *Plan, root string, opts Options) ([]Result, error) {
	targets, err := resolveTargets(plan, root)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		r.logger.Info("plan matched no files", zap.String("root", root))
		return nil, nil
	}

	paths := make([]string, 0, len(targets))
	for path := range targets {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	limit := r.cfg.Apply.Parallelism
	if opts.Parallel > 0 {
		limit = opts.Parallel
	}

	r.logger.Info("running plan",
		zap.Int("actions", len(plan.Actions)),
		zap.Int("files", len(paths)),
		zap.Int("parallelism", limit))

	results := make([]Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.runFile(ctx, root, path, targets[path], opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// resolveTargets maps each matching file to the actions targeting it, in
// plan order.
func resolveTargets(plan *Plan, root string) (map[string][]Action, error) {
	targets := make(map[string][]Action)
	for _, a := range plan.Actions {
		pattern := a.Files
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad file pattern %q: %w", a.Files, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			targets[m] = append(targets[m], a)
		}
	}
	return targets, nil
}

func (r *Runner) runFile(ctx context.Context, root, path string, actions []Action, opts Options) Result {
	res := Result{Path: displayPath(root, path), SessionID: uuid.NewString()}
	start := time.Now()

	src, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("read: %w", err)
		return res
	}

	frozen, err := r.ParseAny(ctx, path, src)
	if err != nil {
		res.Err = err
		return res
	}
	if frozen.Root().Kind() != syntax.SourceFile {
		res.Err = fmt.Errorf("structural actions need %s sources, cannot edit %s", lang.Ext, res.Path)
		return res
	}

	mut := frozen.Unfreeze()
	factory := edit.NewFactory()
	if opts.Record {
		factory = edit.NewFactoryWithMapping(edit.NewMapping())
	}

	if err := r.editFile(mut, factory, actions); err != nil {
		res.Err = err
		return res
	}

	text := mut.Text()
	res.Changed = text != string(src)
	if res.Changed {
		res.Diff = diff.Unified(res.Path, string(src), text, r.cfg.Preview.ContextLines)
	}
	if opts.Record {
		res.Mappings = factory.Mapping().Len()
	}

	if opts.Write && res.Changed {
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			res.Err = fmt.Errorf("write: %w", err)
			return res
		}
	}

	r.logger.Debug("file session finished",
		zap.String("path", res.Path),
		zap.String("session", res.SessionID),
		zap.Bool("changed", res.Changed),
		zap.Duration("elapsed", time.Since(start)))
	return res
}

// editFile stages every action on one editor and lands the batch. The
// editing layer reports misuse (conflicting actions, malformed names) by
// panicking; a plan is user input, so those become this file's error.
func (r *Runner) editFile(tree *syntax.Tree, factory *edit.Factory, actions []Action) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()

	ed := edit.NewEditor(tree)
	ed.SetSeparator(r.cfg.Editor.Separator)

	for _, a := range actions {
		switch a.Name {
		case ActionAddTypeParam:
			for _, fn := range functionsNamed(tree, a.Function) {
				ed.AddTypeParam(fn, typeParam(factory, a))
			}
		case ActionRemoveImport:
			for _, decl := range importsOf(tree, a.Path) {
				ed.RemoveImportDecl(decl)
			}
		case ActionRemoveImportClause:
			for _, clause := range clausesOf(tree, a.Path) {
				ed.RemoveImportClause(clause)
			}
		default:
			return fmt.Errorf("unknown action %q", a.Name)
		}
	}

	ed.Apply()
	return nil
}

// typeParam builds the parameter an add_type_param action inserts. The
// bound list is parsed first, then the parameter is rebuilt through the
// factory so a recording run captures its mapping entries.
func typeParam(f *edit.Factory, a Action) *ast.TypeParam {
	var bounds *ast.TypeBoundList
	if len(a.Bounds) > 0 {
		bounds = ast.MakeTypeParam(a.Param, a.Bounds...).Bounds()
	}
	return f.TypeParam(f.Name(a.Param), bounds)
}

func functionsNamed(tree *syntax.Tree, name string) []*ast.Fn {
	var fns []*ast.Fn
	syntax.Walk(tree.Root(), func(el syntax.Element) {
		n, ok := el.(*syntax.Node)
		if !ok || n.Kind() != syntax.FnDecl {
			return
		}
		if fn := ast.CastFn(n); fn.Name() != nil && fn.Name().Text() == name {
			fns = append(fns, fn)
		}
	})
	return fns
}

func importsOf(tree *syntax.Tree, path string) []*ast.ImportDecl {
	var decls []*ast.ImportDecl
	syntax.Walk(tree.Root(), func(el syntax.Element) {
		n, ok := el.(*syntax.Node)
		if !ok || n.Kind() != syntax.ImportDecl {
			return
		}
		if decl := ast.CastImportDecl(n); decl.Path() != nil && decl.Path().Text() == path {
			decls = append(decls, decl)
		}
	})
	return decls
}

func clausesOf(tree *syntax.Tree, path string) []*ast.ImportClause {
	var clauses []*ast.ImportClause
	syntax.Walk(tree.Root(), func(el syntax.Element) {
		n, ok := el.(*syntax.Node)
		if !ok || n.Kind() != syntax.ImportClause {
			return
		}
		if clause := ast.CastImportClause(n); clause.Path() != nil && clause.Path().Text() == path {
			clauses = append(clauses, clause)
		}
	})
	return clauses
}

func displayPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
