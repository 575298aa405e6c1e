package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sted/cmd/sted/ui"
	"sted/internal/apply"
	"sted/internal/bridge"
	"sted/internal/config"
	"sted/internal/lang"
	"sted/internal/mcp"
	"sted/internal/syntax"
	"sted/internal/watch"
)

const version = "0.1.0"

var (
	// Global flags
	verbose   bool
	cfgPath   string
	workspace string

	// Apply and preview flags
	writeFiles  bool
	parallelism int
	recordMaps  bool
	interactive bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sted",
	Short: "sted - structural syntax tree editor",
	Long: `sted edits source files through their syntax trees instead of their text.

Edits are described as plans: yaml documents listing structural actions and
the files each one targets. Every matched file gets its own editing session;
staged actions are validated as a batch and land in one pass, so a plan
either applies cleanly to a file or leaves it untouched.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		zcfg := zap.NewProductionConfig()
		if lvl, err := zapcore.ParseLevel(cfg.Logging.Level); err == nil {
			zcfg.Level = zap.NewAtomicLevelAt(lvl)
		}
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// treeCmd parses one file and dumps its kind tree
var treeCmd = &cobra.Command{
	Use:   "tree [file]",
	Short: "Parse a source file and print its kind tree",
	Long: `Parses the file and prints one line per tree element, indented by depth.
Files with the ` + lang.Ext + ` extension use the native parser; other files go
through a tree-sitter grammar (run 'sted version' for the list).`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

// applyCmd runs a plan
var applyCmd = &cobra.Command{
	Use:   "apply [plan]",
	Short: "Run a plan's actions over the files they match",
	Long: `Runs every action in the plan, one editing session per matched file.
Without --write the run is a dry run: changed files are printed as unified
diffs and nothing is persisted.`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

// previewCmd diffs a plan without writing
var previewCmd = &cobra.Command{
	Use:   "preview [plan]",
	Short: "Show a plan's changes as unified diffs without writing",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

// watchCmd re-runs a plan on file changes
var watchCmd = &cobra.Command{
	Use:   "watch [plan]",
	Short: "Re-run a plan whenever its target files change",
	Long: `Applies the plan once, then watches the workspace and re-applies it when
files matching the plan's patterns change. Edits that already landed are
no-ops on the next run, so the loop converges.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

// mcpCmd serves the editing tools over MCP
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the editing tools over the Model Context Protocol on stdio",
	RunE:  runMCP,
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and supported grammars",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sted %s\n", version)
		fmt.Printf("foreign grammars: %s\n", strings.Join(bridge.Languages(), ", "))
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "Config file path")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Directory file globs resolve against (default: current)")

	// Apply flags
	applyCmd.Flags().BoolVar(&writeFiles, "write", false, "Write changed files instead of printing diffs")
	applyCmd.Flags().IntVar(&parallelism, "parallel", 0, "Concurrent file sessions (default: from config)")
	applyCmd.Flags().BoolVar(&recordMaps, "map", false, "Report how many created nodes map back to staged originals")

	// Preview flags
	previewCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Review diffs in a pager")

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// workspaceDir resolves the --workspace flag, defaulting to the current
// directory.
func workspaceDir() (string, error) {
	if workspace != "" {
		return filepath.Abs(workspace)
	}
	return os.Getwd()
}

func runTree(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	runner := apply.NewRunner(cfg, logger)
	defer runner.Close()

	tree, err := runner.ParseAny(context.Background(), path, src)
	if err != nil {
		return err
	}
	fmt.Print(syntax.Dump(tree.Root()))
	return nil
}

func runApply(cmd *cobra.Command, args []string) error {
	plan, err := apply.LoadPlan(args[0])
	if err != nil {
		return err
	}
	root, err := workspaceDir()
	if err != nil {
		return err
	}

	runner := apply.NewRunner(cfg, logger)
	defer runner.Close()

	results, err := runner.Run(context.Background(), plan, root, apply.Options{
		Write:    writeFiles,
		Record:   recordMaps,
		Parallel: parallelism,
	})
	if err != nil {
		return err
	}
	return report(results)
}

// report prints per-file outcomes and returns an error when any session
// failed.
func report(results []apply.Result) error {
	if len(results) == 0 {
		fmt.Println("no files matched")
		return nil
	}

	changed, failed := 0, 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Path, r.Err)
		case r.Changed && writeFiles:
			changed++
			if recordMaps {
				fmt.Printf("wrote %s (%d nodes mapped)\n", r.Path, r.Mappings)
			} else {
				fmt.Printf("wrote %s\n", r.Path)
			}
		case r.Changed:
			changed++
			fmt.Print(r.Diff)
		}
	}

	fmt.Printf("%d of %d files changed\n", changed, len(results))
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	plan, err := apply.LoadPlan(args[0])
	if err != nil {
		return err
	}
	root, err := workspaceDir()
	if err != nil {
		return err
	}

	runner := apply.NewRunner(cfg, logger)
	defer runner.Close()

	results, err := runner.Run(context.Background(), plan, root, apply.Options{})
	if err != nil {
		return err
	}

	if !interactive {
		return report(results)
	}

	var files []ui.File
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Path, r.Err)
			continue
		}
		if r.Changed {
			files = append(files, ui.File{Path: r.Path, Diff: r.Diff})
		}
	}
	if len(files) == 0 {
		fmt.Println("no changes")
		return nil
	}
	return ui.Show(files)
}

func runWatch(cmd *cobra.Command, args []string) error {
	plan, err := apply.LoadPlan(args[0])
	if err != nil {
		return err
	}
	root, err := workspaceDir()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	runner := apply.NewRunner(cfg, logger)
	defer runner.Close()

	// Land the plan once before watching so the tree starts in sync.
	results, err := runner.Run(ctx, plan, root, apply.Options{Write: true})
	if err != nil {
		return err
	}
	changed, _ := summarize(results)
	fmt.Printf("applied plan: %d of %d files changed\n", changed, len(results))

	w, err := watch.New(root, plan.Patterns(), cfg.WatchDebounce(), logger)
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Printf("watching %s (%s); press ctrl-c to stop\n", root, strings.Join(plan.Patterns(), ", "))
	rerun := func(ctx context.Context, events []watch.ChangeEvent) {
		results, err := runner.Run(ctx, plan, root, apply.Options{Write: true})
		if err != nil {
			logger.Error("plan run failed", zap.Error(err))
			return
		}
		changed, failed := summarize(results)
		logger.Info("plan re-applied",
			zap.Int("events", len(events)),
			zap.Int("files", len(results)),
			zap.Int("changed", changed),
			zap.Int("failed", failed))
	}
	if err := w.ReApply(ctx, rerun); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// summarize counts outcomes, printing per-file errors to stderr.
func summarize(results []apply.Result) (changed, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Path, r.Err)
			continue
		}
		if r.Changed {
			changed++
		}
	}
	return changed, failed
}

func runMCP(cmd *cobra.Command, args []string) error {
	root, err := workspaceDir()
	if err != nil {
		return err
	}

	state := mcp.NewServer(cfg, root, logger)
	defer state.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	logger.Info("serving MCP tools on stdio", zap.String("root", root))
	if err := mcp.NewSDKServer(state, version).Run(ctx, &mcpsdk.StdioTransport{}); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
