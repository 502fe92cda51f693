// Package main implements multibind, a compile-time multibinding generator.
//
// multibind reads binding declarations, collects the contributions to every
// requested map or set, validates their keys and shapes, and generates one
// component implementation per //multibind:component interface. Nothing is
// resolved at runtime: the generated code calls provider functions directly.
//
// Generation flow:
//
//  1. Read go.mod → module path
//  2. Read generate.go → //multibind:runtime/scan/exclude/output directives
//  3. Scan packages (or read a YAML manifest) → key definitions, modules, components
//  4. Per component, in parallel:
//     collect contributions → classify → validate keys → build dependency graph
//  5. Emit one <component>_multibind.go per component, plus key creator helpers
//
// Usage:
//
//	//go:generate go run github.com/iVampireSP/multibind@latest
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
)

// errReported marks a failure whose diagnostics were already printed.
var errReported = errors.New("multibind: failed")

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "multibind: %v\n", err)
		}
		os.Exit(1)
	}
}

type options struct {
	verbose   bool
	dryRun    bool
	manifest  string
	logFormat string
	jobs      int
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "multibind",
		Short:         "Generate multibinding components",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), true)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&opts.manifest, "manifest", "", "read declarations from a YAML manifest instead of scanning")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")
	flags.IntVarP(&opts.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "components resolved in parallel")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print generated code without writing")

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate declarations without generating code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), false)
		},
	})
	return cmd
}

// run loads declarations, resolves every component and, when generate is
// set, writes the files of the components that resolved cleanly.
func (o *options) run(ctx context.Context, stdout, stderr io.Writer, generate bool) error {
	format, err := ParseLogFormat(o.logFormat)
	if err != nil {
		return err
	}
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := NewLogger(WithLogLevel(level), WithLogFormat(format), WithLogWriter(stderr))

	moduleRoot, err := findModuleRoot()
	if err != nil {
		return err
	}
	cfg, err := BuildConfig(moduleRoot)
	if err != nil {
		return err
	}
	logger.Debug("Config loaded", "module", cfg.Module, "root", moduleRoot, "runtime", cfg.Runtime)
	if cfg.Runtime == "" && o.manifest == "" {
		return ErrNoRuntime
	}

	decls, errs := o.declarations(cfg, moduleRoot, logger)
	if len(errs) > 0 {
		report(stderr, errs)
		return errReported
	}
	logger.Debug("Declarations loaded",
		"modules", len(decls.ModuleOrder),
		"components", len(decls.Components),
		"keys", len(decls.Keys))

	results, errs := NewResolver(decls, logger).ResolveAll(ctx, o.jobs)
	report(stderr, errs)
	if !generate {
		if len(errs) > 0 {
			return errReported
		}
		logger.Info("Check passed", "components", len(results))
		return nil
	}

	files, err := NewCodeGen(cfg, decls, moduleRoot).Generate(results)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	for _, f := range files {
		if o.dryRun {
			fmt.Fprintf(stdout, "// === %s ===\n%s\n", f.Name, f.Content)
			continue
		}
		logger.Debug("Writing file", "path", f.Name)
		if err := os.WriteFile(f.Name, f.Content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	if !o.dryRun {
		logger.Info("Generated files", "files", len(files), "components", len(results))
	}
	if len(errs) > 0 {
		return errReported
	}
	return nil
}

func (o *options) declarations(cfg *Config, moduleRoot string, logger *slog.Logger) (*Declarations, []error) {
	if o.manifest != "" {
		m, err := LoadManifest(o.manifest)
		if err != nil {
			return nil, []error{err}
		}
		if m.Runtime == "" {
			m.Runtime = cfg.Runtime
		}
		return m.Declarations()
	}
	return NewScanner(cfg, moduleRoot, LoadGitignore(moduleRoot), logger).Scan()
}

// report prints one line per distinct diagnostic.
func report(w io.Writer, errs []error) {
	for _, d := range Diagnostics(errs) {
		fmt.Fprintf(w, "multibind: %s\n", d)
	}
}

// findModuleRoot walks up from cwd to find the directory containing go.mod.
func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("go.mod not found in any parent directory")
}
