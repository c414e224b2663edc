package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	typecake "github.com/g-plane/TypeCake"
)

var (
	outDir string
	jobs   int
)

var compileCmd = &cobra.Command{
	Use:   "compile [files...]",
	Short: "Compile TypeCake sources to TypeScript",
	Long: `Compile TypeCake sources to TypeScript type declarations.

With no file, or with "-", the source is read from stdin and the result
written to stdout. Several files are compiled in parallel; their output is
printed in argument order, or written next to each other in --out-dir.
Inputs that would write the same file in --out-dir are rejected.`,
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Write <name><extension> files into this directory instead of stdout")
	compileCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Number of files compiled concurrently (default from config, else CPU count)")
}

// compileResult is the outcome for one input.
type compileResult struct {
	name   string
	output string
	err    error
}

func runCompile(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("out-dir") {
		cfg.OutDir = outDir
	}
	if cmd.Flags().Changed("jobs") && jobs > 0 {
		cfg.Jobs = jobs
	}

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		res := compileSource("<stdin>", string(src))
		if res.err != nil {
			return report(cmd, []compileResult{res})
		}
		_, err = io.WriteString(cmd.OutOrStdout(), res.output)
		return err
	}

	if slices.Contains(args, "-") {
		return errors.New("stdin (-) cannot be combined with file arguments")
	}

	if cfg.OutDir != "" {
		if err := checkTargets(cfg.OutDir, args, cfg.Extension); err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	results := make([]compileResult, len(args))
	var g errgroup.Group
	g.SetLimit(cfg.Jobs)
	for i, path := range args {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			results[i] = compileSource(path, string(data))
			if results[i].err != nil || cfg.OutDir == "" {
				return nil
			}
			target := outputPath(cfg.OutDir, path, cfg.Extension)
			if err := os.WriteFile(target, []byte(results[i].output), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}
			logger.Debug("wrote output", "file", path, "target", target)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failed []compileResult
	out := cmd.OutOrStdout()
	for _, res := range results {
		if res.err != nil {
			failed = append(failed, res)
			continue
		}
		if cfg.OutDir == "" {
			if _, err := io.WriteString(out, res.output); err != nil {
				return err
			}
		}
	}
	if len(failed) > 0 {
		return report(cmd, failed)
	}
	logger.Info("compiled", "files", len(args))
	return nil
}

func compileSource(name, src string) compileResult {
	start := time.Now()
	out, err := typecake.Compile(src)
	logger.Debug("compile", "file", name, "duration", time.Since(start), "ok", err == nil)
	return compileResult{name: name, output: out, err: err}
}

// outputPath maps src/foo.tc to <dir>/foo<ext>.
func outputPath(dir, path, ext string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+ext)
}

// checkTargets rejects inputs that would write the same output file.
func checkTargets(dir string, paths []string, ext string) error {
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		target := outputPath(dir, path, ext)
		if prev, ok := seen[target]; ok {
			return fmt.Errorf("%s and %s both write %s", prev, path, target)
		}
		seen[target] = path
	}
	return nil
}

// report prints a diagnostic for every failed result.
func report(cmd *cobra.Command, failed []compileResult) error {
	w := cmd.ErrOrStderr()
	colored := colorEnabled(cfg.Color, w)
	for _, res := range failed {
		printDiagnostic(w, res.name, res.err, colored)
	}
	return errReported
}
