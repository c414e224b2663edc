package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/g-plane/TypeCake/internal/config"
)

var (
	configPath string
	verbose    bool
	colorMode  string
)

var (
	cfg    = config.Default()
	logger = slog.New(slog.DiscardHandler)
)

// errReported is returned once diagnostics have already been printed.
var errReported = errors.New("compilation failed")

var rootCmd = &cobra.Command{
	Use:   "typecake",
	Short: "TypeCake - compile type-level functions to TypeScript",
	Long: `TypeCake is a small functional language for type-level programming.
Its pattern matching, if/else chains, const bindings and pipelines compile
to TypeScript conditional, mapped and generic types.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a typecake.toml or typecake.yaml file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Colorize diagnostics: auto, always, never")

	// Add subcommands
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(astCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads the configuration, applies flag overrides and builds the
// logger.
func setup(cmd *cobra.Command, args []string) error {
	var (
		loaded *config.Config
		path   string
		err    error
	)
	if configPath != "" {
		path = configPath
		loaded, err = config.Load(configPath)
	} else {
		loaded, path, err = config.Discover(".")
	}
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("color") {
		loaded.Color = colorMode
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	level, err := loaded.Level()
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}

	cfg = loaded
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if path != "" {
		logger.Debug("loaded config", "path", path)
	}
	return nil
}

// colorEnabled resolves the color mode for output written to w.
func colorEnabled(mode string, w any) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	// auto: only for terminals, and never when NO_COLOR is set
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
