package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	batchexport "github.com/hellenic-development/batch-export"
	"github.com/hellenic-development/batch-export/pkg/config"
	"github.com/hellenic-development/batch-export/pkg/formatter"
	"github.com/hellenic-development/batch-export/pkg/watcher"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const version = batchexport.Version

var (
	configFile string
	extension  string
	pngWidths  string
	showTiming bool
	manifest   string
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree and binds the flags to their package
// variables, resetting them to their defaults.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "batch-export [folder]",
		Short: "Export every artboard of every document in a folder",
		Long:  "A tool to export each artboard of the vector documents in a folder as PDF, SVG and PNG at a set of pixel widths",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "Config file (default ./"+config.FileName+" if present)")
	pf.StringVarP(&extension, "ext", "e", config.DefaultExtension, "Case-sensitive suffix of the documents to process")
	pf.StringVarP(&pngWidths, "widths", "w", "", "Comma-separated PNG widths in pixels (e.g. \"24,48,96\")")
	pf.BoolVar(&showTiming, "timing", false, "Report how long the run took when nothing failed")
	pf.StringVarP(&manifest, "manifest", "m", "", "Write a markdown manifest of the exported files")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log every file written")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("batch-export version %s\n", version)
		},
	}

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of " + config.FileName,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch [folder]",
		Short: "Re-export documents as they are saved into a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE:  watch,
	}

	rootCmd.AddCommand(versionCmd, schemaCmd, watchCmd)

	return rootCmd
}

// loadConfig merges the config file with the flags the user actually set.
func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("ext") {
		cfg.Extension = extension
	}
	if flags.Changed("widths") {
		widths, err := config.ParseWidths(pngWidths)
		if err != nil {
			return cfg, err
		}
		cfg.PNGWidths = widths
	}
	if flags.Changed("timing") {
		cfg.ShowTiming = showTiming
	}
	if flags.Changed("manifest") {
		cfg.Manifest = manifest
	}
	if len(args) > 0 {
		cfg.SourceDir = args[0]
	}

	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, args []string) error {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := newLogger(verbose)

	cyan.Println("\n🗂  Batch Export")
	cyan.Println("================")
	cyan.Println()

	opts := batchexport.OptionsFromConfig(cfg)
	opts.Logger = logger
	if isInteractive() {
		opts.Picker = newPromptPicker(os.Stdin, os.Stdout)
	}

	result, runErr := batchexport.Run(opts)
	printNotice(result)

	if cfg.Manifest != "" && result != nil && result.SourceDir != "" {
		if err := writeManifest(cfg.Manifest, result); err != nil {
			return err
		}
		green.Printf("💾 Wrote manifest to %s\n", cfg.Manifest)
	}

	if runErr != nil {
		return runErr
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d problem(s) recorded", len(result.Errors))
	}

	green.Printf("\n✨ Exported %d file(s) from %d document(s)\n\n", len(result.Assets), len(result.Documents))
	return nil
}

func watch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.SourceDir == "" {
		return fmt.Errorf("watch needs a folder, either as an argument or source_dir in %s", config.FileName)
	}

	logger := newLogger(verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watcher.New(cfg.SourceDir, cfg.Extension, func(path string) error {
		opts := batchexport.OptionsFromConfig(cfg)
		opts.Files = []string{path}
		opts.Logger = logger

		result, err := batchexport.Run(opts)
		printNotice(result)
		if cfg.Manifest != "" && result != nil {
			if err := writeManifest(cfg.Manifest, result); err != nil {
				logger.Warnf("Could not write manifest: %v", err)
			}
		}
		return err
	}, logger)

	color.New(color.FgCyan).Printf("👀 Watching %s for %s documents (Ctrl+C to stop)\n", cfg.SourceDir, cfg.Extension)
	return w.Run(ctx)
}

func printNotice(result *batchexport.Result) {
	if result == nil || result.Notice == "" {
		return
	}
	c := color.New(color.FgYellow)
	if len(result.Errors) > 0 {
		c = color.New(color.FgRed)
	}
	c.Println(result.Notice)
}

func writeManifest(path string, result *batchexport.Result) error {
	md := formatter.ToMarkdown(result.SourceDir, result.Assets, result.Errors)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&cliFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
