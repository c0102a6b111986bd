package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/blimu-dev/salad-gen/pkg/generator"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var verbose bool
	root := &cobra.Command{
		Use:           "salad-gen",
		Short:         "Generate typed document loaders from schema-salad schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			opts := &slog.HandlerOptions{Level: level}
			// JSON lines when stderr is piped into another tool
			var handler slog.Handler = slog.NewJSONHandler(os.Stderr, opts)
			if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
				handler = slog.NewTextHandler(os.Stderr, opts)
			}
			slog.SetDefault(slog.New(handler))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every registered type and emitted class")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newTargetsCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var configPath string
	var singleTarget string
	var fb generator.FallbackOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate code for every configured target",
		RunE: func(cmd *cobra.Command, args []string) error {
			service := generator.NewService(generator.WithLogger(slog.Default()))
			return service.Generate(cmd.Context(), generator.GenerateOptions{
				ConfigPath:   configPath,
				SingleTarget: singleTarget,
				Fallback:     fb,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to saladgen.yaml config")
	cmd.Flags().StringVar(&singleTarget, "target", "", "Generate only the named target from config")
	// Fallback single-target flags
	cmd.Flags().StringVar(&fb.Schema, "input", "", "Resolved schema document (yaml/json) or URL")
	cmd.Flags().StringVar(&fb.Format, "format", "", "Schema format: salad (default) or openapi")
	cmd.Flags().StringVar(&fb.Type, "type", "", "Target type: go (default), python or ir-json")
	cmd.Flags().StringVar(&fb.OutDir, "out", "", "Output directory")
	cmd.Flags().StringVar(&fb.PackageName, "package-name", "", "Package name of the generated code")
	cmd.Flags().StringVar(&fb.RuntimeImport, "runtime-import", "", "Import path of the runtime library")

	return cmd
}

func newValidateCmd() *cobra.Command {
	var input string
	var format string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a schema loads and compiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := generator.ValidateSchema(input, format); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", input)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Resolved schema document (yaml/json) or URL")
	cmd.Flags().StringVar(&format, "format", "", "Schema format: salad (default) or openapi")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the available target types",
		Run: func(cmd *cobra.Command, args []string) {
			for _, t := range generator.NewService().GetRegistry().GetAvailableTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
		},
	}
}
