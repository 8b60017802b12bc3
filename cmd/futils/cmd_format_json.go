package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"futils/internal/jsonfmt"
	"futils/internal/logging"
)

var (
	jsonIndent  int
	jsonOutput  string
	jsonSort    bool
	jsonInPlace bool
	jsonCheck   bool
	jsonDiff    bool
	jsonWatch   bool
)

// formatJSONCmd pretty-prints JSON files
var formatJSONCmd = &cobra.Command{
	Use:   "format-json <file>...",
	Short: "Format JSON files",
	Long: `Pretty-prints JSON keeping key order (or sorting with --sort).

With a single file and neither --output nor --in-place the result is printed.
Several files need --in-place or --check and are processed concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFormatJSON,
}

func init() {
	formatJSONCmd.Flags().IntVarP(&jsonIndent, "indent", "t", 2, "Indent size")
	formatJSONCmd.Flags().StringVarP(&jsonOutput, "output", "o", "", "Write the formatted JSON to this file")
	formatJSONCmd.Flags().BoolVarP(&jsonSort, "sort", "s", false, "Sort object keys")
	formatJSONCmd.Flags().BoolVarP(&jsonInPlace, "in-place", "i", false, "Rewrite the input file")
	formatJSONCmd.Flags().BoolVar(&jsonCheck, "check", false, "Fail if a file is not formatted; write nothing")
	formatJSONCmd.Flags().BoolVar(&jsonDiff, "diff", false, "With --check, print a unified diff for each unformatted file")
	formatJSONCmd.Flags().BoolVarP(&jsonWatch, "watch", "w", false, "Keep formatting the file in place whenever it changes")
}

func runFormatJSON(cmd *cobra.Command, args []string) error {
	opts, err := jsonOptions(cmd)
	if err != nil {
		return err
	}
	if err := validateJSONFlags(args); err != nil {
		return err
	}
	log := logging.Get(logging.CategoryJSON)

	if jsonCheck {
		return checkJSON(cmd, args, opts)
	}

	if jsonWatch {
		return watchJSON(cmd, jsonfmt.FileConfig{Filename: args[0], InPlace: true, Options: opts})
	}

	if len(args) > 1 {
		cfgs := make([]jsonfmt.FileConfig, 0, len(args))
		for _, name := range args {
			cfgs = append(cfgs, jsonfmt.FileConfig{Filename: name, InPlace: true, Options: opts})
		}
		ctx, cancel := signalContext(cmd.Context(), timeout)
		defer cancel()
		if err := jsonfmt.FormatFiles(ctx, cfgs, cfg.JSON.Concurrency, log); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), styles.Status(styles.Success, "formatted", fmt.Sprintf("%d files", len(args))))
		return nil
	}

	fileCfg := jsonfmt.FileConfig{
		Filename:       args[0],
		OutputFilename: jsonOutput,
		InPlace:        jsonInPlace,
		Options:        opts,
	}
	formatted, err := jsonfmt.FormatFile(fileCfg)
	if err != nil {
		return err
	}
	log.Debug("formatted", zap.String("file", args[0]), zap.Int("bytes", len(formatted)))

	if fileCfg.Prints() {
		fmt.Fprintln(cmd.OutOrStdout(), formatted)
	}
	return nil
}

func validateJSONFlags(args []string) error {
	switch {
	case jsonCheck && (jsonInPlace || jsonOutput != "" || jsonWatch):
		return fmt.Errorf("--check cannot be combined with --in-place, --output or --watch")
	case jsonDiff && !jsonCheck:
		return fmt.Errorf("--diff requires --check")
	case jsonOutput != "" && len(args) > 1:
		return fmt.Errorf("--output requires a single input file")
	case jsonWatch && (!jsonInPlace || len(args) != 1):
		return fmt.Errorf("--watch requires --in-place and a single file")
	case len(args) > 1 && !jsonInPlace && !jsonCheck:
		return fmt.Errorf("formatting several files requires --in-place or --check")
	}
	return nil
}

func jsonOptions(cmd *cobra.Command) (jsonfmt.Options, error) {
	opts := jsonfmt.Options{Indent: cfg.JSON.Indent, Sort: cfg.JSON.Sort}
	if cmd.Flags().Changed("indent") {
		if jsonIndent < 0 {
			return opts, fmt.Errorf("--indent must not be negative")
		}
		opts.Indent = jsonIndent
	}
	if cmd.Flags().Changed("sort") {
		opts.Sort = jsonSort
	}
	return opts, nil
}

func checkJSON(cmd *cobra.Command, files []string, opts jsonfmt.Options) error {
	var unformatted, failed int
	for _, name := range files {
		err := jsonfmt.Check(name, opts)
		switch {
		case err == nil:
		case errors.Is(err, jsonfmt.ErrNotFormatted):
			unformatted++
			fmt.Fprintln(cmd.ErrOrStderr(), styles.Status(styles.Warning, "not formatted", name))
			if jsonDiff {
				patch, err := jsonfmt.Diff(name, opts)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), patch)
			}
		default:
			failed++
			fmt.Fprintln(cmd.ErrOrStderr(), styles.Status(styles.Error, "error", err.Error()))
		}
	}

	switch {
	case failed > 0:
		return fmt.Errorf("%d of %d files not formatted, %d failed", unformatted, len(files), failed)
	case unformatted > 0:
		return fmt.Errorf("%d of %d files not formatted", unformatted, len(files))
	}
	return nil
}

func watchJSON(cmd *cobra.Command, fileCfg jsonfmt.FileConfig) error {
	// watch mode runs until interrupted; --timeout does not apply
	ctx, cancel := signalContext(cmd.Context(), 0)
	defer cancel()

	out := cmd.ErrOrStderr()
	fmt.Fprintln(out, styles.Status(styles.Info, "watching", fileCfg.Filename))

	err := jsonfmt.Watch(ctx, fileCfg, logging.Get(logging.CategoryWatch), func(changed bool, err error) {
		switch {
		case err != nil:
			fmt.Fprintln(out, styles.Status(styles.Warning, "skipped", err.Error()))
		case changed:
			fmt.Fprintln(out, styles.Status(styles.Success, "formatted", fileCfg.Filename))
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
