package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"futils/internal/banner"
	"futils/internal/logging"
)

var (
	commentMinLength  int
	commentMinSymbols int
	commentSymbol     string
	commentPrefix     string
	commentCaps       bool
	commentFill       bool
)

// commentCmd frames text in a banner comment
var commentCmd = &cobra.Command{
	Use:   "comment <text>...",
	Short: "Create a banner comment",
	Long: `Frames text between two border lines of symbols.

Arguments are joined with single spaces. The border is at least --min-length
columns wide and grows to fit the text plus --min-symbols symbols and a space
on each side.

Example:
  futils comment -s '#' -p '// ' hello
  // ###########
  // #  hello  #
  // ###########`,
	Args: cobra.MinimumNArgs(1),
	RunE: runComment,
}

func init() {
	commentCmd.Flags().IntVarP(&commentMinLength, "min-length", "m", 10, "Minimum length of the border")
	commentCmd.Flags().IntVarP(&commentMinSymbols, "min-symbols", "n", 1, "Minimum symbols on each side of the text")
	commentCmd.Flags().StringVarP(&commentSymbol, "symbol", "s", "*", "Symbol used for the border (one character)")
	commentCmd.Flags().StringVarP(&commentPrefix, "prefix", "p", "", "Prefix for every line, e.g. '// '")
	commentCmd.Flags().BoolVarP(&commentCaps, "caps", "c", false, "Convert the text to uppercase")
	commentCmd.Flags().BoolVarP(&commentFill, "fill", "f", false, "Pad the text line with the symbol instead of spaces")
}

func runComment(cmd *cobra.Command, args []string) error {
	opts, err := commentOptions(cmd)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	if commentCaps {
		text = cases.Upper(language.Und).String(text)
	}

	layout := banner.Measure(text, opts)
	logging.Get(logging.CategoryComment).Debug("rendering banner",
		zap.Int("length", layout.Length),
		zap.Int("side_fill", layout.SideFill))

	fmt.Fprintln(cmd.OutOrStdout(), banner.Render(text, opts))
	return nil
}

// commentOptions merges config defaults with the flags the user set.
func commentOptions(cmd *cobra.Command) (banner.Options, error) {
	opts := banner.Options{
		MinLength:     cfg.Comment.MinLength,
		MinSymbols:    cfg.Comment.MinSymbols,
		Symbol:        cfg.SymbolRune(),
		Prefix:        cfg.Comment.Prefix,
		PadWithSymbol: cfg.Comment.Fill,
	}

	flags := cmd.Flags()
	if flags.Changed("min-length") {
		if commentMinLength < 0 {
			return opts, fmt.Errorf("--min-length must not be negative")
		}
		opts.MinLength = commentMinLength
	}
	if flags.Changed("min-symbols") {
		if commentMinSymbols < 0 {
			return opts, fmt.Errorf("--min-symbols must not be negative")
		}
		opts.MinSymbols = commentMinSymbols
	}
	if flags.Changed("symbol") {
		if utf8.RuneCountInString(commentSymbol) != 1 {
			return opts, fmt.Errorf("--symbol must be a single character, got %q", commentSymbol)
		}
		opts.Symbol, _ = utf8.DecodeRuneInString(commentSymbol)
	}
	if flags.Changed("prefix") {
		opts.Prefix = commentPrefix
	}
	if flags.Changed("fill") {
		opts.PadWithSymbol = commentFill
	}
	return opts, nil
}
