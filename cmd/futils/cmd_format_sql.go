package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"futils/internal/fsutil"
	"futils/internal/logging"
	"futils/internal/sqlfmt"
)

var (
	sqlFile        string
	sqlCheck       bool
	sqlKeywordCase string
)

// formatSQLCmd reformats SQL
var formatSQLCmd = &cobra.Command{
	Use:   "format-sql [sql]",
	Short: "Format SQL",
	Long: `Reformats SQL with lower-case keywords, one space around operators and
clause keywords right-aligned under SELECT.

The SQL is taken from the argument, from --file, or from stdin.

Example:
  futils format-sql "select * from t where a=1 and b=2"
  select *
    from t
   where a = 1
     and b = 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFormatSQL,
}

func init() {
	formatSQLCmd.Flags().StringVarP(&sqlFile, "file", "f", "", "Read SQL from this file")
	formatSQLCmd.Flags().BoolVar(&sqlCheck, "check", false, "Check the SQL for syntax errors before formatting")
	formatSQLCmd.Flags().StringVar(&sqlKeywordCase, "keyword-case", "lower", "Keyword case: lower, upper or preserve")
}

func runFormatSQL(cmd *cobra.Command, args []string) error {
	if len(args) == 1 && sqlFile != "" {
		return fmt.Errorf("pass SQL either as an argument or with --file, not both")
	}

	caseName := cfg.SQL.KeywordCase
	if cmd.Flags().Changed("keyword-case") {
		caseName = sqlKeywordCase
	}
	keywordCase, err := sqlfmt.ParseKeywordCase(caseName)
	if err != nil {
		return err
	}

	query, err := readSQL(cmd, args)
	if err != nil {
		return err
	}
	log := logging.Get(logging.CategorySQL)

	if sqlCheck {
		ctx, cancel := signalContext(cmd.Context(), timeout)
		defer cancel()

		timer := logging.StartTimer(logging.CategorySQL, "check")
		err := sqlfmt.Check(ctx, query)
		timer.Stop()
		if err != nil {
			return err
		}
		log.Debug("syntax check passed", zap.Int("statements", len(sqlfmt.Split(query))))
	}

	fmt.Fprintln(cmd.OutOrStdout(), sqlfmt.Format(query, sqlfmt.Options{KeywordCase: keywordCase}))
	return nil
}

func readSQL(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case len(args) == 1:
		return args[0], nil
	case sqlFile != "":
		data, err := fsutil.ReadFile(sqlFile)
		if err != nil {
			return "", fmt.Errorf("failed to read the file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("no SQL given (pass it as an argument, with --file, or on stdin)")
	}
	return string(data), nil
}
