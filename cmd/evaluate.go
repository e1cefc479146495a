package main

import (
	"context"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/dealscore/internal/config"
	"github.com/sells-group/dealscore/internal/export"
	"github.com/sells-group/dealscore/internal/pipeline"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <file>",
	Short: "Score a single information memorandum",
	Long: `Extract metrics from one PDF or DOCX document and score it.

Manual criteria (Mission-Critical Offering, Recurring Revenue) are only
weighted by the "full" profile and need analyst overrides to complete.

Examples:
  # Score a PDF and print the score card
  evaluate memo.pdf

  # Full profile with analyst input, exported to a workbook
  evaluate memo.pdf --override "Recurring Revenue=4" \
    --override "Mission-Critical Offering=3" --format xlsx --output memo.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	f := evaluateCmd.Flags()
	f.StringArray("override", nil, `analyst score for a manual criterion, e.g. "Recurring Revenue=4" (repeatable)`)
	f.String("format", "table", "output format: json, table, csv or xlsx")
	f.String("output", "", "output file path (default: stdout)")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	overrideFlags, _ := cmd.Flags().GetStringArray("override")
	formatFlag, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	return evaluateDocument(ctx, cfg, args[0], overrideFlags, formatFlag, outputPath, cmd.OutOrStdout())
}

func evaluateDocument(ctx context.Context, c *config.Config, path string, overrideFlags []string, formatFlag, outputPath string, stdout io.Writer) error {
	if err := c.Validate("evaluate"); err != nil {
		return err
	}
	format, err := export.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	overrides, err := parseOverrides(overrideFlags)
	if err != nil {
		return err
	}

	eval, err := pipeline.New(c)
	if err != nil {
		return err
	}

	raw, err := eval.LoadFile(path)
	if err != nil {
		return err
	}
	res, err := eval.Evaluate(ctx, raw, overrides)
	if err != nil {
		return err
	}

	return writeReports(stdout, format, outputPath, []export.Report{{Source: path, Result: res}})
}
