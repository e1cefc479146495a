package main

import (
	"context"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dealscore/internal/config"
	"github.com/sells-group/dealscore/internal/export"
	"github.com/sells-group/dealscore/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>...",
	Short: "Score several documents concurrently",
	Long: `Score independent documents in parallel (batch.max_concurrent at a time).
A document that fails is reported with its error and does not stop the batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringArray("override", nil, `analyst score applied to every document, e.g. "Recurring Revenue=4" (repeatable)`)
	f.String("format", "table", "output format: json, table, csv or xlsx")
	f.String("output", "", "output file path (default: stdout)")
	f.Int("concurrency", 0, "documents evaluated at once (default from config)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	overrideFlags, _ := cmd.Flags().GetStringArray("override")
	formatFlag, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
		cfg.Batch.MaxConcurrent = n
	}

	return evaluateBatch(ctx, cfg, args, overrideFlags, formatFlag, outputPath, cmd.OutOrStdout())
}

func evaluateBatch(ctx context.Context, c *config.Config, paths, overrideFlags []string, formatFlag, outputPath string, stdout io.Writer) error {
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
	if err := eval.Scorer().CheckOverrides(overrides); err != nil {
		return err
	}

	items := eval.EvaluateFiles(ctx, paths, overrides)

	reports := make([]export.Report, len(items))
	failed := 0
	for i, item := range items {
		reports[i] = export.Report{Source: item.Path, Result: item.Result}
		if item.Err != nil {
			reports[i].Error = item.Err.Error()
			failed++
		}
	}
	if failed > 0 {
		zap.L().Warn("batch: some documents failed", zap.Int("failed", failed), zap.Int("total", len(items)))
	}

	return writeReports(stdout, format, outputPath, reports)
}
