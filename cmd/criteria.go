package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/dealscore/internal/config"
	"github.com/sells-group/dealscore/internal/pipeline"
	"github.com/sells-group/dealscore/internal/scorer"
)

var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Print the scoring ladders and active weights",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return printCriteria(cmd.OutOrStdout(), cfg, format)
	},
}

func init() {
	criteriaCmd.Flags().String("format", "table", "output format: table or json")
	rootCmd.AddCommand(criteriaCmd)
}

func printCriteria(w io.Writer, c *config.Config, format string) error {
	sc, err := pipeline.BuildScorer(c.Scoring)
	if err != nil {
		return err
	}
	weights := sc.Weights()

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{"criteria": sc.Catalog(), "weights": weights}); err != nil {
			return eris.Wrap(err, "criteria: encode JSON")
		}
		return nil
	case "table":
	default:
		return eris.Errorf("criteria: --format must be table or json (got %q)", format)
	}

	if _, err := fmt.Fprintf(w, "%-34s %-20s %-7s %7s  %s\n", "Criterion", "Metric", "Dir", "Weight", "Ladder"); err != nil {
		return eris.Wrap(err, "criteria: write header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 100)); err != nil {
		return eris.Wrap(err, "criteria: write separator")
	}
	for _, cr := range sc.Catalog() {
		weight := "-"
		if v, ok := weights[cr.Name]; ok {
			weight = fmt.Sprintf("%.2f", v)
		}
		line := fmt.Sprintf("%-34s %-20s %-7s %7s  %s\n", cr.Name, cr.Metric, cr.Direction, weight, describeLadder(cr))
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "criteria: write row")
		}
	}
	return nil
}

func describeLadder(cr scorer.Criterion) string {
	if cr.Manual {
		return "analyst override (1-5)"
	}
	op := ">"
	if cr.Direction == scorer.LowerIsBetter {
		op = "<"
	}
	parts := make([]string, 0, len(cr.Bands)+1)
	for _, b := range cr.Bands {
		parts = append(parts, fmt.Sprintf("%s%g=%d", op, b.Bound, b.Score))
	}
	parts = append(parts, fmt.Sprintf("else=%d", scorer.FloorScore))
	return strings.Join(parts, " ")
}
