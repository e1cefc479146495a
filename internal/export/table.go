package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rotisserie/eris"

	"github.com/sells-group/dealscore/internal/model"
)

const tableWidth = 84

// tierColors are ANSI 256 colors for the verdict banner.
var tierColors = map[model.Tier]lipgloss.Color{
	model.TierExcellent:  lipgloss.Color("42"),
	model.TierAttractive: lipgloss.Color("86"),
	model.TierModerate:   lipgloss.Color("214"),
	model.TierWeak:       lipgloss.Color("196"),
}

// WriteTable writes a fixed-width score card per report followed by a
// verdict banner. Colors are only emitted when w is a terminal.
func WriteTable(w io.Writer, reports []Report) error {
	tw := &tableWriter{w: w, renderer: lipgloss.NewRenderer(w)}
	for i, rep := range reports {
		if i > 0 {
			tw.printf("\n")
		}
		tw.report(rep)
	}
	if tw.err != nil {
		return eris.Wrap(tw.err, "export: write table")
	}
	return nil
}

type tableWriter struct {
	w        io.Writer
	renderer *lipgloss.Renderer
	err      error
}

func (t *tableWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *tableWriter) report(rep Report) {
	if rep.Result == nil {
		t.printf("%s\n", rep.Source)
		t.printf("  error: %s\n", rep.Error)
		return
	}
	r := rep.Result

	t.printf("Document: %s (%s, %d pages, %d table rows)\n", r.Document.Name, r.Document.Type, r.Document.Pages, r.Document.Rows)
	t.printf("%-34s %-20s %10s %7s %7s\n", "Criterion", "Metric", "Value", "Weight", "Score")
	t.printf("%s\n", strings.Repeat("-", tableWidth))
	for _, c := range r.Criteria {
		metric := string(c.Metric)
		if c.Manual {
			metric = "(manual)"
		}
		value := formatValue(c.Value)
		if c.Manual {
			value = ""
		}
		t.printf("%-34s %-20s %10s %7.2f %7s\n", truncate(c.Name, 34), truncate(metric, 20), value, c.Weight, formatScore(c.Score))
	}
	t.printf("%s\n", strings.Repeat("-", tableWidth))

	t.printf("Metrics:\n")
	for _, name := range model.AllMetrics() {
		src := ""
		if p, ok := r.Provenance[name]; ok {
			src = p.Strategy
		}
		t.printf("  %-22s %12s  %s\n", name, formatValue(r.Metrics[name]), src)
	}

	if len(r.ManualInputRequired) > 0 {
		t.printf("Manual input required: %s\n", strings.Join(r.ManualInputRequired, ", "))
	}
	t.printf("%s\n", t.banner(r))
}

func (t *tableWriter) banner(r *model.Result) string {
	style := t.renderer.NewStyle().Bold(true).Padding(0, 1)
	if !r.Complete() {
		return style.Foreground(lipgloss.Color("241")).Render(r.Tier.Headline())
	}
	if c, ok := tierColors[r.Tier]; ok {
		style = style.Foreground(c)
	}
	return style.Render(fmt.Sprintf("FINAL SCORE %.2f / 5  %s", *r.FinalScore, r.Tier.Headline()))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
