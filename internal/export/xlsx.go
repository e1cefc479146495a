package export

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/dealscore/internal/model"
)

// Workbook sheet names.
const (
	SheetSummary = "Summary"
	SheetScores  = "Scores"
	SheetMetrics = "Metrics"
)

// WriteXLSX writes a workbook with a summary row per document, the
// per-criterion scores and every catalogued metric with its provenance.
func WriteXLSX(w io.Writer, reports []Report) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet(SheetSummary)
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}
	scores, err := f.AddSheet(SheetScores)
	if err != nil {
		return eris.Wrap(err, "export: add scores sheet")
	}
	metrics, err := f.AddSheet(SheetMetrics)
	if err != nil {
		return eris.Wrap(err, "export: add metrics sheet")
	}

	addStrings(summary.AddRow(), "Document", "Final Score", "Tier", "Manual Input Required", "Error")
	addStrings(scores.AddRow(), "Document", "Criterion", "Metric", "Value", "Weight", "Score")
	addStrings(metrics.AddRow(), "Document", "Metric", "Value", "Strategy", "Evidence")

	for _, rep := range reports {
		row := summary.AddRow()
		if rep.Result == nil {
			addStrings(row, rep.Source, "", "", "", rep.Error)
			continue
		}
		r := rep.Result

		row.AddCell().SetString(r.Document.Name)
		addFloat(row, r.FinalScore)
		addStrings(row, string(r.Tier), strings.Join(r.ManualInputRequired, ", "), "")

		for _, c := range r.Criteria {
			sr := scores.AddRow()
			addStrings(sr, r.Document.Name, c.Name, string(c.Metric))
			addFloat(sr, c.Value)
			sr.AddCell().SetFloat(c.Weight)
			if c.Score != nil {
				sr.AddCell().SetInt(*c.Score)
			} else {
				sr.AddCell().SetString("pending")
			}
		}

		for _, name := range model.AllMetrics() {
			mr := metrics.AddRow()
			addStrings(mr, r.Document.Name, string(name))
			addFloat(mr, r.Metrics[name])
			src := r.Provenance[name]
			addStrings(mr, src.Strategy, src.Evidence)
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}

func addStrings(row *xlsx.Row, values ...string) {
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// addFloat writes v, or an empty cell for a missing value.
func addFloat(row *xlsx.Row, v *float64) {
	cell := row.AddCell()
	if v != nil {
		cell.SetFloat(*v)
	}
}
