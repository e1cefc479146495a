package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
)

var csvHeader = []string{"document", "criterion", "metric", "value", "weight", "score", "final_score", "tier", "error"}

// WriteCSV writes one row per criterion per document. A failed document
// gets a single row carrying its error.
func WriteCSV(w io.Writer, reports []Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return eris.Wrap(err, "export: write CSV header")
	}

	for _, rep := range reports {
		if rep.Result == nil {
			if err := cw.Write([]string{rep.Source, "", "", "", "", "", "", "", rep.Error}); err != nil {
				return eris.Wrap(err, "export: write CSV row")
			}
			continue
		}
		r := rep.Result
		for _, c := range r.Criteria {
			value := ""
			if c.Value != nil {
				value = strconv.FormatFloat(*c.Value, 'f', -1, 64)
			}
			score := ""
			if c.Score != nil {
				score = strconv.Itoa(*c.Score)
			}
			row := []string{
				r.Document.Name,
				c.Name,
				string(c.Metric),
				value,
				strconv.FormatFloat(c.Weight, 'f', 2, 64),
				score,
				formatFinal(r),
				string(r.Tier),
				"",
			}
			if err := cw.Write(row); err != nil {
				return eris.Wrap(err, "export: write CSV row")
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "export: flush CSV")
	}
	return nil
}
