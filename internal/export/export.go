// Package export renders evaluation results as JSON, a terminal table,
// CSV or an XLSX workbook.
package export

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dealscore/internal/model"
)

// Format names an output format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat resolves a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatTable, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", eris.Errorf("export: unsupported format %q (want json, table, csv or xlsx)", s)
	}
}

// Report is one document's outcome: a result or the error that stopped it.
type Report struct {
	Source string        `json:"source"`
	Result *model.Result `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// Write renders reports to w in the given format.
func Write(w io.Writer, format Format, reports []Report) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, reports)
	case FormatTable:
		return WriteTable(w, reports)
	case FormatCSV:
		return WriteCSV(w, reports)
	case FormatXLSX:
		return WriteXLSX(w, reports)
	default:
		return eris.Errorf("export: unsupported format %q", format)
	}
}

// WriteJSON writes indented JSON. A single successful report is written as
// the bare result object; anything else as an array of reports.
func WriteJSON(w io.Writer, reports []Report) error {
	var v any = reports
	if len(reports) == 1 && reports[0].Error == "" {
		v = reports[0].Result
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "export: encode JSON")
	}
	return nil
}

func formatValue(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatScore(s *int) string {
	if s == nil {
		return "pending"
	}
	return strconv.Itoa(*s)
}

func formatFinal(r *model.Result) string {
	if r.FinalScore == nil {
		return ""
	}
	return strconv.FormatFloat(*r.FinalScore, 'f', 2, 64)
}
