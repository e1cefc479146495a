// Package extract turns a normalized document into the canonical deal
// metrics using fixed text-pattern and table-row rules.
package extract

import (
	"strings"

	"github.com/sells-group/dealscore/internal/model"
)

// maxEvidence caps the matched text kept in provenance.
const maxEvidence = 120

// Extraction holds the metric map and where each found value came from.
type Extraction struct {
	Metrics    model.Metrics
	Provenance model.Provenance
}

// Extractor applies an extraction catalog. It holds no mutable state and
// is safe for concurrent use.
type Extractor struct {
	rules *Rules
}

// New returns an Extractor over the default catalog.
func New() *Extractor {
	return &Extractor{rules: DefaultRules()}
}

// Extract runs every rule against the source. Metrics not found stay nil;
// malformed numbers count as not found. It never fails.
func (e *Extractor) Extract(src model.Source) Extraction {
	out := Extraction{
		Metrics:    model.NewMetrics(),
		Provenance: make(model.Provenance),
	}

	for _, rule := range e.rules.Text {
		applyText(rule, src.Text, &out)
	}
	for _, rule := range e.rules.Table {
		applyTable(rule, src.Tables, &out)
	}
	derive(&out)

	return out
}

// applyText records the first match scanning left to right. A match whose
// number does not parse is treated as no match.
func applyText(rule TextRule, text string, out *Extraction) {
	m := rule.Pattern.FindStringSubmatch(text)
	if m == nil {
		return
	}
	v, ok := parseDecimal(m[1])
	if !ok {
		return
	}
	out.set(rule.Metric, v, model.StrategyText, m[0])
}

// applyTable maps cell i+1 of each qualifying row to SeriesYears[i]. Later
// rows overwrite earlier ones year by year; unparseable cells are skipped.
func applyTable(rule TableRule, rows []model.TableRecord, out *Extraction) {
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(row[0]))
		if !strings.Contains(label, rule.Label) {
			continue
		}
		for i, year := range model.SeriesYears {
			if i+1 >= len(row) {
				break
			}
			v, ok := parseCell(row[i+1])
			if !ok {
				continue
			}
			out.set(rule.Metric(year), v, model.StrategyTable, strings.TrimSpace(row[0]))
		}
	}
}

func (out *Extraction) set(name model.MetricName, v float64, strategy, evidence string) {
	out.Metrics[name] = &v
	out.Provenance[name] = model.MetricSource{Strategy: strategy, Evidence: clip(evidence)}
}

func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxEvidence {
		return s
	}
	return string(r[:maxEvidence-3]) + "..."
}
