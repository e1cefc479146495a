package extract

import (
	"regexp"

	"github.com/sells-group/dealscore/internal/model"
)

// numberPattern matches digits with an optional single comma or period
// decimal separator.
const numberPattern = `(\d+[,.]?\d*)`

// TextRule finds a scalar metric in the normalized text: a label followed
// by the nearest numeric token.
type TextRule struct {
	Metric  model.MetricName
	Pattern *regexp.Regexp
}

// newTextRule builds a case-sensitive label rule anchored at a word start,
// so "EBIT" does not fire inside "debit". Percent rules require a trailing
// % after the number.
func newTextRule(metric model.MetricName, label string, percent bool) TextRule {
	expr := `\b` + regexp.QuoteMeta(label) + `\D*` + numberPattern
	if percent {
		expr += `%`
	}
	return TextRule{Metric: metric, Pattern: regexp.MustCompile(expr)}
}

// TableRule maps qualifying table rows onto a per-year metric series. A
// row qualifies when its first cell contains Label.
type TableRule struct {
	Label  string
	Metric func(year int) model.MetricName
}

// Rules is the extraction catalog. It is built once by DefaultRules and
// never modified afterwards.
type Rules struct {
	Text  []TextRule
	Table []TableRule
}

// DefaultRules returns the fixed extraction catalog.
func DefaultRules() *Rules {
	return &Rules{
		Text: []TextRule{
			newTextRule(model.MetricEBIT, "EBIT", false),
			newTextRule(model.MetricRevenueGrowth, "growth", true),
			newTextRule(model.MetricEBITMargins, "EBIT margin", true),
			newTextRule(model.MetricCapex, "Capex", false),
			newTextRule(model.MetricLargestCustomer, "largest customer", true),
		},
		Table: []TableRule{
			{Label: "revenue", Metric: model.RevenueYear},
			{Label: "ebit", Metric: model.EBITYear},
		},
	}
}
