package extract

import (
	"fmt"
	"math"

	"github.com/sells-group/dealscore/internal/model"
)

// derive fills metrics computable from others. Text matches always win:
// growth and margins are only derived from the table series when the text
// rules found nothing.
func derive(out *Extraction) {
	m := out.Metrics

	if m[model.MetricRevenueGrowth] == nil {
		if v, evidence, ok := revenueCAGR(m); ok {
			out.set(model.MetricRevenueGrowth, v, model.StrategyDerived, evidence)
		}
	}

	if m[model.MetricEBITMargins] == nil {
		if v, evidence, ok := latestMargin(m); ok {
			out.set(model.MetricEBITMargins, v, model.StrategyDerived, evidence)
		}
	}

	capex, ebit := m[model.MetricCapex], m[model.MetricEBIT]
	if capex != nil && ebit != nil && *ebit > 0 {
		out.set(model.MetricCapexIntensity, *capex / *ebit * 100, model.StrategyDerived, "Capex / EBIT x 100")
	}
}

// revenueCAGR computes the compound annual growth in percent between the
// earliest and latest revenue years present.
func revenueCAGR(m model.Metrics) (float64, string, bool) {
	first, last := -1, -1
	for i, y := range model.SeriesYears {
		if m[model.RevenueYear(y)] == nil {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 || last <= first {
		return 0, "", false
	}

	start := *m[model.RevenueYear(model.SeriesYears[first])]
	end := *m[model.RevenueYear(model.SeriesYears[last])]
	if start <= 0 || end < 0 {
		return 0, "", false
	}

	years := float64(model.SeriesYears[last] - model.SeriesYears[first])
	cagr := (math.Pow(end/start, 1/years) - 1) * 100
	return cagr, fmt.Sprintf("Revenue CAGR %d-%d", model.SeriesYears[first], model.SeriesYears[last]), true
}

// latestMargin computes EBIT / Revenue in percent for the latest year with
// both values and positive revenue.
func latestMargin(m model.Metrics) (float64, string, bool) {
	for i := len(model.SeriesYears) - 1; i >= 0; i-- {
		y := model.SeriesYears[i]
		rev, ebit := m[model.RevenueYear(y)], m[model.EBITYear(y)]
		if rev == nil || ebit == nil || *rev <= 0 {
			continue
		}
		return *ebit / *rev * 100, fmt.Sprintf("EBIT %d / Revenue %d", y, y), true
	}
	return 0, "", false
}
