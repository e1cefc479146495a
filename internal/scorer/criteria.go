package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dealscore/internal/model"
)

// Criterion names of the default catalog.
const (
	CriterionSize             = "Size (EBIT)"
	CriterionMarketGrowth     = "Market Growth"
	CriterionMissionCritical  = "Mission-Critical Offering"
	CriterionRecurringRevenue = "Recurring Revenue"
	CriterionStableMargins    = "Stable Margins"
	CriterionConcentration    = "Customer/Supplier Concentration"
	CriterionCapitalIntensity = "Capital Intensity"
)

// Criterion scores one metric through a ladder. Manual criteria have no
// extraction signal and are only ever scored by an analyst override.
type Criterion struct {
	Name   string           `yaml:"name" json:"name"`
	Metric model.MetricName `yaml:"metric,omitempty" json:"metric,omitempty"`
	Manual bool             `yaml:"manual,omitempty" json:"manual,omitempty"`
	Ladder `yaml:",inline"`
}

// Validate checks a single criterion definition.
func (c Criterion) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return eris.Wrap(ErrInvalidCriteria, "criterion name is required")
	}
	if c.Manual {
		if c.Metric != "" || len(c.Bands) > 0 {
			return eris.Wrapf(ErrInvalidCriteria, "%s: manual criteria take no metric or bands", c.Name)
		}
		return nil
	}
	if c.Metric == "" {
		return eris.Wrapf(ErrInvalidCriteria, "%s: metric is required", c.Name)
	}
	if !knownMetric(c.Metric) {
		return eris.Wrapf(ErrInvalidCriteria, "%s: unknown metric %q", c.Name, c.Metric)
	}
	if err := c.Ladder.Validate(); err != nil {
		return eris.Wrapf(err, "%s", c.Name)
	}
	return nil
}

func knownMetric(name model.MetricName) bool {
	for _, m := range model.AllMetrics() {
		if m == name {
			return true
		}
	}
	return false
}

// Catalog is the ordered set of known criteria.
type Catalog []Criterion

// DefaultCriteria returns the canonical criteria with their ladders.
func DefaultCriteria() Catalog {
	return Catalog{
		{
			Name:   CriterionSize,
			Metric: model.MetricEBIT,
			Ladder: Ladder{Direction: HigherIsBetter, Bands: []Band{
				{Bound: 3, Score: 5},
				{Bound: 2, Score: 4},
				{Bound: 1.5, Score: 3},
				{Bound: 1, Score: 2},
			}},
		},
		{
			Name:   CriterionMarketGrowth,
			Metric: model.MetricRevenueGrowth,
			Ladder: Ladder{Direction: HigherIsBetter, Bands: []Band{
				{Bound: 8, Score: 5},
				{Bound: 6, Score: 4},
				{Bound: 5, Score: 3},
				{Bound: 3, Score: 2},
			}},
		},
		{Name: CriterionMissionCritical, Manual: true},
		{Name: CriterionRecurringRevenue, Manual: true},
		{
			Name:   CriterionStableMargins,
			Metric: model.MetricEBITMargins,
			Ladder: Ladder{Direction: HigherIsBetter, Bands: []Band{
				{Bound: 20, Score: 5},
				{Bound: 15, Score: 4},
				{Bound: 10, Score: 3},
				{Bound: 5, Score: 2},
			}},
		},
		{
			Name:   CriterionConcentration,
			Metric: model.MetricLargestCustomer,
			Ladder: Ladder{Direction: LowerIsBetter, Bands: []Band{
				{Bound: 5, Score: 5},
				{Bound: 7, Score: 4},
				{Bound: 10, Score: 3},
				{Bound: 15, Score: 2},
			}},
		},
		{
			Name:   CriterionCapitalIntensity,
			Metric: model.MetricCapexIntensity,
			Ladder: Ladder{Direction: LowerIsBetter, Bands: []Band{
				{Bound: 10, Score: 5},
				{Bound: 20, Score: 4},
				{Bound: 30, Score: 3},
				{Bound: 40, Score: 2},
			}},
		},
	}
}

// Lookup finds a criterion by name, ignoring case.
func (c Catalog) Lookup(name string) (Criterion, bool) {
	for _, cr := range c {
		if strings.EqualFold(cr.Name, strings.TrimSpace(name)) {
			return cr, true
		}
	}
	return Criterion{}, false
}

// Automated returns the criteria that can be scored from the document.
func (c Catalog) Automated() Catalog {
	var out Catalog
	for _, cr := range c {
		if !cr.Manual {
			out = append(out, cr)
		}
	}
	return out
}

// Validate checks every criterion and rejects duplicate names.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return eris.Wrap(ErrInvalidCriteria, "catalog is empty")
	}
	seen := make(map[string]bool, len(c))
	for _, cr := range c {
		if err := cr.Validate(); err != nil {
			return err
		}
		key := strings.ToLower(cr.Name)
		if seen[key] {
			return eris.Wrap(ErrInvalidCriteria, fmt.Sprintf("duplicate criterion %q", cr.Name))
		}
		seen[key] = true
	}
	return nil
}

// Merge returns a copy of c where criteria in extra replace same-named
// entries in place and new ones are appended.
func (c Catalog) Merge(extra Catalog) Catalog {
	out := make(Catalog, len(c))
	copy(out, c)
	for _, cr := range extra {
		replaced := false
		for i := range out {
			if strings.EqualFold(out[i].Name, cr.Name) {
				out[i] = cr
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, cr)
		}
	}
	return out
}
