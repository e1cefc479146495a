package model

import (
	"fmt"
	"sort"
)

// MetricName identifies one canonical metric extracted from a document.
type MetricName string

const (
	MetricEBIT            MetricName = "EBIT"
	MetricRevenueGrowth   MetricName = "Revenue Growth"
	MetricEBITMargins     MetricName = "EBIT Margins"
	MetricCapex           MetricName = "Capex"
	MetricLargestCustomer MetricName = "Largest Customer %"
	MetricCapexIntensity  MetricName = "Capex Intensity"
)

const (
	metricRevenueYearFmt = "Revenue %d"
	metricEBITYearFmt    = "EBIT %d"
)

// SeriesYears are the fiscal years mapped onto table columns 1..3.
var SeriesYears = []int{2022, 2023, 2024}

// RevenueYear returns the per-year revenue metric name.
func RevenueYear(year int) MetricName {
	return MetricName(fmt.Sprintf(metricRevenueYearFmt, year))
}

// EBITYear returns the per-year EBIT metric name.
func EBITYear(year int) MetricName {
	return MetricName(fmt.Sprintf(metricEBITYearFmt, year))
}

// AllMetrics lists every catalogued metric in display order.
func AllMetrics() []MetricName {
	names := []MetricName{
		MetricEBIT,
		MetricRevenueGrowth,
		MetricEBITMargins,
		MetricCapex,
		MetricLargestCustomer,
		MetricCapexIntensity,
	}
	for _, y := range SeriesYears {
		names = append(names, RevenueYear(y))
	}
	for _, y := range SeriesYears {
		names = append(names, EBITYear(y))
	}
	return names
}

// Metrics maps every catalogued metric to its value. A nil value means the
// metric was not found; it is never silently replaced by zero.
type Metrics map[MetricName]*float64

// NewMetrics returns a map with every catalogued metric present and nil.
func NewMetrics() Metrics {
	m := make(Metrics, len(AllMetrics()))
	for _, name := range AllMetrics() {
		m[name] = nil
	}
	return m
}

// Get returns the value for name, or nil when absent.
func (m Metrics) Get(name MetricName) *float64 {
	return m[name]
}

// Missing returns the names of catalogued metrics without a value, sorted.
func (m Metrics) Missing() []MetricName {
	var out []MetricName
	for _, name := range AllMetrics() {
		if m[name] == nil {
			out = append(out, name)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
