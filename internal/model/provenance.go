package model

// Extraction strategies recorded in provenance.
const (
	StrategyText    = "text"
	StrategyTable   = "table"
	StrategyDerived = "derived"
)

// MetricSource records how a metric value was obtained so a score can be
// traced back to the document.
type MetricSource struct {
	Strategy string `json:"strategy"`
	Evidence string `json:"evidence"`
}

// Provenance maps found metrics to their source. Missing metrics have no entry.
type Provenance map[MetricName]MetricSource
