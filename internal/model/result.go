package model

// Tier is the qualitative recommendation derived from the final score.
type Tier string

const (
	TierExcellent  Tier = "Excellent"
	TierAttractive Tier = "Attractive"
	TierModerate   Tier = "Moderate"
	TierWeak       Tier = "Weak"
)

// Headline returns the analyst-facing verdict for the tier.
func (t Tier) Headline() string {
	switch t {
	case TierExcellent:
		return "Excellent Deal - Strongly Consider"
	case TierAttractive:
		return "Attractive Deal - Worth Further Analysis"
	case TierModerate:
		return "Moderate Deal - Needs Deeper Due Diligence"
	case TierWeak:
		return "Weak Deal - Likely Not Worth Pursuing"
	default:
		return "Incomplete - Manual Input Required"
	}
}

// ScoreCard maps criterion names to ordinal scores 1..5.
type ScoreCard map[string]int

// CriterionResult explains the score of one active criterion.
type CriterionResult struct {
	Name   string     `json:"name"`
	Metric MetricName `json:"metric,omitempty"`
	Value  *float64   `json:"value"`
	Score  *int       `json:"score"`
	Weight float64    `json:"weight"`
	// Bound is the threshold of the band that matched; nil on the floor.
	Bound    *float64 `json:"bound,omitempty"`
	Manual   bool     `json:"manual,omitempty"`
	Override bool     `json:"override,omitempty"`
}

// Result is the complete, explainable outcome of evaluating one document.
type Result struct {
	Document            DocumentInfo      `json:"document"`
	Metrics             Metrics           `json:"metrics"`
	Provenance          Provenance        `json:"provenance"`
	Scores              ScoreCard         `json:"scores"`
	Criteria            []CriterionResult `json:"criteria"`
	ManualInputRequired []string          `json:"manual_input_required,omitempty"`
	FinalScore          *float64          `json:"final_score"`
	Tier                Tier              `json:"tier,omitempty"`
}

// Complete reports whether every active criterion was scored.
func (r *Result) Complete() bool {
	return r.FinalScore != nil
}
