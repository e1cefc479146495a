package scorer

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dealscore/internal/model"
)

// Tier lower bounds, inclusive.
const (
	excellentFloor  = 4.5
	attractiveFloor = 4.0
	moderateFloor   = 3.5
)

// Aggregate computes Σ score × weight/100 over the weighted criteria,
// rounded to two decimals. Weights are used as given; a weighted criterion
// without a score fails with ErrManualInputRequired instead of being
// dropped and the rest rebalanced.
func Aggregate(scores model.ScoreCard, weights Weights) (float64, error) {
	var missing []string
	var total float64
	for _, name := range weights.Names() {
		score, ok := scores[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		total += float64(score) * weights[name] / 100
	}

	if len(missing) > 0 {
		return 0, eris.Wrapf(ErrManualInputRequired, "%s", strings.Join(missing, ", "))
	}
	return round2(total), nil
}

// Classify maps a final score to its recommendation tier.
func Classify(score float64) model.Tier {
	switch {
	case score >= excellentFloor:
		return model.TierExcellent
	case score >= attractiveFloor:
		return model.TierAttractive
	case score >= moderateFloor:
		return model.TierModerate
	default:
		return model.TierWeak
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
