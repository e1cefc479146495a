// Package scorer turns extracted deal metrics into ordinal criterion scores
// through data-driven threshold ladders, and aggregates them into a weighted
// final score and recommendation tier.
package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// FloorScore is assigned when a metric is missing or satisfies no band.
const FloorScore = 1

// MaxScore is the best ordinal score.
const MaxScore = 5

// Direction says which side of a bound earns the band's score.
type Direction string

const (
	// HigherIsBetter bands match when value > bound.
	HigherIsBetter Direction = "higher"
	// LowerIsBetter bands match when value < bound.
	LowerIsBetter Direction = "lower"
)

// Band is one rung of a threshold ladder.
type Band struct {
	Bound float64 `yaml:"bound" json:"bound"`
	Score int     `yaml:"score" json:"score"`
}

// Ladder is an ordered list of bands evaluated top-down; the first
// satisfied band wins. Comparisons are strict, so a value equal to a
// bound falls into the next (lower-scoring) band.
type Ladder struct {
	Direction Direction `yaml:"direction" json:"direction"`
	Bands     []Band    `yaml:"bands" json:"bands"`
}

// Evaluate returns the score for v and the band that matched. A nil value
// or a value matching no band scores FloorScore with a nil band.
func (l Ladder) Evaluate(v *float64) (int, *Band) {
	if v == nil {
		return FloorScore, nil
	}
	for i := range l.Bands {
		b := &l.Bands[i]
		if l.matches(*v, b.Bound) {
			return b.Score, b
		}
	}
	return FloorScore, nil
}

func (l Ladder) matches(v, bound float64) bool {
	if l.Direction == LowerIsBetter {
		return v < bound
	}
	return v > bound
}

// Validate checks that bands are ordered in evaluation order and that
// scores stay within FloorScore..MaxScore and strictly decrease.
func (l Ladder) Validate() error {
	var errs []string

	if l.Direction != HigherIsBetter && l.Direction != LowerIsBetter {
		errs = append(errs, fmt.Sprintf("direction must be %q or %q (got %q)", HigherIsBetter, LowerIsBetter, l.Direction))
	}
	if len(l.Bands) == 0 {
		errs = append(errs, "at least one band is required")
	}

	for i, b := range l.Bands {
		if b.Score < FloorScore || b.Score > MaxScore {
			errs = append(errs, fmt.Sprintf("band %d score must be between %d and %d (got %d)", i, FloorScore, MaxScore, b.Score))
		}
		if i == 0 {
			continue
		}
		prev := l.Bands[i-1]
		if b.Score >= prev.Score {
			errs = append(errs, fmt.Sprintf("band %d score must be below band %d", i, i-1))
		}
		switch l.Direction {
		case HigherIsBetter:
			if b.Bound >= prev.Bound {
				errs = append(errs, fmt.Sprintf("band %d bound must be below %v", i, prev.Bound))
			}
		case LowerIsBetter:
			if b.Bound <= prev.Bound {
				errs = append(errs, fmt.Sprintf("band %d bound must be above %v", i, prev.Bound))
			}
		}
	}

	if len(errs) > 0 {
		return eris.Wrap(ErrInvalidCriteria, strings.Join(errs, "; "))
	}
	return nil
}
