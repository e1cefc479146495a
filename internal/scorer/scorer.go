package scorer

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dealscore/internal/model"
)

// Overrides carries analyst scores for manual criteria, keyed by name.
type Overrides map[string]int

// Card is the scored view of one document: the score card, the
// per-criterion explanation and the manual criteria still awaiting input.
type Card struct {
	Scores   model.ScoreCard
	Criteria []model.CriterionResult
	Pending  []string
}

// Scorer scores metrics against a criteria catalog. Only criteria present
// in the weight table are active. A Scorer is immutable and safe for
// concurrent use.
type Scorer struct {
	catalog Catalog
	weights Weights
}

// New validates the catalog and weights and returns a Scorer.
func New(catalog Catalog, weights Weights) (*Scorer, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateWeights(weights, catalog); err != nil {
		return nil, err
	}

	w := make(Weights, len(weights))
	for name, v := range weights {
		w[name] = v
	}
	cat := make(Catalog, len(catalog))
	copy(cat, catalog)

	return &Scorer{catalog: cat, weights: w}, nil
}

// Catalog returns a copy of the scorer's criteria.
func (s *Scorer) Catalog() Catalog {
	out := make(Catalog, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// Weights returns a copy of the scorer's weight table.
func (s *Scorer) Weights() Weights {
	out := make(Weights, len(s.weights))
	for name, v := range s.weights {
		out[name] = v
	}
	return out
}

// Active returns the weighted criteria in catalog order.
func (s *Scorer) Active() Catalog {
	var out Catalog
	for _, cr := range s.catalog {
		if _, ok := s.weights[cr.Name]; ok {
			out = append(out, cr)
		}
	}
	return out
}

// Score assigns one score per active criterion. Automated criteria walk
// their ladder (missing metrics score the floor); manual criteria take the
// analyst override or are reported as pending.
func (s *Scorer) Score(metrics model.Metrics, overrides Overrides) (*Card, error) {
	resolved, err := s.resolveOverrides(overrides)
	if err != nil {
		return nil, err
	}

	card := &Card{Scores: make(model.ScoreCard)}
	for _, cr := range s.Active() {
		res := model.CriterionResult{
			Name:   cr.Name,
			Metric: cr.Metric,
			Weight: s.weights[cr.Name],
			Manual: cr.Manual,
		}

		if cr.Manual {
			if v, ok := resolved[cr.Name]; ok {
				score := v
				res.Score = &score
				res.Override = true
				card.Scores[cr.Name] = v
			} else {
				card.Pending = append(card.Pending, cr.Name)
			}
			card.Criteria = append(card.Criteria, res)
			continue
		}

		value := metrics.Get(cr.Metric)
		score, band := cr.Evaluate(value)
		res.Value = value
		res.Score = &score
		if band != nil {
			bound := band.Bound
			res.Bound = &bound
		}
		card.Scores[cr.Name] = score
		card.Criteria = append(card.Criteria, res)
	}

	return card, nil
}

// CheckOverrides validates analyst overrides without scoring anything.
func (s *Scorer) CheckOverrides(overrides Overrides) error {
	_, err := s.resolveOverrides(overrides)
	return err
}

func (s *Scorer) resolveOverrides(overrides Overrides) (map[string]int, error) {
	out := make(map[string]int, len(overrides))

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := overrides[name]
		cr, ok := s.catalog.Lookup(name)
		if !ok {
			return nil, eris.Wrapf(ErrInvalidOverride, "unknown criterion %q", name)
		}
		if !cr.Manual {
			return nil, eris.Wrapf(ErrInvalidOverride, "%s is scored from the document", cr.Name)
		}
		if _, active := s.weights[cr.Name]; !active {
			return nil, eris.Wrapf(ErrInvalidOverride, "%s carries no weight in the active profile", cr.Name)
		}
		if v < FloorScore || v > MaxScore {
			return nil, eris.Wrapf(ErrInvalidOverride, "%s score must be between %d and %d (got %d)", cr.Name, FloorScore, MaxScore, v)
		}
		if _, dup := out[cr.Name]; dup {
			return nil, eris.Wrapf(ErrInvalidOverride, "%s is overridden more than once", cr.Name)
		}
		out[cr.Name] = v
	}
	return out, nil
}
