package scorer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/dealscore/internal/model"
)

func newTestScorer(t *testing.T, profile string) *Scorer {
	t.Helper()
	w, err := ProfileWeights(profile, DefaultCriteria())
	require.NoError(t, err)
	s, err := New(DefaultCriteria(), w)
	require.NoError(t, err)
	return s
}

func TestNew_RejectsBadWeights(t *testing.T) {
	_, err := New(DefaultCriteria(), Weights{CriterionSize: 50})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidWeights))
}

func TestNew_RejectsBadCatalog(t *testing.T) {
	catalog := Catalog{{Name: "Size", Metric: model.MetricEBIT, Ladder: Ladder{Direction: "up"}}}
	_, err := New(catalog, Weights{"Size": 100})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCriteria))
}

func TestScore_AllMissingScoresFloor(t *testing.T) {
	s := newTestScorer(t, ProfileAutomated)

	card, err := s.Score(model.NewMetrics(), nil)
	require.NoError(t, err)

	require.Len(t, card.Scores, 5)
	for name, score := range card.Scores {
		assert.Equal(t, FloorScore, score, "criterion %s", name)
	}
	assert.Empty(t, card.Pending)
	for _, c := range card.Criteria {
		assert.Nil(t, c.Value)
		assert.Nil(t, c.Bound)
	}
}

func TestScore_Explanation(t *testing.T) {
	s := newTestScorer(t, ProfileAutomated)

	m := model.NewMetrics()
	m[model.MetricEBIT] = ptrFloat64(2.5)
	m[model.MetricEBITMargins] = ptrFloat64(20)
	m[model.MetricCapexIntensity] = ptrFloat64(12)

	card, err := s.Score(m, nil)
	require.NoError(t, err)

	assert.Equal(t, model.ScoreCard{
		CriterionSize:             4,
		CriterionMarketGrowth:     1,
		CriterionStableMargins:    4,
		CriterionConcentration:    1,
		CriterionCapitalIntensity: 4,
	}, card.Scores)

	// Criteria follow catalog order.
	names := make([]string, 0, len(card.Criteria))
	for _, c := range card.Criteria {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		CriterionSize, CriterionMarketGrowth, CriterionStableMargins,
		CriterionConcentration, CriterionCapitalIntensity,
	}, names)

	size := card.Criteria[0]
	assert.Equal(t, model.MetricEBIT, size.Metric)
	require.NotNil(t, size.Value)
	assert.InDelta(t, 2.5, *size.Value, 0.0001)
	require.NotNil(t, size.Bound)
	assert.InDelta(t, 2.0, *size.Bound, 0.0001)
	assert.InDelta(t, 20.0, size.Weight, 0.0001)
}

func TestScore_ManualCriteriaPending(t *testing.T) {
	s := newTestScorer(t, ProfileFull)

	card, err := s.Score(model.NewMetrics(), nil)
	require.NoError(t, err)

	assert.Len(t, card.Scores, 5)
	assert.Equal(t, []string{CriterionMissionCritical, CriterionRecurringRevenue}, card.Pending)
	assert.NotContains(t, card.Scores, CriterionMissionCritical)

	for _, c := range card.Criteria {
		if c.Manual {
			assert.Nil(t, c.Score, "manual criterion %s must not be fabricated", c.Name)
		}
	}
}

func TestScore_ManualOverrides(t *testing.T) {
	s := newTestScorer(t, ProfileFull)

	card, err := s.Score(model.NewMetrics(), Overrides{
		"recurring revenue":      4,
		CriterionMissionCritical: 5,
	})
	require.NoError(t, err)

	assert.Empty(t, card.Pending)
	assert.Equal(t, 4, card.Scores[CriterionRecurringRevenue])
	assert.Equal(t, 5, card.Scores[CriterionMissionCritical])

	for _, c := range card.Criteria {
		if c.Name == CriterionRecurringRevenue {
			assert.True(t, c.Override)
			require.NotNil(t, c.Score)
			assert.Equal(t, 4, *c.Score)
		}
	}
}

func TestScore_InvalidOverrides(t *testing.T) {
	tests := []struct {
		name      string
		profile   string
		overrides Overrides
		wantErr   string
	}{
		{"unknown", ProfileFull, Overrides{"Moat": 3}, `unknown criterion "Moat"`},
		{"automated criterion", ProfileFull, Overrides{CriterionSize: 5}, "scored from the document"},
		{"inactive", ProfileAutomated, Overrides{CriterionRecurringRevenue: 3}, "carries no weight"},
		{"too high", ProfileFull, Overrides{CriterionRecurringRevenue: 6}, "between 1 and 5"},
		{"too low", ProfileFull, Overrides{CriterionRecurringRevenue: 0}, "between 1 and 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScorer(t, tt.profile)
			_, err := s.Score(model.NewMetrics(), tt.overrides)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidOverride))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScore_OnlyActiveCriteria(t *testing.T) {
	s, err := New(DefaultCriteria(), Weights{
		CriterionSize:          100.0 / 3,
		CriterionMarketGrowth:  100.0 / 3,
		CriterionStableMargins: 100.0 / 3,
	})
	require.NoError(t, err)

	card, err := s.Score(model.NewMetrics(), nil)
	require.NoError(t, err)
	assert.Len(t, card.Scores, 3)
	assert.NotContains(t, card.Scores, CriterionCapitalIntensity)
	assert.Len(t, s.Active(), 3)
}

func TestScorer_CopiesConfig(t *testing.T) {
	w := Weights{CriterionSize: 100}
	s, err := New(DefaultCriteria(), w)
	require.NoError(t, err)

	w[CriterionSize] = 1
	assert.InDelta(t, 100.0, s.Weights()[CriterionSize], 0.0001)

	got := s.Weights()
	got[CriterionSize] = 2
	assert.InDelta(t, 100.0, s.Weights()[CriterionSize], 0.0001)

	cat := s.Catalog()
	cat[0].Name = "changed"
	assert.Equal(t, CriterionSize, s.Catalog()[0].Name)
}

func TestCheckOverrides(t *testing.T) {
	s := newTestScorer(t, ProfileFull)

	assert.NoError(t, s.CheckOverrides(nil))
	assert.NoError(t, s.CheckOverrides(Overrides{"recurring revenue": 4}))

	err := s.CheckOverrides(Overrides{CriterionMarketGrowth: 4})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOverride))
}

func TestCheckOverrides_DuplicateNames(t *testing.T) {
	s := newTestScorer(t, ProfileFull)

	err := s.CheckOverrides(Overrides{"Recurring Revenue": 4, "recurring revenue": 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidOverride))
	assert.Contains(t, err.Error(), "more than once")

	_, err = s.Score(model.NewMetrics(), Overrides{"Recurring Revenue": 4, "RECURRING REVENUE": 4})
	assert.True(t, errors.Is(err, ErrInvalidOverride))
}
