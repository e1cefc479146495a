package scorer

import "github.com/rotisserie/eris"

var (
	// ErrInvalidCriteria is returned for a malformed criteria catalog.
	ErrInvalidCriteria = eris.New("scorer: invalid criteria")
	// ErrInvalidWeights is returned for a weight table that does not sum to
	// 100 or names unknown criteria.
	ErrInvalidWeights = eris.New("scorer: invalid weights")
	// ErrInvalidOverride is returned for analyst overrides that target an
	// unknown, automated or inactive criterion, or fall outside 1..5.
	ErrInvalidOverride = eris.New("scorer: invalid override")
	// ErrManualInputRequired is returned by Aggregate when a weighted
	// criterion still needs an analyst score.
	ErrManualInputRequired = eris.New("scorer: manual input required")
)
