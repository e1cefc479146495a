package scorer

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Weight profiles.
const (
	// ProfileAutomated weights only the criteria scorable from the document.
	ProfileAutomated = "automated"
	// ProfileFull weights every criterion, manual ones included.
	ProfileFull = "full"
)

// weightTolerance is the allowed drift of a weight sum from 100.
const weightTolerance = 0.01

// Weights maps criterion names to their share of the final score in
// percent. The weighted criteria form the active set.
type Weights map[string]float64

// WeightSum returns the sum of all weights.
func WeightSum(w Weights) float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}

// Names returns the weighted criterion names, sorted.
func (w Weights) Names() []string {
	names := make([]string, 0, len(w))
	for name := range w {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProfileWeights splits 100 evenly across the criteria a profile covers.
func ProfileWeights(profile string, catalog Catalog) (Weights, error) {
	var members Catalog
	switch profile {
	case ProfileAutomated, "":
		members = catalog.Automated()
	case ProfileFull:
		members = catalog
	default:
		return nil, eris.Wrapf(ErrInvalidWeights, "unknown profile %q", profile)
	}
	if len(members) == 0 {
		return nil, eris.Wrapf(ErrInvalidWeights, "profile %q selects no criteria", profile)
	}

	share := 100 / float64(len(members))
	w := make(Weights, len(members))
	for _, cr := range members {
		w[cr.Name] = share
	}
	return w, nil
}

// ResolveWeights maps raw weight keys onto catalog names, ignoring case
// (config keys arrive lower-cased), and validates the result.
func ResolveWeights(raw map[string]float64, catalog Catalog) (Weights, error) {
	w := make(Weights, len(raw))
	for name, v := range raw {
		cr, ok := catalog.Lookup(name)
		if !ok {
			return nil, eris.Wrapf(ErrInvalidWeights, "unknown criterion %q", name)
		}
		w[cr.Name] = v
	}
	if err := ValidateWeights(w, catalog); err != nil {
		return nil, err
	}
	return w, nil
}

// ValidateWeights checks that every weighted criterion exists, no weight
// is negative and the weights sum to 100.
func ValidateWeights(w Weights, catalog Catalog) error {
	var errs []string

	if len(w) == 0 {
		errs = append(errs, "at least one criterion must be weighted")
	}
	for _, name := range w.Names() {
		if _, ok := catalog.Lookup(name); !ok {
			errs = append(errs, fmt.Sprintf("unknown criterion %q", name))
		}
		if w[name] < 0 {
			errs = append(errs, fmt.Sprintf("%s weight must be >= 0", name))
		}
	}
	if sum := WeightSum(w); len(w) > 0 && math.Abs(sum-100) > weightTolerance {
		errs = append(errs, fmt.Sprintf("weights should sum to 100, got %.2f", sum))
	}

	if len(errs) > 0 {
		return eris.Wrap(ErrInvalidWeights, strings.Join(errs, "; "))
	}
	return nil
}

// criteriaFile is the on-disk shape of a criteria catalog.
type criteriaFile struct {
	Criteria Catalog `yaml:"criteria"`
}

// LoadCriteriaFile reads a YAML criteria catalog and merges it over the
// default catalog: same-named criteria are replaced, new ones appended.
func LoadCriteriaFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scorer: read criteria %s", path)
	}
	return ParseCriteria(data)
}

// ParseCriteria parses a YAML criteria catalog and merges it over the
// default catalog.
func ParseCriteria(data []byte) (Catalog, error) {
	var f criteriaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "scorer: parse criteria")
	}

	catalog := DefaultCriteria().Merge(f.Criteria)
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}
