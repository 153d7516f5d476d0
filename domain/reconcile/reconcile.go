// Package reconcile maps source-specific country labels onto the vocabulary
// shared by the isolate, policy and mobility datasets.
package reconcile

import (
	"slices"

	"github.com/samber/lo"

	"iris-stats/domain/config"
)

// Aliases maps a source label to its canonical name. Labels without an entry
// are already canonical or unknown, and pass through unchanged.
type Aliases map[string]string

func (a Aliases) Canonical(label string) string {
	if c, ok := a[label]; ok {
		return c
	}
	return label
}

// Subdivide redirects an aggregate country onto the part named by the
// secondary field. Rows of the aggregate without a matching part stay
// unresolved under the aggregate name.
func Subdivide(subs []config.Subdivision, country, region string) string {
	for _, s := range subs {
		if country != s.Aggregate || region == "" {
			continue
		}
		if slices.Contains(s.Parts, region) {
			return region
		}
	}
	return country
}

// Missing returns the sorted distinct labels of want that have no match in
// have.
func Missing(want, have []string) []string {
	seen := lo.SliceToMap(have, func(s string) (string, struct{}) { return s, struct{}{} })
	out := lo.Uniq(lo.Filter(want, func(s string, _ int) bool {
		_, ok := seen[s]
		return !ok
	}))
	slices.Sort(out)
	return out
}
