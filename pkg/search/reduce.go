package search

import (
	"slices"
	"strings"

	"github.com/tripmux/tripmux/pkg/fares"
)

// YearLimit caps year mode: one fare per month.
const YearLimit = 12

// CheapestPerMonth keeps the cheapest fare of every YYYY-MM, the first one
// on equal prices, sorted by month and capped at YearLimit. Fares without
// a month are dropped.
func CheapestPerMonth(in []fares.Fare) []fares.Fare {
	best := make(map[string]fares.Fare)
	for _, f := range in {
		key := f.Month()
		if key == "" {
			continue
		}
		if cur, ok := best[key]; !ok || f.Price.LessThan(cur.Price) {
			best[key] = f
		}
	}

	out := make([]fares.Fare, 0, len(best))
	for _, f := range best {
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b fares.Fare) int {
		return strings.Compare(a.Month(), b.Month())
	})

	if len(out) > YearLimit {
		out = out[:YearLimit]
	}
	return out
}
