package ranking

import (
	"sort"
	"time"
)

// Strategy names an ordering for rated content.
type Strategy string

const (
	SortNew           Strategy = "new"
	SortOld           Strategy = "old"
	SortTop           Strategy = "top"
	SortControversial Strategy = "controversial"
	SortMostRelevant  Strategy = "most_relevant" // search results only, see relevance.go
)

// ParseStrategy maps a request parameter to a Strategy. Unrecognized values
// fall open to SortNew so a bad query string never fails the request.
func ParseStrategy(s string) Strategy {
	switch Strategy(s) {
	case SortNew, SortOld, SortTop, SortControversial, SortMostRelevant:
		return Strategy(s)
	default:
		return SortNew
	}
}

// Ranked is anything carrying a creation timestamp and vote metrics.
type Ranked interface {
	RankCreatedAt() time.Time
	RankMetrics() Metrics
}

// SortBy orders items in place by the given strategy.
//
//	new:           newest first
//	old:           oldest first
//	top:           total score desc, then total votes desc, then newest first
//	controversial: controversy desc, then total votes desc, then newest first
//
// Anything else behaves as new. Sorting is stable, so items sharing identical
// timestamps keep a consistent relative order for a given input.
func SortBy[T Ranked](items []T, strategy Strategy) {
	switch strategy {
	case SortOld:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].RankCreatedAt().Before(items[j].RankCreatedAt())
		})
	case SortTop:
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i].RankMetrics(), items[j].RankMetrics()
			if a.TotalScore != b.TotalScore {
				return a.TotalScore > b.TotalScore
			}
			if a.TotalVotes != b.TotalVotes {
				return a.TotalVotes > b.TotalVotes
			}
			return items[i].RankCreatedAt().After(items[j].RankCreatedAt())
		})
	case SortControversial:
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i].RankMetrics(), items[j].RankMetrics()
			if a.ControversyScore != b.ControversyScore {
				return a.ControversyScore > b.ControversyScore
			}
			if a.TotalVotes != b.TotalVotes {
				return a.TotalVotes > b.TotalVotes
			}
			return items[i].RankCreatedAt().After(items[j].RankCreatedAt())
		})
	default: // new
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].RankCreatedAt().After(items[j].RankCreatedAt())
		})
	}
}
