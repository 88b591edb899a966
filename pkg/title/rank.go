package title

import (
	"regexp"
	"slices"

	"github.com/hbollon/go-edlib"
)

var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// Score returns the Jaro-Winkler similarity of two titles after cleaning,
// adjusted for matching or conflicting sequence numbers.
func Score(query, candidate string) float64 {
	q := Clean(query)
	c := Clean(candidate)
	score := float64(edlib.JaroWinklerSimilarity(q, c))
	return adjustScoreForNumbers(score, numberRegex.FindAllString(q, -1), numberRegex.FindAllString(c, -1))
}

// Rank orders items by how closely their title matches query, best first.
// Ties keep the input order, so the backend's own relevance still counts.
// At most limit items are returned; limit <= 0 means no limit.
func Rank[T any](query string, items []T, titleOf func(T) string, limit int) []T {
	type scored struct {
		item  T
		score float64
	}
	ranked := make([]scored, len(items))
	for i, item := range items {
		ranked[i] = scored{item: item, score: Score(query, titleOf(item))}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]T, len(ranked))
	for i, r := range ranked {
		out[i] = r.item
	}
	return out
}

// adjustScoreForNumbers rewards a shared sequence number and penalizes a
// missing or different one, when the query carries one.
func adjustScoreForNumbers(score float64, queryNums, candidateNums []string) float64 {
	if len(queryNums) == 0 {
		return score
	}
	if len(candidateNums) == 0 {
		return score * 0.85
	}
	for _, n := range queryNums {
		if slices.Contains(candidateNums, n) {
			return min(score*1.05, 1.0)
		}
	}
	return score * 0.90
}
