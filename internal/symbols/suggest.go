package symbols

import (
	"strings"

	"golang.org/x/text/cases"
)

// ClosestName picks the candidate closest to want, for "did you mean"
// suggestions. A candidate that contains want (or vice versa) counts as
// very close, so "random" still suggests "getRandom"; otherwise edit
// distance applies with a cutoff of a third of the name's length
// (minimum 2). Comparison is case-folded.
func ClosestName(want string, candidates []string) (string, bool) {
	if want == "" || len(candidates) == 0 {
		return "", false
	}
	fold := cases.Fold()
	foldedWant := fold.String(want)

	limit := len(want) / 3
	if limit < 2 {
		limit = 2
	}
	best := ""
	bestDist := limit + 1
	for _, cand := range candidates {
		if cand == want {
			continue
		}
		foldedCand := fold.String(cand)
		d := editDistance(foldedWant, foldedCand)
		if len(foldedWant) >= 3 &&
			(strings.Contains(foldedCand, foldedWant) || strings.Contains(foldedWant, foldedCand)) {
			d = 1
		}
		if d < bestDist {
			best = cand
			bestDist = d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// editDistance is the Levenshtein distance over runes.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			ins := curr[j-1] + 1
			del := prev[j] + 1
			sub := prev[j-1] + cost
			m := ins
			if del < m {
				m = del
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
