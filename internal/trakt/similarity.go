package trakt

import (
	"cmp"
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	scoredHits    = 5    // Search hits compared against the query.
	closeMargin   = 0.05 // Hits this close to the best score are ambiguous...
	closeFloor    = 0.8  // ...as long as they also score at least this.
	scoreEpsilon  = 1e-9
	maxCandidates = 5
)

// similarity is the matching-blocks ratio 2*M/T of two titles compared
// rune by rune, case-insensitive: 1 for identical strings, 0 for nothing
// in common.
func similarity(a, b string) float64 {
	return difflib.NewMatcher(runes(strings.ToLower(a)), runes(strings.ToLower(b))).Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

type scoredHit struct {
	score float64
	movie TraktMovie
}

// scoreHits scores the first scoredHits results against title, best
// first. Results without a movie title are ignored.
func scoreHits(title string, results []SearchResult) []scoredHit {
	var hits []scoredHit
	for _, r := range results[:min(len(results), scoredHits)] {
		if r.Movie == nil || r.Movie.Title == "" {
			continue
		}
		hits = append(hits, scoredHit{score: similarity(title, r.Movie.Title), movie: *r.Movie})
	}
	slices.SortStableFunc(hits, func(a, b scoredHit) int {
		return cmp.Compare(b.score, a.score)
	})
	return hits
}

// pickBest chooses the winning hit from hits, which must be sorted best
// first and non-empty. When several hits are close to the best, a year
// matching exactly one of them breaks the tie; otherwise the close hits
// are returned as candidates and best is meaningless.
func pickBest(hits []scoredHit, year *int) (best scoredHit, candidates []scoredHit) {
	best = hits[0]

	var near []scoredHit
	for _, h := range hits {
		if h.score >= best.score-closeMargin-scoreEpsilon && h.score >= closeFloor-scoreEpsilon {
			near = append(near, h)
		}
	}
	if len(near) <= 1 {
		return best, nil
	}

	if year != nil {
		var byYear []scoredHit
		for _, h := range near {
			if h.movie.Year != nil && *h.movie.Year == *year {
				byYear = append(byYear, h)
			}
		}
		if len(byYear) == 1 {
			return byYear[0], nil
		}
	}
	return scoredHit{}, near[:min(len(near), maxCandidates)]
}
