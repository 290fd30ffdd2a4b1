// Package emotion aggregates the emotion marks children leave after games
// and detects how they shift over time.
package emotion

import (
	"cmp"
	"slices"

	"github.com/happykids/kidsdiag/internal/games"
)

// Profile is the normalized emotional profile of a history.
type Profile struct {
	Totals   map[string]int     `json:"totals"`
	Shares   map[string]float64 `json:"shares"`
	Total    int                `json:"total"`
	Dominant []games.Emotion    `json:"-"`
}

// Share returns the normalized share of e.
func (p Profile) Share(e games.Emotion) float64 {
	return p.Shares[e.Key()]
}

// DominantKeys returns the dominant emotions as keys, for serialization.
func (p Profile) DominantKeys() []string {
	out := make([]string, len(p.Dominant))
	for i, e := range p.Dominant {
		out[i] = e.Key()
	}
	return out
}

// Analyze sums the emotion counters of records and normalizes them by the
// total mass. A zero total yields all-zero shares.
func Analyze(records []games.Record) Profile {
	var sums [len(games.AllEmotions)]int
	total := 0
	for _, r := range records {
		for _, e := range games.AllEmotions {
			n := r.Emotions.Get(e)
			sums[e] += n
			total += n
		}
	}

	p := Profile{
		Totals: make(map[string]int, len(sums)),
		Shares: make(map[string]float64, len(sums)),
		Total:  total,
	}
	for _, e := range games.AllEmotions {
		p.Totals[e.Key()] = sums[e]
		if total > 0 {
			p.Shares[e.Key()] = float64(sums[e]) / float64(total)
		} else {
			p.Shares[e.Key()] = 0
		}
	}

	ranked := slices.Clone(games.AllEmotions[:])
	slices.SortStableFunc(ranked, func(a, b games.Emotion) int {
		return cmp.Compare(sums[b], sums[a])
	})
	for _, e := range ranked[:3] {
		if sums[e] > 0 {
			p.Dominant = append(p.Dominant, e)
		}
	}
	return p
}
