package strategy

import "github.com/happykids/kidsdiag/internal/games"

// Tally is the vote count per style, with styles in first-vote order.
type Tally struct {
	Order  []Style       `json:"order"`
	Counts map[Style]int `json:"counts"`
}

// Winner returns the most voted style. Ties go to the style that received
// its first vote earliest. No votes yields Unknown.
func (t Tally) Winner() Style {
	best, bestN := Unknown, 0
	for _, s := range t.Order {
		if n := t.Counts[s]; n > bestN {
			best, bestN = s, n
		}
	}
	return best
}

// Count runs every voter over every record.
func Count(records []games.Record, voters []Voter) Tally {
	t := Tally{Counts: make(map[Style]int)}
	for _, r := range records {
		for _, v := range voters {
			s, ok := v.Vote(r)
			if !ok {
				continue
			}
			if t.Counts[s] == 0 {
				t.Order = append(t.Order, s)
			}
			t.Counts[s]++
		}
	}
	return t
}

// Classify returns the winning style for records.
func Classify(records []games.Record, voters []Voter) Style {
	return Count(records, voters).Winner()
}
