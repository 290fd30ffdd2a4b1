package emotion

import (
	"slices"

	"github.com/happykids/kidsdiag/internal/games"
)

// Trend is the direction of an emotion between the earlier and later half
// of a history.
type Trend string

const (
	Increasing Trend = "increasing"
	Decreasing Trend = "decreasing"
	Stable     Trend = "stable"
)

// TrendConfig sets the ratios that count as a real change.
type TrendConfig struct {
	Rise float64 `toml:"rise" json:"rise"`
	Fall float64 `toml:"fall" json:"fall"`
}

// DefaultTrendConfig returns the ±20% band.
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{Rise: 1.2, Fall: 0.8}
}

// Trends holds one trend per emotion key, or Insufficient when the history
// is too short to compare.
type Trends struct {
	Insufficient bool             `json:"insufficient_data,omitempty"`
	ByEmotion    map[string]Trend `json:"by_emotion,omitempty"`
}

// Of returns the trend for e, or "" when Insufficient.
func (t Trends) Of(e games.Emotion) Trend {
	return t.ByEmotion[e.Key()]
}

// Lookup returns the trend for an emotion named by key ("joy") or by
// display label ("радость"). Unknown names yield "".
func (t Trends) Lookup(name string) Trend {
	e, err := games.ParseEmotion(name)
	if err != nil {
		return ""
	}
	return t.Of(e)
}

// Labeled returns the trends keyed by display label, or nil when
// Insufficient.
func (t Trends) Labeled() map[string]Trend {
	if t.ByEmotion == nil {
		return nil
	}
	out := make(map[string]Trend, len(t.ByEmotion))
	for _, e := range games.AllEmotions {
		if tr, ok := t.ByEmotion[e.Key()]; ok {
			out[e.Label()] = tr
		}
	}
	return out
}

// DetectTrends orders records chronologically, splits them at n/2 and
// compares the mean of each half per emotion.
func DetectTrends(records []games.Record, cfg TrendConfig) Trends {
	if len(records) < 2 {
		return Trends{Insufficient: true}
	}
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b games.Record) int {
		return a.PlayedAt.Compare(b.PlayedAt)
	})

	half := len(sorted) / 2
	out := Trends{ByEmotion: make(map[string]Trend, len(games.AllEmotions))}
	for _, e := range games.AllEmotions {
		first := meanOf(sorted[:half], e)
		second := meanOf(sorted[half:], e)
		switch {
		case second > first*cfg.Rise:
			out.ByEmotion[e.Key()] = Increasing
		case second < first*cfg.Fall:
			out.ByEmotion[e.Key()] = Decreasing
		default:
			out.ByEmotion[e.Key()] = Stable
		}
	}
	return out
}

func meanOf(records []games.Record, e games.Emotion) float64 {
	var sum int
	for _, r := range records {
		sum += r.Emotions.Get(e)
	}
	return float64(sum) / float64(len(records))
}
