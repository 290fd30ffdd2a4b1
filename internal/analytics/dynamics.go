package analytics

import (
	"math"
	"slices"

	"github.com/happykids/kidsdiag/internal/games"
)

// Trend direction of the wellbeing series.
const (
	TrendImproving = "improving"
	TrendWorsening = "worsening"
	TrendStable    = "stable"
)

// DynamicsConfig holds the corridor geometry and the trend thresholds.
type DynamicsConfig struct {
	Base           float64 `toml:"base" json:"base"`
	Step           float64 `toml:"step" json:"step"`
	Percentiles    []int   `toml:"percentiles" json:"percentiles"`
	TrendThreshold float64 `toml:"trend_threshold" json:"trend_threshold"`
	StdLimit       float64 `toml:"std_limit" json:"std_limit"`
	CVLimit        float64 `toml:"cv_limit" json:"cv_limit"`
	LowFactor      float64 `toml:"low_factor" json:"low_factor"`
	DateLayout     string  `toml:"date_layout" json:"date_layout"`
}

// DefaultDynamicsConfig returns the reference corridors.
func DefaultDynamicsConfig() DynamicsConfig {
	return DynamicsConfig{
		Base:           5,
		Step:           0.3,
		Percentiles:    []int{3, 10, 25, 50, 75, 90, 97},
		TrendThreshold: 0.5,
		StdLimit:       1.2,
		CVLimit:        0.4,
		LowFactor:      0.85,
		DateLayout:     "02.01",
	}
}

// corridor returns the constant level of percentile p.
func (c DynamicsConfig) corridor(p int) float64 {
	return c.Base + float64(p)*c.Step
}

// Dynamics is the wellbeing time series with its reference corridors. The
// corridors are synthetic and only frame the chart.
type Dynamics struct {
	Dates        []string    `json:"dates"`
	Values       []float64   `json:"values"`
	Percentiles  []int       `json:"percentiles"`
	Corridors    [][]float64 `json:"corridors"`
	MeanLine     []float64   `json:"mean_line"`
	Mean         float64     `json:"mean"`
	Std          float64     `json:"std"`
	Trend        string      `json:"trend"`
	Problems     []string    `json:"problems,omitempty"`
	Improvements []string    `json:"improvements,omitempty"`
}

// Wellbeing is the per-record proxy joy + happiness + success, where success
// is 1 - mistakes/10.
func Wellbeing(r games.Record) float64 {
	success := 1.0
	if r.Mistakes != 0 {
		success = 1 - float64(r.Mistakes)/10
	}
	return float64(r.Emotions.Joy+r.Emotions.Happiness) + success
}

// BuildDynamics returns nil for fewer than two records.
func BuildDynamics(records []games.Record, cfg DynamicsConfig) *Dynamics {
	if len(records) < 2 {
		return nil
	}
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b games.Record) int {
		return a.PlayedAt.Compare(b.PlayedAt)
	})

	n := len(sorted)
	d := &Dynamics{
		Dates:       make([]string, n),
		Values:      make([]float64, n),
		Percentiles: slices.Clone(cfg.Percentiles),
		Corridors:   make([][]float64, len(cfg.Percentiles)),
		MeanLine:    make([]float64, n),
	}
	for i, r := range sorted {
		d.Dates[i] = r.PlayedAt.Format(cfg.DateLayout)
		d.Values[i] = Wellbeing(r)
		d.MeanLine[i] = cfg.Base + 50*cfg.Step/100
	}
	for i, p := range cfg.Percentiles {
		row := make([]float64, n)
		for j := range row {
			row[j] = cfg.corridor(p)
		}
		d.Corridors[i] = row
	}

	d.Mean, d.Std = meanStd(d.Values)
	first, _ := meanStd(d.Values[:n/2])
	second, _ := meanStd(d.Values[n/2:])
	switch diff := second - first; {
	case diff > cfg.TrendThreshold:
		d.Trend = TrendImproving
		d.Improvements = append(d.Improvements, "Показатель благополучия растёт: вторая половина сессий выше первой.")
	case diff < -cfg.TrendThreshold:
		d.Trend = TrendWorsening
		d.Problems = append(d.Problems, "Показатель благополучия снижается: вторая половина сессий ниже первой.")
	default:
		d.Trend = TrendStable
		unstable := d.Std > cfg.StdLimit || (n >= 3 && d.Mean > 0 && d.Std/d.Mean > cfg.CVLimit)
		if unstable {
			d.Problems = append(d.Problems, "Выраженные колебания показателя при отсутствии общего тренда.")
		}
	}
	if d.Mean < cfg.LowFactor*cfg.corridor(50) {
		d.Problems = append(d.Problems, "Показатель устойчиво ниже медианы референсного коридора.")
	}
	return d
}

// meanStd returns the mean and population standard deviation, zeros for an
// empty slice.
func meanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		std += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(std / float64(len(xs)))
}
