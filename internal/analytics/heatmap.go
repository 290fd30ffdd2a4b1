// Package analytics builds the auxiliary views of a report: the system
// heatmap, the wellbeing dynamics chart and the indicator correlation matrix.
package analytics

import (
	"github.com/happykids/kidsdiag/internal/emotion"
	"github.com/happykids/kidsdiag/internal/fuzzy"
	"github.com/happykids/kidsdiag/internal/games"
	"github.com/happykids/kidsdiag/internal/quality"
)

// Systems and Indicators are the fixed heatmap axes.
var (
	Systems    = []string{"когнитивная", "эмоциональная", "поведенческая", "регуляторная", "социальная"}
	Indicators = []string{"активность", "стабильность", "адаптивность"}
)

// Rand is the jitter source. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// Band is a severity band of a heatmap cell, in sigma-like units.
type Band struct {
	Name           string `json:"name"`
	Interpretation string `json:"interpretation"`
	Color          string `json:"color"`
}

var bands = []Band{
	{"far_below", "Значительно ниже нормы", "#d73027"},
	{"below", "Ниже нормы", "#fc8d59"},
	{"norm", "В пределах нормы", "#91cf60"},
	{"above", "Выше нормы", "#91bfdb"},
	{"far_above", "Значительно выше нормы", "#4575b4"},
}

// Classify returns the band of v.
func Classify(v float64) Band {
	switch {
	case v < -0.7:
		return bands[0]
	case v < -0.3:
		return bands[1]
	case v <= 0.3:
		return bands[2]
	case v <= 0.7:
		return bands[3]
	}
	return bands[4]
}

// Cell is one heatmap value.
type Cell struct {
	Value float64 `json:"value"`
	Band  Band    `json:"band"`
}

// Heatmap is the systems by indicators matrix. Jittered cells are
// illustrative only and carry no diagnostic meaning.
type Heatmap struct {
	Systems    []string  `json:"systems"`
	Indicators []string  `json:"indicators"`
	Base       []float64 `json:"base"`
	Cells      [][]Cell  `json:"cells"`
	Jittered   bool      `json:"jittered"`
}

// Matrix returns the bare values.
func (h Heatmap) Matrix() [][]float64 {
	out := make([][]float64, len(h.Cells))
	for i, row := range h.Cells {
		out[i] = make([]float64, len(row))
		for j, c := range row {
			out[i][j] = c.Value
		}
	}
	return out
}

// HeatmapInput carries the parts of a profile the heatmap reads.
type HeatmapInput struct {
	Radar    quality.Radar
	Emotions emotion.Profile
}

// Jitter is the maximum absolute perturbation added to each cell.
const Jitter = 0.3

// SystemScores returns the deterministic base score of each system.
func SystemScores(in HeatmapInput) []float64 {
	radar := func(axis string) float64 {
		if v, ok := in.Radar[axis]; ok {
			return v
		}
		return 50
	}
	share := in.Emotions.Share
	return []float64{
		(radar(quality.Objectivity)/50 - 1) * 1.5,
		((share(games.Joy)+share(games.Happiness))/0.3 - 1) * 1.2,
		(radar(quality.EcologicalValidity)/50 - 1) * 1.0,
		(radar(quality.DynamicAssessment)/50 - 1) * 1.3,
		(share(games.Love)/0.2 - 1) * 1.0,
	}
}

// BuildHeatmap fills every indicator of a system with its base score plus a
// uniform perturbation in [-Jitter, Jitter) drawn from rnd. A nil rnd
// disables the perturbation.
func BuildHeatmap(in HeatmapInput, rnd Rand) Heatmap {
	base := SystemScores(in)
	h := Heatmap{
		Systems:    Systems,
		Indicators: Indicators,
		Base:       make([]float64, len(base)),
		Cells:      make([][]Cell, len(base)),
		Jittered:   rnd != nil,
	}
	for i, b := range base {
		h.Base[i] = fuzzy.Round2(b)
		row := make([]Cell, len(Indicators))
		for j := range row {
			v := b
			if rnd != nil {
				v += (rnd.Float64()*2 - 1) * Jitter
			}
			v = fuzzy.Round2(v)
			row[j] = Cell{Value: v, Band: Classify(v)}
		}
		h.Cells[i] = row
	}
	return h
}
