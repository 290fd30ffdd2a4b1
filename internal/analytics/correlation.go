package analytics

import (
	"math"

	"github.com/happykids/kidsdiag/internal/fuzzy"
	"github.com/happykids/kidsdiag/internal/games"
)

// DefaultReactionTime stands in for records without reaction samples.
const DefaultReactionTime = 500.0

// CorrelationLabels are the eight indicators, emotions first.
var CorrelationLabels = []string{"гнев", "грусть", "радость", "счастье", "любовь", "скука", "точность", "время_реакции"}

var correlationEmotions = []games.Emotion{games.Anger, games.Sorrow, games.Joy, games.Happiness, games.Love, games.Boredom}

// Correlation is the symmetric Pearson matrix over the indicators.
type Correlation struct {
	Labels []string    `json:"labels"`
	Matrix [][]float64 `json:"matrix"`
}

// At returns the coefficient between labels i and j.
func (c Correlation) At(i, j int) float64 { return c.Matrix[i][j] }

func indicatorSeries(records []games.Record) [][]float64 {
	series := make([][]float64, len(CorrelationLabels))
	for _, r := range records {
		for i, e := range correlationEmotions {
			series[i] = append(series[i], float64(r.Emotions.Get(e)))
		}
		acc := 1.0
		if r.Mistakes != 0 {
			acc = 1 - float64(r.Mistakes)/10
		}
		series[6] = append(series[6], acc)
		rt, ok := r.MeanReactionTime()
		if !ok {
			rt = DefaultReactionTime
		}
		series[7] = append(series[7], rt)
	}
	return series
}

// pad extends every series to the longest length by repeating its last
// value, or 0 for an empty series.
func pad(series [][]float64) int {
	maxLen := 0
	for _, s := range series {
		maxLen = max(maxLen, len(s))
	}
	for i, s := range series {
		last := 0.0
		if len(s) > 0 {
			last = s[len(s)-1]
		}
		for len(s) < maxLen {
			s = append(s, last)
		}
		series[i] = s
	}
	return maxLen
}

// Pearson returns the correlation coefficient of x and y, NaN when either
// series has zero variance.
func Pearson(x, y []float64) float64 {
	n := min(len(x), len(y))
	if n < 2 {
		return math.NaN()
	}
	mx, _ := meanStd(x[:n])
	my, _ := meanStd(y[:n])
	var sxy, sxx, syy float64
	for i := range n {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	return sxy / math.Sqrt(sxx*syy)
}

// BuildCorrelation computes the 8x8 matrix. The diagonal is 1 and
// undefined coefficients are reported as 0.
func BuildCorrelation(records []games.Record) Correlation {
	series := indicatorSeries(records)
	length := pad(series)

	n := len(CorrelationLabels)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			c := 0.0
			if length > 1 {
				c = Pearson(series[i], series[j])
				if math.IsNaN(c) || math.IsInf(c, 0) {
					c = 0
				}
			}
			c = fuzzy.Round2(c)
			m[i][j], m[j][i] = c, c
		}
	}
	return Correlation{Labels: CorrelationLabels, Matrix: m}
}
