package strategy

import "github.com/happykids/kidsdiag/internal/games"

// Error pattern names.
const (
	PatternNoData          = "no_data"
	PatternSystematic      = "systematic"
	PatternSystematicLight = "systematic_light"
	PatternImpulsive       = "impulsive"
	PatternRandom          = "random"
)

// ErrorPattern is a fuzzy classification of how a child makes mistakes.
type ErrorPattern struct {
	ErrorRate     float64        `json:"error_rate"`
	TotalMistakes int            `json:"total_mistakes"`
	Pattern       string         `json:"pattern"`
	Systematic    float64        `json:"systematic"`
	Impulsive     float64        `json:"impulsive"`
	Random        float64        `json:"random"`
	ErrorTypes    map[string]int `json:"error_types,omitempty"`
}

// AnalyzeErrors classifies the mistake rate per timed action into bands.
// Records without reaction-time samples contribute no actions.
func AnalyzeErrors(records []games.Record) ErrorPattern {
	var mistakes, actions int
	types := make(map[string]int)
	for _, r := range records {
		mistakes += r.Mistakes
		actions += len(r.ReactionTimes)
		for k, n := range r.MistakeTypes {
			types[k] += n
		}
	}
	if actions == 0 {
		return ErrorPattern{Pattern: PatternNoData}
	}

	p := ErrorPattern{
		ErrorRate:     float64(mistakes) / float64(actions),
		TotalMistakes: mistakes,
		ErrorTypes:    types,
	}
	switch {
	case p.ErrorRate < 0.1:
		p.Pattern, p.Systematic = PatternSystematic, 1
	case p.ErrorRate < 0.2:
		p.Pattern, p.Systematic, p.Impulsive = PatternSystematicLight, 0.7, 0.3
	case p.ErrorRate < 0.3:
		p.Pattern, p.Systematic, p.Impulsive, p.Random = PatternImpulsive, 0.2, 0.7, 0.1
	default:
		p.Pattern, p.Impulsive, p.Random = PatternRandom, 0.3, 0.8
	}
	return p
}
