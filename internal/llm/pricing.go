package llm

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD cost of a request.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

// LookupCost returns pricing for a model ID, or nil if unknown. Dated
// snapshot IDs fall back to their undated alias.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	if n := len(modelID); n > 9 && modelID[n-9] == '-' {
		if c, ok := modelCosts[modelID[:n-9]]; ok {
			return &c
		}
	}
	return nil
}

// Prices as published by the providers, 2026-02.
var modelCosts = map[string]ModelCost{
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4-5": {3, 15},
	"claude-opus-4-5":   {5, 25},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-5-mini":   {0.25, 2},

	"gemini-2.5-flash":        {0.3, 2.5},
	"gemini-2.5-flash-lite":   {0.1, 0.4},
	"gemini-2.5-pro":          {1.25, 10},
	"google/gemini-2.5-flash": {0.3, 2.5},
}
