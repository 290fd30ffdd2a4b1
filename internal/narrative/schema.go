package narrative

import (
	"fmt"

	"github.com/happykids/kidsdiag/internal/llm"
)

// Schema constrains the model output to the Narrative fields.
func Schema(maxTips int) *llm.Schema {
	return &llm.Schema{
		Name:        fmt.Sprintf("child-narrative-%d", maxTips),
		Description: "Plain-language summary of a child's diagnostic profile for parents and a specialist",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"summary": map[string]any{
					"type":        "string",
					"description": "3-5 warm, non-judgemental sentences for parents",
				},
				"parent_tips": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"minItems":    1,
					"maxItems":    maxTips,
					"description": "Concrete everyday activities, one sentence each",
				},
				"clinician_notes": map[string]any{
					"type":        "string",
					"description": "Short technical note for a psychologist: which signals drove the result and how reliable they are",
				},
			},
			"required":             []string{"summary", "parent_tips", "clinician_notes"},
			"additionalProperties": false,
		},
	}
}
