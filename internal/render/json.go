package render

import (
	"encoding/json"
	"io"

	"github.com/happykids/kidsdiag/internal/emotion"
	"github.com/happykids/kidsdiag/internal/narrative"
	"github.com/happykids/kidsdiag/internal/profile"
)

// Document is the machine-readable form of a report.
type Document struct {
	*profile.Report
	// TrendsByLabel repeats the emotion trends under their display labels.
	TrendsByLabel map[string]emotion.Trend `json:"emotional_trends_by_label,omitempty"`
	Narrative     *narrative.Narrative     `json:"narrative,omitempty"`
}

// JSON writes r and n as indented JSON.
func JSON(w io.Writer, r *profile.Report, n *narrative.Narrative) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(Document{
		Report:        r,
		TrendsByLabel: r.Profile.Trends.Labeled(),
		Narrative:     n,
	})
}
