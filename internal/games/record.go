package games

import "time"

// Performance metric keys. Which keys are present depends on the activity.
const (
	MetricAttempts         = "attempts"
	MetricPairsFound       = "pairs_found"
	MetricLevelsCompleted  = "levels_completed"
	MetricMoves            = "moves"
	MetricCompleted        = "completed"
	MetricLevelReached     = "level_reached"
	MetricCorrect          = "correct"
	MetricTotal            = "total"
	MetricCommissionErrors = "commission_errors"
	MetricOmissionErrors   = "omission_errors"
	MetricHintsUsed        = "hints_used"
)

// Mistake type keys used by MistakeTypes.
const (
	MistakeInhibition = "inhibition"
	MistakeAttention  = "attention"
)

// Metrics is the free-form performance metric mapping of a record.
type Metrics map[string]float64

// Get returns the metric value or 0.
func (m Metrics) Get(key string) float64 {
	return m[key]
}

// Has reports whether key is present.
func (m Metrics) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Flag reports whether key is present and non-zero.
func (m Metrics) Flag(key string) bool {
	return m[key] != 0
}

// Record is one game result. Records are treated as immutable once built.
type Record struct {
	ID            string         `json:"id"`
	ChildID       string         `json:"child_id"`
	Activity      Activity       `json:"game_type"`
	PlayedAt      time.Time      `json:"date"`
	Emotions      EmotionCounts  `json:"emotions"`
	Mistakes      int            `json:"mistakes"`
	MistakeTypes  map[string]int `json:"mistake_types,omitempty"`
	HintsUsed     int            `json:"hints_used"`
	StrategyType  string         `json:"strategy_type,omitempty"`
	Accuracy      float64        `json:"accuracy"`
	Metrics       Metrics        `json:"performance_metrics,omitempty"`
	ReactionTimes []float64      `json:"reaction_times,omitempty"`
	Drawing       *Drawing       `json:"drawing,omitempty"`
	DialogAnswers []string       `json:"dialog_answers,omitempty"`
	Choices       []string       `json:"choices,omitempty"`
	Session       *Session       `json:"session,omitempty"`
}

// Drawing describes a painting payload. The image itself is stored elsewhere.
type Drawing struct {
	HasImage bool     `json:"has_image"`
	Colors   []string `json:"colors,omitempty"`
	Regions  int      `json:"regions,omitempty"`
}

// Session is the game session a record belongs to.
type Session struct {
	ID         string           `json:"id,omitempty"`
	Completed  bool             `json:"completed"`
	StartedAt  time.Time        `json:"start_time,omitzero"`
	EndedAt    time.Time        `json:"end_time,omitzero"`
	Trajectory []TrajectoryStep `json:"behavior_trajectory,omitempty"`
}

// TrajectoryStep is one logged in-game action.
type TrajectoryStep struct {
	At     time.Time      `json:"timestamp"`
	Action string         `json:"action"`
	Data   map[string]any `json:"data,omitempty"`
}

// Hints returns the hint count, falling back to the hints_used metric.
func (r Record) Hints() int {
	if r.HintsUsed > 0 {
		return r.HintsUsed
	}
	return int(r.Metrics.Get(MetricHintsUsed))
}

// SessionCompleted reports whether the owning session finished.
func (r Record) SessionCompleted() bool {
	return r.Session != nil && r.Session.Completed
}

// HasDrawing reports whether a drawing with an image payload exists.
func (r Record) HasDrawing() bool {
	return r.Drawing != nil && r.Drawing.HasImage
}

// MeanReactionTime returns the mean of ReactionTimes and false when empty.
func (r Record) MeanReactionTime() (float64, bool) {
	if len(r.ReactionTimes) == 0 {
		return 0, false
	}
	var sum float64
	for _, rt := range r.ReactionTimes {
		sum += rt
	}
	return sum / float64(len(r.ReactionTimes)), true
}

// DistinctActivities counts the distinct activity values in records.
func DistinctActivities(records []Record) int {
	seen := make(map[Activity]struct{}, len(records))
	for _, r := range records {
		seen[r.Activity] = struct{}{}
	}
	return len(seen)
}
