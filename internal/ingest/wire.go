package ingest

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/happykids/kidsdiag/internal/games"
)

// idNamespace scopes content-derived record IDs.
var idNamespace = uuid.MustParse("8b4f3c1e-2d7a-4e0b-9c55-6a1f0e2d3b71")

// flexID accepts string or numeric identifiers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number")
	}
	*f = flexID(n.String())
	return nil
}

// wireRecord is the export layout. Emotions come either nested or as flat
// top-level counters; nested wins per field.
type wireRecord struct {
	ID       flexID `json:"id"`
	ChildID  flexID `json:"child_id"`
	GameType string `json:"game_type"`
	Date     string `json:"date"`

	Emotions  *games.EmotionCounts `json:"emotions"`
	Anger     int                  `json:"anger"`
	Boredom   int                  `json:"boredom"`
	Joy       int                  `json:"joy"`
	Happiness int                  `json:"happiness"`
	Sorrow    int                  `json:"sorrow"`
	Love      int                  `json:"love"`

	Mistakes      int            `json:"mistakes"`
	MistakeTypes  map[string]int `json:"mistake_types"`
	HintsUsed     int            `json:"hints_used"`
	StrategyType  *string        `json:"strategy_type"`
	Accuracy      *float64       `json:"accuracy"`
	ReactionTime  *float64       `json:"reaction_time"`
	ReactionTimes []float64      `json:"reaction_times"`
	Metrics       map[string]any `json:"performance_metrics"`

	Drawing       *games.Drawing `json:"drawing_data"`
	DialogAnswers []string       `json:"dialog_answers"`
	Choices       []string       `json:"choices"`
	Session       *wireSession   `json:"session"`
}

// wireSession carries session times as strings so naive and date-only
// stamps parse the same way as the record date.
type wireSession struct {
	ID         flexID     `json:"id"`
	Completed  bool       `json:"completed"`
	StartTime  string     `json:"start_time"`
	EndTime    string     `json:"end_time"`
	Trajectory []wireStep `json:"behavior_trajectory"`
}

type wireStep struct {
	Timestamp string         `json:"timestamp"`
	Action    string         `json:"action"`
	Data      map[string]any `json:"data"`
}

// session converts the wire form. Session times are informational, so an
// unparseable stamp is left zero instead of rejecting the record.
func (w *wireSession) session() *games.Session {
	if w == nil {
		return nil
	}
	s := &games.Session{
		ID:        string(w.ID),
		Completed: w.Completed,
		StartedAt: optionalDate(w.StartTime),
		EndedAt:   optionalDate(w.EndTime),
	}
	for _, st := range w.Trajectory {
		s.Trajectory = append(s.Trajectory, games.TrajectoryStep{
			At:     optionalDate(st.Timestamp),
			Action: st.Action,
			Data:   st.Data,
		})
	}
	return s
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func optionalDate(s string) time.Time {
	if strings.TrimSpace(s) == "" {
		return time.Time{}
	}
	t, _ := parseDate(s)
	return t
}

func (w wireRecord) record(raw []byte) (games.Record, error) {
	played, err := parseDate(w.Date)
	if err != nil {
		return games.Record{}, err
	}

	rec := games.Record{
		ID:            string(w.ID),
		ChildID:       string(w.ChildID),
		Activity:      games.ParseActivity(w.GameType),
		PlayedAt:      played,
		Mistakes:      w.Mistakes,
		MistakeTypes:  w.MistakeTypes,
		HintsUsed:     w.HintsUsed,
		ReactionTimes: w.ReactionTimes,
		Drawing:       w.Drawing,
		DialogAnswers: w.DialogAnswers,
		Choices:       w.Choices,
		Session:       w.Session.session(),
	}
	if w.StrategyType != nil {
		rec.StrategyType = strings.TrimSpace(*w.StrategyType)
	}

	rec.Emotions = games.EmotionCounts{
		Anger: w.Anger, Boredom: w.Boredom, Joy: w.Joy,
		Happiness: w.Happiness, Sorrow: w.Sorrow, Love: w.Love,
	}
	if e := w.Emotions; e != nil {
		rec.Emotions = mergeEmotions(*e, rec.Emotions)
	}

	if len(rec.ReactionTimes) == 0 && w.ReactionTime != nil && *w.ReactionTime > 0 {
		rec.ReactionTimes = []float64{*w.ReactionTime}
	}

	if len(w.Metrics) > 0 {
		rec.Metrics = make(games.Metrics, len(w.Metrics))
		for k, v := range w.Metrics {
			switch x := v.(type) {
			case float64:
				rec.Metrics[k] = x
			case bool:
				if x {
					rec.Metrics[k] = 1
				} else {
					rec.Metrics[k] = 0
				}
			}
		}
	}

	if w.Accuracy != nil {
		rec.Accuracy = *w.Accuracy
	} else {
		rec.Accuracy = defaultAccuracy(rec.Mistakes, len(w.ReactionTimes))
	}
	return rec, nil
}

// mergeEmotions takes nested counters and fills zero fields from flat ones.
func mergeEmotions(nested, flat games.EmotionCounts) games.EmotionCounts {
	pick := func(a, b int) int {
		if a != 0 {
			return a
		}
		return b
	}
	return games.EmotionCounts{
		Anger:     pick(nested.Anger, flat.Anger),
		Boredom:   pick(nested.Boredom, flat.Boredom),
		Joy:       pick(nested.Joy, flat.Joy),
		Happiness: pick(nested.Happiness, flat.Happiness),
		Sorrow:    pick(nested.Sorrow, flat.Sorrow),
		Love:      pick(nested.Love, flat.Love),
	}
}

// defaultAccuracy derives accuracy when the export omits it: mistakes per
// recorded action, one action assumed when none were timed.
func defaultAccuracy(mistakes, actions int) float64 {
	if mistakes == 0 {
		return 1
	}
	if actions == 0 {
		actions = 1
	}
	return max(0, 1-float64(mistakes)/float64(actions))
}

// contentID derives a stable record ID so re-importing an export without
// ids does not duplicate rows.
func contentID(childID string, raw []byte) string {
	return uuid.NewSHA1(idNamespace, append([]byte(childID+"\x00"), raw...)).String()
}
