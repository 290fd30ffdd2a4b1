package games

import "strings"

// Activity identifies the kind of diagnostic game that produced a record.
// Values outside the known set are kept verbatim and treated generically.
type Activity string

const (
	ActivityPainting     Activity = "Painting"
	ActivityDialog       Activity = "Dialog"
	ActivityChoice       Activity = "Choice"
	ActivityPuzzle       Activity = "Puzzle"
	ActivityMemory       Activity = "Memory"
	ActivityAdventure    Activity = "Adventure"
	ActivitySequence     Activity = "Sequence"
	ActivityAttention    Activity = "Attention"
	ActivityGoNoGo       Activity = "GoNoGo"
	ActivitySort         Activity = "Sort"
	ActivityPattern      Activity = "Pattern"
	ActivityEmotionMatch Activity = "EmotionMatch"
	ActivityEmotionFace  Activity = "EmotionFace"
	ActivityReaction     Activity = "Reaction"
	ActivityMaze         Activity = "Maze"
)

// AllActivities lists every known activity in display order.
var AllActivities = []Activity{
	ActivityPainting, ActivityDialog, ActivityChoice, ActivityPuzzle,
	ActivityMemory, ActivityAdventure, ActivitySequence, ActivityAttention,
	ActivityGoNoGo, ActivitySort, ActivityPattern, ActivityEmotionMatch,
	ActivityEmotionFace, ActivityReaction, ActivityMaze,
}

var activityLabels = map[Activity]string{
	ActivityPainting:     "Рисование",
	ActivityDialog:       "Диалог",
	ActivityChoice:       "Выбор",
	ActivityPuzzle:       "Пазл",
	ActivityMemory:       "Память",
	ActivityAdventure:    "Приключение",
	ActivitySequence:     "Последовательность",
	ActivityAttention:    "Внимание",
	ActivityGoNoGo:       "Go/No-Go",
	ActivitySort:         "Сортировка",
	ActivityPattern:      "Закономерности",
	ActivityEmotionMatch: "Эмоции: пары",
	ActivityEmotionFace:  "Эмоции: лица",
	ActivityReaction:     "Реакция",
	ActivityMaze:         "Лабиринт",
}

// Known reports whether a is one of the enumerated activities.
func (a Activity) Known() bool {
	_, ok := activityLabels[a]
	return ok
}

// Label returns the display name, or the raw value for unknown activities.
func (a Activity) Label() string {
	if l, ok := activityLabels[a]; ok {
		return l
	}
	return string(a)
}

// Objective reports whether a is an instrumented game with scored outcomes.
func (a Activity) Objective() bool {
	switch a {
	case ActivityMemory, ActivityPuzzle, ActivitySequence, ActivityAttention,
		ActivityGoNoGo, ActivitySort, ActivityPattern, ActivityEmotionMatch:
		return true
	}
	return false
}

// Subjective reports whether a is a free-form activity.
func (a Activity) Subjective() bool {
	switch a {
	case ActivityPainting, ActivityDialog, ActivityChoice:
		return true
	}
	return false
}

// ParseActivity matches s case-insensitively against the known activities.
// Unknown values are returned trimmed but otherwise unchanged.
func ParseActivity(s string) Activity {
	s = strings.TrimSpace(s)
	for _, a := range AllActivities {
		if strings.EqualFold(string(a), s) {
			return a
		}
	}
	return Activity(s)
}
