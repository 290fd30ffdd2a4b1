package games

import (
	"fmt"
	"strings"
)

// Emotion is one of the six emotions a child can mark after a game.
type Emotion int

const (
	Anger Emotion = iota
	Boredom
	Joy
	Happiness
	Sorrow
	Love
)

// AllEmotions lists the emotions in canonical order.
var AllEmotions = [...]Emotion{Anger, Boredom, Joy, Happiness, Sorrow, Love}

var emotionNames = [...]struct{ key, label string }{
	Anger:     {"anger", "гнев"},
	Boredom:   {"boredom", "скука"},
	Joy:       {"joy", "радость"},
	Happiness: {"happiness", "счастье"},
	Sorrow:    {"sorrow", "грусть"},
	Love:      {"love", "любовь"},
}

// Key returns the stable English identifier.
func (e Emotion) Key() string {
	if e < 0 || int(e) >= len(emotionNames) {
		return fmt.Sprintf("emotion(%d)", int(e))
	}
	return emotionNames[e].key
}

// Label returns the Russian display label.
func (e Emotion) Label() string {
	if e < 0 || int(e) >= len(emotionNames) {
		return e.Key()
	}
	return emotionNames[e].label
}

func (e Emotion) String() string { return e.Key() }

// Positive reports whether e counts toward wellbeing.
func (e Emotion) Positive() bool {
	return e == Joy || e == Happiness || e == Love
}

// ParseEmotion accepts either the English key or the Russian label.
func ParseEmotion(s string) (Emotion, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, e := range AllEmotions {
		if s == emotionNames[e].key || s == emotionNames[e].label {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown emotion %q", s)
}

// EmotionCounts holds the per-record emotion marks.
type EmotionCounts struct {
	Anger     int `json:"anger"`
	Boredom   int `json:"boredom"`
	Joy       int `json:"joy"`
	Happiness int `json:"happiness"`
	Sorrow    int `json:"sorrow"`
	Love      int `json:"love"`
}

// Get returns the counter for e.
func (c EmotionCounts) Get(e Emotion) int {
	switch e {
	case Anger:
		return c.Anger
	case Boredom:
		return c.Boredom
	case Joy:
		return c.Joy
	case Happiness:
		return c.Happiness
	case Sorrow:
		return c.Sorrow
	case Love:
		return c.Love
	}
	return 0
}

// Total sums every counter.
func (c EmotionCounts) Total() int {
	return c.Anger + c.Boredom + c.Joy + c.Happiness + c.Sorrow + c.Love
}
