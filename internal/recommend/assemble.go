// Package recommend turns a scored profile and its matched diagnoses into
// the free-text recommendations shown to clinicians and parents.
package recommend

import (
	"fmt"
	"strings"

	"github.com/happykids/kidsdiag/internal/diagnosis"
	"github.com/happykids/kidsdiag/internal/emotion"
	"github.com/happykids/kidsdiag/internal/games"
	"github.com/happykids/kidsdiag/internal/quality"
	"github.com/happykids/kidsdiag/internal/strategy"
)

// InsufficientData is the recommendation for a child without any history.
const InsufficientData = "Недостаточно данных для анализа. Проведите больше игровых сессий."

// Kind tells where a block came from.
type Kind string

const (
	KindDiagnosis Kind = "diagnosis"
	KindBoundary  Kind = "boundary"
	KindHeuristic Kind = "heuristic"
	KindDefault   Kind = "default"
)

// Severity grades boundary blocks.
type Severity string

const (
	SeverityUrgent   Severity = "urgent"
	SeverityModerate Severity = "moderate"
	SeverityInfo     Severity = "info"
)

// Block is one paragraph of the recommendation text.
type Block struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code,omitempty"`
	Text     string   `json:"text"`
}

// Text is the ordered list of blocks.
type Text struct {
	Blocks []Block `json:"blocks"`
}

// String joins the blocks with blank lines.
func (t Text) String() string {
	parts := make([]string, len(t.Blocks))
	for i, b := range t.Blocks {
		parts[i] = b.Text
	}
	return strings.Join(parts, "\n\n")
}

// Empty reports whether the text has no blocks.
func (t Text) Empty() bool { return len(t.Blocks) == 0 }

// Config holds the fixed thresholds of the boundary and generic heuristics.
type Config struct {
	UrgentShare     float64 `toml:"urgent_share" json:"urgent_share"`
	ModerateShare   float64 `toml:"moderate_share" json:"moderate_share"`
	LowMotivation   float64 `toml:"low_motivation" json:"low_motivation"`
	HighMotivation  float64 `toml:"high_motivation" json:"high_motivation"`
	DepthSufficient float64 `toml:"depth_sufficient" json:"depth_sufficient"`
	NegativeShare   float64 `toml:"negative_share" json:"negative_share"`
}

// DefaultConfig returns the calibrated thresholds.
func DefaultConfig() Config {
	return Config{
		UrgentShare:     0.5,
		ModerateShare:   0.35,
		LowMotivation:   0.6,
		HighMotivation:  0.7,
		DepthSufficient: 0.5,
		NegativeShare:   0.3,
	}
}

// Input is what the assembler reads.
type Input struct {
	Quality  quality.Assessment
	Style    strategy.Style
	Emotions emotion.Profile
	Matches  []diagnosis.Match
}

// Assemble builds the recommendation text: matched diagnoses first, then the
// boundary blocks, then the generic one-liners. Nothing to say yields a
// single reassuring block.
func Assemble(in Input, cfg Config) Text {
	var t Text
	for _, m := range in.Matches {
		t.Blocks = append(t.Blocks, diagnosisBlock(m))
	}
	t.Blocks = append(t.Blocks, boundaryBlocks(in, cfg)...)
	t.Blocks = append(t.Blocks, heuristicBlocks(in, cfg)...)
	if len(t.Blocks) == 0 {
		t.Blocks = append(t.Blocks, Block{
			Kind:     KindDefault,
			Severity: SeverityInfo,
			Text: "👍 Эмоциональный и когнитивный профиль в норме. " +
				"Продолжайте регулярные игровые сессии для мониторинга динамики развития.",
		})
	}
	return t
}

func diagnosisBlock(m diagnosis.Match) Block {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 %s (степень соответствия %.0f%%)", m.Name, m.Degree*100)
	if rec := m.Entry.Recommendation; rec != "" {
		sb.WriteString("\n")
		sb.WriteString(rec)
	}
	if iv := m.Entry.Intervention.Text; iv != "" {
		sb.WriteString("\nНазначение: ")
		sb.WriteString(iv)
	}
	return Block{Kind: KindDiagnosis, Severity: SeverityInfo, Code: m.Code, Text: sb.String()}
}

type boundaryText struct {
	emotion  games.Emotion
	urgent   string
	moderate string
}

var boundaryTexts = []boundaryText{
	{
		emotion: games.Sorrow,
		urgent: "🚨 Грусть составляет не менее половины всех отмеченных эмоций. " +
			"Требуется срочная консультация детского психолога.",
		moderate: "⚠️ Доля грусти заметно повышена. " +
			"Рекомендуется наблюдение и беседа с ребёнком о его переживаниях.",
	},
	{
		emotion: games.Anger,
		urgent: "🚨 Гнев составляет не менее половины всех отмеченных эмоций. " +
			"Требуется срочная консультация специалиста по эмоциональной регуляции.",
		moderate: "⚠️ Доля гнева заметно повышена. " +
			"Рекомендуются упражнения на распознавание и безопасное выражение эмоций.",
	},
}

func boundaryBlocks(in Input, cfg Config) []Block {
	var out []Block
	for _, bt := range boundaryTexts {
		share := in.Emotions.Share(bt.emotion)
		switch {
		case share >= cfg.UrgentShare:
			out = append(out, Block{Kind: KindBoundary, Severity: SeverityUrgent, Code: bt.emotion.Key(), Text: bt.urgent})
		case share >= cfg.ModerateShare:
			out = append(out, Block{Kind: KindBoundary, Severity: SeverityModerate, Code: bt.emotion.Key(), Text: bt.moderate})
		}
	}

	low, _ := in.Quality.Get(quality.MotivationalPotential, "low")
	if low > cfg.LowMotivation && in.Style == strategy.Impulsive {
		out = append(out, Block{
			Kind:     KindBoundary,
			Severity: SeverityModerate,
			Code:     "low_motivation_impulsive",
			Text: "⚠️ Сниженная мотивация сочетается с импульсивным стилем. " +
				"Рекомендуется исключить нарушения внимания: консультация невролога и психолога.",
		})
	}
	return out
}

func heuristicBlocks(in Input, cfg Config) []Block {
	var out []Block
	add := func(text string) {
		out = append(out, Block{Kind: KindHeuristic, Severity: SeverityInfo, Text: text})
	}

	if high, _ := in.Quality.Get(quality.DiagnosticDepth, "high"); high < cfg.DepthSufficient {
		add("✅ Рекомендуется провести дополнительные игровые сессии для углублённой диагностики. " +
			"Разнообразьте типы игр для получения более полной картины.")
	}

	low, _ := in.Quality.Get(quality.MotivationalPotential, "low")
	high, _ := in.Quality.Get(quality.MotivationalPotential, "high")
	switch {
	case low > cfg.LowMotivation:
		add("⚠️ Наблюдается сниженная мотивация к выполнению заданий. " +
			"Рекомендуется использовать более короткие игровые сессии и добавлять элементы поощрения.")
	case high > cfg.HighMotivation:
		add("🌟 Ребёнок проявляет высокую мотивацию к игровой диагностике. " +
			"Это создаёт благоприятные условия для получения достоверных результатов.")
	}

	switch in.Style {
	case strategy.Impulsive:
		add("🧠 Выявлен импульсивный стиль решения задач. " +
			"Рекомендуются упражнения на развитие самоконтроля и внимания: " +
			"игры на последовательное выполнение инструкций, задания с отсроченным ответом.")
	case strategy.Systematic:
		add("📊 Ребёнок демонстрирует систематический подход к решению задач. " +
			"Это указывает на хорошее развитие планирования и контроля. " +
			"Поддерживайте этот стиль, предлагая задачи с возрастающей сложностью.")
	case strategy.Adaptive:
		add("🎯 Отмечается адаптивный стиль: ребёнок успешно меняет стратегии при изменении условий. " +
			"Это признак гибкости мышления. Рекомендуются задания, требующие переключения между правилами.")
	}

	for _, e := range in.Emotions.Dominant {
		if e.Positive() || in.Emotions.Share(e) <= cfg.NegativeShare {
			continue
		}
		switch e {
		case games.Anger:
			add("😠 Повышенный уровень гнева может указывать на фрустрацию. " +
				"Рекомендуется включать в занятия элементы релаксации и упражнения на выражение эмоций.")
		case games.Sorrow:
			add("😔 Преобладание грусти в эмоциональном профиле. " +
				"Рекомендуется консультация психолога для выяснения причин.")
		case games.Boredom:
			add("😐 Высокий уровень скуки может свидетельствовать о недостаточной сложности заданий. " +
				"Попробуйте увеличить уровень сложности игр или разнообразить их.")
		}
	}
	return out
}
