package narrative

import (
	"fmt"
	"slices"
	"strings"

	"github.com/happykids/kidsdiag/internal/games"
	"github.com/happykids/kidsdiag/internal/profile"
	"github.com/happykids/kidsdiag/internal/quality"
)

const systemPrompt = `Ты детский психолог, который объясняет результаты игровой диагностики родителям ребёнка 4-10 лет. Пиши по-русски, спокойно и без ярлыков. Не ставь медицинских диагнозов: это скрининг по игровым данным, а не заключение специалиста.`

// buildUserMessage lists the computed facts. The child's name is never
// sent; age is enough for the model.
func buildUserMessage(r *profile.Report, qcfg quality.Config, maxTips int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Возраст: %d лет\n", r.Guidelines.Age)
	fmt.Fprintf(&b, "Игровых сессий: %d\n", r.Records)

	b.WriteString("\nКачество диагностики:\n")
	for _, axis := range quality.Axes {
		v, ok := qcfg.Variables[axis]
		if !ok {
			continue
		}
		term, deg := v.Dominant(r.Profile.Quality.Axes[axis])
		label := term
		for _, t := range v.Terms {
			if t.Name == term {
				label = t.Label
			}
		}
		fmt.Fprintf(&b, "- %s: %s (%.2f)\n", v.Label, label, deg)
	}

	fmt.Fprintf(&b, "\nКогнитивный стиль: %s\n", r.Profile.CognitiveStyle.Label())
	fmt.Fprintf(&b, "Характер ошибок: %s (доля ошибок %.2f)\n", r.ErrorPattern.Pattern, r.ErrorPattern.ErrorRate)

	b.WriteString("\nЭмоции (доли):\n")
	for _, e := range games.AllEmotions {
		share := r.Profile.Emotions.Share(e)
		if share == 0 {
			continue
		}
		line := fmt.Sprintf("- %s: %.2f", e.Label(), share)
		if t := r.Profile.Trends.Of(e); t != "" {
			line += ", тренд " + string(t)
		}
		b.WriteString(line + "\n")
	}

	if len(r.Parameters) > 0 {
		b.WriteString("\nПараметры:\n")
		for _, p := range r.Parameters {
			fmt.Fprintf(&b, "- %s: %s (%.2f)\n", p.Name, p.DominantLabel, p.DominantDegree)
		}
	}

	b.WriteString("\nСовпадения с каталогом:\n")
	if len(r.Matches) == 0 {
		b.WriteString("нет\n")
	}
	for _, m := range r.Matches {
		fmt.Fprintf(&b, "- %s (степень %.2f)\n", m.Name, m.Degree)
	}

	if d := r.Dynamics; d != nil {
		fmt.Fprintf(&b, "\nДинамика благополучия: %s, среднее %.2f\n", d.Trend, d.Mean)
		for _, p := range slices.Concat(d.Problems, d.Improvements) {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}

	b.WriteString("\nРекомендации системы:\n")
	b.WriteString(r.Profile.Recommendations)

	fmt.Fprintf(&b, `

Задание:
1. summary: 3-5 предложений для родителей о том, что показали игры. Опирайся только на факты выше.
2. parent_tips: от 1 до %d конкретных занятий дома, по одному предложению.
3. clinician_notes: коротко для психолога, какие сигналы определили результат и насколько данные надёжны (учитывай число сессий).`, maxTips)

	return b.String()
}
