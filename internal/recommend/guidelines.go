package recommend

import "time"

// DefaultAge is assumed when the birth date is unknown.
const DefaultAge = 7

// Guidelines are the age-based hygiene baselines shown next to the
// individual recommendations.
type Guidelines struct {
	Age       int      `json:"age"`
	Sleep     string   `json:"sleep"`
	Screen    string   `json:"screen"`
	Physical  string   `json:"physical"`
	Nutrition []string `json:"nutrition"`
	Cognitive []string `json:"cognitive"`
	Emotional []string `json:"emotional"`
}

type ageBand struct {
	max  int
	text string
}

var sleepBands = []ageBand{
	{5, "11-13 часов (включая дневной сон)"},
	{10, "10-11 часов"},
	{14, "9-10 часов"},
}

var screenBands = []ageBand{
	{6, "Не более 30-40 минут в день"},
	{10, "Не более 60 минут в день"},
	{14, "Не более 90 минут в день"},
}

// pick returns the first band covering age; older children get the last one.
func pick(bands []ageBand, age int) string {
	for _, b := range bands {
		if age <= b.max {
			return b.text
		}
	}
	return bands[len(bands)-1].text
}

// ForAge returns the baseline guidelines for a child of age years.
func ForAge(age int) Guidelines {
	return Guidelines{
		Age:      age,
		Sleep:    pick(sleepBands, age),
		Screen:   pick(screenBands, age),
		Physical: "Не менее 60 минут ежедневно (активные игры, спорт, прогулки)",
		Nutrition: []string{
			"Регулярное поступление омега-3 (рыба, орехи, льняное масло)",
			"Витамины группы B (цельнозерновые, бобовые, яйца)",
			"Ограничение простых углеводов и красителей",
		},
		Cognitive: []string{
			"Ежедневное чтение и обсуждение (20-30 минут)",
			"Настольные игры на логику и стратегию",
			"Творческие занятия (рисование, лепка, конструирование)",
		},
		Emotional: []string{
			"Поддержка автономии и самостоятельности",
			"Обсуждение эмоций (развитие эмоционального интеллекта)",
			"Стабильный распорядок дня (снижение тревожности)",
		},
	}
}

// AgeYears returns the age in whole 365-day years at now. A zero birth date
// yields DefaultAge.
func AgeYears(birth, now time.Time) int {
	if birth.IsZero() {
		return DefaultAge
	}
	days := int(now.Sub(birth).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / 365
}
