package params

import (
	"github.com/happykids/kidsdiag/internal/features"
	"github.com/happykids/kidsdiag/internal/fuzzy"
)

// Definition describes one diagnostic parameter: its variable and the
// clinical text attached to each term.
type Definition struct {
	ID              string
	Name            string
	Source          string
	Purpose         string
	Variable        fuzzy.Variable
	Interpretations map[string]string
	Brief           map[string]string
	Guidance        map[string]Guidance
}

// Guidance is the clinical guidance for a parameter in a given term.
type Guidance struct {
	Purpose string   `json:"purpose"`
	Impact  string   `json:"impact"`
	Causes  []string `json:"causes"`
	Actions []string `json:"actions"`
}

// Config is the parameter table plus charting resolution.
type Config struct {
	Parameters  []Definition
	CurvePoints int
	Extended    string
	ParentSteps []string
	DoctorSteps []string
}

func term(name, label string, pts ...float64) fuzzy.Term {
	return fuzzy.Term{Name: name, Label: label, Shape: fuzzy.MustTrapezoid(pts...)}
}

// DefaultConfig returns the built-in parameter tables.
func DefaultConfig() Config {
	return Config{
		CurvePoints: 50,
		Extended: "Согласно принципу детерминизма (Выготский Л.С.), данный паттерн может свидетельствовать о формировании регуляторных функций. " +
			"Рекомендуется дополнительная оценка в естественной среде (метод наблюдения) для подтверждения устойчивости. " +
			"Игровая диагностика дополняет клиническую картину.",
		ParentSteps: []string{
			"Для развития гибкости: игры с меняющимися правилами («Съедобное-несъедобное» наоборот)",
			"Для тренировки планирования: настольные игры с пошаговой стратегией",
			"Обратиться к психологу, если: ребёнок не может удерживать инструкцию более 2 минут",
		},
		DoctorSteps: []string{
			"Для уточнения: провести методику «Корректурная проба» (Бурдон) для оценки устойчивости внимания",
			"Консультация: невролог (для исключения органических причин)",
			"Повторная диагностика: через 3 месяца",
		},
		Parameters: []Definition{
			impulsivity(),
			cognitiveActivity(),
			strategy(),
			cognitiveControl(),
			anxiety(),
		},
	}
}

func impulsivity() Definition {
	const purpose = "Оценка способности тормозить быстрые ответы и обдумывать действие перед выполнением."
	return Definition{
		ID:      features.Impulsivity,
		Name:    "Уровень импульсивности",
		Source:  "Скорость движения / время реакции (нормированное)",
		Purpose: purpose,
		Variable: fuzzy.Variable{Name: features.Impulsivity, Label: "Уровень импульсивности", Terms: []fuzzy.Term{
			term("low", "низкий", 0, 0, 0.25, 0.4),
			term("medium", "средний", 0.25, 0.4, 0.6, 0.75),
			term("high", "высокий", 0.6, 0.75, 1, 1),
		}},
		Interpretations: map[string]string{
			"low":    "Низкая импульсивность. Ребёнок склонен обдумывать действия.",
			"medium": "Умеренная импульсивность. Сбалансированный стиль ответов.",
			"high":   "Высокая импульсивность. Склонность действовать методом проб и ошибок.",
		},
		Brief: map[string]string{
			"low":    "ребёнок склонен к обдумыванию",
			"medium": "сбалансированный стиль",
			"high":   "выраженная склонность к импульсивным действиям",
		},
		Guidance: map[string]Guidance{
			"low": {
				Purpose: purpose,
				Impact:  "Ребёнок действует взвешенно, но может терять темп в заданиях на скорость.",
				Causes:  []string{"рефлексивный когнитивный стиль", "осторожность в новой обстановке"},
				Actions: []string{"поддерживать продуманные ответы", "давать задания с ограничением времени в игровой форме"},
			},
			"medium": {
				Purpose: purpose,
				Impact:  "Скорость и точность ответов сбалансированы, регуляция соответствует возрасту.",
				Causes:  []string{"возрастная норма"},
				Actions: []string{"продолжать разнообразные игры", "наблюдать за динамикой"},
			},
			"high": {
				Purpose: purpose,
				Impact:  "Поспешные ответы ведут к ошибкам и снижают успешность в учебных заданиях.",
				Causes:  []string{"незрелость тормозного контроля", "утомление", "повышенная возбудимость"},
				Actions: []string{"игры «Замри-отомри», «Съедобное-несъедобное»", "задания с отсроченным ответом", "проговаривание плана перед действием"},
			},
		},
	}
}

func cognitiveActivity() Definition {
	const purpose = "Оценка самостоятельности познавательного поиска и потребности во внешней помощи."
	return Definition{
		ID:      features.CognitiveActivity,
		Name:    "Познавательная активность",
		Source:  "Частота обращений к подсказкам (нормировано)",
		Purpose: purpose,
		Variable: fuzzy.Variable{Name: features.CognitiveActivity, Label: "Познавательная активность", Terms: []fuzzy.Term{
			term("exploratory", "исследующая", 0, 0, 0.3, 0.5),
			term("directed", "направленная", 0.3, 0.5, 0.7, 0.85),
			term("dependent", "зависимая", 0.7, 0.85, 1, 1),
		}},
		Interpretations: map[string]string{
			"exploratory": "Исследующая активность. Ребёнок предпочитает самостоятельный поиск.",
			"directed":    "Направленная активность. Баланс самостоятельности и помощи.",
			"dependent":   "Зависимая активность. Частое обращение к подсказкам.",
		},
		Brief: map[string]string{
			"exploratory": "самостоятельный поиск решений",
			"directed":    "баланс самостоятельности и помощи",
			"dependent":   "частое обращение к помощи",
		},
		Guidance: map[string]Guidance{
			"exploratory": {
				Purpose: purpose,
				Impact:  "Ребёнок охотно ищет решение сам, что поддерживает развитие мышления.",
				Causes:  []string{"высокий познавательный интерес", "уверенность в своих силах"},
				Actions: []string{"предлагать открытые задачи", "поощрять объяснение хода решения"},
			},
			"directed": {
				Purpose: purpose,
				Impact:  "Помощь используется по необходимости, без потери самостоятельности.",
				Causes:  []string{"возрастная норма"},
				Actions: []string{"дозировать подсказки", "постепенно повышать сложность"},
			},
			"dependent": {
				Purpose: purpose,
				Impact:  "Частые подсказки снижают самостоятельность и закрепляют ожидание помощи.",
				Causes:  []string{"неуверенность", "сложность заданий выше уровня ребёнка", "гиперопека"},
				Actions: []string{"снизить сложность и постепенно её повышать", "хвалить за попытку, а не за результат", "вводить паузу перед подсказкой"},
			},
		},
	}
}

func strategy() Definition {
	const purpose = "Оценка способа решения задач по структуре и частоте ошибок."
	return Definition{
		ID:      features.Strategy,
		Name:    "Стратегия решения",
		Source:  "Паттерн ошибок (последовательность действий)",
		Purpose: purpose,
		Variable: fuzzy.Variable{Name: features.Strategy, Label: "Стратегия решения", Terms: []fuzzy.Term{
			term("systematic", "систематическая", 0, 0, 0.2, 0.35),
			term("impulsive", "импульсивная", 0.2, 0.35, 0.6, 0.8),
			term("adaptive", "адаптивная", 0.5, 0.7, 1, 1),
		}},
		Interpretations: map[string]string{
			"systematic": "Систематическая стратегия. Планомерный подход к решению.",
			"impulsive":  "Импульсивная стратегия. Ошибки из-за поспешности.",
			"adaptive":   "Адаптивная стратегия. Гибкая смена подходов.",
		},
		Brief: map[string]string{
			"systematic": "планомерный подход",
			"impulsive":  "использование метода проб",
			"adaptive":   "гибкая смена стратегий",
		},
		Guidance: map[string]Guidance{
			"systematic": {
				Purpose: purpose,
				Impact:  "Планомерный подход обеспечивает стабильные результаты.",
				Causes:  []string{"сформированное планирование", "опыт похожих заданий"},
				Actions: []string{"задачи с возрастающей сложностью", "задания на перенос стратегии"},
			},
			"impulsive": {
				Purpose: purpose,
				Impact:  "Метод проб и ошибок замедляет обучение в многошаговых задачах.",
				Causes:  []string{"недостаток планирования", "стремление закончить быстрее"},
				Actions: []string{"пошаговые инструкции", "обсуждение плана до начала игры"},
			},
			"adaptive": {
				Purpose: purpose,
				Impact:  "Ребёнок меняет подход при неудаче, что говорит о гибкости мышления.",
				Causes:  []string{"развитая когнитивная гибкость"},
				Actions: []string{"задания на переключение между правилами", "игры с меняющимися условиями"},
			},
		},
	}
}

func cognitiveControl() Definition {
	const purpose = "Оценка устойчивости внимания по вариабельности времени реакции."
	return Definition{
		ID:      features.CognitiveControl,
		Name:    "Когнитивный контроль",
		Source:  "Вариабельность времени реакции (σ, нормировано)",
		Purpose: purpose,
		Variable: fuzzy.Variable{Name: features.CognitiveControl, Label: "Когнитивный контроль", Terms: []fuzzy.Term{
			term("stable", "стабильный", 0, 0, 0.3, 0.5),
			term("variable", "вариабельный", 0.3, 0.5, 0.7, 0.85),
			term("exhaustible", "истощаемый", 0.7, 0.85, 1, 1),
		}},
		Interpretations: map[string]string{
			"stable":      "Стабильный контроль. Устойчивое внимание.",
			"variable":    "Вариабельный контроль. Колебания концентрации.",
			"exhaustible": "Истощаемый контроль. Снижение при утомлении.",
		},
		Brief: map[string]string{
			"stable":      "устойчивое внимание",
			"variable":    "колебания концентрации",
			"exhaustible": "истощаемость при нагрузке",
		},
		Guidance: map[string]Guidance{
			"stable": {
				Purpose: purpose,
				Impact:  "Внимание сохраняется на протяжении всей игровой сессии.",
				Causes:  []string{"сформированная произвольная регуляция"},
				Actions: []string{"поддерживать текущий режим занятий"},
			},
			"variable": {
				Purpose: purpose,
				Impact:  "Концентрация колеблется, часть ошибок связана с отвлечениями.",
				Causes:  []string{"внешние отвлекающие факторы", "недостаток сна"},
				Actions: []string{"короткие сессии с перерывами", "спокойная обстановка во время занятий"},
			},
			"exhaustible": {
				Purpose: purpose,
				Impact:  "К концу сессии результаты заметно снижаются из-за утомления.",
				Causes:  []string{"быстрая истощаемость", "перегрузка", "соматическая ослабленность"},
				Actions: []string{"сессии не дольше 10 минут", "двигательные паузы", "консультация невролога"},
			},
		},
	}
}

func anxiety() Definition {
	const purpose = "Оценка тревожности и перфекционизма по отношению к ошибкам и результату."
	return Definition{
		ID:      features.Anxiety,
		Name:    "Тревожность / Перфекционизм",
		Source:  "Точность ответов (нормировано)",
		Purpose: purpose,
		Variable: fuzzy.Variable{Name: features.Anxiety, Label: "Тревожность / Перфекционизм", Terms: []fuzzy.Term{
			term("low", "низкая", 0, 0, 0.25, 0.4),
			term("moderate", "умеренная", 0.25, 0.4, 0.6, 0.75),
			term("high", "высокая", 0.6, 0.75, 1, 1),
		}},
		Interpretations: map[string]string{
			"low":      "Низкая тревожность. Комфортное принятие результата.",
			"moderate": "Умеренная тревожность. Стремление к улучшению.",
			"high":     "Высокая тревожность. Перфекционизм, страх ошибки.",
		},
		Brief: map[string]string{
			"low":      "комфортное принятие результата",
			"moderate": "умеренное стремление к улучшению",
			"high":     "выраженное стремление к совершенству",
		},
		Guidance: map[string]Guidance{
			"low": {
				Purpose: purpose,
				Impact:  "Ошибки не вызывают выраженного напряжения.",
				Causes:  []string{"эмоциональная устойчивость"},
				Actions: []string{"поддерживать доброжелательную атмосферу"},
			},
			"moderate": {
				Purpose: purpose,
				Impact:  "Ребёнок стремится улучшить результат, напряжение не мешает деятельности.",
				Causes:  []string{"возрастная норма"},
				Actions: []string{"отмечать прогресс, а не только итог"},
			},
			"high": {
				Purpose: purpose,
				Impact:  "Страх ошибки может тормозить инициативу и вызывать избегание заданий.",
				Causes:  []string{"высокие требования взрослых", "негативный опыт оценивания"},
				Actions: []string{"игры без проигрыша", "дыхательные и релаксационные упражнения", "консультация психолога"},
			},
		},
	}
}
