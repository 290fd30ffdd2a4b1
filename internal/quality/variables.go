package quality

import "github.com/happykids/kidsdiag/internal/fuzzy"

// Axis names.
const (
	DiagnosticDepth       = "diagnostic_depth"
	MotivationalPotential = "motivational_potential"
	Objectivity           = "objectivity"
	EcologicalValidity    = "ecological_validity"
	DynamicAssessment     = "dynamic_assessment"
)

// Axes lists the five assessment-quality axes in report order.
var Axes = []string{DiagnosticDepth, MotivationalPotential, Objectivity, EcologicalValidity, DynamicAssessment}

// Config carries the axis variables and the distributions reported when
// there is no history. Build it once and pass it by value.
type Config struct {
	Variables map[string]fuzzy.Variable
	Defaults  map[string]fuzzy.Memberships
}

// DefaultConfig returns the published term tables.
func DefaultConfig() Config {
	lowMedHigh := func(name, label, low, med, high string) fuzzy.Variable {
		return fuzzy.Variable{
			Name:  name,
			Label: label,
			Terms: []fuzzy.Term{
				{Name: "low", Label: low, Shape: fuzzy.MustTrapezoid(0, 0, 0.2, 0.3)},
				{Name: "medium", Label: med, Shape: fuzzy.MustTrapezoid(0.2, 0.4, 0.6, 0.7)},
				{Name: "high", Label: high, Shape: fuzzy.MustTrapezoid(0.6, 0.8, 1, 1)},
			},
		}
	}

	depth := fuzzy.Variable{
		Name:  DiagnosticDepth,
		Label: "Диагностическая глубина",
		Terms: []fuzzy.Term{
			{Name: "low", Label: "низкая", Shape: fuzzy.MustTrapezoid(0, 0, 0.3, 0.4)},
			{Name: "medium", Label: "средняя", Shape: fuzzy.MustTrapezoid(0.3, 0.5, 0.7, 0.8)},
			{Name: "high", Label: "высокая", Shape: fuzzy.MustTrapezoid(0.7, 0.8, 1, 1)},
		},
	}
	motivation := lowMedHigh(MotivationalPotential, "Мотивационный потенциал", "низкий", "умеренный", "высокий")
	motivation.Terms[1].Name = "moderate"
	objectivity := lowMedHigh(Objectivity, "Объективность и стандартизация", "низкая", "средняя", "высокая")
	ecological := lowMedHigh(EcologicalValidity, "Экологическая валидность", "низкая", "средняя", "высокая")
	dynamic := lowMedHigh(DynamicAssessment, "Потенциал для динамической оценки", "ограниченный", "умеренный", "широкий")
	dynamic.Terms[0].Name = "limited"
	dynamic.Terms[1].Name = "moderate"
	dynamic.Terms[2].Name = "broad"

	return Config{
		Variables: map[string]fuzzy.Variable{
			DiagnosticDepth:       depth,
			MotivationalPotential: motivation,
			Objectivity:           objectivity,
			EcologicalValidity:    ecological,
			DynamicAssessment:     dynamic,
		},
		Defaults: map[string]fuzzy.Memberships{
			DiagnosticDepth:       {"low": 0.3, "medium": 0.5, "high": 0.2},
			MotivationalPotential: {"low": 0.3, "moderate": 0.5, "high": 0.2},
			Objectivity:           {"low": 0.1, "medium": 0.3, "high": 0.6},
			EcologicalValidity:    {"low": 0.2, "medium": 0.4, "high": 0.4},
			DynamicAssessment:     {"limited": 0.2, "moderate": 0.4, "broad": 0.4},
		},
	}
}

// Radar holds one 0-100 value per axis for the comparison chart.
type Radar map[string]float64

// TraditionalReference is the averaged profile of standardized tests and
// projective methods.
func TraditionalReference() Radar {
	return Radar{
		DiagnosticDepth:       72,
		MotivationalPotential: 45,
		Objectivity:           88,
		EcologicalValidity:    52,
		DynamicAssessment:     38,
	}
}

// DigitalReference is the averaged profile of digital game-based methods.
func DigitalReference() Radar {
	return Radar{
		DiagnosticDepth:       65,
		MotivationalPotential: 82,
		Objectivity:           75,
		EcologicalValidity:    85,
		DynamicAssessment:     90,
	}
}
