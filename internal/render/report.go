// Package render prints reports for the terminal.
package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/happykids/kidsdiag/internal/analytics"
	"github.com/happykids/kidsdiag/internal/emotion"
	"github.com/happykids/kidsdiag/internal/games"
	"github.com/happykids/kidsdiag/internal/narrative"
	"github.com/happykids/kidsdiag/internal/profile"
	"github.com/happykids/kidsdiag/internal/quality"
)

// DefaultWidth is used when the caller passes no width.
const DefaultWidth = 80

// Renderer formats reports. The zero value is not usable; use New.
type Renderer struct {
	width   int
	quality quality.Config
}

// New creates a renderer. qcfg supplies axis and term labels.
func New(qcfg quality.Config, width int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Renderer{width: width, quality: qcfg}
}

// Report renders r with an optional narrative.
func (rd *Renderer) Report(r *profile.Report, n *narrative.Narrative) string {
	var b strings.Builder

	b.WriteString(rd.header(r))
	if r.Insufficient() {
		b.WriteString("\n")
		b.WriteString(Hint.Render(r.Profile.Recommendations))
		b.WriteString("\n")
		return b.String()
	}

	for _, part := range []string{
		rd.axes(r),
		rd.style(r),
		rd.emotions(r),
		rd.parameters(r),
		rd.diagnoses(r),
		rd.advice(r),
		rd.narrative(n),
		rd.heatmap(r.Heatmap),
		rd.dynamics(r.Dynamics),
		rd.correlation(r.Correlation),
	} {
		if part == "" {
			continue
		}
		b.WriteString(part)
		b.WriteString("\n")
	}
	return b.String()
}

func (rd *Renderer) header(r *profile.Report) string {
	name := r.ChildName
	if name == "" {
		name = r.ChildID
	}
	title := Title.Render("Диагностический профиль: " + name)
	meta := Hint.Render(fmt.Sprintf("сессий: %d · возраст: %d · %s",
		r.Records, r.Guidelines.Age, r.GeneratedAt.Format("2006-01-02 15:04")))
	return Card.Width(rd.width).Render(title + "\n" + meta)
}

func (rd *Renderer) axes(r *profile.Report) string {
	var b strings.Builder
	b.WriteString(Section.Render("Качество диагностики"))
	if r.Profile.Quality.Defaulted {
		b.WriteString(" " + Hint.Render("(значения по умолчанию)"))
	}
	b.WriteString("\n")
	for _, axis := range quality.Axes {
		v, ok := rd.quality.Variables[axis]
		if !ok {
			continue
		}
		term, deg := v.Dominant(r.Profile.Quality.Axes[axis])
		if t, ok := v.Term(term); ok {
			term = t.Label
		}
		b.WriteString(rd.row(v.Label, deg, term))
	}
	return b.String()
}

func (rd *Renderer) style(r *profile.Report) string {
	ep := r.ErrorPattern
	return Section.Render("Когнитивный стиль") + "\n" +
		Body.Render(r.Profile.CognitiveStyle.Label()) + "\n" +
		Hint.Render(fmt.Sprintf("ошибки: %s, доля %.2f, всего %d", ep.Pattern, ep.ErrorRate, ep.TotalMistakes)) + "\n"
}

func (rd *Renderer) emotions(r *profile.Report) string {
	var b strings.Builder
	b.WriteString(Section.Render("Эмоции"))
	if r.Profile.Trends.Insufficient {
		b.WriteString(" " + Hint.Render("(мало данных для трендов)"))
	}
	b.WriteString("\n")
	for _, e := range games.AllEmotions {
		b.WriteString(rd.row(e.Label(), r.Profile.Emotions.Share(e), trendArrow(r.Profile.Trends.Of(e))))
	}
	return b.String()
}

func trendArrow(t emotion.Trend) string {
	switch t {
	case emotion.Increasing:
		return "↑"
	case emotion.Decreasing:
		return "↓"
	case emotion.Stable:
		return "→"
	}
	return ""
}

func (rd *Renderer) parameters(r *profile.Report) string {
	if len(r.Parameters) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(Section.Render("Параметры") + "\n")
	for _, p := range r.Parameters {
		b.WriteString(rd.row(p.Name, p.Value, p.DominantLabel))
	}
	return b.String()
}

func (rd *Renderer) diagnoses(r *profile.Report) string {
	var b strings.Builder
	b.WriteString(Section.Render("Совпадения с каталогом") + "\n")
	if len(r.Matches) == 0 {
		b.WriteString(Hint.Render("нет") + "\n")
		return b.String()
	}
	for _, m := range r.Matches {
		b.WriteString(rd.row(m.Name, m.Degree, m.Code))
	}
	return b.String()
}

func (rd *Renderer) advice(r *profile.Report) string {
	var b strings.Builder
	b.WriteString(Section.Render("Рекомендации") + "\n")
	wrap := lipgloss.NewStyle().Width(rd.width)
	if r.Advice.Empty() {
		b.WriteString(wrap.Render(r.Profile.Recommendations) + "\n")
		return b.String()
	}
	for _, blk := range r.Advice.Blocks {
		b.WriteString(severityStyle(blk.Severity).Inherit(wrap).Render(blk.Text) + "\n")
	}
	return b.String()
}

func (rd *Renderer) narrative(n *narrative.Narrative) string {
	if n == nil {
		return ""
	}
	wrap := lipgloss.NewStyle().Width(rd.width)
	var b strings.Builder
	b.WriteString(Section.Render("Заключение") + "\n")
	b.WriteString(wrap.Render(n.Summary) + "\n")
	for _, tip := range n.ParentTips {
		b.WriteString(wrap.Render("• "+tip) + "\n")
	}
	if n.ClinicianNotes != "" {
		b.WriteString(Hint.Inherit(wrap).Render(n.ClinicianNotes) + "\n")
	}
	return b.String()
}

func (rd *Renderer) heatmap(h analytics.Heatmap) string {
	if len(h.Cells) == 0 {
		return ""
	}
	rows := make([][]string, len(h.Cells))
	for i, row := range h.Cells {
		rows[i] = make([]string, len(row)+1)
		rows[i][0] = h.Systems[i]
		for j, c := range row {
			rows[i][j+1] = fmt.Sprintf("%+.2f", c.Value)
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Border)).
		Headers(append([]string{""}, h.Indicators...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			st := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow || col == 0 {
				return st.Foreground(TextDim)
			}
			band := h.Cells[row][col-1].Band
			return st.Background(lipgloss.Color(band.Color)).Foreground(lipgloss.Color("#0F172A"))
		})

	title := Section.Render("Тепловая карта систем")
	if h.Jittered {
		title += " " + Hint.Render("(иллюстративный разброс)")
	}
	return title + "\n" + t.String() + "\n" + legend()
}

func legend() string {
	var parts []string
	for _, v := range []float64{-1, -0.5, 0, 0.5, 1} {
		band := analytics.Classify(v)
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(band.Color)).Render("  ")
		parts = append(parts, swatch+" "+Hint.Render(band.Interpretation))
	}
	return strings.Join(parts, "  ") + "\n"
}

func (rd *Renderer) dynamics(d *analytics.Dynamics) string {
	if d == nil {
		return Section.Render("Динамика") + "\n" + Hint.Render("недостаточно сессий") + "\n"
	}
	var b strings.Builder
	b.WriteString(Section.Render("Динамика") + "\n")
	b.WriteString(Body.Render(Sparkline(d.Values)) + "  ")
	b.WriteString(trendStyle(d.Trend).Render(d.Trend))
	b.WriteString(Hint.Render(fmt.Sprintf("  среднее %.2f, σ %.2f", d.Mean, d.Std)) + "\n")
	for _, p := range d.Problems {
		b.WriteString(lipgloss.NewStyle().Foreground(Error).Render("✗ "+p) + "\n")
	}
	for _, p := range d.Improvements {
		b.WriteString(lipgloss.NewStyle().Foreground(Success).Render("✓ "+p) + "\n")
	}
	return b.String()
}

func (rd *Renderer) correlation(c analytics.Correlation) string {
	if len(c.Matrix) == 0 {
		return ""
	}
	rows := make([][]string, len(c.Matrix))
	for i, row := range c.Matrix {
		rows[i] = make([]string, len(row)+1)
		rows[i][0] = c.Labels[i]
		for j, v := range row {
			rows[i][j+1] = fmt.Sprintf("%+.2f", v)
		}
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(append([]string{""}, c.Labels...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			st := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow || col == 0 {
				return st.Foreground(TextDim)
			}
			if v := c.Matrix[row][col-1]; v >= 0.5 || v <= -0.5 {
				return st.Foreground(Accent).Bold(true)
			}
			return st.Foreground(Text)
		})
	return Section.Render("Корреляции показателей") + "\n" + t.String() + "\n"
}

// row renders "label  bar  value  note" with the label column padded.
func (rd *Renderer) row(label string, v float64, note string) string {
	const labelWidth = 34
	l := Body.Width(labelWidth).Render(truncate(label, labelWidth-1))
	line := l + Bar(v, rd.width/4) + Hint.Render(fmt.Sprintf(" %.2f", v))
	if note != "" {
		line += "  " + Body.Render(note)
	}
	return line + "\n"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Bar draws v in [0,1] as a block bar of the given width.
func Bar(v float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := int(float64(width)*v + 0.5)
	filled = max(0, min(filled, width))
	return BarFilled.Render(strings.Repeat("█", filled)) +
		BarEmpty.Render(strings.Repeat("░", width-filled))
}

var sparks = []rune("▁▂▃▄▅▆▇█")

// Sparkline maps values onto eight block heights between their min and max.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	out := make([]rune, len(values))
	for i, v := range values {
		idx := len(sparks) / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparks)-1))
		}
		out[i] = sparks[idx]
	}
	return string(out)
}
