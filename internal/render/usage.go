package render

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/happykids/kidsdiag/internal/llm"
	"github.com/happykids/kidsdiag/internal/store"
)

const eventTime = "2006-01-02 15:04:05"

func plainTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Border)).
		BorderColumn(false).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			st := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return st.Bold(true).Foreground(TextDim)
			}
			return st.Foreground(Text)
		})
}

// Events lists stored LLM requests, newest first as given.
func Events(events []store.LLMRequestEvent) string {
	t := plainTable("ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
	for _, ev := range events {
		t.Row(
			strconv.Itoa(ev.ID),
			ev.Timestamp.Local().Format(eventTime),
			ev.Purpose,
			truncate(ev.Model, 28),
			strconv.Itoa(ev.InputTokens),
			strconv.Itoa(ev.OutputTokens),
			strconv.FormatInt(ev.LatencyMs, 10),
			mark(ev.Success),
		)
	}
	return t.String() + "\n"
}

// EventDetail shows one request with its captured bodies.
func EventDetail(ev *store.LLMRequestEvent) string {
	var b strings.Builder
	field := func(name, value string) {
		b.WriteString(Hint.Width(10).Render(name) + Body.Render(value) + "\n")
	}
	field("ID", strconv.Itoa(ev.ID))
	field("Time", ev.Timestamp.Local().Format(eventTime))
	field("Provider", ev.Provider)
	field("Model", ev.Model)
	field("Purpose", ev.Purpose)
	field("Tokens", fmt.Sprintf("%d in / %d out", ev.InputTokens, ev.OutputTokens))
	field("Latency", fmt.Sprintf("%dms", ev.LatencyMs))
	field("Success", mark(ev.Success))
	if c := llm.LookupCost(ev.Model); c != nil && ev.Success {
		field("Cost", Cost(c.Cost(ev.InputTokens, ev.OutputTokens)))
	}
	if ev.ErrorMessage != "" {
		field("Error", lipgloss.NewStyle().Foreground(Error).Render(ev.ErrorMessage))
	}

	body := func(title, text string) {
		b.WriteString(Section.Render(title) + "\n")
		if text == "" {
			b.WriteString(Hint.Render("(not captured)") + "\n")
			return
		}
		b.WriteString(text + "\n")
	}
	body("Request", ev.RequestBody)
	body("Response", ev.ResponseBody)
	return b.String()
}

// Usage summarizes token use per purpose and estimated cost per model.
// Models without known pricing show "?" and mark the total as partial.
func Usage(byPurpose []store.PurposeUsage, byModel []store.ModelUsage) string {
	var b strings.Builder

	var calls, in, out int
	pt := plainTable("Purpose", "Calls", "Input", "Output", "Total", "Avg ms")
	for _, u := range byPurpose {
		pt.Row(u.Purpose, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens),
			strconv.Itoa(u.InputTokens+u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs, 10))
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	pt.Row("total", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(out), strconv.Itoa(in+out), "")
	b.WriteString(Section.Render("Usage by purpose") + "\n" + pt.String() + "\n")

	if len(byModel) == 0 {
		return b.String()
	}
	var (
		total   float64
		unknown []string
	)
	mt := plainTable("Model", "Calls", "Input", "Output", "Cost")
	for _, u := range byModel {
		cost := "?"
		if c := llm.LookupCost(u.Model); c != nil {
			usd := c.Cost(u.InputTokens, u.OutputTokens)
			total += usd
			cost = Cost(usd)
		} else {
			unknown = append(unknown, u.Model)
		}
		mt.Row(truncate(u.Model, 32), strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), cost)
	}
	label := "total"
	if len(unknown) > 0 {
		label = "total (partial)"
	}
	mt.Row(label, "", "", "", Cost(total))
	b.WriteString(Section.Render("Estimated cost (USD)") + "\n" + mt.String() + "\n")
	if len(unknown) > 0 {
		b.WriteString(Hint.Render("No pricing for: "+strings.Join(unknown, ", ")) + "\n")
	}
	return b.String()
}

// Cost formats a USD amount, keeping sub-cent amounts readable.
func Cost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func mark(ok bool) string {
	if ok {
		return lipgloss.NewStyle().Foreground(Success).Render("✓")
	}
	return lipgloss.NewStyle().Foreground(Error).Render("✗")
}
