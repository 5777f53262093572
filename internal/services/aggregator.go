package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/cyra-app/cyra/internal/models"
)

// ErrNoCycleData means the cycle has no daily logs to summarize. The
// caller must not persist a summary in that case.
var ErrNoCycleData = errors.New("no daily logs recorded for this cycle")

const (
	minHealthScore  = 10
	notLoggedLabel  = "Not logged"
	summaryDateForm = "Mon Jan 02 2006"
)

var selfCareTips = []string{
	"Stay hydrated",
	"Try light stretching",
	"Track heavy flow days",
	"Sleep early",
}

type CycleSummary struct {
	CycleLength       int
	CycleHealthScore  int
	EndDate           time.Time
	NextPredictedDate time.Time
	TopMood           string
	TopSymptom        string
	TopFlow           string
	MoodCounts        map[string]int
	SymptomCounts     map[string]int
	FlowCounts        map[string]int
	FlowSummary       string
	SummaryText       string
	RedFlags          []string
}

// labelCounter counts labels while remembering first-seen order, so top
// selection is deterministic: ties resolve to the label seen first.
type labelCounter struct {
	order  []string
	counts map[string]int
}

func newLabelCounter() *labelCounter {
	return &labelCounter{counts: make(map[string]int)}
}

func (counter *labelCounter) add(label string) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return
	}
	if _, seen := counter.counts[trimmed]; !seen {
		counter.order = append(counter.order, trimmed)
	}
	counter.counts[trimmed]++
}

func (counter *labelCounter) top() string {
	best := ""
	bestCount := 0
	for _, label := range counter.order {
		if counter.counts[label] > bestCount {
			best = label
			bestCount = counter.counts[label]
		}
	}
	return best
}

// Summarize turns one cycle's ordered daily logs into summary
// statistics. It is pure: persistence belongs to the caller.
//
// The health score is a rough heuristic (irregular length and symptom
// variety subtract points), not a validated medical measure.
func Summarize(logs []models.DailyLog, startDate time.Time) (CycleSummary, error) {
	if len(logs) == 0 {
		return CycleSummary{}, ErrNoCycleData
	}

	sorted := make([]models.DailyLog, 0, len(logs))
	sorted = append(sorted, logs...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	start := dateOnly(startDate)
	lastDay := dateOnly(sorted[len(sorted)-1].Date)
	cycleLength := int(math.Round(lastDay.Sub(start).Hours()/24)) + 1

	moods := newLabelCounter()
	symptoms := newLabelCounter()
	flows := newLabelCounter()
	for _, logEntry := range sorted {
		moods.add(logEntry.Mood)
		for _, symptom := range logEntry.Symptoms {
			symptoms.add(symptom)
		}
		flows.add(logEntry.FlowLevel)
	}

	score := HealthScore(cycleLength, len(symptoms.counts))

	summary := CycleSummary{
		CycleLength:       cycleLength,
		CycleHealthScore:  score,
		EndDate:           lastDay,
		NextPredictedDate: start.AddDate(0, 0, models.PredictionCycleLength),
		TopMood:           topOrNotLogged(moods),
		TopSymptom:        topOrNotLogged(symptoms),
		TopFlow:           topOrNotLogged(flows),
		MoodCounts:        moods.counts,
		SymptomCounts:     symptoms.counts,
		FlowCounts:        flows.counts,
		FlowSummary:       buildFlowSummary(flows),
		RedFlags:          buildRedFlags(cycleLength, flows, symptoms),
	}
	summary.SummaryText = buildSummaryText(summary, start, lastDay)

	return summary, nil
}

// HealthScore starts at 100, subtracts 25 for an irregular cycle length
// and 15 for more than four distinct symptom labels, and never drops
// below 10.
func HealthScore(cycleLength int, distinctSymptoms int) int {
	score := 100
	if irregularCycleLength(cycleLength) {
		score -= 25
	}
	if distinctSymptoms > 4 {
		score -= 15
	}
	if score < minHealthScore {
		score = minHealthScore
	}
	return score
}

func irregularCycleLength(cycleLength int) bool {
	return cycleLength < 3 || cycleLength > 8
}

func topOrNotLogged(counter *labelCounter) string {
	if top := counter.top(); top != "" {
		return top
	}
	return notLoggedLabel
}

func buildFlowSummary(flows *labelCounter) string {
	if len(flows.order) == 0 {
		return "No flow data logged."
	}
	parts := make([]string, 0, len(flows.order))
	for _, flow := range flows.order {
		parts = append(parts, fmt.Sprintf("%s: %d days", flow, flows.counts[flow]))
	}
	return strings.Join(parts, ", ")
}

func buildRedFlags(cycleLength int, flows *labelCounter, symptoms *labelCounter) []string {
	flags := make([]string, 0, 3)

	heavyDays := 0
	for flow, count := range flows.counts {
		if IsHeavyFlow(flow) {
			heavyDays += count
		}
	}
	if heavyDays >= 2 {
		flags = append(flags, "Heavy flow for 2 or more days")
	}
	if irregularCycleLength(cycleLength) {
		flags = append(flags, "Irregular cycle length")
	}
	if len(symptoms.counts) == 0 {
		flags = append(flags, "No symptoms logged")
	}
	if len(flags) == 0 {
		flags = append(flags, "No serious warning signs detected.")
	}
	return flags
}

func buildSummaryText(summary CycleSummary, start time.Time, lastDay time.Time) string {
	regularity := "normal"
	if irregularCycleLength(summary.CycleLength) {
		regularity = "irregular"
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "During this cycle (%s → %s):\n\n", start.Format(summaryDateForm), lastDay.Format(summaryDateForm))
	fmt.Fprintf(&builder, "• Most common flow: **%s**\n", summary.TopFlow)
	fmt.Fprintf(&builder, "• Most frequent mood: **%s**\n", summary.TopMood)
	fmt.Fprintf(&builder, "• Most reported symptom: **%s**\n", summary.TopSymptom)
	fmt.Fprintf(&builder, "• Cycle length: **%d days** (%s)\n\n", summary.CycleLength, regularity)
	fmt.Fprintf(&builder, "Flow Pattern:\n%s\n\n", summary.FlowSummary)
	builder.WriteString("💡 Tips:\n")
	for _, tip := range selfCareTips {
		fmt.Fprintf(&builder, "• %s\n", tip)
	}
	return strings.TrimSpace(builder.String())
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
