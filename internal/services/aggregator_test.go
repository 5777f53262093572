package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cyra-app/cyra/internal/models"
)

func mustParseDay(t *testing.T, raw string) time.Time {
	t.Helper()
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		t.Fatalf("parse day %q: %v", raw, err)
	}
	return day
}

func makeLog(t *testing.T, day string, mood string, symptoms []string, flow string) models.DailyLog {
	t.Helper()
	return models.DailyLog{
		Date:      mustParseDay(t, day),
		Mood:      mood,
		Symptoms:  symptoms,
		FlowLevel: flow,
	}
}

func TestSummarizeRegularCycle(t *testing.T) {
	logs := []models.DailyLog{
		makeLog(t, "2024-01-01", "Tired", []string{"Cramps"}, "heavy"),
		makeLog(t, "2024-01-02", "Tired", []string{"Cramps", "Headache"}, "medium"),
		makeLog(t, "2024-01-03", "Calm", nil, "medium"),
		makeLog(t, "2024-01-04", "Happy", nil, "light"),
		makeLog(t, "2024-01-05", "Happy", nil, "light"),
		makeLog(t, "2024-01-06", "Tired", nil, "spotting"),
	}

	summary, err := Summarize(logs, mustParseDay(t, "2024-01-01"))
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}

	if summary.CycleLength != 6 {
		t.Fatalf("expected cycle length 6, got %d", summary.CycleLength)
	}
	if summary.CycleHealthScore != 100 {
		t.Fatalf("expected health score 100, got %d", summary.CycleHealthScore)
	}
	if got := summary.EndDate.Format("2006-01-02"); got != "2024-01-06" {
		t.Fatalf("expected end date 2024-01-06, got %s", got)
	}
	if got := summary.NextPredictedDate.Format("2006-01-02"); got != "2024-01-29" {
		t.Fatalf("expected next predicted date 2024-01-29, got %s", got)
	}
	if summary.TopMood != "Tired" {
		t.Fatalf("expected top mood Tired, got %q", summary.TopMood)
	}
	if summary.TopSymptom != "Cramps" {
		t.Fatalf("expected top symptom Cramps, got %q", summary.TopSymptom)
	}
	if summary.TopFlow != "medium" {
		t.Fatalf("expected top flow medium, got %q", summary.TopFlow)
	}
}

func TestSummarizeTieResolvesToFirstSeen(t *testing.T) {
	logs := []models.DailyLog{
		makeLog(t, "2024-02-01", "Calm", nil, "light"),
		makeLog(t, "2024-02-02", "Tired", nil, "medium"),
		makeLog(t, "2024-02-03", "Calm", nil, "medium"),
		makeLog(t, "2024-02-04", "Tired", nil, "light"),
	}

	summary, err := Summarize(logs, mustParseDay(t, "2024-02-01"))
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary.TopMood != "Calm" {
		t.Fatalf("tie should resolve to first-seen mood Calm, got %q", summary.TopMood)
	}
	if summary.TopFlow != "light" {
		t.Fatalf("tie should resolve to first-seen flow light, got %q", summary.TopFlow)
	}
}

func TestSummarizeUnsortedLogs(t *testing.T) {
	logs := []models.DailyLog{
		makeLog(t, "2024-03-05", "Calm", nil, "light"),
		makeLog(t, "2024-03-03", "Calm", nil, "medium"),
		makeLog(t, "2024-03-04", "Calm", nil, "medium"),
	}

	summary, err := Summarize(logs, mustParseDay(t, "2024-03-03"))
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary.CycleLength != 3 {
		t.Fatalf("expected cycle length 3 from latest log, got %d", summary.CycleLength)
	}
}

func TestSummarizeEmptyLogs(t *testing.T) {
	_, err := Summarize(nil, time.Now())
	if !errors.Is(err, ErrNoCycleData) {
		t.Fatalf("expected ErrNoCycleData, got %v", err)
	}
}

func TestHealthScore(t *testing.T) {
	cases := []struct {
		name             string
		cycleLength      int
		distinctSymptoms int
		want             int
	}{
		{"regular", 6, 2, 100},
		{"too short", 2, 0, 75},
		{"too long", 10, 2, 75},
		{"many symptoms", 6, 5, 85},
		{"both penalties", 10, 5, 60},
		{"boundary four symptoms", 6, 4, 100},
		{"boundary eight days", 8, 0, 100},
	}
	for _, tc := range cases {
		if got := HealthScore(tc.cycleLength, tc.distinctSymptoms); got != tc.want {
			t.Fatalf("%s: expected score %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestSummarizeRedFlags(t *testing.T) {
	logs := []models.DailyLog{
		makeLog(t, "2024-04-01", "Tired", nil, "heavy"),
		makeLog(t, "2024-04-02", "Tired", nil, "heavy"),
	}

	summary, err := Summarize(logs, mustParseDay(t, "2024-04-01"))
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}

	wantFlags := map[string]bool{
		"Heavy flow for 2 or more days": false,
		"Irregular cycle length":        false,
		"No symptoms logged":            false,
	}
	for _, flag := range summary.RedFlags {
		if _, expected := wantFlags[flag]; !expected {
			t.Fatalf("unexpected red flag %q", flag)
		}
		wantFlags[flag] = true
	}
	for flag, seen := range wantFlags {
		if !seen {
			t.Fatalf("missing red flag %q in %v", flag, summary.RedFlags)
		}
	}
}

func TestSummarizeAllClearRedFlag(t *testing.T) {
	logs := []models.DailyLog{
		makeLog(t, "2024-05-01", "Calm", []string{"Cramps"}, "medium"),
		makeLog(t, "2024-05-02", "Calm", []string{"Cramps"}, "light"),
		makeLog(t, "2024-05-03", "Calm", nil, "light"),
	}

	summary, err := Summarize(logs, mustParseDay(t, "2024-05-01"))
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if len(summary.RedFlags) != 1 || summary.RedFlags[0] != "No serious warning signs detected." {
		t.Fatalf("expected the all-clear red flag, got %v", summary.RedFlags)
	}
}

func TestSummarizeFlowSummaryAndText(t *testing.T) {
	logs := []models.DailyLog{
		makeLog(t, "2024-06-01", "Tired", []string{"Cramps"}, "heavy"),
		makeLog(t, "2024-06-02", "Tired", nil, "heavy"),
		makeLog(t, "2024-06-03", "Calm", nil, "medium"),
	}

	summary, err := Summarize(logs, mustParseDay(t, "2024-06-01"))
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}

	if summary.FlowSummary != "heavy: 2 days, medium: 1 days" {
		t.Fatalf("unexpected flow summary %q", summary.FlowSummary)
	}
	for _, fragment := range []string{
		"During this cycle (Sat Jun 01 2024 → Mon Jun 03 2024):",
		"Most common flow: **heavy**",
		"Cycle length: **3 days** (normal)",
		"💡 Tips:",
	} {
		if !strings.Contains(summary.SummaryText, fragment) {
			t.Fatalf("summary text missing %q:\n%s", fragment, summary.SummaryText)
		}
	}
}
