package services

import (
	"fmt"
	"strings"

	"github.com/cyra-app/cyra/internal/models"
)

// Watch-list of symptom phrases that can trigger a warning. Matching is
// deliberately fuzzy (see matchesTerm), so user-typed variants like
// "severe cramps at night" still hit.
var dangerousSymptoms = []string{
	"Heavy bleeding",
	"Chest pain",
	"Severe cramps",
	"Fainting",
	"Shortness of breath",
	"Severe weakness",
	"Severe headache",
	"High fever",
	"Blurred vision",
	"Severe nausea",
}

// Subset of the watch-list that mandates an urgent-care message no
// matter what else was logged today.
var lifeThreateningSymptoms = []string{
	"Chest pain",
	"Fainting",
	"Shortness of breath",
	"Severe weakness",
	"Severe headache",
	"High fever",
}

// Warning is the single strongest safety message for today. Zero or one
// per evaluation, never a list.
type Warning struct {
	Text     string `json:"text"`
	SmallTip string `json:"small_tip"`
}

// CycleHistory is the evaluator's view of stored data: the current
// cycle's logs plus up to the last three closed cycles, most recent
// first. A nil *CycleHistory means history could not be loaded and only
// today's inputs are consulted.
type CycleHistory struct {
	CurrentLogs   []models.DailyLog
	PreviousLogs  [][]models.DailyLog
	HeavyFlowDays int
}

// matchesTerm is the isolated fuzzy matcher: case-insensitive substring
// containment in either direction. It over-matches on purpose ("pain"
// would match "Chest pain"); keeping it approximate is intentional so
// free-text symptoms are not silently ignored.
func matchesTerm(candidate string, term string) bool {
	c := strings.ToLower(strings.TrimSpace(candidate))
	t := strings.ToLower(strings.TrimSpace(term))
	if c == "" || t == "" {
		return false
	}
	return strings.Contains(c, t) || strings.Contains(t, c)
}

func IsDangerousSymptom(symptom string) bool {
	return matchAnyTerm(symptom, dangerousSymptoms) != ""
}

func IsLifeThreateningSymptom(symptom string) bool {
	return matchAnyTerm(symptom, lifeThreateningSymptoms) != ""
}

// FirstLifeThreatening returns the first of today's symptoms that falls
// in the life-threatening subset, or "".
func FirstLifeThreatening(symptoms []string) string {
	for _, symptom := range symptoms {
		if IsLifeThreateningSymptom(symptom) {
			return symptom
		}
	}
	return ""
}

func matchAnyTerm(candidate string, vocabulary []string) string {
	for _, term := range vocabulary {
		if matchesTerm(candidate, term) {
			return term
		}
	}
	return ""
}

// IsHeavyFlow treats the heavy enum value and any free-text flow
// mentioning "heavy" as heavy.
func IsHeavyFlow(flow string) bool {
	normalized := strings.ToLower(strings.TrimSpace(flow))
	return normalized == models.FlowHeavy || strings.Contains(normalized, models.FlowHeavy)
}

// EvaluateWarning picks the single most important warning for today, in
// strict priority order; the first matching rule wins.
//
// The life-threatening check runs first inside the evaluator rather
// than being left to prompt formatting, so the override holds even if
// the insight collaborator is skipped or replaced.
func EvaluateWarning(todaysSymptoms []string, todaysFlowIsHeavy bool, history *CycleHistory) *Warning {
	if symptom := FirstLifeThreatening(todaysSymptoms); symptom != "" {
		return &Warning{
			Text:     fmt.Sprintf("Seek medical attention immediately: %q can be a sign of a serious condition.", strings.TrimSpace(symptom)),
			SmallTip: "Do not wait — contact emergency services or a clinician right now.",
		}
	}

	if history == nil {
		if todaysFlowIsHeavy {
			return &Warning{
				Text:     "Heavy bleeding today. Watch how long it lasts — sustained heavy flow should be discussed with a clinician.",
				SmallTip: "Track your heavy-flow days so a doctor can see the pattern.",
			}
		}
		return nil
	}

	if symptom := recurringAcrossCycles(todaysSymptoms, history.PreviousLogs); symptom != "" {
		return &Warning{
			Text:     fmt.Sprintf("%q has now appeared in several of your recent cycles. Recurring symptoms like this are worth raising with a clinician.", strings.TrimSpace(symptom)),
			SmallTip: "Bring your cycle history to the appointment — repetition across cycles matters.",
		}
	}

	if term := frequentWithinCycle(history.CurrentLogs); term != "" {
		return &Warning{
			Text:     fmt.Sprintf("%q has been recorded on more than 3 days this cycle. Frequent dangerous symptoms deserve medical attention.", term),
			SmallTip: "Note the days it occurred; frequency within one cycle is a useful signal.",
		}
	}

	if sustainedHeavyFlow(history, todaysFlowIsHeavy) {
		return &Warning{
			Text:     "You have had 3 or more days of heavy bleeding. Sustained or repeated heavy flow should be checked by a clinician.",
			SmallTip: "Iron-rich food helps, but the pattern itself needs a professional look.",
		}
	}

	return nil
}

// recurringAcrossCycles finds a dangerous symptom selected today that
// also appeared in at least two historical cycles. Presence counts once
// per cycle regardless of how many days it was logged.
func recurringAcrossCycles(todaysSymptoms []string, previousCycles [][]models.DailyLog) string {
	for _, symptom := range todaysSymptoms {
		if !IsDangerousSymptom(symptom) {
			continue
		}
		cyclesSeen := 0
		for _, cycleLogs := range previousCycles {
			if cycleContainsSymptom(cycleLogs, symptom) {
				cyclesSeen++
			}
		}
		if cyclesSeen >= 2 {
			return symptom
		}
	}
	return ""
}

func cycleContainsSymptom(logs []models.DailyLog, symptom string) bool {
	for _, logEntry := range logs {
		for _, logged := range logEntry.Symptoms {
			if matchesTerm(logged, symptom) {
				return true
			}
		}
	}
	return false
}

// frequentWithinCycle looks for any watch-list term recorded on more
// than 3 distinct days of the current cycle.
func frequentWithinCycle(currentLogs []models.DailyLog) string {
	for _, term := range dangerousSymptoms {
		days := 0
		for _, logEntry := range currentLogs {
			for _, logged := range logEntry.Symptoms {
				if matchesTerm(logged, term) {
					days++
					break
				}
			}
		}
		if days > 3 {
			return term
		}
	}
	return ""
}

func sustainedHeavyFlow(history *CycleHistory, todaysFlowIsHeavy bool) bool {
	currentHeavyDays := 0
	for _, logEntry := range history.CurrentLogs {
		if IsHeavyFlow(logEntry.FlowLevel) {
			currentHeavyDays++
		}
	}
	if currentHeavyDays >= 3 {
		return true
	}
	return history.HeavyFlowDays >= 3 && todaysFlowIsHeavy
}
