package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubGenerator struct {
	text       string
	err        error
	lastPrompt string
}

func (stub *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	stub.lastPrompt = prompt
	return stub.text, stub.err
}

func TestGenerateInsightRejectsEmptyCheckIn(t *testing.T) {
	service := NewInsightService(&stubGenerator{text: "never used"}, time.Second, nil)

	_, _, err := service.GenerateInsight(context.Background(), InsightInput{
		Mood:     "  ",
		Symptoms: []string{"", " "},
	})
	if !errors.Is(err, ErrNothingToLog) {
		t.Fatalf("expected ErrNothingToLog, got %v", err)
	}
}

func TestBuildPromptEmbedsWarningVerbatim(t *testing.T) {
	service := NewInsightService(&stubGenerator{}, time.Second, nil)
	warning := &Warning{Text: "You have had 3 or more days of heavy bleeding. Sustained or repeated heavy flow should be checked by a clinician."}

	prompt := service.BuildPrompt(InsightInput{
		Mood:      "Tired",
		Symptoms:  []string{"Cramps"},
		FlowLevel: "heavy",
		Warning:   warning,
	})

	if !strings.Contains(prompt, warning.Text) {
		t.Fatalf("prompt must embed the warning verbatim:\n%s", prompt)
	}
	if !strings.Contains(prompt, "repeat the warning above word for word") {
		t.Fatalf("prompt must instruct the generator to repeat the warning:\n%s", prompt)
	}
	if strings.Contains(prompt, "IMPORTANT: a life-threatening symptom") {
		t.Fatalf("no life-threatening clause expected for these symptoms:\n%s", prompt)
	}
}

func TestBuildPromptForcesUrgentLineOnLifeThreateningSymptom(t *testing.T) {
	service := NewInsightService(&stubGenerator{}, time.Second, nil)

	prompt := service.BuildPrompt(InsightInput{
		Symptoms: []string{"Chest pain"},
		Warning:  &Warning{Text: "Seek medical attention immediately: \"Chest pain\" can be a sign of a serious condition."},
	})

	if !strings.Contains(prompt, urgentWarningLine) {
		t.Fatalf("prompt must pin the urgent warning line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "MUST be exactly") {
		t.Fatalf("prompt must make the urgent line mandatory:\n%s", prompt)
	}
}

func TestGenerateInsightUsesGeneratorText(t *testing.T) {
	stub := &stubGenerator{text: "Insight: all good.\nWarning: No warning today.\nTip: rest."}
	service := NewInsightService(stub, time.Second, nil)

	text, usedFallback, err := service.GenerateInsight(context.Background(), InsightInput{Mood: "Calm"})
	if err != nil {
		t.Fatalf("GenerateInsight returned error: %v", err)
	}
	if usedFallback {
		t.Fatal("fallback must not be used when the generator succeeds")
	}
	if text != stub.text {
		t.Fatalf("expected generator text, got %q", text)
	}
	if !strings.Contains(stub.lastPrompt, "Mood: Calm") {
		t.Fatalf("prompt missing check-in data:\n%s", stub.lastPrompt)
	}
}

func TestGenerateInsightFallsBackOnError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("upstream unavailable")}
	service := NewInsightService(stub, time.Second, nil)
	warning := &Warning{Text: "Heavy bleeding today. Watch how long it lasts."}

	text, usedFallback, err := service.GenerateInsight(context.Background(), InsightInput{
		Mood:    "Tired",
		Warning: warning,
	})
	if err != nil {
		t.Fatalf("generator failure must degrade, not error: %v", err)
	}
	if !usedFallback {
		t.Fatal("expected the fallback to be used")
	}
	if !strings.Contains(text, warning.Text) {
		t.Fatalf("fallback must embed the warning:\n%s", text)
	}
}

func TestGenerateInsightFallsBackOnEmptyText(t *testing.T) {
	service := NewInsightService(&stubGenerator{text: "   "}, time.Second, nil)

	text, usedFallback, err := service.GenerateInsight(context.Background(), InsightInput{Mood: "Calm"})
	if err != nil {
		t.Fatalf("empty output must degrade, not error: %v", err)
	}
	if !usedFallback {
		t.Fatal("expected the fallback to be used")
	}
	if !strings.Contains(text, "Warning: No warning today.") {
		t.Fatalf("fallback for a quiet day must carry the no-warning line:\n%s", text)
	}
}

func TestFallbackInsightUrgentLineOnLifeThreateningSymptom(t *testing.T) {
	service := NewInsightService(&stubGenerator{}, time.Second, nil)

	text := service.FallbackInsight(InsightInput{
		Symptoms: []string{"shortness of breath"},
		Warning:  &Warning{Text: "some other warning"},
	})
	if !strings.Contains(text, urgentWarningLine) {
		t.Fatalf("fallback must force the urgent line for life-threatening symptoms:\n%s", text)
	}
}
