package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNothingToLog is the validation error for an empty check-in: at
// least one of mood, symptoms, or flow level must be present before the
// text generator is contacted.
var ErrNothingToLog = errors.New("select a mood, symptoms, or a flow level first")

const urgentWarningLine = "⚠️ Seek medical attention immediately."

// TextGenerator is the external text-generation collaborator. It is
// treated as unreliable: callers must tolerate errors, timeouts, and
// empty output.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type InsightInput struct {
	Mood           string
	Symptoms       []string
	FlowLevel      string
	Warning        *Warning
	HistorySummary string
}

type InsightService struct {
	generator TextGenerator
	timeout   time.Duration
	logger    *zap.SugaredLogger
}

func NewInsightService(generator TextGenerator, timeout time.Duration, logger *zap.SugaredLogger) *InsightService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &InsightService{
		generator: generator,
		timeout:   timeout,
		logger:    logger,
	}
}

func (input InsightInput) hasAnySelection() bool {
	if strings.TrimSpace(input.Mood) != "" || strings.TrimSpace(input.FlowLevel) != "" {
		return true
	}
	for _, symptom := range input.Symptoms {
		if strings.TrimSpace(symptom) != "" {
			return true
		}
	}
	return false
}

// BuildPrompt assembles the generation prompt. The server-computed
// warning is embedded verbatim in its own section so the generated text
// cannot contradict it, and a life-threatening symptom forces the
// urgent warning line regardless of anything else in the reply.
func (service *InsightService) BuildPrompt(input InsightInput) string {
	var builder strings.Builder

	builder.WriteString("You are a supportive menstrual health assistant. Write a short, warm daily insight for the check-in below.\n\n")
	builder.WriteString("Today's check-in:\n")
	fmt.Fprintf(&builder, "- Mood: %s\n", orNone(input.Mood))
	fmt.Fprintf(&builder, "- Symptoms: %s\n", orNone(strings.Join(input.Symptoms, ", ")))
	fmt.Fprintf(&builder, "- Flow level: %s\n", orNone(input.FlowLevel))

	if strings.TrimSpace(input.HistorySummary) != "" {
		fmt.Fprintf(&builder, "\nRecent cycle history:\n%s\n", input.HistorySummary)
	}

	builder.WriteString("\nWarning:\n")
	builder.WriteString(warningLine(input.Warning))
	builder.WriteString("\n")

	builder.WriteString("\nReply with three short sections labeled Insight, Warning, and Tip. ")
	builder.WriteString("The Warning section must repeat the warning above word for word.")

	if FirstLifeThreatening(input.Symptoms) != "" {
		fmt.Fprintf(&builder, " IMPORTANT: a life-threatening symptom was reported today. The Warning section of your reply MUST be exactly: %q — regardless of any other content.", urgentWarningLine)
	}

	return builder.String()
}

// GenerateInsight calls the collaborator with a bounded timeout and
// falls back to a fixed-format insight on error or empty output. The
// returned bool reports whether the fallback was used; generation
// failure is a degraded mode, never an error for the caller.
func (service *InsightService) GenerateInsight(ctx context.Context, input InsightInput) (string, bool, error) {
	if !input.hasAnySelection() {
		return "", false, ErrNothingToLog
	}

	prompt := service.BuildPrompt(input)

	generateCtx, cancel := context.WithTimeout(ctx, service.timeout)
	defer cancel()

	text, err := service.generator.Generate(generateCtx, prompt)
	if err != nil {
		if service.logger != nil {
			service.logger.Warnw("insight generation failed, using fallback", "error", err)
		}
		return service.FallbackInsight(input), true, nil
	}
	if strings.TrimSpace(text) == "" {
		if service.logger != nil {
			service.logger.Warnw("insight generation returned empty text, using fallback")
		}
		return service.FallbackInsight(input), true, nil
	}

	return text, false, nil
}

// FallbackInsight is the deterministic substitute used when the
// generator fails. It always embeds the computed warning so the safety
// message survives the collaborator outage.
func (service *InsightService) FallbackInsight(input InsightInput) string {
	var builder strings.Builder

	builder.WriteString("Insight: Thanks for checking in today. ")
	if strings.TrimSpace(input.Mood) != "" {
		fmt.Fprintf(&builder, "Feeling %s is a normal part of your cycle — be gentle with yourself. ", strings.ToLower(strings.TrimSpace(input.Mood)))
	}
	if len(input.Symptoms) > 0 {
		fmt.Fprintf(&builder, "Noted symptoms: %s. Rest and hydration can help. ", strings.Join(input.Symptoms, ", "))
	}
	if strings.TrimSpace(input.FlowLevel) != "" {
		fmt.Fprintf(&builder, "Flow today: %s. ", input.FlowLevel)
	}
	builder.WriteString("\nWarning: ")
	if FirstLifeThreatening(input.Symptoms) != "" {
		builder.WriteString(urgentWarningLine)
	} else {
		builder.WriteString(warningLine(input.Warning))
	}
	builder.WriteString("\nTip: Stay hydrated, aim for an early night, and keep logging — patterns across days matter more than any single one.")

	return builder.String()
}

func warningLine(warning *Warning) string {
	if warning == nil {
		return "No warning today."
	}
	return warning.Text
}

func orNone(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "none"
	}
	return trimmed
}
