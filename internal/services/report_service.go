package services

import (
	"strconv"
	"strings"

	"github.com/cyra-app/cyra/internal/models"
)

var ReportCSVHeaders = []string{
	"Cycle ID",
	"Start Date",
	"End Date",
	"Cycle Length",
	"Health Score",
	"Next Predicted Date",
	"Top Mood",
	"Top Symptom",
	"Top Flow",
	"Summary",
}

type ReportCycleReader interface {
	ListClosedByUser(userID uint) ([]models.Cycle, error)
}

type ReportService struct {
	cycles ReportCycleReader
}

// CycleReportRecord is one completed cycle flattened for the report
// renderers. SpecialNotes carries accumulated red flags, when any.
type CycleReportRecord struct {
	CycleID           string
	StartDate         string
	EndDate           string
	CycleLength       int
	HealthScore       int
	NextPredictedDate string
	TopMood           string
	TopSymptom        string
	TopFlow           string
	SummaryText       string
	SpecialNotes      string
}

func NewReportService(cycles ReportCycleReader) *ReportService {
	return &ReportService{cycles: cycles}
}

func (service *ReportService) BuildRecords(userID uint) ([]CycleReportRecord, error) {
	cycles, err := service.cycles.ListClosedByUser(userID)
	if err != nil {
		return nil, err
	}

	records := make([]CycleReportRecord, 0, len(cycles))
	for _, cycle := range cycles {
		record := CycleReportRecord{
			CycleID:     cycle.PublicID,
			StartDate:   FormatDay(cycle.StartDate),
			CycleLength: cycle.CycleLength,
			HealthScore: cycle.CycleHealthScore,
			TopMood:     cycle.TopMood,
			TopSymptom:  cycle.TopSymptom,
			TopFlow:     cycle.TopFlow,
			SummaryText: cycle.SummaryText,
		}
		if cycle.EndDate != nil {
			record.EndDate = FormatDay(*cycle.EndDate)
		}
		if cycle.NextPredictedDate != nil {
			record.NextPredictedDate = FormatDay(*cycle.NextPredictedDate)
		}
		if notes := specialNotes(cycle.RedFlags); notes != "" {
			record.SpecialNotes = notes
		}
		records = append(records, record)
	}
	return records, nil
}

// CSVColumns flattens the summary's newlines so each cycle stays on one
// CSV row.
func (record CycleReportRecord) CSVColumns() []string {
	return []string{
		record.CycleID,
		record.StartDate,
		record.EndDate,
		itoaColumn(record.CycleLength),
		itoaColumn(record.HealthScore),
		record.NextPredictedDate,
		record.TopMood,
		record.TopSymptom,
		record.TopFlow,
		flattenNewlines(record.SummaryText),
	}
}

// specialNotes keeps only flags worth a clinician's attention; the
// explicit all-clear line is not a note.
func specialNotes(redFlags []string) string {
	notes := make([]string, 0, len(redFlags))
	for _, flag := range redFlags {
		trimmed := strings.TrimSpace(flag)
		if trimmed == "" || trimmed == "No serious warning signs detected." {
			continue
		}
		notes = append(notes, trimmed)
	}
	return strings.Join(notes, "; ")
}

func itoaColumn(value int) string {
	return strconv.Itoa(value)
}

func flattenNewlines(text string) string {
	flattened := strings.ReplaceAll(text, "\r\n", " ")
	return strings.ReplaceAll(flattened, "\n", " ")
}
