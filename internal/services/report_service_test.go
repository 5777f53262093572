package services

import (
	"strings"
	"testing"

	"github.com/cyra-app/cyra/internal/models"
)

type stubCycleReader struct {
	cycles []models.Cycle
}

func (stub *stubCycleReader) ListClosedByUser(userID uint) ([]models.Cycle, error) {
	return stub.cycles, nil
}

func TestBuildRecords(t *testing.T) {
	end := mustParseDay(t, "2024-01-06")
	predicted := mustParseDay(t, "2024-01-29")
	reader := &stubCycleReader{cycles: []models.Cycle{{
		PublicID:          "abc-123",
		StartDate:         mustParseDay(t, "2024-01-01"),
		EndDate:           &end,
		CycleLength:       6,
		CycleHealthScore:  100,
		NextPredictedDate: &predicted,
		TopMood:           "Calm",
		TopSymptom:        "Cramps",
		TopFlow:           "medium",
		SummaryText:       "line one\nline two",
		RedFlags:          []string{"Heavy flow for 2 or more days", "No serious warning signs detected."},
	}}}

	records, err := NewReportService(reader).BuildRecords(1)
	if err != nil {
		t.Fatalf("BuildRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	record := records[0]
	if record.CycleID != "abc-123" || record.StartDate != "2024-01-01" || record.EndDate != "2024-01-06" {
		t.Fatalf("unexpected record identity: %+v", record)
	}
	if record.NextPredictedDate != "2024-01-29" {
		t.Fatalf("unexpected predicted date %q", record.NextPredictedDate)
	}
	if record.SpecialNotes != "Heavy flow for 2 or more days" {
		t.Fatalf("the all-clear line must be filtered out, got %q", record.SpecialNotes)
	}
}

func TestBuildRecordsOpenEndedFields(t *testing.T) {
	reader := &stubCycleReader{cycles: []models.Cycle{{
		PublicID:  "open",
		StartDate: mustParseDay(t, "2024-02-01"),
		RedFlags:  []string{"No serious warning signs detected."},
	}}}

	records, err := NewReportService(reader).BuildRecords(1)
	if err != nil {
		t.Fatalf("BuildRecords failed: %v", err)
	}
	record := records[0]
	if record.EndDate != "" || record.NextPredictedDate != "" {
		t.Fatalf("missing dates must stay empty: %+v", record)
	}
	if record.SpecialNotes != "" {
		t.Fatalf("expected no special notes, got %q", record.SpecialNotes)
	}
}

func TestCSVColumnsFlattenNewlines(t *testing.T) {
	record := CycleReportRecord{
		CycleID:     "abc",
		CycleLength: 6,
		HealthScore: 85,
		SummaryText: "first line\r\nsecond line\nthird line",
	}

	columns := record.CSVColumns()
	if len(columns) != len(ReportCSVHeaders) {
		t.Fatalf("expected %d columns, got %d", len(ReportCSVHeaders), len(columns))
	}
	summary := columns[len(columns)-1]
	if strings.ContainsAny(summary, "\r\n") {
		t.Fatalf("summary column must be single-line, got %q", summary)
	}
	if columns[3] != "6" || columns[4] != "85" {
		t.Fatalf("numeric columns wrong: %v", columns)
	}
}

func TestSpecialNotesJoinsDistinctFlags(t *testing.T) {
	notes := specialNotes([]string{" Irregular cycle length ", "", "Heavy flow for 2 or more days"})
	if notes != "Irregular cycle length; Heavy flow for 2 or more days" {
		t.Fatalf("unexpected notes %q", notes)
	}
}
