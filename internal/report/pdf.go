// Package report renders completed-cycle records into downloadable
// documents. It is a presentation sink: nothing flows back into the
// domain from here.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/cyra-app/cyra/internal/services"
	"github.com/go-pdf/fpdf"
)

const (
	pageWidth  = 210.0
	marginLeft = 15.0
)

var (
	brandColor  = [3]int{214, 51, 132}
	accentColor = [3]int{255, 122, 162}
	grayText    = [3]int{115, 115, 115}
)

// RenderCyclePDF builds the cycle report: a cover page followed by one
// page per completed cycle, mirroring what the product's report
// download always looked like.
func RenderCyclePDF(appName string, records []services.CycleReportRecord, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s - Cycle Report", appName), true)

	// Core fonts are cp1252; the summary text carries arrows and
	// bullets that need translating before drawing.
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	renderCoverPage(pdf, translate, appName, len(records), generatedAt)
	for index, record := range records {
		renderCyclePage(pdf, translate, appName, index+1, record)
	}

	var output bytes.Buffer
	if err := pdf.Output(&output); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return output.Bytes(), nil
}

func renderCoverPage(pdf *fpdf.Fpdf, translate func(string) string, appName string, totalCycles int, generatedAt time.Time) {
	pdf.AddPage()

	pdf.SetFillColor(brandColor[0], brandColor[1], brandColor[2])
	pdf.Rect(0, 0, pageWidth, 50, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 28)
	pdf.Text(marginLeft, 30, translate(appName))

	pdf.SetTextColor(38, 38, 38)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(marginLeft, 70, "Comprehensive Cycle Report")

	pdf.SetTextColor(grayText[0], grayText[1], grayText[2])
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(marginLeft, 80, fmt.Sprintf("Generated: %s", generatedAt.Format("02 Jan 2006 15:04")))

	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(marginLeft, 90, fmt.Sprintf("Total cycles in report: %d", totalCycles))

	pdf.SetFillColor(accentColor[0], accentColor[1], accentColor[2])
	pdf.Rect(marginLeft, 94, 45, 2.5, "F")
}

func renderCyclePage(pdf *fpdf.Fpdf, translate func(string) string, appName string, cycleNumber int, record services.CycleReportRecord) {
	pdf.AddPage()

	pdf.SetTextColor(grayText[0], grayText[1], grayText[2])
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(marginLeft, 12, translate(fmt.Sprintf("%s - Cycle Report", appName)))

	pdf.SetTextColor(brandColor[0], brandColor[1], brandColor[2])
	pdf.SetFont("Helvetica", "B", 16)
	startLabel := record.StartDate
	if startLabel == "" {
		startLabel = "Unknown start"
	}
	pdf.Text(marginLeft, 25, translate(fmt.Sprintf("Cycle %d - %s", cycleNumber, startLabel)))

	leftPairs := [][2]string{
		{"Start Date:", orDash(record.StartDate)},
		{"End Date:", orDash(record.EndDate)},
		{"Cycle Length:", fmt.Sprintf("%d days", record.CycleLength)},
		{"Health Score:", fmt.Sprintf("%d%%", record.HealthScore)},
	}
	rightPairs := [][2]string{
		{"Next Period:", orDash(record.NextPredictedDate)},
		{"Top Mood:", orDash(record.TopMood)},
		{"Top Symptom:", orDash(record.TopSymptom)},
		{"Top Flow:", orDash(record.TopFlow)},
	}

	renderPairColumn(pdf, translate, marginLeft, 38, leftPairs)
	renderPairColumn(pdf, translate, 115, 38, rightPairs)

	y := 38 + float64(len(leftPairs))*7 + 6
	pdf.SetDrawColor(217, 217, 217)
	pdf.Line(marginLeft, y, pageWidth-marginLeft, y)
	y += 8

	pdf.SetTextColor(38, 38, 38)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(marginLeft, y, "Summary:")
	y += 5

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, y)
	pdf.MultiCell(pageWidth-2*marginLeft, 5, translate(summaryLine(record.SummaryText)), "", "L", false)

	if strings.TrimSpace(record.SpecialNotes) != "" {
		y = pdf.GetY() + 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Text(marginLeft, y, "Clinically relevant notes:")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(marginLeft, y+2)
		pdf.MultiCell(pageWidth-2*marginLeft, 5, translate(record.SpecialNotes), "", "L", false)
	}

	pdf.SetTextColor(grayText[0], grayText[1], grayText[2])
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(marginLeft, 287, fmt.Sprintf("Cycle #%d", cycleNumber))
	pdf.Text(pageWidth-marginLeft-30, 287, appName)
}

func renderPairColumn(pdf *fpdf.Fpdf, translate func(string) string, x float64, startY float64, pairs [][2]string) {
	y := startY
	for _, pair := range pairs {
		pdf.SetTextColor(38, 38, 38)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Text(x, y, pair[0])
		pdf.SetFont("Helvetica", "", 11)
		pdf.Text(x+32, y, translate(pair[1]))
		y += 7
	}
}

func summaryLine(text string) string {
	flattened := strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(flattened) == "" {
		return "-"
	}
	return flattened
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
