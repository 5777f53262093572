package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/cyra-app/cyra/internal/report"
	"github.com/cyra-app/cyra/internal/services"
	"github.com/gofiber/fiber/v2"
)

const appDisplayName = "Cyra"

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	user := currentUser(c)

	records, err := handler.reports.BuildRecords(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch cycles")
	}
	now := time.Now().In(handler.location)

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ReportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	for _, record := range records {
		if err := writer.Write(record.CSVColumns()); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(now, "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportPDF(c *fiber.Ctx) error {
	user := currentUser(c)

	records, err := handler.reports.BuildRecords(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch cycles")
	}
	now := time.Now().In(handler.location)

	document, err := report.RenderCyclePDF(appDisplayName, records, now)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "application/pdf", buildExportFilename(now, "pdf"))
	return c.Send(document)
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("cyra-report-%s.%s", now.Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
