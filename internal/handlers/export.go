package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"zone_heating/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet       = "Temperature Logs"
	exportFileName    = "temperature_logs.xlsx"
	exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeader = []string{"ID", "Zone", "Target (°C)", "Source", "Occurred At (UTC)"}

// @Summary      Export temperature logs
// @Description  Same filters as the listing, as an xlsx workbook
// @Tags         logs
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        zone    query     int     false  "Zone ID"
// @Param        source  query     string  false  "Target source"  Enums(manual,schedule)
// @Param        from    query     string  false  "Start of range"
// @Param        to      query     string  false  "End of range"
// @Param        limit   query     int     false  "Maximum rows"
// @Success      200     {file}    file
// @Failure      400     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/v1/logs/export [get]
// @Security     BearerAuth
func (h *Handler) exportLogs(c *gin.Context) {
	f, ok := parseLogFilter(c)
	if !ok {
		return
	}
	logs, err := h.services.EventLog.List(c.Request.Context(), f)
	if err != nil {
		h.respondServiceError(c, "logs_export_failed", err)
		return
	}
	data, err := buildLogWorkbook(logs)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to build export", "logs_export_build_failed", err, "rows", len(logs))
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+exportFileName)
	c.Data(http.StatusOK, exportContentType, data)
}

// buildLogWorkbook renders logs into a single-sheet workbook with a frozen, bold header row.
func buildLogWorkbook(logs []models.TemperatureLog) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(exportHeader), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "A", "A", 38); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "E", "E", 22); err != nil {
		return nil, err
	}

	for i, l := range logs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{l.ID, l.ZoneID, l.TempC, string(l.Source), l.OccurredAt.UTC().Format(time.DateTime)}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
