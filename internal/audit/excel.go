// Package audit exports booking history to Excel workbooks for offline
// review.
package audit

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Somprasong001/simple-booking-app/internal/models"
)

var exportColumns = []string{
	"ID", "Reference", "Service ID", "Start", "End",
	"Customer", "Email", "Phone", "Status", "Notes", "Created", "Updated",
}

// Exporter writes bookings into an xlsx workbook, one sheet per export.
type Exporter struct {
	timeFormat string
}

// NewExporter creates an exporter with RFC 3339 timestamps.
func NewExporter() *Exporter {
	return &Exporter{timeFormat: time.RFC3339}
}

// Write renders the bookings as an Excel sheet and streams the workbook
// to w.
func (e *Exporter) Write(w io.Writer, sheet string, bookings []models.Booking) error {
	// Excel caps sheet names at 31 chars.
	if len(sheet) > 31 {
		sheet = sheet[:31]
	}
	if sheet == "" {
		sheet = "Bookings"
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheet)

	for i, col := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
		_ = f.SetCellStyle(sheet, startCell, endCell, style)
	}

	for i, b := range bookings {
		row := []interface{}{
			b.ID, b.Reference, b.ServiceID,
			b.StartTime.Format(e.timeFormat), b.EndTime.Format(e.timeFormat),
			b.Customer.Name, b.Customer.Email, b.Customer.Phone,
			string(b.Status), b.Notes,
			b.CreatedAt.Format(e.timeFormat), b.UpdatedAt.Format(e.timeFormat),
		}
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}

	return f.Write(w)
}
