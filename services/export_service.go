package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportService renders booking lists as spreadsheet downloads.
type ExportService struct {
	Bookings *BookingService
}

func NewExportService(bookings *BookingService) *ExportService {
	return &ExportService{Bookings: bookings}
}

var exportHeaders = []string{
	"Booking Code", "Guest", "Email", "Phone", "Room Type", "Unit",
	"Check-In", "Check-Out", "Status", "Total", "Deposit", "Created",
}

// BookingsXLSX builds an XLSX workbook of a site's bookings, filtered the
// same way as the list endpoint.
func (s *ExportService) BookingsXLSX(siteID uint, search, status string) (*bytes.Buffer, error) {
	bookings, err := s.Bookings.ListBookings(siteID, search, status)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Bookings"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}
	f.SetActiveSheet(idx)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, h := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "L", 18); err != nil {
		return nil, fmt.Errorf("failed to set column widths: %w", err)
	}

	for i := range bookings {
		b := &bookings[i]
		unitLabel := ""
		if b.RoomUnit != nil {
			unitLabel = b.RoomUnit.Label
		}
		row := []interface{}{
			b.BookingCode,
			b.GuestName,
			b.GuestEmail,
			b.GuestPhone,
			b.RoomType.Name,
			unitLabel,
			b.CheckIn.Format("2006-01-02"),
			b.CheckOut.Format("2006-01-02"),
			b.Status,
			b.TotalPrice,
			b.DepositAmount,
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return &buf, nil
}
