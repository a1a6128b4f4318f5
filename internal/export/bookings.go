// Package export renders bookings as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/xuri/excelize/v2"
)

const bookingsSheet = "Bookings"

var bookingHeaders = []string{
	"ID", "Package", "Customer", "Email", "Phone", "Adults", "Children",
	"Travel date", "Total", "Status", "Transaction", "Created",
}

// WriteBookingsXLSX writes one row per booking under a header row.
func WriteBookingsXLSX(w io.Writer, bookings []domain.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bookingsSheet); err != nil {
		return err
	}

	if err := f.SetSheetRow(bookingsSheet, "A1", &bookingHeaders); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(bookingsSheet, 1, 1, style); err != nil {
		return err
	}

	for i, b := range bookings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			b.ID, b.PackageTitle, b.FullName, b.Email, b.Phone, b.Adults, b.Children,
			b.TravelDate.Format("2006-01-02"), b.TotalAmount, string(b.Status), b.TransactionID,
			b.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(bookingsSheet, cell, &row); err != nil {
			return fmt.Errorf("write booking %s: %w", b.ID, err)
		}
	}

	if err := f.SetColWidth(bookingsSheet, "A", "L", 18); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
