package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	ReportSheet  = "Energy Report"
	SummarySheet = "Summary"
)

var reportHeader = []interface{}{
	"Device", "Brand", "Category", "Wattage", "Hours/Day", "Monthly Units (kWh)", "Monthly Cost (₹)",
}

// WriteSpreadsheet writes an xlsx workbook with one row per device and a
// summary sheet.
func WriteSpreadsheet(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ReportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, ReportSheet, 1, reportHeader); err != nil {
		return err
	}
	for i, u := range r.Devices {
		row := []interface{}{
			u.Device.Name,
			u.Device.Brand,
			string(u.Device.Category),
			u.Device.Wattage,
			u.Device.HoursPerDay,
			round2(u.MonthlyKWh),
			round2(u.MonthlyCost),
		}
		if err := setRow(f, ReportSheet, i+2, row); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetCellStyle(ReportSheet, "A1", "G1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(ReportSheet, "A", "B", 28); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(ReportSheet, "C", "G", 16); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{Title},
		{"State", stateLabel(r.Location.State)},
		{"Rate per Unit", "₹" + trimmed(r.Location.RatePerUnit)},
		{"Total Monthly Units", fixed2(r.Totals.MonthlyUnits) + " kWh"},
		{"Total Monthly Bill", "₹" + fixed2(r.Totals.MonthlyCost)},
	}
	for i, row := range summary {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "A1", bold); err != nil {
		return fmt.Errorf("style title: %w", err)
	}
	if err := f.SetColWidth(SummarySheet, "A", "B", 24); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
