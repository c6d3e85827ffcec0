package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pageBottom  = 280.0
	rowHeight   = 7.0
	leftMargin  = 14.0
	tableStartY = 72.0
)

var (
	tableHeader = []string{"Device", "Brand", "Category", "Wattage", "Hours/Day", "Monthly Units", "Monthly Cost", "CO2 (kg)"}
	colWidths   = []float64{38, 26, 24, 16, 16, 22, 22, 18}
)

// WriteDocument writes an A4 PDF with the summary lines followed by the device
// table. The table continues on new pages, repeating its header.
//
// The core PDF fonts only cover cp1252: text is translated to it, characters
// outside it print as ".", and amounts are prefixed with "Rs.".
func WriteDocument(w io.Writer, r Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(Title, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(leftMargin, 22, tr(Title))

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"State: " + stateLabel(r.Location.State),
		"Rate per Unit: Rs." + trimmed(r.Location.RatePerUnit),
		fmt.Sprintf("Total Monthly Units: %s kWh", fixed2(r.Totals.MonthlyUnits)),
		"Total Monthly Bill: Rs." + fixed2(r.Totals.MonthlyCost),
		fmt.Sprintf("Total CO2 Emissions: %s kg/month", fixed2(r.Totals.MonthlyCO2)),
	}
	for i, line := range lines {
		pdf.Text(leftMargin, 35+float64(i)*7, tr(line))
	}

	pdf.SetY(tableStartY)
	writeTableHeader(pdf)

	pdf.SetFont("Helvetica", "", 8)
	for _, u := range r.Devices {
		if pdf.GetY()+rowHeight > pageBottom {
			pdf.AddPage()
			pdf.SetY(20)
			writeTableHeader(pdf)
			pdf.SetFont("Helvetica", "", 8)
		}
		cells := []string{
			u.Device.Name,
			u.Device.Brand,
			string(u.Device.Category),
			trimmed(u.Device.Wattage) + "W",
			trimmed(u.Device.HoursPerDay) + "h",
			fixed2(u.MonthlyKWh) + " kWh",
			"Rs." + fixed2(u.MonthlyCost),
			fixed2(u.MonthlyCO2) + " kg",
		}
		pdf.SetX(leftMargin)
		for i, c := range cells {
			pdf.CellFormat(colWidths[i], rowHeight, truncate(pdf, tr(c), colWidths[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(rowHeight)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func writeTableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(34, 197, 94)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetX(leftMargin)
	for i, h := range tableHeader {
		pdf.CellFormat(colWidths[i], rowHeight, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(rowHeight)
	pdf.SetTextColor(0, 0, 0)
}

// truncate shortens already translated single-byte text to fit width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > limit {
		s = s[:len(s)-1]
	}
	return s + "..."
}
