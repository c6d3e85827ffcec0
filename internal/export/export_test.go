package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/thatsimonsguy/energy-calculator/internal/model"
)

func sampleReport(n int) Report {
	devices := []model.Device{
		{Name: "Ceiling Fan", Brand: "Havells", Wattage: 75, HoursPerDay: 12, Category: model.CategoryCooling},
		{Name: "Refrigerator", Brand: "LG", Wattage: 150, HoursPerDay: 24, Category: model.CategoryKitchen},
	}
	for i := len(devices); i < n; i++ {
		devices = append(devices, model.Device{Name: fmt.Sprintf("LED Bulb %d", i), Brand: "Philips", Wattage: 9, HoursPerDay: 6, Category: model.CategoryLighting})
	}
	loc := model.Location{State: "Maharashtra", RatePerUnit: 8.5}
	return NewReport(loc, devices, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC))
}

func TestWriteSpreadsheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSpreadsheet(&buf, sampleReport(2)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ReportSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Device", rows[0][0])
	assert.Equal(t, "Monthly Cost (₹)", rows[0][6])
	assert.Equal(t, []string{"Refrigerator", "LG", "Kitchen", "150", "24", "108", "918"}, rows[2])

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 5)
	assert.Equal(t, Title, summary[0][0])
	assert.Equal(t, []string{"State", "Maharashtra"}, summary[1])
	assert.Equal(t, []string{"Rate per Unit", "₹8.5"}, summary[2])
	assert.Equal(t, []string{"Total Monthly Units", "135.00 kWh"}, summary[3])
	assert.Equal(t, []string{"Total Monthly Bill", "₹1147.50"}, summary[4])
}

func TestWriteDocument(t *testing.T) {
	var small bytes.Buffer
	require.NoError(t, WriteDocument(&small, sampleReport(2)))
	assert.True(t, bytes.HasPrefix(small.Bytes(), []byte("%PDF")))

	var large bytes.Buffer
	require.NoError(t, WriteDocument(&large, sampleReport(80)))
	assert.True(t, bytes.HasPrefix(large.Bytes(), []byte("%PDF")))
	pages := bytes.Count(large.Bytes(), []byte("/Type /Page")) - bytes.Count(large.Bytes(), []byte("/Type /Pages"))
	assert.Greater(t, pages, 1, "long tables continue on a new page")
}

func TestWriteDocument_NonLatinNames(t *testing.T) {
	r := NewReport(model.Location{State: "Kerala", RatePerUnit: 6.5}, []model.Device{
		{Name: "Café Espresso Machine", Brand: "Crème", Wattage: 1350, HoursPerDay: 0.5, Category: model.CategoryKitchen},
		{Name: "एयर कंडीशनर इन्वर्टर स्प्लिट", Brand: "ब्लू स्टार", Wattage: 1500, HoursPerDay: 8, Category: model.CategoryCooling},
	}, time.Now())

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, r))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestCellTextTranslation(t *testing.T) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 8)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	assert.Equal(t, "Caf\xe9", tr("Café"))
	assert.Equal(t, "AC ..", tr("AC 空调"))

	cell := truncate(pdf, tr(strings.Repeat("एयर कंडीशनर ", 8)), colWidths[0])
	assert.True(t, len(cell) > 3 && cell[len(cell)-3:] == "...")
	assert.LessOrEqual(t, pdf.GetStringWidth(cell), colWidths[0]-2)
	for i := 0; i < len(cell); i++ {
		assert.Less(t, cell[i], byte(0x80), "untranslatable runes become single ASCII bytes")
	}
}

func TestWriteDocument_NoDevices(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, NewReport(model.Location{RatePerUnit: 6.5}, nil, time.Now())))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 1.24, round2(1.235000001))
	assert.Equal(t, "3.10", fixed2(3.1))
	assert.Equal(t, "6.5", trimmed(6.5))
	assert.Equal(t, "1500", trimmed(1500))
}
