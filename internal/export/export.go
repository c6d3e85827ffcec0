// Package export renders the current household bill as a spreadsheet or a
// PDF document.
package export

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/thatsimonsguy/energy-calculator/internal/consumption"
	"github.com/thatsimonsguy/energy-calculator/internal/model"
)

const Title = "Energy Consumption Report"

type Report struct {
	GeneratedAt time.Time
	Location    model.Location
	Totals      consumption.Totals
	Devices     []consumption.DeviceUsage
}

func NewReport(loc model.Location, devices []model.Device, now time.Time) Report {
	return Report{
		GeneratedAt: now,
		Location:    loc,
		Totals:      consumption.Aggregate(devices, loc.RatePerUnit),
		Devices:     consumption.ForDevices(devices, loc.RatePerUnit),
	}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// trimmed formats v without trailing zeros, e.g. 6.5 or 1500.
func trimmed(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}

func stateLabel(state string) string {
	if state == "" {
		return "Not selected"
	}
	return state
}
