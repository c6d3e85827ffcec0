// Package consumption derives energy, cost and CO₂ figures from devices and a
// per-unit rate. Every function is pure and recomputes from its inputs.
package consumption

import (
	"github.com/thatsimonsguy/energy-calculator/internal/model"
)

const (
	DaysPerMonth = 30
	// CO2PerKWh is the grid-average emission factor in kg CO₂ per kWh. It is
	// applied regardless of the selected region.
	CO2PerKWh = 0.82
)

type DeviceUsage struct {
	Device      model.Device `json:"device"`
	DailyKWh    float64      `json:"daily_kwh"`
	MonthlyKWh  float64      `json:"monthly_kwh"`
	DailyCost   float64      `json:"daily_cost"`
	MonthlyCost float64      `json:"monthly_cost"`
	MonthlyCO2  float64      `json:"monthly_co2"`
}

type Totals struct {
	MonthlyUnits float64 `json:"monthly_units"`
	MonthlyCost  float64 `json:"monthly_cost"`
	MonthlyCO2   float64 `json:"monthly_co2"`
	DeviceCount  int     `json:"device_count"`
}

func ForDevice(d model.Device, rate float64) DeviceUsage {
	daily := d.Wattage * d.HoursPerDay / 1000
	monthly := daily * DaysPerMonth
	return DeviceUsage{
		Device:      d,
		DailyKWh:    daily,
		MonthlyKWh:  monthly,
		DailyCost:   daily * rate,
		MonthlyCost: monthly * rate,
		MonthlyCO2:  monthly * CO2PerKWh,
	}
}

func ForDevices(devices []model.Device, rate float64) []DeviceUsage {
	out := make([]DeviceUsage, 0, len(devices))
	for _, d := range devices {
		out = append(out, ForDevice(d, rate))
	}
	return out
}

// Aggregate sums the per-device figures. No devices yields zero totals.
func Aggregate(devices []model.Device, rate float64) Totals {
	var t Totals
	for _, d := range devices {
		u := ForDevice(d, rate)
		t.MonthlyUnits += u.MonthlyKWh
		t.MonthlyCost += u.MonthlyCost
		t.MonthlyCO2 += u.MonthlyCO2
	}
	t.DeviceCount = len(devices)
	return t
}

// AllDevices flattens rooms into one device list, room by room.
func AllDevices(rooms []model.Room) []model.Device {
	var out []model.Device
	for _, r := range rooms {
		out = append(out, r.Devices...)
	}
	return out
}
