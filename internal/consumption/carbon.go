package consumption

import (
	"math"

	"github.com/thatsimonsguy/energy-calculator/internal/model"
)

const (
	treeAbsorptionKgPerYear = 21.0
	carKgPerKm              = 0.25
	coalCO2PerKg            = 2.86

	ledReduction           = 0.6
	inverterCoolingSavings = 0.3
	heavyCoolingWattage    = 1000
)

type EmissionLevel string

const (
	LevelExcellent EmissionLevel = "Excellent"
	LevelGood      EmissionLevel = "Good"
	LevelAverage   EmissionLevel = "Average"
	LevelHigh      EmissionLevel = "High"
)

type Footprint struct {
	MonthlyKWh float64       `json:"monthly_kwh"`
	MonthlyCO2 float64       `json:"monthly_co2"`
	YearlyCO2  float64       `json:"yearly_co2"`
	Level      EmissionLevel `json:"level"`

	TreesNeeded  int     `json:"trees_needed"`
	CarKm        int     `json:"car_km"`
	CoalBurnedKg float64 `json:"coal_burned_kg"`

	// reduction opportunities, kg CO₂
	LEDSavings              float64 `json:"led_savings"`
	EfficientCoolingSavings float64 `json:"efficient_cooling_savings"`
	PotentialMonthlySavings float64 `json:"potential_monthly_savings"`
	PotentialYearlySavings  float64 `json:"potential_yearly_savings"`
	TreesEquivalent         int     `json:"trees_equivalent"`
}

func LevelFor(monthlyCO2 float64) EmissionLevel {
	switch {
	case monthlyCO2 < 100:
		return LevelExcellent
	case monthlyCO2 < 200:
		return LevelGood
	case monthlyCO2 < 300:
		return LevelAverage
	default:
		return LevelHigh
	}
}

func Carbon(devices []model.Device) Footprint {
	var f Footprint
	var heavyCoolingCO2 float64

	for _, d := range devices {
		u := ForDevice(d, 0)
		f.MonthlyKWh += u.MonthlyKWh

		if d.Category == model.CategoryLighting {
			f.LEDSavings += u.MonthlyKWh * ledReduction * CO2PerKWh
		}
		if d.Category == model.CategoryCooling && d.Wattage > heavyCoolingWattage {
			heavyCoolingCO2 += u.MonthlyCO2
		}
	}

	f.MonthlyCO2 = f.MonthlyKWh * CO2PerKWh
	f.YearlyCO2 = f.MonthlyCO2 * 12
	f.Level = LevelFor(f.MonthlyCO2)

	f.TreesNeeded = int(math.Ceil(f.YearlyCO2 / treeAbsorptionKgPerYear))
	f.CarKm = int(math.Floor(f.MonthlyCO2 / carKgPerKm))
	f.CoalBurnedKg = f.MonthlyCO2 / coalCO2PerKg

	f.EfficientCoolingSavings = heavyCoolingCO2 * inverterCoolingSavings
	f.PotentialMonthlySavings = f.LEDSavings + f.EfficientCoolingSavings
	f.PotentialYearlySavings = f.PotentialMonthlySavings * 12
	f.TreesEquivalent = int(math.Ceil(f.PotentialYearlySavings / treeAbsorptionKgPerYear))
	return f
}
