package consumption

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thatsimonsguy/energy-calculator/internal/model"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, LevelExcellent, LevelFor(0))
	assert.Equal(t, LevelExcellent, LevelFor(99.9))
	assert.Equal(t, LevelGood, LevelFor(100))
	assert.Equal(t, LevelAverage, LevelFor(250))
	assert.Equal(t, LevelHigh, LevelFor(300))
}

func TestCarbon(t *testing.T) {
	devices := []model.Device{
		device("ac", 1500, 8, model.CategoryCooling),     // 360 kWh
		device("fan", 75, 12, model.CategoryCooling),     // 27 kWh, below the heavy cooling threshold
		device("cfl", 40, 5, model.CategoryLighting),     // 6 kWh
		device("fridge", 150, 24, model.CategoryKitchen), // 108 kWh
	}

	f := Carbon(devices)

	assert.InDelta(t, 501.0, f.MonthlyKWh, 1e-9)
	assert.InDelta(t, 501*0.82, f.MonthlyCO2, 1e-9)
	assert.InDelta(t, f.MonthlyCO2*12, f.YearlyCO2, 1e-9)
	assert.Equal(t, LevelHigh, f.Level)
	assert.Equal(t, 235, f.TreesNeeded) // ceil(4929.84 / 21)
	assert.Equal(t, 1643, f.CarKm)      // floor(410.82 / 0.25)
	assert.InDelta(t, 410.82/2.86, f.CoalBurnedKg, 1e-9)

	assert.InDelta(t, 6*0.6*0.82, f.LEDSavings, 1e-9)
	assert.InDelta(t, 360*0.82*0.3, f.EfficientCoolingSavings, 1e-9)
	assert.InDelta(t, f.LEDSavings+f.EfficientCoolingSavings, f.PotentialMonthlySavings, 1e-9)
}

func TestCarbon_NoDevices(t *testing.T) {
	f := Carbon(nil)
	assert.Equal(t, 0.0, f.MonthlyCO2)
	assert.Equal(t, 0, f.TreesNeeded)
	assert.Equal(t, LevelExcellent, f.Level)
}
