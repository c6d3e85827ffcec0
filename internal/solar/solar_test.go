package solar

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/energy-calculator/internal/consumption"
	"github.com/thatsimonsguy/energy-calculator/internal/model"
)

func TestCalculate_ReferenceHousehold(t *testing.T) {
	est, err := Calculate(Input{
		Mode:           ModeAverage,
		AverageBill:    3000,
		RatePerUnit:    6.5,
		ManualSunHours: true,
		SunHours:       5,
	})
	require.NoError(t, err)

	assert.InDelta(t, 461.5, est.MonthlyKWh, 0.05)
	assert.InDelta(t, 4.10, est.RequiredKW, 0.005)
	assert.Equal(t, 11, est.Panels)
	assert.InDelta(t, est.RequiredKW*1000*45, est.CostLow, 1e-6)
	assert.InDelta(t, est.RequiredKW*1000*90, est.CostHigh, 1e-6)
	assert.False(t, est.PaybackUnbounded)
	assert.InDelta(t, est.CostLow/36000, est.PaybackLow.Value, 1e-9)
}

func TestCalculate_ZeroBillIsUnbounded(t *testing.T) {
	est, err := Calculate(Input{Mode: ModeAverage, AverageBill: 0, RatePerUnit: 6.5})
	require.NoError(t, err)

	assert.True(t, est.PaybackUnbounded)
	assert.True(t, est.PaybackLow.Unbounded)
	assert.True(t, est.PaybackHigh.Unbounded)
	assert.Equal(t, 0, est.Panels)

	raw, err := json.Marshal(est)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"payback_low":null`)
	assert.Contains(t, string(raw), `"payback_high":null`)
	assert.NotContains(t, string(raw), "Inf")
	assert.NotContains(t, string(raw), "NaN")
}

func TestCalculate_ZeroRate(t *testing.T) {
	est, err := Calculate(Input{Mode: ModeAverage, AverageBill: 2000, RatePerUnit: 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, est.MonthlyKWh)
	assert.Equal(t, 0.0, est.RequiredKW)
	assert.Equal(t, 0, est.Panels)
}

func TestMonthlyBill_ExcludesBlankMonths(t *testing.T) {
	bill, err := MonthlyBill(Input{Mode: ModeThreeMonths, Bills: []float64{0, 1000, 2000}})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, bill)

	bill, err = MonthlyBill(Input{Mode: ModeTwelveMonths, Bills: []float64{1200, 0, 0, 1800}})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, bill)

	bill, err = MonthlyBill(Input{Mode: ModeThreeMonths, Bills: []float64{0, 0, 0}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, bill)
}

func TestMonthlyBill_Errors(t *testing.T) {
	_, err := MonthlyBill(Input{Mode: "weekly"})
	assert.ErrorIs(t, err, ErrInvalidMode)

	_, err = MonthlyBill(Input{Mode: ModeThreeMonths, Bills: []float64{1, 2, 3, 4}})
	assert.ErrorIs(t, err, ErrTooManyBills)

	_, err = MonthlyBill(Input{Mode: ModeTwelveMonths, Bills: []float64{100, -5}})
	assert.ErrorIs(t, err, ErrNegativeBill)
}

func TestEffectiveSunHours(t *testing.T) {
	assert.Equal(t, 6.0, EffectiveSunHours(Input{State: "Rajasthan"}))
	assert.Equal(t, 4.5, EffectiveSunHours(Input{}))
	assert.Equal(t, 3.0, EffectiveSunHours(Input{State: "Rajasthan", ManualSunHours: true, SunHours: 3}))
}

func TestCalculate_InvalidSunHours(t *testing.T) {
	_, err := Calculate(Input{Mode: ModeAverage, AverageBill: 100, RatePerUnit: 5, ManualSunHours: true, SunHours: 25})
	assert.ErrorIs(t, err, ErrInvalidSunHours)
}

func TestCalculate_NonFiniteInputs(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)

	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"nan average bill", Input{Mode: ModeAverage, AverageBill: nan, RatePerUnit: 6.5}, ErrInvalidBill},
		{"inf average bill", Input{Mode: ModeAverage, AverageBill: inf, RatePerUnit: 6.5}, ErrInvalidBill},
		{"nan monthly bill", Input{Mode: ModeThreeMonths, Bills: []float64{1000, nan}, RatePerUnit: 6.5}, ErrInvalidBill},
		{"-inf monthly bill", Input{Mode: ModeTwelveMonths, Bills: []float64{math.Inf(-1)}, RatePerUnit: 6.5}, ErrInvalidBill},
		{"nan rate", Input{Mode: ModeAverage, AverageBill: 3000, RatePerUnit: nan}, ErrInvalidRate},
		{"inf rate", Input{Mode: ModeAverage, AverageBill: 3000, RatePerUnit: inf}, ErrInvalidRate},
		{"nan sun hours", Input{Mode: ModeAverage, AverageBill: 3000, RatePerUnit: 6.5, ManualSunHours: true, SunHours: nan}, ErrInvalidSunHours},
		{"inf sun hours", Input{Mode: ModeAverage, AverageBill: 3000, RatePerUnit: 6.5, ManualSunHours: true, SunHours: inf}, ErrInvalidSunHours},
		{"overflowing rate", Input{Mode: ModeAverage, AverageBill: math.MaxFloat64, RatePerUnit: 1e-300}, ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := Calculate(tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, Estimate{}, est)
		})
	}
}

func TestCalculate_HugeFiniteBillStillEncodes(t *testing.T) {
	est, err := Calculate(Input{Mode: ModeAverage, AverageBill: 1e9, RatePerUnit: 6.5})
	require.NoError(t, err)

	_, err = json.Marshal(est)
	assert.NoError(t, err)
	assert.Greater(t, est.Panels, 0)
}

func TestYearsString(t *testing.T) {
	assert.Equal(t, "unbounded", Years{Unbounded: true}.String())
	assert.Equal(t, "4.25", Years{Value: 4.25}.String())
}

func TestFromLiveTotals(t *testing.T) {
	in := FromLiveTotals(consumption.Totals{MonthlyCost: 3000, DeviceCount: 4}, model.Location{State: "Rajasthan", RatePerUnit: 6.5})
	assert.Equal(t, ModeAverage, in.Mode)
	assert.Equal(t, 3000.0, in.AverageBill)

	est, err := Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, 6.0, est.SunHours)
	assert.Equal(t, 9, est.Panels)
}

func TestYearsJSON(t *testing.T) {
	var est Estimate
	require.NoError(t, json.Unmarshal([]byte(`{"payback_low":null,"payback_high":2.5}`), &est))
	assert.True(t, est.PaybackLow.Unbounded)
	assert.Equal(t, Years{Value: 2.5}, est.PaybackHigh)
}
