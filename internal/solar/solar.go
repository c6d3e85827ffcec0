// Package solar sizes a rooftop system from an average monthly bill.
package solar

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/thatsimonsguy/energy-calculator/internal/consumption"
	"github.com/thatsimonsguy/energy-calculator/internal/model"
	"github.com/thatsimonsguy/energy-calculator/internal/tariff"
)

const (
	PerformanceRatio = 0.75
	PanelWp          = 400
	CostPerWLow      = 45
	CostPerWHigh     = 90
	DaysPerMonth     = 30
)

type Mode string

const (
	ModeAverage      Mode = "average"
	ModeThreeMonths  Mode = "three_months"
	ModeTwelveMonths Mode = "twelve_months"
)

var (
	ErrInvalidMode     = errors.New("invalid estimate mode")
	ErrTooManyBills    = errors.New("too many bills for mode")
	ErrNegativeBill    = errors.New("bill amounts must not be negative")
	ErrInvalidBill     = errors.New("bill amounts must be finite numbers")
	ErrInvalidSunHours = errors.New("sun hours must be between 0 and 24")
	ErrNegativeRate    = errors.New("rate per unit must not be negative")
	ErrInvalidRate     = errors.New("rate per unit must be a finite number")
	ErrOutOfRange      = errors.New("inputs produce an estimate too large to represent")
)

// Input carries one of the three bill modes. Bills is read for the three and
// twelve month modes, AverageBill for ModeAverage.
type Input struct {
	Mode        Mode      `json:"mode"`
	AverageBill float64   `json:"average_bill"`
	Bills       []float64 `json:"bills"`

	RatePerUnit float64 `json:"rate_per_unit"`
	State       string  `json:"state"`

	// ManualSunHours makes SunHours take precedence over the region average.
	ManualSunHours bool    `json:"manual_sun_hours"`
	SunHours       float64 `json:"sun_hours"`
}

// Years is a payback period that may be unbounded when there are no savings.
// Unbounded values encode as JSON null.
type Years struct {
	Value     float64
	Unbounded bool
}

func (y Years) MarshalJSON() ([]byte, error) {
	if y.Unbounded {
		return []byte("null"), nil
	}
	return json.Marshal(y.Value)
}

func (y *Years) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*y = Years{Unbounded: true}
		return nil
	}
	*y = Years{}
	return json.Unmarshal(data, &y.Value)
}

func (y Years) String() string {
	if y.Unbounded {
		return "unbounded"
	}
	return fmt.Sprintf("%.2f", y.Value)
}

type Estimate struct {
	MonthlyBill float64 `json:"monthly_bill"`
	MonthlyKWh  float64 `json:"monthly_kwh"`
	SunHours    float64 `json:"sun_hours"`
	RequiredKW  float64 `json:"required_kw"`
	Panels      int     `json:"panels"`
	CostLow     float64 `json:"cost_low"`
	CostHigh    float64 `json:"cost_high"`
	PaybackLow  Years   `json:"payback_low"`
	PaybackHigh Years   `json:"payback_high"`
	// PaybackUnbounded is true when yearly savings are zero.
	PaybackUnbounded bool `json:"payback_unbounded"`
}

func maxBills(m Mode) (int, error) {
	switch m {
	case ModeAverage:
		return 0, nil
	case ModeThreeMonths:
		return 3, nil
	case ModeTwelveMonths:
		return 12, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, m)
	}
}

// MonthlyBill resolves the input to a single monthly amount. In the list modes
// zero entries are treated as blank and left out of the average.
func MonthlyBill(in Input) (float64, error) {
	limit, err := maxBills(in.Mode)
	if err != nil {
		return 0, err
	}

	if in.Mode == ModeAverage {
		if err := checkBill(in.AverageBill); err != nil {
			return 0, err
		}
		return in.AverageBill, nil
	}

	if len(in.Bills) > limit {
		return 0, fmt.Errorf("%w: %s accepts %d, got %d", ErrTooManyBills, in.Mode, limit, len(in.Bills))
	}

	var sum float64
	var n int
	for _, b := range in.Bills {
		if err := checkBill(b); err != nil {
			return 0, err
		}
		if b == 0 {
			continue
		}
		sum += b
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func checkBill(b float64) error {
	if !finite(b) {
		return ErrInvalidBill
	}
	if b < 0 {
		return ErrNegativeBill
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// EffectiveSunHours prefers the manual value when enabled, otherwise the
// region's average.
func EffectiveSunHours(in Input) float64 {
	if in.ManualSunHours {
		return in.SunHours
	}
	return tariff.SunHoursFor(in.State)
}

// FromLiveTotals builds an average-bill input from the household's current
// monthly cost and location.
func FromLiveTotals(t consumption.Totals, loc model.Location) Input {
	return Input{
		Mode:        ModeAverage,
		AverageBill: t.MonthlyCost,
		RatePerUnit: loc.RatePerUnit,
		State:       loc.State,
	}
}

func Calculate(in Input) (Estimate, error) {
	if !finite(in.RatePerUnit) {
		return Estimate{}, ErrInvalidRate
	}
	if in.RatePerUnit < 0 {
		return Estimate{}, ErrNegativeRate
	}
	if in.ManualSunHours && !(in.SunHours >= 0 && in.SunHours <= 24) {
		return Estimate{}, ErrInvalidSunHours
	}

	bill, err := MonthlyBill(in)
	if err != nil {
		return Estimate{}, err
	}

	// a tiny rate can still overflow the derived figures
	e := size(bill, in.RatePerUnit, EffectiveSunHours(in))
	if !finite(e.MonthlyKWh) || !finite(e.CostHigh) || e.RequiredKW*1000/PanelWp > math.MaxInt32 {
		return Estimate{}, ErrOutOfRange
	}
	return e, nil
}

func size(monthlyBill, rate, sunHours float64) Estimate {
	e := Estimate{MonthlyBill: monthlyBill, SunHours: sunHours}

	if rate > 0 {
		e.MonthlyKWh = monthlyBill / rate
	}
	if sunHours > 0 {
		e.RequiredKW = e.MonthlyKWh / (sunHours * DaysPerMonth * PerformanceRatio)
	}

	watts := e.RequiredKW * 1000
	e.Panels = int(math.Max(0, math.Ceil(watts/PanelWp)))
	e.CostLow = watts * CostPerWLow
	e.CostHigh = watts * CostPerWHigh

	yearlySavings := monthlyBill * 12
	if yearlySavings > 0 {
		e.PaybackLow = Years{Value: e.CostLow / yearlySavings}
		e.PaybackHigh = Years{Value: e.CostHigh / yearlySavings}
	} else {
		e.PaybackLow = Years{Unbounded: true}
		e.PaybackHigh = Years{Unbounded: true}
		e.PaybackUnbounded = true
	}
	return e
}
