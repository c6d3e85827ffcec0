// Package calculator is the household session: the selected location plus
// the room registry and bill history it prices.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/energy-calculator/internal/consumption"
	"github.com/thatsimonsguy/energy-calculator/internal/history"
	"github.com/thatsimonsguy/energy-calculator/internal/model"
	"github.com/thatsimonsguy/energy-calculator/internal/registry"
	"github.com/thatsimonsguy/energy-calculator/internal/solar"
	"github.com/thatsimonsguy/energy-calculator/internal/tariff"
)

var (
	ErrUnknownState = errors.New("unknown state")
	ErrInvalidRate  = errors.New("rate per unit must be a non-negative number")
)

// ModeLive prices a solar estimate from the current rooms instead of entered bills.
const ModeLive solar.Mode = "live"

type Session struct {
	mu          sync.RWMutex
	loc         model.Location
	defaultRate float64
	userID      string

	rooms   *registry.Registry
	history *history.Store

	alerts   Alerter
	dispatch history.Dispatcher
}

// Alerter receives a message when a saved month costs more than the one before.
type Alerter interface {
	Send(ctx context.Context, title, message string) error
}

func New(userID string, rooms *registry.Registry, hist *history.Store, defaultRate float64) *Session {
	return &Session{
		loc:         model.Location{RatePerUnit: defaultRate},
		defaultRate: defaultRate,
		userID:      userID,
		rooms:       rooms,
		history:     hist,
	}
}

// WithAlerts enables bill-increase alerts, sent in the background.
func (s *Session) WithAlerts(a Alerter, dispatch history.Dispatcher) *Session {
	s.alerts = a
	s.dispatch = dispatch
	return s
}

func (s *Session) UserID() string {
	return s.userID
}

func (s *Session) Rooms() *registry.Registry {
	return s.rooms
}

func (s *Session) History() *history.Store {
	return s.history
}

func (s *Session) Location() model.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loc
}

// SelectState switches region. The tariff rate follows the region unless a
// manual rate is in effect. An empty state clears the selection.
func (s *Session) SelectState(state string) (model.Location, error) {
	rate, ok := tariff.RateFor(state)
	if state != "" && !ok {
		return model.Location{}, ErrUnknownState
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loc.State = state
	if !s.loc.ManualRate && ok {
		s.loc.RatePerUnit = rate
	}
	log.Debug().Str("state", state).Float64("rate", s.loc.RatePerUnit).Msg("Location selected")
	return s.loc, nil
}

// SetRate overrides the tariff with a hand-entered rate.
func (s *Session) SetRate(rate float64) (model.Location, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return model.Location{}, ErrInvalidRate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loc.RatePerUnit = rate
	s.loc.ManualRate = true
	return s.loc, nil
}

// UseTariffRate drops a manual override and goes back to the region's rate,
// or the default rate when no region is selected.
func (s *Session) UseTariffRate() model.Location {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loc.ManualRate = false
	if rate, ok := tariff.RateFor(s.loc.State); ok {
		s.loc.RatePerUnit = rate
	} else {
		s.loc.RatePerUnit = s.defaultRate
	}
	return s.loc
}

type Summary struct {
	Location   model.Location              `json:"location"`
	Totals     consumption.Totals          `json:"totals"`
	Devices    []consumption.DeviceUsage   `json:"devices"`
	Categories []consumption.CategoryShare `json:"categories"`
	Rooms      []consumption.RoomShare     `json:"rooms"`
}

// Summary prices every device at the current rate. Nothing is cached.
func (s *Session) Summary() Summary {
	loc := s.Location()
	rooms := s.rooms.Rooms()
	devices := consumption.AllDevices(rooms)

	return Summary{
		Location:   loc,
		Totals:     consumption.Aggregate(devices, loc.RatePerUnit),
		Devices:    consumption.ForDevices(devices, loc.RatePerUnit),
		Categories: consumption.ByCategory(devices, loc.RatePerUnit),
		Rooms:      consumption.ByRoom(rooms, loc.RatePerUnit),
	}
}

func (s *Session) Totals() consumption.Totals {
	return consumption.Aggregate(s.rooms.AllDevices(), s.Location().RatePerUnit)
}

func (s *Session) Carbon() consumption.Footprint {
	return consumption.Carbon(s.rooms.AllDevices())
}

func (s *Session) Suggestions() []consumption.Suggestion {
	return consumption.Suggest(s.rooms.AllDevices())
}

func (s *Session) SaveSnapshot() (model.BillHistory, bool) {
	before, compared := s.Compare()

	rec, ok := s.history.SaveSnapshot(s.rooms.Rooms(), s.Location())
	if ok && compared && before.CostDelta > 0 {
		s.alert(before, rec)
	}
	return rec, ok
}

func (s *Session) alert(c history.Comparison, rec model.BillHistory) {
	if s.alerts == nil || s.dispatch == nil {
		return
	}

	title := fmt.Sprintf("Electricity bill up for %s", rec.Month)
	message := fmt.Sprintf("Estimated monthly cost is ₹%.2f, ₹%.2f more than %s (%s).",
		rec.TotalCost, c.CostDelta, c.Baseline.Month, c.CostChangePercent)

	s.dispatch.Go("notify_bill_increase", func(ctx context.Context) error {
		return s.alerts.Send(ctx, title, message)
	})
}

func (s *Session) DeleteSnapshot(id string) bool {
	return s.history.Delete(id)
}

func (s *Session) Compare() (history.Comparison, bool) {
	return s.history.Compare(s.Totals())
}

// Trend includes the live month when there are devices and a region.
func (s *Session) Trend() []history.TrendPoint {
	totals := s.Totals()
	if totals.DeviceCount == 0 || s.Location().State == "" {
		return s.history.Trend(nil)
	}
	return s.history.Trend(&totals)
}

// EstimateSolar sizes a system from the given bills. In ModeLive, or when the
// mode is empty, the household's current monthly cost is used as the bill.
func (s *Session) EstimateSolar(in solar.Input) (solar.Estimate, error) {
	loc := s.Location()
	if in.Mode == "" || in.Mode == ModeLive {
		manual, hours := in.ManualSunHours, in.SunHours
		in = solar.FromLiveTotals(s.Totals(), loc)
		in.ManualSunHours, in.SunHours = manual, hours
	}
	if in.RatePerUnit == 0 {
		in.RatePerUnit = loc.RatePerUnit
	}
	if in.State == "" {
		in.State = loc.State
	}
	return solar.Calculate(in)
}

// Reset empties the rooms and returns the location to its defaults. Bill
// history is kept.
func (s *Session) Reset() {
	s.rooms.Clear()

	s.mu.Lock()
	s.loc = model.Location{RatePerUnit: s.defaultRate}
	s.mu.Unlock()

	log.Info().Msg("Calculator reset")
}
