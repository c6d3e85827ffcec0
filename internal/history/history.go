// Package history keeps the most recent bill snapshots, newest first.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/energy-calculator/internal/consumption"
	"github.com/thatsimonsguy/energy-calculator/internal/datadog"
	"github.com/thatsimonsguy/energy-calculator/internal/model"
	"github.com/thatsimonsguy/energy-calculator/internal/store"
)

const (
	Capacity = 12
	LocalKey = "energyBillHistory"
)

type Remote interface {
	LoadRecords(ctx context.Context, limit int) ([]model.BillHistory, error)
	InsertRecord(ctx context.Context, rec model.BillHistory) error
	DeleteRecord(ctx context.Context, id string) error
}

type Local interface {
	Load(key string, v any) error
	Save(key string, v any) error
}

type Dispatcher interface {
	Go(op string, fn func(ctx context.Context) error)
}

type Store struct {
	mu      sync.RWMutex
	records []model.BillHistory

	remote   Remote
	local    Local
	dispatch Dispatcher
	now      func() time.Time
}

// New returns an empty store. remote and local may each be nil.
func New(remote Remote, local Local, dispatch Dispatcher) *Store {
	return &Store{
		records:  []model.BillHistory{},
		remote:   remote,
		local:    local,
		dispatch: dispatch,
		now:      time.Now,
	}
}

// Load reads the newest records from the remote store and falls back to the
// local mirror when that fails. A missing mirror yields an empty history.
func (s *Store) Load(ctx context.Context) error {
	records, err := s.loadRemote(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Falling back to local bill history")
		records, err = s.loadLocal()
		if err != nil {
			return err
		}
	}
	if len(records) > Capacity {
		records = records[:Capacity]
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	log.Info().Int("records", len(records)).Msg("Bill history loaded")
	return nil
}

func (s *Store) loadRemote(ctx context.Context) ([]model.BillHistory, error) {
	if s.remote == nil {
		return nil, errors.New("no remote store configured")
	}
	records, err := s.remote.LoadRecords(ctx, Capacity)
	if err != nil {
		return nil, fmt.Errorf("load remote bill history: %w", err)
	}
	if records == nil {
		records = []model.BillHistory{}
	}
	return records, nil
}

func (s *Store) loadLocal() ([]model.BillHistory, error) {
	records := []model.BillHistory{}
	if s.local == nil {
		return records, nil
	}
	if err := s.local.Load(LocalKey, &records); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []model.BillHistory{}, nil
		}
		return nil, fmt.Errorf("load local bill history: %w", err)
	}
	if records == nil {
		records = []model.BillHistory{}
	}
	return records, nil
}

// SaveSnapshot records the current rooms as a new bill. Nothing is saved when
// there are no devices or no region is selected; ok reports whether a record
// was created.
func (s *Store) SaveSnapshot(rooms []model.Room, loc model.Location) (rec model.BillHistory, ok bool) {
	devices := consumption.AllDevices(rooms)
	if len(devices) == 0 || loc.State == "" {
		return model.BillHistory{}, false
	}

	totals := consumption.Aggregate(devices, loc.RatePerUnit)
	now := s.now()
	rec = model.BillHistory{
		ID:          uuid.NewString(),
		Timestamp:   now.UnixMilli(),
		Month:       now.Format("January 2006"),
		TotalCost:   totals.MonthlyCost,
		TotalUnits:  totals.MonthlyUnits,
		TotalCO2:    totals.MonthlyCO2,
		DeviceCount: totals.DeviceCount,
		Rooms:       model.CloneRooms(rooms),
		State:       loc.State,
		RatePerUnit: loc.RatePerUnit,
	}

	s.mu.Lock()
	next := make([]model.BillHistory, 0, Capacity)
	next = append(next, rec)
	next = append(next, s.records...)
	if len(next) > Capacity {
		next = next[:Capacity]
	}
	s.records = next
	s.writeLocal()
	s.mu.Unlock()

	datadog.Gauge("bill.monthly_cost", totals.MonthlyCost, "state:"+loc.State)
	log.Info().Str("id", rec.ID).Float64("total_cost", rec.TotalCost).Int("devices", rec.DeviceCount).Msg("Bill snapshot saved")

	if s.remote != nil && s.dispatch != nil {
		remote, payload := s.remote, rec.Clone()
		s.dispatch.Go("bill_history.insert", func(ctx context.Context) error {
			return remote.InsertRecord(ctx, payload)
		})
	}
	return rec.Clone(), true
}

// Delete removes the record with the given id. Unknown ids are ignored.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	idx := -1
	for i := range s.records {
		if s.records[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	next := make([]model.BillHistory, 0, len(s.records)-1)
	next = append(next, s.records[:idx]...)
	next = append(next, s.records[idx+1:]...)
	s.records = next
	s.writeLocal()
	s.mu.Unlock()

	if s.remote != nil && s.dispatch != nil {
		remote := s.remote
		s.dispatch.Go("bill_history.delete", func(ctx context.Context) error {
			return remote.DeleteRecord(ctx, id)
		})
	}
	return true
}

// writeLocal must be called with s.mu held.
func (s *Store) writeLocal() {
	if s.local == nil {
		return
	}
	if err := s.local.Save(LocalKey, s.records); err != nil {
		log.Error().Err(err).Msg("Failed to write local bill history")
		datadog.Incr("sync.failure", "op:bill_history.local")
	}
}

// Records returns a deep copy of the history, newest first.
func (s *Store) Records() []model.BillHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.BillHistory, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out
}

func (s *Store) Latest() (model.BillHistory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return model.BillHistory{}, false
	}
	return s.records[0].Clone(), true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Percent is a percentage change that may be undefined because the baseline
// was zero. Undefined values encode as JSON null.
type Percent struct {
	Value   float64
	Defined bool
}

func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Percent{}
		return nil
	}
	*p = Percent{Defined: true}
	return json.Unmarshal(data, &p.Value)
}

func (p Percent) String() string {
	if !p.Defined {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", p.Value)
}

func percentChange(from, to float64) Percent {
	if from == 0 {
		return Percent{}
	}
	return Percent{Value: (to - from) / from * 100, Defined: true}
}

// Comparison is the live month measured against the latest snapshot.
type Comparison struct {
	Baseline           model.BillHistory  `json:"baseline"`
	Current            consumption.Totals `json:"current"`
	CostDelta          float64            `json:"cost_delta"`
	UnitsDelta         float64            `json:"units_delta"`
	CO2Delta           float64            `json:"co2_delta"`
	DeviceCountDelta   int                `json:"device_count_delta"`
	CostChangePercent  Percent            `json:"cost_change_percent"`
	UnitsChangePercent Percent            `json:"units_change_percent"`
	Improved           bool               `json:"improved"`
}

// Compare measures current against the latest snapshot. There is no
// comparison without history or without any live devices.
func (s *Store) Compare(current consumption.Totals) (Comparison, bool) {
	latest, ok := s.Latest()
	if !ok || current.DeviceCount == 0 {
		return Comparison{}, false
	}

	c := Comparison{
		Baseline:           latest,
		Current:            current,
		CostDelta:          current.MonthlyCost - latest.TotalCost,
		UnitsDelta:         current.MonthlyUnits - latest.TotalUnits,
		CO2Delta:           current.MonthlyCO2 - latest.TotalCO2,
		DeviceCountDelta:   current.DeviceCount - latest.DeviceCount,
		CostChangePercent:  percentChange(latest.TotalCost, current.MonthlyCost),
		UnitsChangePercent: percentChange(latest.TotalUnits, current.MonthlyUnits),
	}
	c.Improved = c.CostDelta < 0
	return c, true
}

type TrendPoint struct {
	Month     string  `json:"month"`
	Timestamp int64   `json:"timestamp"`
	Cost      float64 `json:"cost"`
	Units     float64 `json:"units"`
	CO2       float64 `json:"co2"`
	Live      bool    `json:"live"`
}

// Trend lists the snapshots oldest first. When live is non-nil it is appended
// as the current month.
func (s *Store) Trend(live *consumption.Totals) []TrendPoint {
	s.mu.RLock()
	points := make([]TrendPoint, 0, len(s.records)+1)
	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		points = append(points, TrendPoint{
			Month:     r.Month,
			Timestamp: r.Timestamp,
			Cost:      r.TotalCost,
			Units:     r.TotalUnits,
			CO2:       r.TotalCO2,
		})
	}
	s.mu.RUnlock()

	if live != nil {
		now := s.now()
		points = append(points, TrendPoint{
			Month:     now.Format("January 2006"),
			Timestamp: now.UnixMilli(),
			Cost:      live.MonthlyCost,
			Units:     live.MonthlyUnits,
			CO2:       live.MonthlyCO2,
			Live:      true,
		})
	}
	return points
}
