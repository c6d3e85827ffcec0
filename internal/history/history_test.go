package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/energy-calculator/internal/consumption"
	"github.com/thatsimonsguy/energy-calculator/internal/mirror"
	"github.com/thatsimonsguy/energy-calculator/internal/model"
	"github.com/thatsimonsguy/energy-calculator/internal/store"
)

type fakeRemote struct {
	mu       sync.Mutex
	records  []model.BillHistory
	inserted []string
	deleted  []string
	loadErr  error
}

func (f *fakeRemote) LoadRecords(ctx context.Context, limit int) ([]model.BillHistory, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.records, nil
}

func (f *fakeRemote) InsertRecord(ctx context.Context, rec model.BillHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, rec.ID)
	return nil
}

func (f *fakeRemote) DeleteRecord(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

var location = model.Location{State: "Maharashtra", RatePerUnit: 8.5}

func sampleRooms() []model.Room {
	return []model.Room{{
		ID:   "r1",
		Name: "Living Room",
		Devices: []model.Device{
			{ID: "d1", Name: "Ceiling Fan", Wattage: 75, HoursPerDay: 12, Category: model.CategoryCooling, RoomID: "r1"},
			{ID: "d2", Name: "LED TV", Wattage: 100, HoursPerDay: 4, Category: model.CategoryEntertainment, RoomID: "r1"},
		},
	}}
}

func newTestStore(t *testing.T) (*Store, *fakeRemote, *store.Store, *mirror.Dispatcher) {
	t.Helper()
	remote := &fakeRemote{}
	local := store.New(t.TempDir())
	d := mirror.NewDispatcher(time.Second)
	s := New(remote, local, d)

	clock := time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s, remote, local, d
}

func TestSaveSnapshot(t *testing.T) {
	s, remote, local, d := newTestStore(t)

	rec, ok := s.SaveSnapshot(sampleRooms(), location)
	require.True(t, ok)
	assert.Equal(t, "November 2025", rec.Month)
	assert.Equal(t, 2, rec.DeviceCount)
	assert.InDelta(t, 39.0, rec.TotalUnits, 1e-9)
	assert.InDelta(t, 39.0*8.5, rec.TotalCost, 1e-9)
	assert.InDelta(t, 39.0*0.82, rec.TotalCO2, 1e-9)
	assert.Equal(t, "Maharashtra", rec.State)

	d.Wait()
	assert.Equal(t, []string{rec.ID}, remote.inserted)

	var mirrored []model.BillHistory
	require.NoError(t, local.Load(LocalKey, &mirrored))
	require.Len(t, mirrored, 1)
	assert.Equal(t, rec.ID, mirrored[0].ID)
}

func TestSaveSnapshot_Preconditions(t *testing.T) {
	s, remote, _, d := newTestStore(t)

	_, ok := s.SaveSnapshot(nil, location)
	assert.False(t, ok)
	_, ok = s.SaveSnapshot([]model.Room{{ID: "empty"}}, location)
	assert.False(t, ok)
	_, ok = s.SaveSnapshot(sampleRooms(), model.Location{RatePerUnit: 6.5})
	assert.False(t, ok)

	d.Wait()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, remote.inserted)
}

func TestSaveSnapshot_EvictsOldest(t *testing.T) {
	s, _, _, _ := newTestStore(t)

	var ids []string
	for i := 0; i < Capacity+1; i++ {
		rec, ok := s.SaveSnapshot(sampleRooms(), location)
		require.True(t, ok)
		ids = append(ids, rec.ID)
	}

	records := s.Records()
	require.Len(t, records, Capacity)
	assert.Equal(t, ids[Capacity], records[0].ID)
	assert.Equal(t, ids[1], records[Capacity-1].ID)
	for _, r := range records {
		assert.NotEqual(t, ids[0], r.ID)
	}
}

func TestSaveSnapshot_IsDeepCopy(t *testing.T) {
	s, _, _, _ := newTestStore(t)

	rooms := sampleRooms()
	_, ok := s.SaveSnapshot(rooms, location)
	require.True(t, ok)

	rooms[0].Name = "Renamed"
	rooms[0].Devices[0].Wattage = 5000

	latest, ok := s.Latest()
	require.True(t, ok)
	assert.Equal(t, "Living Room", latest.Rooms[0].Name)
	assert.Equal(t, 75.0, latest.Rooms[0].Devices[0].Wattage)

	records := s.Records()
	records[0].Rooms[0].Devices[0].Wattage = 1
	latest, _ = s.Latest()
	assert.Equal(t, 75.0, latest.Rooms[0].Devices[0].Wattage)
}

func TestDelete(t *testing.T) {
	s, remote, local, d := newTestStore(t)

	first, _ := s.SaveSnapshot(sampleRooms(), location)
	second, _ := s.SaveSnapshot(sampleRooms(), location)

	before := s.Records()
	assert.False(t, s.Delete("missing"))
	assert.Equal(t, before, s.Records())

	assert.True(t, s.Delete(first.ID))
	records := s.Records()
	require.Len(t, records, 1)
	assert.Equal(t, second.ID, records[0].ID)

	assert.True(t, s.Delete(second.ID))
	d.Wait()
	assert.ElementsMatch(t, []string{first.ID, second.ID}, remote.deleted)

	var mirrored []model.BillHistory
	require.NoError(t, local.Load(LocalKey, &mirrored))
	assert.Empty(t, mirrored)
}

func TestLoad_PrefersRemote(t *testing.T) {
	remote := &fakeRemote{records: []model.BillHistory{{ID: "remote-1", Month: "October 2025"}}}
	local := store.New(t.TempDir())
	require.NoError(t, local.Save(LocalKey, []model.BillHistory{{ID: "local-1"}}))

	s := New(remote, local, nil)
	require.NoError(t, s.Load(context.Background()))

	records := s.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "remote-1", records[0].ID)
}

func TestLoad_FallsBackToLocal(t *testing.T) {
	remote := &fakeRemote{loadErr: errors.New("connection refused")}
	local := store.New(t.TempDir())
	require.NoError(t, local.Save(LocalKey, []model.BillHistory{{ID: "local-1"}, {ID: "local-2"}}))

	s := New(remote, local, nil)
	require.NoError(t, s.Load(context.Background()))

	records := s.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "local-1", records[0].ID)

	empty := New(nil, store.New(t.TempDir()), nil)
	require.NoError(t, empty.Load(context.Background()))
	assert.Equal(t, 0, empty.Len())
}

func TestLoad_TruncatesToCapacity(t *testing.T) {
	var many []model.BillHistory
	for i := 0; i < 20; i++ {
		many = append(many, model.BillHistory{ID: fmt.Sprintf("h%d", i)})
	}
	s := New(&fakeRemote{records: many}, nil, nil)
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, Capacity, s.Len())
}

func TestCompare(t *testing.T) {
	s, _, _, _ := newTestStore(t)

	live := consumption.Totals{MonthlyUnits: 30, MonthlyCost: 255, MonthlyCO2: 24.6, DeviceCount: 1}
	_, ok := s.Compare(live)
	assert.False(t, ok, "no history means no comparison")

	base, _ := s.SaveSnapshot(sampleRooms(), location)

	_, ok = s.Compare(consumption.Totals{})
	assert.False(t, ok, "no live devices means no comparison")

	c, ok := s.Compare(live)
	require.True(t, ok)
	assert.InDelta(t, 255-base.TotalCost, c.CostDelta, 1e-9)
	assert.InDelta(t, -9.0, c.UnitsDelta, 1e-9)
	assert.Equal(t, -1, c.DeviceCountDelta)
	require.True(t, c.CostChangePercent.Defined)
	assert.InDelta(t, -9.0/39.0*100, c.UnitsChangePercent.Value, 1e-9)
	assert.True(t, c.Improved)
}

func TestCompare_ZeroBaseline(t *testing.T) {
	s, _, _, _ := newTestStore(t)
	free := model.Location{State: "Goa", RatePerUnit: 0}
	_, ok := s.SaveSnapshot(sampleRooms(), free)
	require.True(t, ok)

	c, ok := s.Compare(consumption.Totals{MonthlyUnits: 10, MonthlyCost: 50, DeviceCount: 1})
	require.True(t, ok)
	assert.False(t, c.CostChangePercent.Defined)
	assert.True(t, c.UnitsChangePercent.Defined)
	assert.False(t, c.Improved)

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"cost_change_percent":null`)
	assert.NotContains(t, string(raw), "NaN")
}

func TestTrend(t *testing.T) {
	s, _, _, _ := newTestStore(t)
	first, _ := s.SaveSnapshot(sampleRooms(), location)
	second, _ := s.SaveSnapshot(sampleRooms(), location)

	points := s.Trend(nil)
	require.Len(t, points, 2)
	assert.Equal(t, first.Timestamp, points[0].Timestamp)
	assert.Equal(t, second.Timestamp, points[1].Timestamp)

	live := consumption.Totals{MonthlyCost: 10}
	points = s.Trend(&live)
	require.Len(t, points, 3)
	assert.True(t, points[2].Live)
	assert.Equal(t, 10.0, points[2].Cost)
}
