package startup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/energy-calculator/db"
	"github.com/thatsimonsguy/energy-calculator/internal/config"
	"github.com/thatsimonsguy/energy-calculator/internal/history"
	"github.com/thatsimonsguy/energy-calculator/internal/model"
	"github.com/thatsimonsguy/energy-calculator/internal/registry"
	"github.com/thatsimonsguy/energy-calculator/internal/remote"
	"github.com/thatsimonsguy/energy-calculator/internal/store"
)

func TestRestore(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(config.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer database.Close()

	client := remote.New(database, "u1")
	require.NoError(t, client.UpsertRoom(ctx, model.Room{ID: "r1", Name: "Kitchen", Icon: "ChefHat"}))
	require.NoError(t, client.UpsertDevice(ctx, "r1", model.Device{ID: "d1", Name: "Kettle", Wattage: 1500, HoursPerDay: 0.5, Category: model.CategoryKitchen}))
	require.NoError(t, client.InsertRecord(ctx, model.BillHistory{ID: "h1", Timestamp: 1, Month: "May 2025"}))

	rooms := registry.New(client, nil)
	hist := history.New(client, store.New(t.TempDir()), nil)
	Restore(ctx, rooms, hist, time.Second)

	require.Len(t, rooms.Rooms(), 1)
	assert.Len(t, rooms.AllDevices(), 1)
	assert.Equal(t, 1, hist.Len())
}

func TestRestore_WithoutRemote(t *testing.T) {
	rooms := registry.New(nil, nil)
	hist := history.New(nil, store.New(t.TempDir()), nil)

	Restore(context.Background(), rooms, hist, time.Second)

	assert.Empty(t, rooms.Rooms())
	assert.Equal(t, 0, hist.Len())
}
