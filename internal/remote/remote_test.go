package remote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/energy-calculator/db"
	"github.com/thatsimonsguy/energy-calculator/internal/config"
	"github.com/thatsimonsguy/energy-calculator/internal/model"
)

func TestClientScopesToUser(t *testing.T) {
	ctx := context.Background()
	store, err := db.Open(config.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	alice := New(store, "alice")
	bob := New(store, "bob")

	require.NoError(t, alice.UpsertRoom(ctx, model.Room{ID: "r1", Name: "Bedroom"}))
	require.NoError(t, alice.UpsertDevice(ctx, "r1", model.Device{ID: "d1", Name: "Fan", Wattage: 60, HoursPerDay: 8, Category: model.CategoryCooling}))
	require.NoError(t, alice.InsertRecord(ctx, model.BillHistory{ID: "h1", Timestamp: 10, Month: "June 2025"}))

	rooms, err := bob.LoadRooms(ctx)
	require.NoError(t, err)
	assert.Empty(t, rooms)

	records, err := bob.LoadRecords(ctx, 12)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, bob.DeleteRecord(ctx, "h1"))
	records, err = alice.LoadRecords(ctx, 12)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	require.NoError(t, alice.DeleteDevice(ctx, "d1"))
	require.NoError(t, alice.DeleteRoom(ctx, "r1"))
	require.NoError(t, alice.DeleteRecord(ctx, "h1"))

	rooms, err = alice.LoadRooms(ctx)
	require.NoError(t, err)
	assert.Empty(t, rooms)
	assert.Equal(t, "alice", alice.UserID())
}
