package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/thatsimonsguy/energy-calculator/internal/model"
)

// GetRooms returns the user's rooms with their devices, oldest first.
func (db *DB) GetRooms(ctx context.Context, userID string) ([]model.Room, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(`SELECT id, name, icon FROM rooms
		WHERE user_id = ? ORDER BY created_at, id`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	rooms := []model.Room{}
	index := map[string]int{}
	for rows.Next() {
		var r model.Room
		if err := rows.Scan(&r.ID, &r.Name, &r.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		r.Devices = []model.Device{}
		index[r.ID] = len(rooms)
		rooms = append(rooms, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rooms: %w", err)
	}

	devices, err := db.conn.QueryContext(ctx, db.rebind(`SELECT d.id, d.room_id, d.name, d.brand, d.wattage,
			d.hours_per_day, d.category, d.is_custom
		FROM devices d JOIN rooms r ON r.id = d.room_id
		WHERE r.user_id = ? ORDER BY d.created_at, d.id`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query devices: %w", err)
	}
	defer devices.Close()

	for devices.Next() {
		var d model.Device
		var category string
		err := devices.Scan(&d.ID, &d.RoomID, &d.Name, &d.Brand, &d.Wattage, &d.HoursPerDay, &category, &d.IsCustom)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		d.Category = model.Category(category)
		if i, ok := index[d.RoomID]; ok {
			rooms[i].Devices = append(rooms[i].Devices, d)
		}
	}
	if err := devices.Err(); err != nil {
		return nil, fmt.Errorf("failed to read devices: %w", err)
	}
	return rooms, nil
}

// GetBillHistory returns up to limit records, newest first. An empty userID
// lists every owner; a limit of zero or less means no limit.
func (db *DB) GetBillHistory(ctx context.Context, userID string, limit int) ([]model.BillHistory, error) {
	query := `SELECT id, timestamp, month, total_cost, total_units, total_co2, device_count, rooms, state, rate_per_unit
		FROM bill_history`
	var args []interface{}
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY timestamp DESC, id`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := db.conn.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bill history: %w", err)
	}
	defer rows.Close()

	records := []model.BillHistory{}
	for rows.Next() {
		var rec model.BillHistory
		var rooms string
		err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Month, &rec.TotalCost, &rec.TotalUnits, &rec.TotalCO2,
			&rec.DeviceCount, &rooms, &rec.State, &rec.RatePerUnit)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill history: %w", err)
		}
		if err := json.Unmarshal([]byte(rooms), &rec.Rooms); err != nil {
			return nil, fmt.Errorf("failed to decode rooms of record %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bill history: %w", err)
	}
	return records, nil
}

type Stats struct {
	Users       int `json:"users"`
	Rooms       int `json:"rooms"`
	Devices     int `json:"devices"`
	BillHistory int `json:"bill_history"`
}

func (db *DB) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM rooms`, &s.Rooms},
		{`SELECT COUNT(*) FROM devices`, &s.Devices},
		{`SELECT COUNT(*) FROM bill_history`, &s.BillHistory},
		{`SELECT COUNT(*) FROM (SELECT user_id FROM rooms UNION SELECT user_id FROM bill_history) u`, &s.Users},
	}
	for _, c := range counts {
		if err := db.conn.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return Stats{}, fmt.Errorf("failed to count rows: %w", err)
		}
	}
	return s, nil
}
