package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/thatsimonsguy/energy-calculator/internal/model"
)

// StartTransaction starts a new database transaction.
func StartTransaction(ctx context.Context, conn *sql.DB) (*sql.Tx, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	return tx, nil
}

// CommitTransaction commits the given transaction.
func CommitTransaction(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RollbackTransaction rolls back the given transaction.
func RollbackTransaction(tx *sql.Tx) {
	tx.Rollback()
}

// UpsertRoom writes the room's own row. Devices are written separately.
func (db *DB) UpsertRoom(ctx context.Context, userID string, room model.Room) error {
	_, err := db.conn.ExecContext(ctx, db.rebind(`INSERT INTO rooms (id, user_id, name, icon, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, icon = excluded.icon`),
		room.ID, userID, room.Name, room.Icon, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("upsert room %s: %w", room.ID, err)
	}
	return nil
}

// DeleteRoom removes the room and every device stored under it.
func (db *DB) DeleteRoom(ctx context.Context, userID, roomID string) error {
	tx, err := StartTransaction(ctx, db.conn)
	if err != nil {
		return err
	}
	if err := db.DeleteRoomWithTx(ctx, tx, userID, roomID); err != nil {
		RollbackTransaction(tx)
		return err
	}
	return CommitTransaction(tx)
}

func (db *DB) DeleteRoomWithTx(ctx context.Context, tx *sql.Tx, userID, roomID string) error {
	_, err := tx.ExecContext(ctx, db.rebind(`DELETE FROM devices
		WHERE room_id IN (SELECT id FROM rooms WHERE id = ? AND user_id = ?)`), roomID, userID)
	if err != nil {
		return fmt.Errorf("delete devices of room %s: %w", roomID, err)
	}
	_, err = tx.ExecContext(ctx, db.rebind(`DELETE FROM rooms WHERE id = ? AND user_id = ?`), roomID, userID)
	if err != nil {
		return fmt.Errorf("delete room %s: %w", roomID, err)
	}
	return nil
}

func (db *DB) UpsertDevice(ctx context.Context, roomID string, d model.Device) error {
	_, err := db.conn.ExecContext(ctx, db.rebind(`INSERT INTO devices
		(id, room_id, name, brand, wattage, hours_per_day, category, is_custom, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			room_id = excluded.room_id,
			name = excluded.name,
			brand = excluded.brand,
			wattage = excluded.wattage,
			hours_per_day = excluded.hours_per_day,
			category = excluded.category,
			is_custom = excluded.is_custom`),
		d.ID, roomID, d.Name, d.Brand, d.Wattage, d.HoursPerDay, string(d.Category), d.IsCustom, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("upsert device %s: %w", d.ID, err)
	}
	return nil
}

func (db *DB) DeleteDevice(ctx context.Context, deviceID string) error {
	_, err := db.conn.ExecContext(ctx, db.rebind(`DELETE FROM devices WHERE id = ?`), deviceID)
	if err != nil {
		return fmt.Errorf("delete device %s: %w", deviceID, err)
	}
	return nil
}

func (db *DB) InsertBillHistory(ctx context.Context, userID string, rec model.BillHistory) error {
	rooms := rec.Rooms
	if rooms == nil {
		rooms = []model.Room{}
	}
	_, err := db.conn.ExecContext(ctx, db.rebind(`INSERT INTO bill_history
		(id, user_id, timestamp, month, total_cost, total_units, total_co2, device_count, rooms, state, rate_per_unit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, userID, rec.Timestamp, rec.Month, rec.TotalCost, rec.TotalUnits, rec.TotalCO2,
		rec.DeviceCount, marshalJSON(rooms), rec.State, rec.RatePerUnit)
	if err != nil {
		return fmt.Errorf("insert bill history %s: %w", rec.ID, err)
	}
	return nil
}

// DeleteBillHistory removes one record. An empty userID matches any owner.
// It reports whether a row was removed.
func (db *DB) DeleteBillHistory(ctx context.Context, userID, id string) (bool, error) {
	query := `DELETE FROM bill_history WHERE id = ?`
	args := []interface{}{id}
	if userID != "" {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}

	result, err := db.conn.ExecContext(ctx, db.rebind(query), args...)
	if err != nil {
		return false, fmt.Errorf("delete bill history %s: %w", id, err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}
