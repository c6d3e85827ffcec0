package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/energy-calculator/internal/config"
)

// DB is the remote store for rooms, devices and bill history.
type DB struct {
	conn   *sql.DB
	driver string
}

// Open connects to the store and applies the schema. For sqlite a file path
// gets WAL mode and a busy timeout; ":memory:" is kept to a single connection
// so every caller sees the same database.
func Open(driver, dsn string) (*DB, error) {
	switch driver {
	case config.DriverSQLite:
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if dir := filepath.Dir(dsn); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("failed to create database dir: %w", err)
				}
			}
			if !strings.Contains(dsn, "?") {
				dsn += "?_journal_mode=WAL&_busy_timeout=5000"
			}
		}
	case config.DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == config.DriverSQLite {
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	db := &DB{conn: conn, driver: driver}
	if err := db.ApplyMigrations(); err != nil {
		conn.Close()
		return nil, err
	}

	log.Info().Str("driver", driver).Msg("Database ready")
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	icon TEXT NOT NULL DEFAULT '',
	created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rooms_user ON rooms(user_id);

CREATE TABLE IF NOT EXISTS devices (
	id TEXT PRIMARY KEY,
	room_id TEXT NOT NULL,
	name TEXT NOT NULL,
	brand TEXT NOT NULL DEFAULT '',
	wattage DOUBLE PRECISION NOT NULL,
	hours_per_day DOUBLE PRECISION NOT NULL,
	category TEXT NOT NULL,
	is_custom BOOLEAN NOT NULL DEFAULT FALSE,
	created_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_devices_room ON devices(room_id);

CREATE TABLE IF NOT EXISTS bill_history (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	timestamp BIGINT NOT NULL,
	month TEXT NOT NULL,
	total_cost DOUBLE PRECISION NOT NULL,
	total_units DOUBLE PRECISION NOT NULL,
	total_co2 DOUBLE PRECISION NOT NULL,
	device_count INTEGER NOT NULL,
	rooms TEXT NOT NULL,
	state TEXT NOT NULL DEFAULT '',
	rate_per_unit DOUBLE PRECISION NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bill_history_user_ts ON bill_history(user_id, timestamp);
`

// ApplyMigrations creates any missing tables and indexes.
func (db *DB) ApplyMigrations() error {
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (db *DB) rebind(query string) string {
	if db.driver != config.DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func marshalJSON(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
