package db

import (
	"context"

	"github.com/thatsimonsguy/energy-calculator/internal/model"
)

// Helpers for energy-cli. Each opens its own connection and closes it when done.

func ListBillHistoryCLI(driver, dsn, userID string, limit int) ([]model.BillHistory, error) {
	db, err := Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.GetBillHistory(context.Background(), userID, limit)
}

func DeleteBillHistoryCLI(driver, dsn, userID, id string) (bool, error) {
	db, err := Open(driver, dsn)
	if err != nil {
		return false, err
	}
	defer db.Close()

	return db.DeleteBillHistory(context.Background(), userID, id)
}

func StatsCLI(driver, dsn string) (Stats, error) {
	db, err := Open(driver, dsn)
	if err != nil {
		return Stats{}, err
	}
	defer db.Close()

	return db.Stats(context.Background())
}
