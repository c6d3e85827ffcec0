// Package remote scopes the relational store to a single user.
package remote

import (
	"context"

	"github.com/thatsimonsguy/energy-calculator/db"
	"github.com/thatsimonsguy/energy-calculator/internal/model"
)

type Client struct {
	db     *db.DB
	userID string
}

func New(store *db.DB, userID string) *Client {
	return &Client{db: store, userID: userID}
}

func (c *Client) UserID() string {
	return c.userID
}

func (c *Client) LoadRooms(ctx context.Context) ([]model.Room, error) {
	return c.db.GetRooms(ctx, c.userID)
}

func (c *Client) UpsertRoom(ctx context.Context, room model.Room) error {
	return c.db.UpsertRoom(ctx, c.userID, room)
}

func (c *Client) DeleteRoom(ctx context.Context, roomID string) error {
	return c.db.DeleteRoom(ctx, c.userID, roomID)
}

func (c *Client) UpsertDevice(ctx context.Context, roomID string, d model.Device) error {
	return c.db.UpsertDevice(ctx, roomID, d)
}

func (c *Client) DeleteDevice(ctx context.Context, deviceID string) error {
	return c.db.DeleteDevice(ctx, deviceID)
}

func (c *Client) LoadRecords(ctx context.Context, limit int) ([]model.BillHistory, error) {
	return c.db.GetBillHistory(ctx, c.userID, limit)
}

func (c *Client) InsertRecord(ctx context.Context, rec model.BillHistory) error {
	return c.db.InsertBillHistory(ctx, c.userID, rec)
}

func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	_, err := c.db.DeleteBillHistory(ctx, c.userID, id)
	return err
}
