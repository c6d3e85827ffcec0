// Package registry holds the household's rooms and their devices in memory
// and mirrors every change to the remote store in the background.
package registry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/energy-calculator/internal/catalog"
	"github.com/thatsimonsguy/energy-calculator/internal/model"
)

var (
	ErrEmptyName       = errors.New("name must not be empty")
	ErrInvalidWattage  = errors.New("wattage must be greater than zero")
	ErrInvalidHours    = errors.New("hours per day must be between 0 and 24")
	ErrInvalidCategory = errors.New("unknown device category")
	ErrRoomNotFound    = errors.New("room not found")
)

const defaultIcon = "Home"

// Mirror is the remote copy of the registry.
type Mirror interface {
	LoadRooms(ctx context.Context) ([]model.Room, error)
	UpsertRoom(ctx context.Context, room model.Room) error
	DeleteRoom(ctx context.Context, roomID string) error
	UpsertDevice(ctx context.Context, roomID string, d model.Device) error
	DeleteDevice(ctx context.Context, deviceID string) error
}

type Dispatcher interface {
	Go(op string, fn func(ctx context.Context) error)
}

type Registry struct {
	mu      sync.RWMutex
	rooms   []model.Room
	current string

	mirror   Mirror
	dispatch Dispatcher
}

// New returns an empty registry. A nil mirror keeps everything in memory.
func New(mirror Mirror, dispatch Dispatcher) *Registry {
	return &Registry{
		rooms:    []model.Room{},
		mirror:   mirror,
		dispatch: dispatch,
	}
}

// Load replaces the in-memory rooms with the remote copy.
func (r *Registry) Load(ctx context.Context) error {
	if r.mirror == nil {
		return nil
	}

	rooms, err := r.mirror.LoadRooms(ctx)
	if err != nil {
		return fmt.Errorf("load rooms: %w", err)
	}
	for i := range rooms {
		if rooms[i].Devices == nil {
			rooms[i].Devices = []model.Device{}
		}
		for j := range rooms[i].Devices {
			rooms[i].Devices[j].RoomID = rooms[i].ID
		}
	}

	r.mu.Lock()
	r.rooms = rooms
	r.current = ""
	r.mu.Unlock()

	log.Info().Int("rooms", len(rooms)).Msg("Rooms restored from remote store")
	return nil
}

func (r *Registry) sync(op string, fn func(ctx context.Context, m Mirror) error) {
	if r.mirror == nil || r.dispatch == nil {
		return
	}
	m := r.mirror
	r.dispatch.Go(op, func(ctx context.Context) error {
		return fn(ctx, m)
	})
}

// AddRoom appends a new, empty room. When icon is blank the matching room
// template's icon is used.
func (r *Registry) AddRoom(name, icon string) (model.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Room{}, ErrEmptyName
	}
	if icon == "" {
		icon = defaultIcon
		if t, ok := catalog.FindTemplate(name); ok {
			icon = t.Icon
		}
	}

	room := model.Room{
		ID:      uuid.NewString(),
		Name:    name,
		Icon:    icon,
		Devices: []model.Device{},
	}

	r.mu.Lock()
	r.rooms = append(r.rooms, room)
	r.mu.Unlock()

	log.Debug().Str("room_id", room.ID).Str("name", name).Msg("Room added")
	r.sync("room.insert", func(ctx context.Context, m Mirror) error {
		return m.UpsertRoom(ctx, room)
	})
	return room.Clone(), nil
}

// UpdateRoom renames a room and optionally changes its icon. Devices are untouched.
func (r *Registry) UpdateRoom(id, name, icon string) (model.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Room{}, ErrEmptyName
	}

	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return model.Room{}, ErrRoomNotFound
	}
	r.rooms[i].Name = name
	if icon != "" {
		r.rooms[i].Icon = icon
	}
	updated := r.rooms[i].Clone()
	r.mu.Unlock()

	header := model.Room{ID: updated.ID, Name: updated.Name, Icon: updated.Icon}
	r.sync("room.update", func(ctx context.Context, m Mirror) error {
		return m.UpsertRoom(ctx, header)
	})
	return updated, nil
}

// RemoveRoom deletes a room and its devices. It reports whether the room
// existed; removing an unknown id does nothing.
func (r *Registry) RemoveRoom(id string) bool {
	r.mu.Lock()
	i := r.indexOf(id)
	if i < 0 {
		r.mu.Unlock()
		return false
	}
	r.rooms = append(r.rooms[:i:i], r.rooms[i+1:]...)
	if r.current == id {
		r.current = ""
	}
	r.mu.Unlock()

	log.Debug().Str("room_id", id).Msg("Room removed")
	r.sync("room.delete", func(ctx context.Context, m Mirror) error {
		return m.DeleteRoom(ctx, id)
	})
	return true
}

// AddDeviceToRoom validates d, assigns it a fresh id and appends it to the room.
// A blank category defaults to Other.
func (r *Registry) AddDeviceToRoom(roomID string, d model.Device) (model.Device, error) {
	if err := validateDevice(&d); err != nil {
		return model.Device{}, err
	}

	r.mu.Lock()
	i := r.indexOf(roomID)
	if i < 0 {
		r.mu.Unlock()
		return model.Device{}, ErrRoomNotFound
	}
	d.ID = uuid.NewString()
	d.RoomID = roomID
	r.rooms[i].Devices = append(r.rooms[i].Devices, d)
	r.mu.Unlock()

	log.Debug().Str("room_id", roomID).Str("device", d.Name).Float64("wattage", d.Wattage).Msg("Device added")
	r.sync("device.insert", func(ctx context.Context, m Mirror) error {
		return m.UpsertDevice(ctx, roomID, d)
	})
	return d, nil
}

func validateDevice(d *model.Device) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return ErrEmptyName
	}
	if math.IsNaN(d.Wattage) || math.IsInf(d.Wattage, 0) || d.Wattage <= 0 {
		return ErrInvalidWattage
	}
	if math.IsNaN(d.HoursPerDay) || d.HoursPerDay < 0 || d.HoursPerDay > 24 {
		return ErrInvalidHours
	}
	if d.Category == "" {
		d.Category = model.CategoryOther
	}
	if !d.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, d.Category)
	}
	return nil
}

// RemoveDeviceFromRoom reports whether the device was found in the room.
func (r *Registry) RemoveDeviceFromRoom(roomID, deviceID string) bool {
	r.mu.Lock()
	i := r.indexOf(roomID)
	if i < 0 {
		r.mu.Unlock()
		return false
	}
	devices := r.rooms[i].Devices
	found := false
	kept := make([]model.Device, 0, len(devices))
	for _, d := range devices {
		if d.ID == deviceID {
			found = true
			continue
		}
		kept = append(kept, d)
	}
	r.rooms[i].Devices = kept
	r.mu.Unlock()

	if !found {
		return false
	}
	r.sync("device.delete", func(ctx context.Context, m Mirror) error {
		return m.DeleteDevice(ctx, deviceID)
	})
	return true
}

// SetCurrentRoom selects a room. An empty id clears the selection.
func (r *Registry) SetCurrentRoom(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" && r.indexOf(id) < 0 {
		return ErrRoomNotFound
	}
	r.current = id
	return nil
}

func (r *Registry) CurrentRoomID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Rooms returns a deep copy of every room in insertion order.
func (r *Registry) Rooms() []model.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return model.CloneRooms(r.rooms)
}

func (r *Registry) Room(id string) (model.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Room{}, false
	}
	return r.rooms[i].Clone(), true
}

func (r *Registry) AllDevices() []model.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Device
	for _, room := range r.rooms {
		out = append(out, room.Devices...)
	}
	return out
}

// Clear empties the in-memory registry. The remote copy is left as is.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.rooms = []model.Room{}
	r.current = ""
	r.mu.Unlock()
}

// indexOf must be called with r.mu held.
func (r *Registry) indexOf(id string) int {
	for i := range r.rooms {
		if r.rooms[i].ID == id {
			return i
		}
	}
	return -1
}
