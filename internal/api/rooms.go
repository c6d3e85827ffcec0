package api

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/energy-calculator/internal/catalog"
	"github.com/thatsimonsguy/energy-calculator/internal/model"
)

type RoomsResponse struct {
	Rooms         []model.Room `json:"rooms"`
	CurrentRoomID string       `json:"current_room_id"`
}

type RoomRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// DeviceRequest adds either a catalog device, by its "name - brand" key, or a
// custom device described in full. Omitted hours default to
// catalog.DefaultHoursPerDay.
type DeviceRequest struct {
	CatalogKey  string         `json:"catalog_key"`
	Name        string         `json:"name"`
	Brand       string         `json:"brand"`
	Wattage     float64        `json:"wattage"`
	HoursPerDay *float64       `json:"hours_per_day,omitempty"`
	Category    model.Category `json:"category"`
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		reg := s.session.Rooms()
		writeJSON(w, http.StatusOK, RoomsResponse{Rooms: reg.Rooms(), CurrentRoomID: reg.CurrentRoomID()})
	case http.MethodPost:
		s.addRoom(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleRoomOperations(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/rooms/")
	parts := strings.Split(path, "/")

	if len(parts) < 1 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "Room ID required")
		return
	}
	roomID := parts[0]

	switch {
	case len(parts) == 1:
		// /api/rooms/{id}
		switch r.Method {
		case http.MethodPut:
			s.updateRoom(w, r, roomID)
		case http.MethodDelete:
			s.removeRoom(w, roomID)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	case len(parts) == 2 && parts[1] == "current":
		if r.Method == http.MethodPut {
			s.setCurrentRoom(w, roomID)
		} else {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	case len(parts) == 2 && parts[1] == "devices":
		if r.Method == http.MethodPost {
			s.addDevice(w, r, roomID)
		} else {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	case len(parts) == 3 && parts[1] == "devices" && parts[2] != "":
		if r.Method == http.MethodDelete {
			s.session.Rooms().RemoveDeviceFromRoom(roomID, parts[2])
			w.WriteHeader(http.StatusNoContent)
		} else {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	default:
		writeError(w, http.StatusNotFound, "Invalid path")
	}
}

func (s *Server) addRoom(w http.ResponseWriter, r *http.Request) {
	var req RoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	room, err := s.session.Rooms().AddRoom(req.Name, req.Icon)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	log.Info().Str("room_id", room.ID).Str("name", room.Name).Msg("Room added via API")
	writeJSON(w, http.StatusCreated, room)
}

func (s *Server) updateRoom(w http.ResponseWriter, r *http.Request, roomID string) {
	var req RoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	room, err := s.session.Rooms().UpdateRoom(roomID, req.Name, req.Icon)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// removeRoom is silent for unknown ids.
func (s *Server) removeRoom(w http.ResponseWriter, roomID string) {
	if s.session.Rooms().RemoveRoom(roomID) {
		log.Info().Str("room_id", roomID).Msg("Room removed via API")
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setCurrentRoom(w http.ResponseWriter, roomID string) {
	reg := s.session.Rooms()
	if err := reg.SetCurrentRoom(roomID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RoomsResponse{Rooms: reg.Rooms(), CurrentRoomID: reg.CurrentRoomID()})
}

func (s *Server) addDevice(w http.ResponseWriter, r *http.Request, roomID string) {
	var req DeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	hours := float64(catalog.DefaultHoursPerDay)
	if req.HoursPerDay != nil {
		hours = *req.HoursPerDay
	}

	var d model.Device
	if req.CatalogKey != "" {
		entry, ok := catalog.Find(req.CatalogKey)
		if !ok {
			writeError(w, http.StatusBadRequest, "Unknown catalog device")
			return
		}
		d = entry.NewDevice("", roomID, hours)
	} else {
		d = model.Device{
			Name:        req.Name,
			Brand:       strings.TrimSpace(req.Brand),
			Wattage:     req.Wattage,
			HoursPerDay: hours,
			Category:    req.Category,
			IsCustom:    true,
		}
		if d.Brand == "" {
			d.Brand = catalog.CustomBrand
		}
	}

	added, err := s.session.Rooms().AddDeviceToRoom(roomID, d)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}
