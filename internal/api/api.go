package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/energy-calculator/internal/calculator"
	"github.com/thatsimonsguy/energy-calculator/internal/catalog"
	"github.com/thatsimonsguy/energy-calculator/internal/model"
	"github.com/thatsimonsguy/energy-calculator/internal/registry"
	"github.com/thatsimonsguy/energy-calculator/internal/solar"
	"github.com/thatsimonsguy/energy-calculator/internal/tariff"
)

const maxBodyBytes = 1 << 20

type Server struct {
	session *calculator.Session
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type TariffsResponse struct {
	Rates              []tariff.Rate       `json:"rates"`
	Irradiance         []tariff.Irradiance `json:"irradiance"`
	DefaultAvgSunHours float64             `json:"default_avg_sun_hours"`
}

type CatalogResponse struct {
	Categories    []model.Category       `json:"categories"`
	Devices       []catalog.Entry        `json:"devices"`
	RoomTemplates []catalog.RoomTemplate `json:"room_templates"`
}

func NewServer(session *calculator.Session) *Server {
	return &Server{session: session}
}

// Handler returns the API with CORS and panic recovery applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/tariffs", s.handleTariffs)
	mux.HandleFunc("/api/catalog", s.handleCatalog)
	mux.HandleFunc("/api/location", s.handleLocation)

	mux.HandleFunc("/api/rooms", s.handleRooms)
	mux.HandleFunc("/api/rooms/", s.handleRoomOperations)

	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/carbon", s.handleCarbon)
	mux.HandleFunc("/api/suggestions", s.handleSuggestions)

	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/history/", s.handleHistoryOperations)

	mux.HandleFunc("/api/solar/estimate", s.handleSolarEstimate)
	mux.HandleFunc("/api/export/", s.handleExport)
	mux.HandleFunc("/api/reset", s.handleReset)

	return withCORS(withRecover(mux))
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRecover turns a handler panic into a static 500 response.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("Recovered from handler panic")
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleTariffs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, TariffsResponse{
		Rates:              tariff.Rates(),
		Irradiance:         tariff.IrradianceTable(),
		DefaultAvgSunHours: tariff.DefaultAvgSunHours,
	})
}

// handleCatalog lists reference devices, optionally filtered by ?category= and ?q=.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := r.URL.Query()
	entries, err := catalog.Filter(query.Get("q"), model.Category(query.Get("category")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown category")
		return
	}

	writeJSON(w, http.StatusOK, CatalogResponse{
		Categories:    model.Categories,
		Devices:       entries,
		RoomTemplates: catalog.RoomTemplates(),
	})
}

type LocationRequest struct {
	State       *string  `json:"state"`
	RatePerUnit *float64 `json:"rate_per_unit"`
	ManualRate  *bool    `json:"manual_rate"`
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.session.Location())
	case http.MethodPut:
		s.setLocation(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// setLocation applies the state first, then either a manual rate or a return
// to the tariff rate.
func (s *Server) setLocation(w http.ResponseWriter, r *http.Request) {
	var req LocationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.State != nil {
		if _, err := s.session.SelectState(*req.State); err != nil {
			writeDomainError(w, err)
			return
		}
	}
	switch {
	case req.RatePerUnit != nil:
		if _, err := s.session.SetRate(*req.RatePerUnit); err != nil {
			writeDomainError(w, err)
			return
		}
	case req.ManualRate != nil && !*req.ManualRate:
		s.session.UseTariffRate()
	}

	loc := s.session.Location()
	log.Info().Str("state", loc.State).Float64("rate", loc.RatePerUnit).Bool("manual", loc.ManualRate).Msg("Location updated via API")
	writeJSON(w, http.StatusOK, loc)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.session.Summary())
}

func (s *Server) handleCarbon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.session.Carbon())
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.session.Suggestions())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.session.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}
	return true
}

// writeDomainError maps validation errors to 400 and unknown rooms to 404.
// Anything else is logged and reported as a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, "Room not found")
	case errors.Is(err, registry.ErrEmptyName),
		errors.Is(err, registry.ErrInvalidWattage),
		errors.Is(err, registry.ErrInvalidHours),
		errors.Is(err, registry.ErrInvalidCategory),
		errors.Is(err, calculator.ErrUnknownState),
		errors.Is(err, calculator.ErrInvalidRate),
		errors.Is(err, solar.ErrInvalidMode),
		errors.Is(err, solar.ErrTooManyBills),
		errors.Is(err, solar.ErrNegativeBill),
		errors.Is(err, solar.ErrInvalidSunHours),
		errors.Is(err, solar.ErrNegativeRate),
		errors.Is(err, solar.ErrInvalidBill),
		errors.Is(err, solar.ErrInvalidRate),
		errors.Is(err, solar.ErrOutOfRange):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("Unexpected API error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}
