package api

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/energy-calculator/internal/export"
	"github.com/thatsimonsguy/energy-calculator/internal/solar"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.session.History().Records())
	case http.MethodPost:
		rec, ok := s.session.SaveSnapshot()
		if !ok {
			// nothing to record without devices and a region
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleHistoryOperations(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/history/")
	parts := strings.Split(path, "/")

	if len(parts) != 1 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "Invalid path")
		return
	}

	switch {
	case parts[0] == "comparison" && r.Method == http.MethodGet:
		c, ok := s.session.Compare()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, c)
	case parts[0] == "trend" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, s.session.Trend())
	case r.Method == http.MethodDelete:
		s.session.DeleteSnapshot(parts[0])
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleSolarEstimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var in solar.Input
	if !decodeJSON(w, r, &in) {
		return
	}
	est, err := s.session.EstimateSolar(in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

type exportFormat struct {
	contentType string
	filename    string
	write       func(io.Writer, export.Report) error
}

var exportFormats = map[string]exportFormat{
	"xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "energy-report.xlsx", export.WriteSpreadsheet},
	"pdf":  {"application/pdf", "energy-report.pdf", export.WriteDocument},
}

// handleExport renders into memory first so a failure can still be reported
// as JSON.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/export/")
	format, ok := exportFormats[name]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown export format")
		return
	}

	report := export.NewReport(s.session.Location(), s.session.Rooms().AllDevices(), time.Now())

	var buf bytes.Buffer
	if err := format.write(&buf, report); err != nil {
		log.Error().Err(err).Str("format", name).Msg("Failed to render export")
		writeError(w, http.StatusInternalServerError, "Failed to render export")
		return
	}

	w.Header().Set("Content-Type", format.contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
