package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/inamate/seatmap/internal/venue"
)

type Handler struct {
	service      *Service
	venues       venue.Store
	defaultVenue string
}

// NewHandler serves session creation. Sessions are only issued for venues the
// store can load.
func NewHandler(service *Service, venues venue.Store, defaultVenue string) *Handler {
	return &Handler{service: service, venues: venues, defaultVenue: defaultVenue}
}

type sessionRequest struct {
	VenueID string `json:"venueId"`
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.VenueID == "" {
		req.VenueID = h.defaultVenue
	}

	if err := h.checkVenue(r.Context(), req.VenueID); err != nil {
		if errors.Is(err, venue.ErrVenueNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "venue not found"})
			return
		}
		slog.Error("load venue for session", "venue", req.VenueID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	grant, err := h.service.IssueSession(req.VenueID)
	if err != nil {
		slog.Error("issue session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, grant)
}

func (h *Handler) checkVenue(ctx context.Context, id string) error {
	_, _, err := h.venues.Load(ctx, id)
	return err
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
