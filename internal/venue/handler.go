package venue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inamate/seatmap/internal/typeid"
)

const maxDocumentSize = 8 << 20 // 8MB

// Saver persists venue documents. PostgresStore implements it.
type Saver interface {
	Save(ctx context.Context, id string, raw []byte) error
}

type Handler struct {
	store Store
	saver Saver
}

// NewHandler serves venue datasets from store. saver may be nil, in which case
// uploads are refused.
func NewHandler(store Store, saver Saver) *Handler {
	return &Handler{store: store, saver: saver}
}

type createResponse struct {
	ID        string `json:"id"`
	SeatCount int    `json:"seatCount"`
}

// Get returns the raw dataset document.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["venueId"]

	_, raw, err := h.store.Load(r.Context(), id)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

// Create validates an uploaded dataset and stores it under a new id.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.saver == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "venue uploads are disabled"})
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "document too large"})
		return
	}

	v, err := Decode(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	id := typeid.NewVenueID()
	if err := h.saver.Save(r.Context(), id, raw); err != nil {
		slog.Error("save venue failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	slog.Info("venue created", "venue", id, "seats", len(v.Seats))
	writeJSON(w, http.StatusCreated, createResponse{ID: id, SeatCount: len(v.Seats)})
}

func handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrVenueNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "venue not found"})
	case errors.Is(err, ErrMalformedDataset):
		slog.Error("stored venue is malformed", "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "stored venue is malformed"})
	default:
		slog.Error("load venue failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
