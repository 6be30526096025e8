package potholes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mifotohu/katyufigyelo/internal/severity"
)

// Handler serves the pothole ingestion and read endpoints.
type Handler struct {
	flow    *Workflow
	store   Store
	scale   severity.Scale
	confErr error
}

func NewHandler(flow *Workflow, store Store, scale severity.Scale) *Handler {
	return &Handler{flow: flow, store: store, scale: scale}
}

// NewUnconfiguredHandler builds a handler whose every endpoint answers 503
// with the configuration problem. Used when DATABASE_URL is absent: the
// surface refuses to operate instead of silently no-opping.
func NewUnconfiguredHandler(confErr error) *Handler {
	return &Handler{confErr: confErr}
}

type submitInput struct {
	City         string   `json:"city"`
	Street       string   `json:"street"`
	PostalCode   string   `json:"postal_code"`
	Description  string   `json:"description"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	RoadPosition string   `json:"road_position"`
}

type listItem struct {
	Pothole
	Severity severity.Tier `json:"severity"`
}

func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	records, err := h.store.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "persistence_error", err.Error())
		return
	}

	items := make([]listItem, len(records))
	for i, rec := range records {
		items[i] = listItem{Pothole: rec, Severity: h.scale.TierFor(rec.ReportsCount)}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var input submitInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body")
		return
	}

	result, err := h.flow.Submit(r.Context(), Submission{
		City:         input.City,
		Street:       input.Street,
		PostalCode:   input.PostalCode,
		Description:  input.Description,
		Lat:          input.Lat,
		Lng:          input.Lng,
		RoadPosition: RoadPosition(input.RoadPosition),
	})
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

// writeWorkflowError maps the workflow error taxonomy onto HTTP statuses.
// Raw transport errors never reach this point; Submit has already converted
// them.
func writeWorkflowError(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	var pErr *PersistenceError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, "validation_error", vErr.Error())
	case errors.Is(err, ErrAddressNotFound):
		writeError(w, http.StatusUnprocessableEntity, "address_not_found", err.Error())
	case errors.Is(err, ErrGeocodingUnavailable):
		writeError(w, http.StatusBadGateway, "geocoding_unavailable", err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &pErr):
		writeError(w, http.StatusInternalServerError, "persistence_error", pErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func (h *Handler) ready(w http.ResponseWriter) bool {
	if h.confErr != nil {
		writeError(w, http.StatusServiceUnavailable, "configuration_missing", h.confErr.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, map[string]string{"error": kind, "message": message})
}
