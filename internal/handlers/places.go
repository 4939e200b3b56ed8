package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/datespark/datespark/internal/logging"
	"github.com/datespark/datespark/internal/models"
	"github.com/datespark/datespark/internal/services"
)

type PlacesHandler struct {
	provider services.PlaceProvider
	logger   *logging.Logger
}

func NewPlacesHandler(provider services.PlaceProvider, logger *logging.Logger) *PlacesHandler {
	if logger == nil {
		logger = logging.Default
	}
	return &PlacesHandler{
		provider: provider,
		logger:   logger,
	}
}

type AutocompleteRequest struct {
	Input string `json:"input"`
}

type AutocompleteResponse struct {
	Predictions []models.AutocompletePrediction `json:"predictions"`
}

// Autocomplete handles POST /api/places/autocomplete.
func (h *PlacesHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	var req AutocompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Input) == "" {
		writeError(w, http.StatusBadRequest, "Input is required")
		return
	}

	predictions, err := h.provider.Autocomplete(r.Context(), req.Input)
	if err != nil {
		h.logger.Error("Autocomplete failed", map[string]interface{}{
			"input": req.Input,
			"error": err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Failed to fetch suggestions")
		return
	}

	h.logger.Info("Autocomplete suggestions retrieved", map[string]interface{}{
		"input": req.Input,
		"count": len(predictions),
	})

	if predictions == nil {
		predictions = []models.AutocompletePrediction{}
	}
	writeJSON(w, http.StatusOK, AutocompleteResponse{Predictions: predictions})
}

type PhotoResponse struct {
	URL string `json:"url"`
}

// Photo handles GET /api/places/photo/{photoReference}. It returns the
// constructed provider photo URL rather than proxying the image bytes.
func (h *PlacesHandler) Photo(w http.ResponseWriter, r *http.Request) {
	photoReference := r.PathValue("photoReference")
	if photoReference == "" {
		writeError(w, http.StatusBadRequest, "Photo reference is required")
		return
	}

	url := h.provider.PhotoURL(photoReference)
	h.logger.Debug("Photo URL constructed", map[string]interface{}{
		"photo_reference": photoReference,
	})

	writeJSON(w, http.StatusOK, PhotoResponse{URL: url})
}
