package handlers

import (
	"net/http"
	"time"
)

// HealthHandler reports process and dependency-mode status. The service has
// no stateful backends, so readiness reduces to configuration facts.
type HealthHandler struct {
	generatorMode string // "gemini" or "stub"
	placesMode    string // "google" or "stub"
}

func NewHealthHandler(generatorMode, placesMode string) *HealthHandler {
	return &HealthHandler{
		generatorMode: generatorMode,
		placesMode:    placesMode,
	}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp string            `json:"timestamp"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status: "healthy",
		Checks: map[string]string{
			"generator": h.generatorMode,
			"places":    h.placesMode,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("alive"))
}
