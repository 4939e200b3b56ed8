package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/datespark/datespark/internal/logging"
	"github.com/datespark/datespark/internal/models"
	"github.com/datespark/datespark/internal/services"
	"github.com/datespark/datespark/internal/services/ai"
)

type RecommendationHandler struct {
	service  services.RecommendationServiceInterface
	validate *validator.Validate
	logger   *logging.Logger
}

func NewRecommendationHandler(service services.RecommendationServiceInterface, logger *logging.Logger) *RecommendationHandler {
	if logger == nil {
		logger = logging.Default
	}
	return &RecommendationHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RecommendationsResponse wraps the enriched recommendation list.
type RecommendationsResponse struct {
	Recommendations []models.EnrichedRecommendation `json:"recommendations"`
}

// Create handles POST /api/recommendations.
func (h *RecommendationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	h.logger.Info("Generating recommendations", map[string]interface{}{
		"location":      req.Location,
		"relationship":  req.Relationship,
		"timeAvailable": req.TimeAvailable,
		"minBudget":     req.MinBudget,
		"maxBudget":     req.MaxBudget,
	})

	recommendations, err := h.service.Recommend(r.Context(), req)
	if err != nil {
		h.logger.Error("Failed to generate recommendations", map[string]interface{}{
			"error":    err.Error(),
			"location": req.Location,
		})

		if errors.Is(err, ai.ErrRateLimitExceeded) {
			writeError(w, http.StatusTooManyRequests, "AI provider rate limit exceeded")
			return
		}
		// Generation failures are fatal for the whole request; there is no
		// partial recommendation list to return.
		writeError(w, http.StatusInternalServerError, "Failed to generate recommendations")
		return
	}

	writeJSON(w, http.StatusOK, RecommendationsResponse{Recommendations: recommendations})
}

// validationMessage converts the first validator error into a user-facing
// message without leaking struct internals.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}

	switch verrs[0].Field() {
	case "Location":
		return "Location is required"
	case "Relationship":
		return "Relationship must be one of: single, relationship, family"
	case "TimeAvailable":
		return "Time available must be one of: 0-2 hours, 2-4 hours, full day"
	case "MinBudget", "MaxBudget":
		return "Budget values must be between 0 and 500, with minBudget <= maxBudget"
	default:
		return "Invalid request"
	}
}
