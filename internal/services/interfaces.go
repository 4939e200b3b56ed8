package services

import (
	"context"

	"github.com/datespark/datespark/internal/models"
)

// DraftGenerator produces narrative recommendation drafts from a
// questionnaire. Implemented by the Gemini client and its stub.
type DraftGenerator interface {
	GenerateDrafts(ctx context.Context, req models.RecommendationRequest) ([]models.RecommendationDraft, error)
}

// PlaceSearcher issues a single text-query lookup against the place provider.
// A nil match is a valid miss; transport and provider failures are handled
// inside the implementation and also surface as a miss. The error return is
// reserved for context cancellation.
type PlaceSearcher interface {
	Search(ctx context.Context, query, location string, minTier, maxTier int) (*models.PlaceMatch, error)
}

// PhotoURLBuilder turns a provider photo reference into a fetchable URL.
type PhotoURLBuilder interface {
	PhotoURL(photoReference string) string
}

// PlaceProvider is the full place-data capability: search for enrichment,
// autocomplete for the location typeahead, photo URL construction. The real
// Google-backed client and the unconfigured-credential stub both satisfy it.
type PlaceProvider interface {
	PlaceSearcher
	PhotoURLBuilder
	Autocomplete(ctx context.Context, input string) ([]models.AutocompletePrediction, error)
}

// PlaceResolver finds a place for a draft's search query, applying the
// layered category fallbacks when the exact query misses.
type PlaceResolver interface {
	Resolve(ctx context.Context, query, location string, minTier, maxTier int) (*models.PlaceMatch, error)
}

// RecommendationServiceInterface defines the contract used by the HTTP handler.
type RecommendationServiceInterface interface {
	Recommend(ctx context.Context, req models.RecommendationRequest) ([]models.EnrichedRecommendation, error)
}
