package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/datespark/datespark/internal/logging"
	"github.com/datespark/datespark/internal/models"
)

const (
	photoPlaceholderNoPhoto  = "https://via.placeholder.com/400x300?text=No+Photo+Available"
	photoPlaceholderFallback = "https://via.placeholder.com/400x300?text=Recommendation"

	addressUnavailable = "Address not available"
)

// RecommendationService runs the full pipeline: draft generation, then
// per-draft place enrichment with placeholder substitution.
type RecommendationService struct {
	generator DraftGenerator
	resolver  PlaceResolver
	photos    PhotoURLBuilder
	logger    *logging.Logger
}

// NewRecommendationService wires the pipeline components together.
func NewRecommendationService(generator DraftGenerator, resolver PlaceResolver, photos PhotoURLBuilder, logger *logging.Logger) *RecommendationService {
	if logger == nil {
		logger = logging.Default
	}
	return &RecommendationService{
		generator: generator,
		resolver:  resolver,
		photos:    photos,
		logger:    logger,
	}
}

// Recommend generates drafts for the questionnaire and enriches them with
// place data. Generation failure fails the whole request; enrichment never
// does.
func (s *RecommendationService) Recommend(ctx context.Context, req models.RecommendationRequest) ([]models.EnrichedRecommendation, error) {
	drafts, err := s.generator.GenerateDrafts(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generating drafts: %w", err)
	}

	s.logger.Info("drafts generated", map[string]interface{}{
		"count":    len(drafts),
		"location": req.Location,
	})

	return s.Enrich(ctx, drafts, req), nil
}

// Enrich produces exactly one EnrichedRecommendation per draft, in input
// order. Drafts are processed sequentially so provider rate-limit behavior
// stays predictable and per-draft logs stay attributable. A draft whose place
// lookup exhausts every fallback degrades to a placeholder record; it is never
// dropped.
func (s *RecommendationService) Enrich(ctx context.Context, drafts []models.RecommendationDraft, req models.RecommendationRequest) []models.EnrichedRecommendation {
	minTier, maxTier := TierRange(req.MinBudget, req.MaxBudget)

	enriched := make([]models.EnrichedRecommendation, 0, len(drafts))
	for _, draft := range drafts {
		match, err := s.resolver.Resolve(ctx, draft.SearchQuery, req.Location, minTier, maxTier)
		if err != nil {
			// Context cancellation mid-batch: still emit one record per draft.
			s.logger.Warn("place resolution aborted", map[string]interface{}{
				"name":  draft.Name,
				"error": err.Error(),
			})
			match = nil
		}

		if match != nil {
			enriched = append(enriched, s.merge(draft, match))
			s.logger.Info("recommendation enriched with place data", map[string]interface{}{
				"name":     match.Name,
				"place_id": match.PlaceID,
				"path":     "place",
			})
		} else {
			enriched = append(enriched, s.placeholder(draft, req))
			s.logger.Warn("recommendation using placeholder record", map[string]interface{}{
				"name": draft.Name,
				"path": "fallback",
			})
		}
	}

	return enriched
}

// merge combines provider facts with draft narrative. Provider data wins for
// name, address, rating and price level; description and humor rationale stay
// model-authored.
func (s *RecommendationService) merge(draft models.RecommendationDraft, match *models.PlaceMatch) models.EnrichedRecommendation {
	address := match.FormattedAddress
	if address == "" {
		address = addressUnavailable
	}

	photoURL := photoPlaceholderNoPhoto
	if match.PhotoReference != "" {
		photoURL = s.photos.PhotoURL(match.PhotoReference)
	}

	return models.EnrichedRecommendation{
		Name:           match.Name,
		Description:    draft.Description,
		PlaceID:        match.PlaceID,
		Address:        address,
		Rating:         match.Rating,
		PhotoURL:       photoURL,
		PriceLevel:     match.PriceLevel,
		HumorRationale: draft.HumorRationale,
	}
}

func (s *RecommendationService) placeholder(draft models.RecommendationDraft, req models.RecommendationRequest) models.EnrichedRecommendation {
	return models.EnrichedRecommendation{
		Name:           draft.Name,
		Description:    draft.Description,
		PlaceID:        newFallbackID(),
		Address:        req.Location,
		Rating:         0,
		PhotoURL:       photoPlaceholderFallback,
		PriceLevel:     0,
		HumorRationale: draft.HumorRationale,
	}
}

// newFallbackID synthesizes a placeholder place id. Timestamp plus random UUID
// keeps ids unique within a batch and across concurrent requests.
func newFallbackID() string {
	return fmt.Sprintf("fallback_%d_%s", time.Now().UnixNano(), uuid.NewString())
}
