package places

import (
	"context"

	"github.com/google/uuid"

	"github.com/datespark/datespark/internal/logging"
	"github.com/datespark/datespark/internal/models"
)

const photoPlaceholderUnavailable = "https://via.placeholder.com/400x300?text=Photo+Not+Available"

// StubProvider serves deterministic mock place data when no provider
// credential is configured, so the whole pipeline runs offline and in tests.
type StubProvider struct {
	logger *logging.Logger
}

// NewStubProvider creates the unconfigured-credential provider.
func NewStubProvider(logger *logging.Logger) *StubProvider {
	if logger == nil {
		logger = logging.Default
	}
	return &StubProvider{logger: logger}
}

// Search returns the fixed mock match for any query and tier bounds.
func (s *StubProvider) Search(ctx context.Context, query, location string, minTier, maxTier int) (*models.PlaceMatch, error) {
	s.logger.Warn("places credential not set, returning mock data", map[string]interface{}{
		"query": query,
	})
	return &models.PlaceMatch{
		Name:             "The Quirky Café",
		PlaceID:          "mock_place_id_001",
		FormattedAddress: "123 Main St, " + location,
		Rating:           4.5,
		PriceLevel:       2,
		PhotoReference:   "mock_photo_001",
	}, nil
}

// Autocomplete returns synthetic city predictions derived from the input.
func (s *StubProvider) Autocomplete(ctx context.Context, input string) ([]models.AutocompletePrediction, error) {
	s.logger.Warn("places credential not set, returning mock suggestions", map[string]interface{}{
		"input": input,
	})
	states := []string{"California", "Texas", "New York"}
	predictions := make([]models.AutocompletePrediction, 0, len(states))
	for _, state := range states {
		predictions = append(predictions, models.AutocompletePrediction{
			Description: input + ", " + state + ", USA",
			PlaceID:     "mock_place_" + uuid.NewString(),
		})
	}
	return predictions, nil
}

// PhotoURL returns the placeholder photo URL regardless of reference.
func (s *StubProvider) PhotoURL(photoReference string) string {
	return photoPlaceholderUnavailable
}
