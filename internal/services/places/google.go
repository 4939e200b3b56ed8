package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/datespark/datespark/internal/config"
	"github.com/datespark/datespark/internal/logging"
	"github.com/datespark/datespark/internal/models"
)

const (
	textSearchPath   = "/maps/api/place/textsearch/json"
	autocompletePath = "/maps/api/place/autocomplete/json"
	photoPath        = "/maps/api/place/photo"

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// Overridable for tests.
var googleBaseURL = "https://maps.googleapis.com"

// GoogleClient talks to the Google Places web service. Search failures are
// absorbed here: the enrichment pipeline must keep going when a lookup cannot
// be served, so transport and provider errors surface as a miss, not an error.
type GoogleClient struct {
	apiKey string
	client *http.Client
	logger *logging.Logger
}

// NewGoogleClient creates a Places client from configuration.
func NewGoogleClient(cfg *config.Config, logger *logging.Logger) *GoogleClient {
	if logger == nil {
		logger = logging.Default
	}
	return &GoogleClient{
		apiKey: cfg.Places.APIKey,
		client: &http.Client{Timeout: cfg.Places.Timeout},
		logger: logger,
	}
}

type searchResponse struct {
	Results []searchResult `json:"results"`
	Status  string         `json:"status"`
}

type searchResult struct {
	Name             string        `json:"name"`
	PlaceID          string        `json:"place_id"`
	FormattedAddress string        `json:"formatted_address"`
	Rating           float64       `json:"rating"`
	PriceLevel       int           `json:"price_level"`
	Photos           []searchPhoto `json:"photos"`
}

type searchPhoto struct {
	PhotoReference string `json:"photo_reference"`
}

// Search runs a text search for "{query} in {location}" constrained to the
// given price tiers. Tier bounds of (0, 0) skip the price filter. The first
// (highest-relevance) result wins; no local re-ranking. A nil, nil return is a
// miss the caller must tolerate.
func (g *GoogleClient) Search(ctx context.Context, query, location string, minTier, maxTier int) (*models.PlaceMatch, error) {
	params := url.Values{}
	params.Set("query", fmt.Sprintf("%s in %s", query, location))
	params.Set("key", g.apiKey)
	if maxTier > 0 {
		params.Set("minprice", strconv.Itoa(minTier))
		params.Set("maxprice", strconv.Itoa(maxTier))
	}

	body, err := g.get(ctx, textSearchPath, params)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		g.logger.Error("place search request failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return nil, nil
	}
	defer body.Close()

	var resp searchResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		g.logger.Error("place search decode failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return nil, nil
	}

	switch resp.Status {
	case statusOK:
		if len(resp.Results) == 0 {
			return nil, nil
		}
		first := resp.Results[0]
		match := &models.PlaceMatch{
			Name:             first.Name,
			PlaceID:          first.PlaceID,
			FormattedAddress: first.FormattedAddress,
			Rating:           first.Rating,
			PriceLevel:       first.PriceLevel,
		}
		if len(first.Photos) > 0 {
			match.PhotoReference = first.Photos[0].PhotoReference
		}
		return match, nil
	case statusZeroResults:
		return nil, nil
	default:
		g.logger.Error("place search provider error", map[string]interface{}{
			"query":  query,
			"status": resp.Status,
		})
		return nil, nil
	}
}

type autocompleteResponse struct {
	Predictions []autocompletePrediction `json:"predictions"`
	Status      string                   `json:"status"`
}

type autocompletePrediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

// Autocomplete returns US city suggestions for a partial input. Unlike Search,
// failures here propagate: the typeahead endpoint reports them as 500s.
func (g *GoogleClient) Autocomplete(ctx context.Context, input string) ([]models.AutocompletePrediction, error) {
	params := url.Values{}
	params.Set("input", input)
	params.Set("key", g.apiKey)
	params.Set("types", "cities")
	params.Set("components", "country:us")

	body, err := g.get(ctx, autocompletePath, params)
	if err != nil {
		return nil, fmt.Errorf("autocomplete request: %w", err)
	}
	defer body.Close()

	var resp autocompleteResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("autocomplete decode: %w", err)
	}

	switch resp.Status {
	case statusOK:
		predictions := make([]models.AutocompletePrediction, 0, len(resp.Predictions))
		for _, pred := range resp.Predictions {
			predictions = append(predictions, models.AutocompletePrediction{
				Description: pred.Description,
				PlaceID:     pred.PlaceID,
			})
		}
		return predictions, nil
	case statusZeroResults:
		return []models.AutocompletePrediction{}, nil
	default:
		return nil, fmt.Errorf("autocomplete provider status: %s", resp.Status)
	}
}

// PhotoURL builds a pass-through provider photo URL for a photo reference.
func (g *GoogleClient) PhotoURL(photoReference string) string {
	params := url.Values{}
	params.Set("maxwidth", "400")
	params.Set("photoreference", photoReference)
	params.Set("key", g.apiKey)
	return googleBaseURL + photoPath + "?" + params.Encode()
}

func (g *GoogleClient) get(ctx context.Context, path string, params url.Values) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleBaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
