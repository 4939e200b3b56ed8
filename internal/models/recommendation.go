package models

// Relationship categories accepted by the questionnaire. The mobile UI shows
// "couple" but normalizes it to "relationship" before transmission.
const (
	RelationshipSingle = "single"
	RelationshipCouple = "relationship"
	RelationshipFamily = "family"
)

// Time slots accepted by the questionnaire.
const (
	TimeShort   = "0-2 hours"
	TimeMedium  = "2-4 hours"
	TimeFullDay = "full day"
)

// BudgetMax is the upper bound for either end of the budget range, in dollars.
const BudgetMax = 500

// RecommendationRequest is the questionnaire payload for POST /api/recommendations.
type RecommendationRequest struct {
	Location      string  `json:"location" validate:"required"`
	Relationship  string  `json:"relationship" validate:"required,oneof=single relationship family"`
	TimeAvailable string  `json:"timeAvailable" validate:"required,oneof='0-2 hours' '2-4 hours' 'full day'"`
	MinBudget     float64 `json:"minBudget" validate:"min=0,max=500"`
	MaxBudget     float64 `json:"maxBudget" validate:"min=0,max=500,gtefield=MinBudget"`
}

// RecommendationDraft is a single narrative idea produced by the generator,
// before any place data has been attached. All fields are model-authored text;
// SearchQuery is expected to be a plain, provider-searchable category like
// "pizza restaurant" or "escape room".
type RecommendationDraft struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	SearchQuery    string `json:"searchQuery"`
	HumorRationale string `json:"humorRationale"`
}

// EnrichedRecommendation is a response item: the draft's narrative merged with
// place-provider facts, or a placeholder record when no place could be found.
type EnrichedRecommendation struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	PlaceID        string  `json:"placeId"`
	Address        string  `json:"address"`
	Rating         float64 `json:"rating"`
	PhotoURL       string  `json:"photoUrl"`
	PriceLevel     int     `json:"priceLevel"`
	HumorRationale string  `json:"humorRationale"`
}
