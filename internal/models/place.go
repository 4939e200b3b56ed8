package models

// PlaceMatch is the best search result from the place provider. Optional
// provider fields are zero-valued when absent; absence is not an error.
type PlaceMatch struct {
	Name             string
	PlaceID          string
	FormattedAddress string
	Rating           float64
	PriceLevel       int
	PhotoReference   string
}

// AutocompletePrediction is one city suggestion for the typeahead field.
type AutocompletePrediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"placeId"`
}
