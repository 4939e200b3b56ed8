package places

import (
	"context"
	"strings"
	"testing"
)

func TestStubSearch_FixedMatchForAnyQuery(t *testing.T) {
	stub := NewStubProvider(nil)

	for _, query := range []string{"escape room", "pizza restaurant", "anything at all"} {
		match, err := stub.Search(context.Background(), query, "Austin, TX", 1, 4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if match.Name != "The Quirky Café" {
			t.Errorf("expected The Quirky Café, got %q", match.Name)
		}
		if match.Rating != 4.5 || match.PriceLevel != 2 {
			t.Errorf("expected rating 4.5 and price level 2, got %v/%v", match.Rating, match.PriceLevel)
		}
		if match.PlaceID != "mock_place_id_001" {
			t.Errorf("expected fixed mock place id, got %q", match.PlaceID)
		}
		if match.FormattedAddress != "123 Main St, Austin, TX" {
			t.Errorf("expected location-derived address, got %q", match.FormattedAddress)
		}
	}
}

func TestStubAutocomplete(t *testing.T) {
	stub := NewStubProvider(nil)

	predictions, err := stub.Autocomplete(context.Background(), "Spring")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(predictions) != 3 {
		t.Fatalf("expected 3 predictions, got %d", len(predictions))
	}

	seen := map[string]bool{}
	for _, pred := range predictions {
		if !strings.HasPrefix(pred.Description, "Spring, ") {
			t.Errorf("expected input-derived description, got %q", pred.Description)
		}
		if !strings.HasPrefix(pred.PlaceID, "mock_place_") {
			t.Errorf("expected mock place id, got %q", pred.PlaceID)
		}
		if seen[pred.PlaceID] {
			t.Errorf("duplicate prediction id %q", pred.PlaceID)
		}
		seen[pred.PlaceID] = true
	}
}

func TestStubPhotoURL(t *testing.T) {
	stub := NewStubProvider(nil)
	if url := stub.PhotoURL("anything"); url != photoPlaceholderUnavailable {
		t.Errorf("expected placeholder URL, got %q", url)
	}
}
