package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/datespark/datespark/internal/config"
	"github.com/datespark/datespark/internal/models"
)

func testConfig(apiKey string) *config.Config {
	return &config.Config{
		AI: config.AIConfig{
			GeminiAPIKey: apiKey,
			Model:        "gemini-2.5-flash-lite",
			Timeout:      5 * time.Second,
		},
		Recommend: config.RecommendConfig{DraftCount: 3},
	}
}

func testRequest() models.RecommendationRequest {
	return models.RecommendationRequest{
		Location:      "Austin, TX",
		Relationship:  models.RelationshipCouple,
		TimeAvailable: models.TimeMedium,
		MinBudget:     20,
		MaxBudget:     80,
	}
}

func validDraftsJSON() string {
	drafts := []models.RecommendationDraft{
		{Name: "A", Description: "a", SearchQuery: "escape room", HumorRationale: "ha"},
		{Name: "B", Description: "b", SearchQuery: "taco restaurant", HumorRationale: "ha"},
		{Name: "C", Description: "c", SearchQuery: "vintage bookstore", HumorRationale: "ha"},
	}
	out, _ := json.Marshal(drafts)
	return string(out)
}

func geminiReply(text string) geminiResponse {
	return geminiResponse{
		Candidates: []geminiCandidate{
			{
				Content:      geminiContent{Parts: []geminiPart{{Text: text}}},
				FinishReason: "STOP",
			},
		},
		Usage: geminiUsage{PromptTokenCount: 100, CandidatesTokenCount: 50},
	}
}

func withGeminiServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	ts := httptest.NewServer(handler)
	oldURL := geminiBaseURL
	geminiBaseURL = ts.URL
	t.Cleanup(func() {
		geminiBaseURL = oldURL
		ts.Close()
	})
}

func TestGenerateDrafts(t *testing.T) {
	withGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash-lite") {
			t.Errorf("expected model in URL, got %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("expected API key header, got %q", r.Header.Get("x-goog-api-key"))
		}

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
			return
		}

		if req.GenerationConfig.ResponseMimeType != "application/json" {
			t.Errorf("expected JSON response mime type, got %q", req.GenerationConfig.ResponseMimeType)
		}
		schema := req.GenerationConfig.ResponseSchema
		if schema == nil || schema.Type != "array" || schema.Items == nil || schema.Items.Type != "object" {
			t.Error("expected array-of-objects response schema")
		} else if len(schema.Items.Required) != 4 {
			t.Errorf("expected 4 required draft fields, got %v", schema.Items.Required)
		}

		text := req.Contents[0].Parts[0].Text
		for _, want := range []string{
			"Austin, TX",
			"for a couple looking for unexpected, humorous, and memorable experiences together",
			"2-4 hours",
			"$20 to $80",
			"restaurant",
		} {
			if !strings.Contains(text, want) {
				t.Errorf("expected prompt to contain %q", want)
			}
		}

		json.NewEncoder(w).Encode(geminiReply(validDraftsJSON()))
	})

	service := NewService(testConfig("test-key"), nil)
	drafts, err := service.GenerateDrafts(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drafts) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(drafts))
	}
	if drafts[0].SearchQuery != "escape room" {
		t.Errorf("unexpected first draft %+v", drafts[0])
	}
}

func TestGenerateDrafts_StripsMarkdownFences(t *testing.T) {
	withGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiReply("```json\n" + validDraftsJSON() + "\n```"))
	})

	service := NewService(testConfig("test-key"), nil)
	drafts, err := service.GenerateDrafts(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drafts) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(drafts))
	}
}

func TestGenerateDrafts_MissingKey(t *testing.T) {
	service := NewService(testConfig(""), nil)
	_, err := service.GenerateDrafts(context.Background(), testRequest())
	if !errors.Is(err, ErrAINotConfigured) {
		t.Fatalf("expected ErrAINotConfigured, got %v", err)
	}
}

func TestGenerateDrafts_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not JSON", "the model got chatty instead"},
		{"wrong count", `[{"name":"A","description":"a","searchQuery":"q","humorRationale":"h"}]`},
		{"empty field", `[{"name":"A","description":"a","searchQuery":"q","humorRationale":"h"},` +
			`{"name":"B","description":"b","searchQuery":"","humorRationale":"h"},` +
			`{"name":"C","description":"c","searchQuery":"q","humorRationale":"h"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(geminiReply(tt.text))
			})

			service := NewService(testConfig("test-key"), nil)
			_, err := service.GenerateDrafts(context.Background(), testRequest())
			if !errors.Is(err, ErrMalformedDrafts) {
				t.Fatalf("expected ErrMalformedDrafts, got %v", err)
			}
		})
	}
}

func TestGenerateDrafts_ProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, ErrAIProviderUnavailable},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimitExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			service := NewService(testConfig("test-key"), nil)
			_, err := service.GenerateDrafts(context.Background(), testRequest())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGenerateDrafts_SafetyBlock(t *testing.T) {
	withGeminiServer(t, func(w http.ResponseWriter, r *http.Request) {
		resp := geminiReply(validDraftsJSON())
		resp.Candidates[0].FinishReason = "SAFETY"
		json.NewEncoder(w).Encode(resp)
	})

	service := NewService(testConfig("test-key"), nil)
	_, err := service.GenerateDrafts(context.Background(), testRequest())
	if !errors.Is(err, ErrSafetyViolation) {
		t.Fatalf("expected ErrSafetyViolation, got %v", err)
	}
}

func TestGenerateDrafts_StubMode(t *testing.T) {
	cfg := testConfig("")
	cfg.AI.Stub = true

	service := NewService(cfg, nil)
	drafts, err := service.GenerateDrafts(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drafts) != 3 {
		t.Fatalf("expected 3 stub drafts, got %d", len(drafts))
	}

	restaurants := 0
	for i, d := range drafts {
		if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.Description) == "" ||
			strings.TrimSpace(d.SearchQuery) == "" || strings.TrimSpace(d.HumorRationale) == "" {
			t.Errorf("stub draft %d has empty fields: %+v", i, d)
		}
		if strings.Contains(d.SearchQuery, "restaurant") {
			restaurants++
		}
	}
	if restaurants != 1 {
		t.Errorf("expected exactly one restaurant-slot stub draft, got %d", restaurants)
	}
}

func TestStripMarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n[1]\n```", "[1]"},
		{"```\n[1]\n```", "[1]"},
		{"[1]", "[1]"},
		{"  [1]  ", "[1]"},
	}
	for _, tt := range tests {
		if got := stripMarkdownCodeBlock(tt.in); got != tt.want {
			t.Errorf("stripMarkdownCodeBlock(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  Austin,\n  TX  "); got != "Austin, TX" {
		t.Errorf("expected whitespace collapsed, got %q", got)
	}
	long := strings.Repeat("a", 500)
	if got := sanitizeInput(long); len([]rune(got)) != 200 {
		t.Errorf("expected truncation to 200 runes, got %d", len([]rune(got)))
	}
}
