package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/datespark/datespark/internal/config"
	"github.com/datespark/datespark/internal/logging"
	"github.com/datespark/datespark/internal/models"
)

var geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// relationshipContext keys the prompt framing off the questionnaire's
// relationship category.
var relationshipContext = map[string]string{
	models.RelationshipSingle: "for someone enjoying their own company or looking to meet people in a fun, creative way",
	models.RelationshipCouple: "for a couple looking for unexpected, humorous, and memorable experiences together",
	models.RelationshipFamily: "for families looking for quirky, funny, and bonding experiences with kids or relatives",
}

// Service generates recommendation drafts through Gemini's structured-output
// API. When Stub mode is on, it serves deterministic drafts instead.
type Service struct {
	apiKey string
	model  string
	stub   bool
	count  int
	client *http.Client
	logger *logging.Logger
}

func NewService(cfg *config.Config, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default
	}
	return &Service{
		apiKey: cfg.AI.GeminiAPIKey,
		model:  cfg.AI.Model,
		stub:   cfg.AI.Stub,
		count:  cfg.Recommend.DraftCount,
		client: &http.Client{Timeout: cfg.AI.Timeout},
		logger: logger,
	}
}

// Gemini API request/response structs

type geminiRequest struct {
	Contents          []geminiContent          `json:"contents"`
	GenerationConfig  geminiGenerationConfig   `json:"generationConfig"`
	SystemInstruction *geminiSystemInstruction `json:"systemInstruction,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiSystemInstruction struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string        `json:"responseMimeType"`
	ResponseSchema   *geminiSchema `json:"responseSchema,omitempty"`
	Temperature      float64       `json:"temperature"`
}

type geminiSchema struct {
	Type       string                   `json:"type"`
	Items      *geminiSchema            `json:"items,omitempty"`
	Properties map[string]*geminiSchema `json:"properties,omitempty"`
	Required   []string                 `json:"required,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Usage      geminiUsage       `json:"usageMetadata"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
}

// draftSchema constrains the model output to an array of draft objects with
// exactly the four documented string fields.
func draftSchema() *geminiSchema {
	return &geminiSchema{
		Type: "array",
		Items: &geminiSchema{
			Type: "object",
			Properties: map[string]*geminiSchema{
				"name":           {Type: "string"},
				"description":    {Type: "string"},
				"searchQuery":    {Type: "string"},
				"humorRationale": {Type: "string"},
			},
			Required: []string{"name", "description", "searchQuery", "humorRationale"},
		},
	}
}

// GenerateDrafts produces the fixed-size draft list for a questionnaire.
// Malformed or schema-violating model output is a hard failure for the whole
// request; there is nothing to degrade at this stage.
func (s *Service) GenerateDrafts(ctx context.Context, req models.RecommendationRequest) ([]models.RecommendationDraft, error) {
	if s.stub {
		s.logger.Info("AI stub mode, serving deterministic drafts", map[string]interface{}{
			"location": req.Location,
		})
		return s.stubDrafts(req), nil
	}

	if strings.TrimSpace(s.apiKey) == "" {
		s.logger.Warn("Gemini API key missing; draft generation unavailable")
		return nil, ErrAINotConfigured
	}

	prompt := s.buildPrompt(req)

	reqBody := geminiRequest{
		SystemInstruction: &geminiSystemInstruction{
			Parts: []geminiPart{{Text: "You are a witty local date-night concierge with a taste for the unexpected."}},
		},
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   draftSchema(),
			Temperature:      1.0,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request", ErrAIProviderUnavailable)
	}

	// Log request metadata only (the prompt embeds user input)
	s.logger.Info("Sending request to Gemini", map[string]interface{}{
		"model":         s.model,
		"prompt_length": len(prompt),
	})

	url := fmt.Sprintf("%s/%s:generateContent", geminiBaseURL, s.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIProviderUnavailable, err)
	}
	defer func() {
		// Drain and close the body to ensure connection reuse
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: status %d", ErrRateLimitExceeded, resp.StatusCode)
		}
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		s.logger.Error("Gemini non-200 response", map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(bodyBytes),
		})
		return nil, fmt.Errorf("%w: status %d", ErrAIProviderUnavailable, resp.StatusCode)
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response", ErrAIProviderUnavailable)
	}

	if len(geminiResp.Candidates) == 0 {
		return nil, ErrSafetyViolation
	}

	candidate := geminiResp.Candidates[0]
	if candidate.FinishReason == "SAFETY" {
		return nil, ErrSafetyViolation
	}
	if len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty content parts", ErrAIProviderUnavailable)
	}

	responseText := stripMarkdownCodeBlock(candidate.Content.Parts[0].Text)
	s.logger.Info("Received response from Gemini", map[string]interface{}{
		"response_length": len(responseText),
		"tokens_input":    geminiResp.Usage.PromptTokenCount,
		"tokens_output":   geminiResp.Usage.CandidatesTokenCount,
	})

	var drafts []models.RecommendationDraft
	if err := json.Unmarshal([]byte(responseText), &drafts); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON response", ErrMalformedDrafts)
	}

	if err := s.validateDrafts(drafts); err != nil {
		return nil, err
	}

	return drafts, nil
}

// validateDrafts enforces the structured-output contract: the documented
// count, all four fields present and non-empty.
func (s *Service) validateDrafts(drafts []models.RecommendationDraft) error {
	if len(drafts) != s.count {
		return fmt.Errorf("%w: expected %d drafts, got %d", ErrMalformedDrafts, s.count, len(drafts))
	}
	for i, d := range drafts {
		if strings.TrimSpace(d.Name) == "" ||
			strings.TrimSpace(d.Description) == "" ||
			strings.TrimSpace(d.SearchQuery) == "" ||
			strings.TrimSpace(d.HumorRationale) == "" {
			return fmt.Errorf("%w: draft %d has empty fields", ErrMalformedDrafts, i)
		}
	}
	return nil
}

func (s *Service) buildPrompt(req models.RecommendationRequest) string {
	location := escapeXMLTags(sanitizeInput(req.Location))
	framing := relationshipContext[req.Relationship]

	return fmt.Sprintf(`Generate %d funny, unexpected, and highly-creative date recommendations.

Context:
- Location: %s
- Relationship Type: %s
- Time Available: %s
- Budget: $%.0f to $%.0f

Requirements:
1. Each recommendation should be humorous and unexpected - avoid cliches
2. Suggest actual business types or venues that could exist in any city
3. Make sure each recommendation fits the time constraint and budget
4. Exactly one of the %d recommendations must be a restaurant idea: its searchQuery must contain "restaurant" or a named cuisine. The others may be any venue type.
5. Keep every searchQuery a simple, generic, searchable category (e.g. "pizza restaurant", "vintage bookstore", "escape room"). Save the creativity for name, description, and humorRationale.

For each recommendation, provide:
- name: A creative, specific type of business or venue
- description: A witty, humorous description of why this would be a great (and funny) date
- searchQuery: A simple place-search query to find this type of business in the area
- humorRationale: One sentence on what makes this pick funny

Examples of funny, unexpected venues: quirky museums, unusual restaurants, vintage shops, hidden parks, food truck parks, comedy clubs, axe throwing venues, pottery studios, karaoke bars, plant nurseries, board game cafés, etc.

Output exactly %d recommendations as a JSON array.`,
		s.count, location, framing, req.TimeAvailable, req.MinBudget, req.MaxBudget, s.count, s.count)
}

// stubDrafts returns a deterministic draft set so the pipeline can run
// without a provider credential. One restaurant slot, like the real prompt
// demands.
func (s *Service) stubDrafts(req models.RecommendationRequest) []models.RecommendationDraft {
	drafts := []models.RecommendationDraft{
		{
			Name:           "Putt-Putt Grudge Match",
			Description:    "Eighteen holes of windmills, wounded pride, and at least one ball in the water feature.",
			SearchQuery:    "mini golf",
			HumorRationale: "Nothing reveals character like a missed two-foot putt.",
		},
		{
			Name:           "Mystery Cuisine Roulette",
			Description:    "Order the thing on the menu neither of you can pronounce and live with the consequences.",
			SearchQuery:    "ethiopian restaurant",
			HumorRationale: "Shared confusion over injera is a bonding exercise.",
		},
		{
			Name:           "Board Game Gauntlet",
			Description:    "Settle who the strategic genius is over coffee and a tower of cardboard.",
			SearchQuery:    "board game cafe",
			HumorRationale: "Monopoly has ended stronger relationships than distance ever did.",
		},
	}
	if s.count < len(drafts) {
		return drafts[:s.count]
	}
	// Pad deterministically if the configured count exceeds the canned set.
	for i := len(drafts); i < s.count; i++ {
		drafts = append(drafts, models.RecommendationDraft{
			Name:           fmt.Sprintf("Scenic Wander #%d", i+1),
			Description:    "A walk with no destination and strong opinions about other people's dogs.",
			SearchQuery:    "park",
			HumorRationale: "Free entertainment, judgmental commentary included.",
		})
	}
	return drafts
}

// stripMarkdownCodeBlock removes leading and trailing markdown code fences
// (```json or ```).
func stripMarkdownCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

// sanitizeInput cleans user input embedded in the prompt to prevent basic
// prompt injection and enforce limits.
func sanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.Join(strings.Fields(input), " ")

	if len([]rune(input)) > 200 {
		input = string([]rune(input)[:200])
	}

	return input
}

func escapeXMLTags(input string) string {
	replacer := strings.NewReplacer("<", "＜", ">", "＞")
	return replacer.Replace(input)
}
