package services

import (
	"context"
	"strings"

	"github.com/datespark/datespark/internal/logging"
	"github.com/datespark/datespark/internal/models"
)

// FallbackEntry maps a niche category keyword to broader sibling categories
// that are far more likely to exist in any given city.
type FallbackEntry struct {
	Keyword  string
	Siblings []string
}

// FallbackTable is an ordered keyword table consulted when an exact search
// query misses. Order matters twice: earlier entries win when several keywords
// match a query, and siblings are attempted in declaration order.
type FallbackTable []FallbackEntry

// DefaultFallbackTable returns the built-in category substitution table. The
// keywords cover the venue types the generator is prompted toward.
func DefaultFallbackTable() FallbackTable {
	return FallbackTable{
		{Keyword: "escape room", Siblings: []string{"entertainment venue", "amusement center"}},
		{Keyword: "axe throwing", Siblings: []string{"entertainment venue", "sports bar"}},
		{Keyword: "pottery studio", Siblings: []string{"art studio", "craft store"}},
		{Keyword: "karaoke bar", Siblings: []string{"karaoke", "night club"}},
		{Keyword: "board game cafe", Siblings: []string{"game store", "cafe"}},
		{Keyword: "comedy club", Siblings: []string{"live music venue", "theater"}},
		{Keyword: "food truck", Siblings: []string{"food court", "street food"}},
		{Keyword: "vintage", Siblings: []string{"thrift store", "antique store"}},
		{Keyword: "bookstore", Siblings: []string{"book store", "library"}},
		{Keyword: "plant nursery", Siblings: []string{"garden center", "florist"}},
		{Keyword: "museum", Siblings: []string{"museum", "art gallery"}},
		{Keyword: "arcade", Siblings: []string{"amusement center", "entertainment venue"}},
		{Keyword: "picnic", Siblings: []string{"park", "botanical garden"}},
		{Keyword: "mini golf", Siblings: []string{"golf course", "amusement center"}},
	}
}

// SiblingsFor returns the sibling categories for the first entry whose keyword
// appears in the query, matched case-insensitively as a substring. Returns nil
// when no keyword matches.
func (t FallbackTable) SiblingsFor(query string) []string {
	q := strings.ToLower(query)
	for _, entry := range t {
		if strings.Contains(q, entry.Keyword) {
			return entry.Siblings
		}
	}
	return nil
}

// genericCategories is the last line of defense before giving up: categories
// that exist in essentially every city, ordered from most to least date-like.
var genericCategories = []string{"restaurant", "cafe", "bar"}

// FallbackResolver resolves a draft's search query to a place match, degrading
// from the exact query toward ever-more-generic categories. It trades
// precision for recall on purpose: a niche category with no local match should
// not sink the recommendation.
type FallbackResolver struct {
	searcher PlaceSearcher
	table    FallbackTable
	logger   *logging.Logger
}

// NewFallbackResolver creates a resolver over the given searcher and table.
func NewFallbackResolver(searcher PlaceSearcher, table FallbackTable, logger *logging.Logger) *FallbackResolver {
	if logger == nil {
		logger = logging.Default
	}
	return &FallbackResolver{
		searcher: searcher,
		table:    table,
		logger:   logger,
	}
}

// Resolve attempts, in order: the exact query, the sibling categories for the
// first matching table keyword, the generic category triad, and a final
// price-unconstrained "restaurant" probe. Returns nil when everything misses;
// the caller is responsible for placeholder substitution.
func (r *FallbackResolver) Resolve(ctx context.Context, query, location string, minTier, maxTier int) (*models.PlaceMatch, error) {
	match, err := r.attempt(ctx, "exact", query, location, minTier, maxTier)
	if match != nil || err != nil {
		return match, err
	}

	for _, sibling := range r.table.SiblingsFor(query) {
		match, err = r.attempt(ctx, "sibling", sibling, location, minTier, maxTier)
		if match != nil || err != nil {
			return match, err
		}
	}

	for _, generic := range genericCategories {
		match, err = r.attempt(ctx, "generic", generic, location, minTier, maxTier)
		if match != nil || err != nil {
			return match, err
		}
	}

	// Last resort: drop the price filter entirely and look for any restaurant.
	match, err = r.attempt(ctx, "last-resort", "restaurant", location, 0, 0)
	if match != nil || err != nil {
		return match, err
	}

	r.logger.Warn("all fallback attempts exhausted", map[string]interface{}{
		"query":    query,
		"location": location,
	})
	return nil, nil
}

func (r *FallbackResolver) attempt(ctx context.Context, stage, query, location string, minTier, maxTier int) (*models.PlaceMatch, error) {
	match, err := r.searcher.Search(ctx, query, location, minTier, maxTier)
	if err != nil {
		return nil, err
	}
	if match != nil {
		r.logger.Debug("place resolved", map[string]interface{}{
			"stage":    stage,
			"query":    query,
			"location": location,
			"place_id": match.PlaceID,
		})
		return match, nil
	}
	r.logger.Debug("search attempt missed", map[string]interface{}{
		"stage":    stage,
		"query":    query,
		"location": location,
	})
	return nil, nil
}
