package services

// Price tiers mirror the provider's coarse price levels. The step function is
// deliberately simple; its boundaries are part of the documented contract.
const (
	TierBudget   = 1 // up to $50
	TierModerate = 2 // up to $150
	TierUpscale  = 3 // up to $300
	TierLuxury   = 4 // above $300
)

// ClassifyBudget maps a dollar amount to a price tier.
func ClassifyBudget(amount float64) int {
	switch {
	case amount <= 50:
		return TierBudget
	case amount <= 150:
		return TierModerate
	case amount <= 300:
		return TierUpscale
	default:
		return TierLuxury
	}
}

// TierRange derives the [minTier, maxTier] search filter from a budget range.
// Bounds are classified independently; callers guarantee min <= max.
func TierRange(minBudget, maxBudget float64) (int, int) {
	return ClassifyBudget(minBudget), ClassifyBudget(maxBudget)
}
