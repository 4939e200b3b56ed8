package services

import "testing"

func TestClassifyBudget_Boundaries(t *testing.T) {
	tests := []struct {
		amount float64
		want   int
	}{
		{0, 1},
		{20, 1},
		{50, 1},
		{51, 2},
		{80, 2},
		{150, 2},
		{151, 3},
		{300, 3},
		{301, 4},
		{500, 4},
	}

	for _, tt := range tests {
		if got := ClassifyBudget(tt.amount); got != tt.want {
			t.Errorf("ClassifyBudget(%v) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}

func TestClassifyBudget_Monotonic(t *testing.T) {
	prev := 0
	for b := 0.0; b <= 500; b++ {
		tier := ClassifyBudget(b)
		if tier < prev {
			t.Fatalf("ClassifyBudget not monotonic at %v: %d < %d", b, tier, prev)
		}
		prev = tier
	}
}

func TestTierRange(t *testing.T) {
	tests := []struct {
		name      string
		minBudget float64
		maxBudget float64
		wantMin   int
		wantMax   int
	}{
		{"typical date budget", 20, 80, 1, 2},
		{"single tier", 60, 100, 2, 2},
		{"full spread", 0, 500, 1, 4},
		{"upper band", 200, 400, 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := TierRange(tt.minBudget, tt.maxBudget)
			if gotMin != tt.wantMin || gotMax != tt.wantMax {
				t.Errorf("TierRange(%v, %v) = (%d, %d), want (%d, %d)",
					tt.minBudget, tt.maxBudget, gotMin, gotMax, tt.wantMin, tt.wantMax)
			}
		})
	}
}
