package schema

import "maps"

// Weights holds category weights and per-category sub-factor weights.
type Weights struct {
	Category  map[Category]float64                  `json:"category"`
	SubFactor map[Category]map[SubFactorKey]float64 `json:"sub_factor"`
}

// Thresholds holds the decision cut-offs on the final score.
type Thresholds struct {
	Full    float64 `json:"full"`
	Partial float64 `json:"partial"`
}

// Awards holds the award amount of each tier.
type Awards struct {
	Full        float64 `json:"full"`
	Partial     float64 `json:"partial"`
	NotEligible float64 `json:"not_eligible"`
}

// DefaultWeights returns a fresh copy of the default weights.
func DefaultWeights() Weights {
	w := Weights{
		Category:  GetDefaultCategoryWeights(),
		SubFactor: make(map[Category]map[SubFactorKey]float64, len(AllCategories)),
	}
	for _, c := range AllCategories {
		w.SubFactor[c] = GetDefaultSubFactorWeights(c)
	}
	return w
}

// DefaultThresholds returns the default decision thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Full: DefaultFullThreshold, Partial: DefaultPartialThreshold}
}

// DefaultAwards returns the default award amounts.
func DefaultAwards() Awards {
	return Awards{Full: DefaultFullAward, Partial: DefaultPartialAward, NotEligible: DefaultNotEligibleAward}
}

// Clone returns a deep copy of the weights.
func (w Weights) Clone() Weights {
	clone := Weights{
		Category:  maps.Clone(w.Category),
		SubFactor: make(map[Category]map[SubFactorKey]float64, len(w.SubFactor)),
	}
	for c, sub := range w.SubFactor {
		clone.SubFactor[c] = maps.Clone(sub)
	}
	return clone
}
