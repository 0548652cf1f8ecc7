package algo

import (
	"fmt"
	"math"

	"github.com/huangsam/scholar/schema"
)

// WeightTolerance is the allowed drift when checking that weights sum to 1.
const WeightTolerance = 1e-3

// Configuration is a validated set of weights, thresholds and awards.
// The zero value is not usable; build one with NewConfiguration.
type Configuration struct {
	weights    schema.Weights
	thresholds schema.Thresholds
	awards     schema.Awards
}

// NewConfiguration validates the inputs and returns an immutable Configuration.
// Sub-factor keys missing from a category default to a weight of zero.
func NewConfiguration(weights schema.Weights, thresholds schema.Thresholds, awards schema.Awards) (*Configuration, error) {
	normalized, err := validateWeights(weights)
	if err != nil {
		return nil, err
	}
	if err := validateThresholds(thresholds); err != nil {
		return nil, err
	}
	if err := validateAwards(awards); err != nil {
		return nil, err
	}
	return &Configuration{weights: normalized, thresholds: thresholds, awards: awards}, nil
}

// DefaultConfiguration returns the default 40/40/20 configuration.
func DefaultConfiguration() *Configuration {
	cfg, err := NewConfiguration(schema.DefaultWeights(), schema.DefaultThresholds(), schema.DefaultAwards())
	if err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return cfg
}

// Weights returns a copy of the configured weights.
func (c *Configuration) Weights() schema.Weights { return c.weights.Clone() }

// Thresholds returns the decision thresholds.
func (c *Configuration) Thresholds() schema.Thresholds { return c.thresholds }

// Awards returns the award amounts.
func (c *Configuration) Awards() schema.Awards { return c.awards }

// CategoryWeight returns the weight of a category.
func (c *Configuration) CategoryWeight(category schema.Category) float64 {
	return c.weights.Category[category]
}

// SubFactorWeight returns the weight of a sub-factor within its category.
func (c *Configuration) SubFactorWeight(category schema.Category, key schema.SubFactorKey) float64 {
	return c.weights.SubFactor[category][key]
}

// Classify maps a final score to its tier and award. First match wins.
func (c *Configuration) Classify(finalScore float64) (schema.Tier, float64) {
	switch {
	case finalScore >= c.thresholds.Full:
		return schema.FullTier, c.awards.Full
	case finalScore >= c.thresholds.Partial:
		return schema.PartialTier, c.awards.Partial
	default:
		return schema.NotEligibleTier, c.awards.NotEligible
	}
}

// Params flattens the configuration for run tracking.
func (c *Configuration) Params() map[string]any {
	params := map[string]any{
		"full_threshold":     c.thresholds.Full,
		"partial_threshold":  c.thresholds.Partial,
		"full_award":         c.awards.Full,
		"partial_award":      c.awards.Partial,
		"not_eligible_award": c.awards.NotEligible,
	}
	for _, cat := range schema.AllCategories {
		params[string(cat)+"_weight"] = c.weights.Category[cat]
		for _, key := range schema.CategorySubFactors[cat] {
			params[string(key)+"_weight"] = c.weights.SubFactor[cat][key]
		}
	}
	return params
}

// validateWeights checks both weight levels and returns a normalized copy
// with every known sub-factor present.
func validateWeights(w schema.Weights) (schema.Weights, error) {
	out := schema.Weights{
		Category:  make(map[schema.Category]float64, len(schema.AllCategories)),
		SubFactor: make(map[schema.Category]map[schema.SubFactorKey]float64, len(schema.AllCategories)),
	}

	for cat := range w.Category {
		if _, ok := schema.CategorySubFactors[cat]; !ok {
			return out, &schema.InvalidConfigurationError{Field: "category weights", Reason: fmt.Sprintf("unknown category %q", cat)}
		}
	}

	sum := 0.0
	for _, cat := range schema.AllCategories {
		weight, ok := w.Category[cat]
		if !ok {
			return out, &schema.InvalidConfigurationError{Field: "category weights", Reason: fmt.Sprintf("missing weight for %s", cat)}
		}
		if err := checkWeightValue(string(cat)+" weight", weight); err != nil {
			return out, err
		}
		out.Category[cat] = weight
		sum += weight
	}
	if math.Abs(sum-1) > WeightTolerance {
		return out, &schema.InvalidConfigurationError{Field: "category weights", Reason: fmt.Sprintf("must sum to 1.0, got %.3f", sum)}
	}

	for cat := range w.SubFactor {
		if _, ok := schema.CategorySubFactors[cat]; !ok {
			return out, &schema.InvalidConfigurationError{Field: "sub-factor weights", Reason: fmt.Sprintf("unknown category %q", cat)}
		}
	}

	for _, cat := range schema.AllCategories {
		field := string(cat) + " sub-factor weights"
		given := w.SubFactor[cat]
		if len(given) == 0 {
			return out, &schema.InvalidConfigurationError{Field: field, Reason: "no weights given"}
		}
		allowed := make(map[schema.SubFactorKey]struct{}, len(schema.CategorySubFactors[cat]))
		for _, key := range schema.CategorySubFactors[cat] {
			allowed[key] = struct{}{}
		}
		for key := range given {
			if _, ok := allowed[key]; !ok {
				return out, &schema.InvalidConfigurationError{Field: field, Reason: fmt.Sprintf("%s does not belong to %s", key, cat)}
			}
		}

		subSum := 0.0
		sub := make(map[schema.SubFactorKey]float64, len(allowed))
		for _, key := range schema.CategorySubFactors[cat] {
			weight := given[key]
			if err := checkWeightValue(string(key)+" weight", weight); err != nil {
				return out, err
			}
			sub[key] = weight
			subSum += weight
		}
		if math.Abs(subSum-1) > WeightTolerance {
			return out, &schema.InvalidConfigurationError{Field: field, Reason: fmt.Sprintf("must sum to 1.0, got %.3f", subSum)}
		}
		out.SubFactor[cat] = sub
	}

	return out, nil
}

// checkWeightValue rejects negative and non-finite weights.
func checkWeightValue(field string, weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return &schema.InvalidConfigurationError{Field: field, Reason: "must be a finite number"}
	}
	if weight < 0 {
		return &schema.InvalidConfigurationError{Field: field, Reason: fmt.Sprintf("must be non-negative, got %.3f", weight)}
	}
	return nil
}

func validateThresholds(t schema.Thresholds) error {
	if t.Full < 0 || t.Full > 100 || math.IsNaN(t.Full) {
		return &schema.InvalidConfigurationError{Field: "full threshold", Reason: fmt.Sprintf("must be within [0, 100], got %.2f", t.Full)}
	}
	if t.Partial < 0 || t.Partial > 100 || math.IsNaN(t.Partial) {
		return &schema.InvalidConfigurationError{Field: "partial threshold", Reason: fmt.Sprintf("must be within [0, 100], got %.2f", t.Partial)}
	}
	if t.Partial >= t.Full {
		return &schema.InvalidConfigurationError{
			Field:  "thresholds",
			Reason: fmt.Sprintf("partial threshold (%.2f) must be lower than full threshold (%.2f)", t.Partial, t.Full),
		}
	}
	return nil
}

func validateAwards(a schema.Awards) error {
	for name, amount := range map[string]float64{"full": a.Full, "partial": a.Partial, "not eligible": a.NotEligible} {
		if amount < 0 || math.IsNaN(amount) {
			return &schema.InvalidConfigurationError{Field: name + " award", Reason: fmt.Sprintf("must be non-negative, got %.2f", amount)}
		}
	}
	return nil
}
