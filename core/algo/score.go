package algo

import (
	"github.com/huangsam/scholar/schema"
)

// Score computes a ScoreBreakdown per record, in input order. Normalization
// bounds are computed from records on every call, so concurrent calls with
// different configurations never share state.
func Score(records []schema.EnhancedRecord, cfg *Configuration) ([]schema.ScoreBreakdown, error) {
	if cfg == nil {
		return nil, &schema.InvalidConfigurationError{Field: "configuration", Reason: "must not be nil"}
	}
	if len(records) == 0 {
		return []schema.ScoreBreakdown{}, nil
	}

	bounds := cohortBounds(records)
	out := make([]schema.ScoreBreakdown, len(records))
	for i := range records {
		out[i] = scoreRecord(&records[i], cfg, bounds)
	}
	return out, nil
}

// cohortBounds computes min-max bounds for every sub-factor across records.
func cohortBounds(records []schema.EnhancedRecord) map[schema.SubFactorKey]minMax {
	bounds := make(map[schema.SubFactorKey]minMax)
	values := make([]float64, len(records))
	for _, cat := range schema.AllCategories {
		for _, key := range schema.CategorySubFactors[cat] {
			for i := range records {
				values[i] = records[i].RawValue(key)
			}
			bounds[key] = newMinMax(values)
		}
	}
	return bounds
}

// scoreRecord builds the breakdown of a single applicant.
func scoreRecord(r *schema.EnhancedRecord, cfg *Configuration, bounds map[schema.SubFactorKey]minMax) schema.ScoreBreakdown {
	b := schema.ScoreBreakdown{
		ApplicantID: r.ID,
		Categories:  make([]schema.CategoryScore, 0, len(schema.AllCategories)),
	}

	final := 0.0
	for _, cat := range schema.AllCategories {
		cs := scoreCategory(r, cat, cfg, bounds)
		final += cs.Contribution
		b.Categories = append(b.Categories, cs)
	}

	b.FinalScore = clamp(final, 0, 100)
	b.Tier, b.AwardAmount = cfg.Classify(b.FinalScore)
	return b
}

// scoreCategory computes the weighted sum of a category's sub-factors.
func scoreCategory(r *schema.EnhancedRecord, cat schema.Category, cfg *Configuration, bounds map[schema.SubFactorKey]minMax) schema.CategoryScore {
	keys := schema.CategorySubFactors[cat]
	cs := schema.CategoryScore{
		Category:   cat,
		Weight:     cfg.CategoryWeight(cat),
		SubFactors: make([]schema.SubFactorScore, 0, len(keys)),
	}

	total := 0.0
	for _, key := range keys {
		raw := r.RawValue(key)
		normalized := bounds[key].normalize(raw)
		_, inverted := schema.InvertedSubFactors[key]
		adjusted := normalized
		if inverted {
			adjusted = 100 - normalized
		}
		weight := cfg.SubFactorWeight(cat, key)
		contribution := weight * adjusted
		total += contribution

		cs.SubFactors = append(cs.SubFactors, schema.SubFactorScore{
			Key:          key,
			Raw:          raw,
			Normalized:   normalized,
			Inverted:     inverted,
			Adjusted:     adjusted,
			Weight:       weight,
			Contribution: contribution,
		})
	}

	cs.Score = clamp(total, 0, 100)
	cs.Contribution = cs.Weight * cs.Score
	return cs
}
