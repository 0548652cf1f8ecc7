package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/scholar/core/algo"
	"github.com/huangsam/scholar/internal/contract"
	"github.com/huangsam/scholar/schema"
)

// WriteWeightsDefinitions displays the active scoring formulas.
// This is a static display that does not require a dataset.
func WriteWeightsDefinitions(engine *algo.Configuration, cfg *contract.Config) error {
	model := BuildWeightsRenderModel(engine)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWeightsCSV(w, model)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return unsupportedParquet("weights")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWeightsText(w, model)
		}, "Wrote text")
	}
}

// BuildWeightsRenderModel constructs the complete render model of an engine configuration.
func BuildWeightsRenderModel(engine *algo.Configuration) *schema.WeightsRenderModel {
	weights := engine.Weights()
	categories := make([]schema.CategoryFormula, len(schema.AllCategories))
	finalParts := make([]string, 0, len(schema.AllCategories))

	for i, cat := range schema.AllCategories {
		keys := schema.CategorySubFactors[cat]
		var inverted []schema.SubFactorKey
		for _, k := range keys {
			if _, ok := schema.InvertedSubFactors[k]; ok {
				inverted = append(inverted, k)
			}
		}
		categories[i] = schema.CategoryFormula{
			Category: cat,
			Name:     cat.DisplayName(),
			Weight:   weights.Category[cat],
			Factors:  keys,
			Weights:  weights.SubFactor[cat],
			Inverted: inverted,
			Formula:  formatFormula(weights.SubFactor[cat], keys),
		}
		if w := weights.Category[cat]; w > 0 {
			finalParts = append(finalParts, fmt.Sprintf("%.2f*%s", w, cat))
		}
	}

	return &schema.WeightsRenderModel{
		Title:        "Scholarship Scoring Model",
		Description:  "Every score = weighted sum of cohort min-max normalized sub-factors (0-100)",
		Categories:   categories,
		FinalFormula: strings.Join(finalParts, "+"),
		Thresholds:   engine.Thresholds(),
		Awards:       engine.Awards(),
	}
}

// formatFormula formats sub-factor weights for display. Inverted sub-factors
// enter as (100-x) and zero weights are omitted.
func formatFormula(weights map[schema.SubFactorKey]float64, keys []schema.SubFactorKey) string {
	var parts []string
	for _, key := range keys {
		weight, ok := weights[key]
		if !ok || weight <= 0 {
			continue
		}
		term := string(key)
		if _, inverted := schema.InvertedSubFactors[key]; inverted {
			term = "(100-" + term + ")"
		}
		parts = append(parts, fmt.Sprintf("%.2f*%s", weight, term))
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, "+")
}

// writeWeightsText displays the scoring model in human-readable text format.
func writeWeightsText(w io.Writer, model *schema.WeightsRenderModel) error {
	lines := []string{
		"🎓 " + model.Title,
		strings.Repeat("=", len(model.Title)+3),
		"",
		model.Description,
		"",
	}
	for _, c := range model.Categories {
		factors := make([]string, len(c.Factors))
		for i, f := range c.Factors {
			factors[i] = string(f)
		}
		lines = append(lines,
			fmt.Sprintf("%s (weight %.2f)", c.Name, c.Weight),
			"   Factors: "+strings.Join(factors, ", "),
			"   Formula: Score = "+c.Formula,
			"",
		)
	}
	lines = append(lines,
		"Final Score = "+model.FinalFormula,
		"",
		"🏅 Decision Tiers",
		fmt.Sprintf("   %s: score >= %g (%s)", schema.FullTier, model.Thresholds.Full, contract.FormatAward(model.Awards.Full)),
		fmt.Sprintf("   %s: score >= %g (%s)", schema.PartialTier, model.Thresholds.Partial, contract.FormatAward(model.Awards.Partial)),
		fmt.Sprintf("   %s: otherwise (%s)", schema.NotEligibleTier, contract.FormatAward(model.Awards.NotEligible)),
	)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// writeWeightsCSV writes one row per category.
func writeWeightsCSV(w io.Writer, model *schema.WeightsRenderModel) error {
	return writeCSVWithHeader(w, []string{"Category", "Weight", "Factors", "Formula"}, func(cw *csv.Writer) error {
		for _, c := range model.Categories {
			factors := make([]string, len(c.Factors))
			for i, f := range c.Factors {
				factors[i] = string(f)
			}
			record := []string{
				string(c.Category),
				fmt.Sprintf("%.2f", c.Weight),
				strings.Join(factors, "|"),
				c.Formula,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
