package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/scholar/internal/contract"
	"github.com/huangsam/scholar/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteExplainResult outputs the full score breakdown of one applicant.
func WriteExplainResult(applicant schema.RankedApplicant, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeExplainJSON(w, applicant)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeExplainCSV(w, applicant, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return unsupportedParquet("explain")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeExplainText(w, applicant, fmtFloat)
		}, "Wrote text")
	}
}

// writeExplainText writes one table per category followed by the feature explanations.
func writeExplainText(w io.Writer, a schema.RankedApplicant, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "Applicant %s (rank %d)\n", a.ApplicantID, a.Rank); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Final Score: %s | Tier: %s | Award: %s\n\n",
		fmtFloat(a.FinalScore), contract.GetColorTier(a.Tier), contract.FormatAward(a.AwardAmount)); err != nil {
		return err
	}

	synthesized := false
	for _, cs := range a.Categories {
		if _, err := fmt.Fprintf(w, "%s: %s x %s = %s\n",
			cs.Category.DisplayName(), fmtFloat(cs.Score), formatWeight(cs.Weight), fmtFloat(cs.Contribution)); err != nil {
			return err
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Sub-factor", "Raw", "Normalized", "Adjusted", "Weight", "Contribution"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})

		var data [][]string
		for _, sf := range cs.SubFactors {
			name := string(sf.Key)
			if sf.Inverted {
				name += " (inverted)"
			}
			raw := formatRawValue(a.Record, sf)
			if a.Record.IsSynthesized(sf.Key) {
				raw += contract.SynthesizedColor.Sprint("*")
				synthesized = true
			}
			data = append(data, []string{
				name,
				raw,
				fmtFloat(sf.Normalized),
				fmtFloat(sf.Adjusted),
				formatWeight(sf.Weight),
				fmtFloat(sf.Contribution),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if synthesized {
		if _, err := fmt.Fprintln(w, "* value synthesized by the enhancer"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "Feature explanations:"); err != nil {
		return err
	}
	for _, cs := range a.Categories {
		for _, sf := range cs.SubFactors {
			if _, err := fmt.Fprintf(w, "  %s: %s\n", sf.Key, schema.FeatureExplanation(sf.Key)); err != nil {
				return err
			}
		}
	}
	return nil
}

// formatRawValue renders the raw input of a sub-factor, decoding encoded categorical fields.
func formatRawValue(r schema.EnhancedRecord, sf schema.SubFactorScore) string {
	switch sf.Key {
	case schema.ParentEducationKey:
		return fmt.Sprintf("%d (%s)", r.ParentEducation.Ordinal(), r.ParentEducation.DisplayName())
	case schema.PreviousScholarshipKey:
		if r.PreviousScholarship {
			return "1 (yes)"
		}
		return "0 (no)"
	default:
		return strconv.FormatFloat(sf.Raw, 'f', -1, 64)
	}
}

// formatWeight renders a weight with two decimals.
func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', 2, 64)
}

// writeExplainCSV writes one row per sub-factor.
func writeExplainCSV(w io.Writer, a schema.RankedApplicant, fmtFloat func(float64) string) error {
	header := []string{
		"applicant_id", "rank", "final_score", "tier", "award_amount",
		"category", "category_score", "category_weight",
		"sub_factor", "raw", "normalized", "inverted", "adjusted", "weight", "contribution", "synthesized",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, cs := range a.Categories {
			for _, sf := range cs.SubFactors {
				rec := []string{
					a.ApplicantID,
					strconv.Itoa(a.Rank),
					fmtFloat(a.FinalScore),
					string(a.Tier),
					strconv.FormatFloat(a.AwardAmount, 'f', -1, 64),
					string(cs.Category),
					fmtFloat(cs.Score),
					formatWeight(cs.Weight),
					string(sf.Key),
					strconv.FormatFloat(sf.Raw, 'f', -1, 64),
					fmtFloat(sf.Normalized),
					strconv.FormatBool(sf.Inverted),
					fmtFloat(sf.Adjusted),
					formatWeight(sf.Weight),
					fmtFloat(sf.Contribution),
					strconv.FormatBool(a.Record.IsSynthesized(sf.Key)),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// writeExplainJSON writes the ranked applicant together with the feature explanations.
func writeExplainJSON(w io.Writer, a schema.RankedApplicant) error {
	return writeJSON(w, schema.NewExplainedApplicant(a))
}
