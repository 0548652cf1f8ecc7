package outwriter

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/scholar/core/algo"
	"github.com/huangsam/scholar/internal/contract"
	"github.com/huangsam/scholar/internal/parquet"
	"github.com/huangsam/scholar/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const (
	factorContribMinimum = 0.5
	topNFactors          = 3
)

// WriteRankingResults outputs ranked applicants, dispatching based on the output format configured.
func WriteRankingResults(ranked []schema.RankedApplicant, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingJSON(w, ranked)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingCSV(w, ranked, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteRankedParquet(parquet.ConvertRankedApplicants(ranked), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankingTable(w, ranked, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
}

// writeRankingTable generates and writes the human-readable table.
func writeRankingTable(w io.Writer, ranked []schema.RankedApplicant, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Rank", "Applicant", "Score", "Tier", "Award"}
	if cfg.Detail {
		headers = append(headers, "Academic", "Financial", "Engagement")
	}
	if cfg.Explain {
		headers = append(headers, "Top Factors")
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	idWidth := getMaxTableIDWidth(cfg)
	var data [][]string
	for _, r := range ranked {
		row := []string{
			strconv.Itoa(r.Rank),
			contract.TruncateText(r.ApplicantID, idWidth),
			fmtFloat(r.FinalScore),
			contract.GetColorTier(r.Tier),
			contract.FormatAward(r.AwardAmount),
		}
		if cfg.Detail {
			row = append(row,
				fmtFloat(r.AcademicScore()),
				fmtFloat(r.FinancialScore()),
				fmtFloat(r.EngagementScore()),
			)
		}
		if cfg.Explain {
			row = append(row, formatTopFactors(r.ScoreBreakdown))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	summary := algo.Summarize(ranked)
	if _, err := fmt.Fprintf(w, "Showing %d applicants (full: %d, partial: %d, not eligible: %d, total awarded: %s)\n",
		summary.TotalApplicants,
		summary.Tier(schema.FullTier).Count,
		summary.Tier(schema.PartialTier).Count,
		summary.Tier(schema.NotEligibleTier).Count,
		contract.FormatAward(summary.TotalAwarded)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Scored in %v. Seed: %s. Cache backend: %s\n", duration.Round(time.Millisecond), formatSeed(cfg.Seed), cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// rankingCSVHeader lists the columns of ranked CSV output.
var rankingCSVHeader = []string{
	"rank",
	"applicant_id",
	"final_score",
	"tier",
	"award_amount",
	"academic_score",
	"financial_score",
	"engagement_score",
	"performance_index",
	"previous_scores",
	"family_income",
	"parent_education",
	"previous_scholarship",
	"attendance_percentage",
	"extracurricular_activities",
	"practice_papers_count",
	"synthesized",
}

// writeRankingCSV writes ranked applicants in CSV format.
func writeRankingCSV(w io.Writer, ranked []schema.RankedApplicant, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, rankingCSVHeader, func(cw *csv.Writer) error {
		for _, r := range ranked {
			synthesized := make([]string, len(r.Record.Synthesized))
			for i, k := range r.Record.Synthesized {
				synthesized[i] = string(k)
			}
			rec := []string{
				strconv.Itoa(r.Rank),
				r.ApplicantID,
				fmtFloat(r.FinalScore),
				string(r.Tier),
				strconv.FormatFloat(r.AwardAmount, 'f', -1, 64),
				fmtFloat(r.AcademicScore()),
				fmtFloat(r.FinancialScore()),
				fmtFloat(r.EngagementScore()),
				strconv.FormatFloat(r.Record.PerformanceIndex, 'f', -1, 64),
				strconv.FormatFloat(r.Record.PreviousScores, 'f', -1, 64),
				strconv.FormatFloat(r.Record.FamilyIncome, 'f', -1, 64),
				string(r.Record.ParentEducation),
				strconv.FormatBool(r.Record.PreviousScholarship),
				strconv.FormatFloat(r.Record.AttendancePercentage, 'f', -1, 64),
				strconv.FormatFloat(r.Record.ExtracurricularActivities, 'f', -1, 64),
				strconv.FormatFloat(r.Record.PracticePapersCount, 'f', -1, 64),
				strings.Join(synthesized, ";"),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeRankingJSON writes ranked applicants in JSON format.
func writeRankingJSON(w io.Writer, ranked []schema.RankedApplicant) error {
	if ranked == nil {
		ranked = []schema.RankedApplicant{}
	}
	return writeJSON(w, ranked)
}

// factorContribution holds a sub-factor and its share of the final score.
type factorContribution struct {
	Key   schema.SubFactorKey
	Value float64
}

// formatTopFactors lists the sub-factors that contribute most to the final score.
func formatTopFactors(b schema.ScoreBreakdown) string {
	var factors []factorContribution
	for _, cs := range b.Categories {
		for _, sf := range cs.SubFactors {
			v := sf.Contribution * cs.Weight
			if v >= factorContribMinimum {
				factors = append(factors, factorContribution{Key: sf.Key, Value: v})
			}
		}
	}
	if len(factors) == 0 {
		return "Not applicable"
	}

	slices.SortStableFunc(factors, func(a, b factorContribution) int {
		return cmp.Compare(b.Value, a.Value)
	})

	parts := make([]string, 0, topNFactors)
	for _, f := range factors[:min(len(factors), topNFactors)] {
		parts = append(parts, string(f.Key))
	}
	return strings.Join(parts, " > ")
}

// formatSeed renders the enhancement seed for run footers.
func formatSeed(seed *uint64) string {
	if seed == nil {
		return "random"
	}
	return strconv.FormatUint(*seed, 10)
}
