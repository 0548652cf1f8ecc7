package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/scholar/internal/contract"
	"github.com/huangsam/scholar/internal/dataset"
	"github.com/huangsam/scholar/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteEnhancedDataset outputs an enhanced dataset. CSV, JSON and Parquet output
// can be loaded back as input; text renders a preview table.
func WriteEnhancedDataset(records []schema.EnhancedRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return dataset.WriteJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return dataset.WriteCSV(w, records)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := dataset.WriteParquet(cfg.OutputFile, records); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEnhancedTable(w, records, cfg)
		}, "Wrote table")
	}
}

func writeEnhancedTable(w io.Writer, records []schema.EnhancedRecord, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Applicant", "Perf Index", "Prev Scores", "Income", "Parent Edu", "Attendance", "Prior Aid", "Extracurricular", "Papers"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	mark := func(r schema.EnhancedRecord, key schema.SubFactorKey, text string) string {
		if r.IsSynthesized(key) {
			return contract.SynthesizedColor.Sprint(text + "*")
		}
		return text
	}

	limit := len(records)
	if cfg.ResultLimit > 0 {
		limit = min(limit, cfg.ResultLimit)
	}
	idWidth := getMaxTableIDWidth(cfg)

	var data [][]string
	synthesized := 0
	for _, r := range records[:limit] {
		if len(r.Synthesized) > 0 {
			synthesized++
		}
		prior := "No"
		if r.PreviousScholarship {
			prior = "Yes"
		}
		data = append(data, []string{
			contract.TruncateText(r.ID, idWidth),
			strconv.FormatFloat(r.PerformanceIndex, 'f', -1, 64),
			strconv.FormatFloat(r.PreviousScores, 'f', -1, 64),
			mark(r, schema.FamilyIncomeKey, contract.FormatAward(r.FamilyIncome)),
			mark(r, schema.ParentEducationKey, r.ParentEducation.DisplayName()),
			mark(r, schema.AttendanceKey, strconv.FormatFloat(r.AttendancePercentage, 'f', 1, 64)+"%"),
			mark(r, schema.PreviousScholarshipKey, prior),
			strconv.FormatFloat(r.ExtracurricularActivities, 'f', -1, 64),
			strconv.FormatFloat(r.PracticePapersCount, 'f', -1, 64),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	notes := []string{fmt.Sprintf("Showing %d of %d applicants", limit, len(records))}
	if synthesized > 0 {
		notes = append(notes, "* value synthesized by the enhancer")
	}
	notes = append(notes, "Seed: "+formatSeed(cfg.Seed))
	_, err := fmt.Fprintln(w, strings.Join(notes, " | "))
	return err
}
