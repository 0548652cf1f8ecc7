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

// WriteSummaryResult outputs tier counts and award totals of a scored cohort.
func WriteSummaryResult(summary schema.Summary, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryCSV(w, summary, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return unsupportedParquet("summary")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(w, summary, fmtFloat, intFmt)
		}, "Wrote table")
	}
}

func writeSummaryTable(w io.Writer, summary schema.Summary, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Tier", "Applicants", "Share", "Total Award"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, ts := range summary.Tiers {
		data = append(data, []string{
			contract.GetColorTier(ts.Tier),
			fmt.Sprintf(intFmt, ts.Count),
			fmtFloat(ts.Percentage) + "%",
			contract.FormatAward(ts.TotalAward),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Total applicants: %d | Total awarded: %s | Mean final score: %s\n",
		summary.TotalApplicants, contract.FormatAward(summary.TotalAwarded), fmtFloat(summary.MeanFinalScore)); err != nil {
		return err
	}
	return nil
}

func writeSummaryCSV(w io.Writer, summary schema.Summary, fmtFloat func(float64) string, intFmt string) error {
	return writeCSVWithHeader(w, []string{"tier", "count", "percentage", "total_award"}, func(cw *csv.Writer) error {
		for _, ts := range summary.Tiers {
			rec := []string{
				string(ts.Tier),
				fmt.Sprintf(intFmt, ts.Count),
				fmtFloat(ts.Percentage),
				strconv.FormatFloat(ts.TotalAward, 'f', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
