package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/scholar/internal/contract"
	"github.com/huangsam/scholar/internal/parquet"
)

// ExportHistory writes all stored runs and applicant scores to two Parquet files
// named <outputPrefix>.runs.parquet and <outputPrefix>.applicant_scores.parquet.
func ExportHistory(out io.Writer, store contract.HistoryStore, outputPrefix string) error {
	if outputPrefix == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run history is disabled. Set --history-backend to enable it")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	_, _ = fmt.Fprintf(out, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(out, "Total scoring runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(out, "Total applicant scores: %d\n", status.TotalApplicantScores)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve scoring runs: %w", err)
	}
	scores, err := store.GetAllApplicantScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve applicant scores: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	runsFile := outputPrefix + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write scoring runs: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d scoring runs to: %s\n", len(parquetRuns), runsFile)

	parquetScores := parquet.ConvertApplicantScoreRecords(scores)
	scoresFile := outputPrefix + ".applicant_scores.parquet"
	if err := parquet.WriteApplicantScoresParquet(parquetScores, scoresFile); err != nil {
		return fmt.Errorf("failed to write applicant scores: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d applicant scores to: %s\n", len(parquetScores), scoresFile)

	return nil
}
