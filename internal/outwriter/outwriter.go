// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/scholar/core/algo"
	"github.com/huangsam/scholar/internal/contract"
	"github.com/huangsam/scholar/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRanking prints ranked applicants using the configured output format.
func (ow *OutWriter) WriteRanking(ranked []schema.RankedApplicant, cfg *contract.Config, duration time.Duration) error {
	return WriteRankingResults(ranked, cfg, duration)
}

// WriteExplain prints the score breakdown of one applicant using the configured output format.
func (ow *OutWriter) WriteExplain(applicant schema.RankedApplicant, cfg *contract.Config) error {
	return WriteExplainResult(applicant, cfg)
}

// WriteSummary prints the cohort summary using the configured output format.
func (ow *OutWriter) WriteSummary(summary schema.Summary, cfg *contract.Config) error {
	return WriteSummaryResult(summary, cfg)
}

// WriteWeights prints the active scoring formulas using the configured output format.
func (ow *OutWriter) WriteWeights(engine *algo.Configuration, cfg *contract.Config) error {
	return WriteWeightsDefinitions(engine, cfg)
}

// WriteEnhanced prints an enhanced dataset using the configured output format.
func (ow *OutWriter) WriteEnhanced(records []schema.EnhancedRecord, cfg *contract.Config) error {
	return WriteEnhancedDataset(records, cfg)
}
