// Package core has core logic for enhancement, scoring and ranking.
package core

import (
	"context"
	"time"

	"github.com/huangsam/scholar/core/algo"
	"github.com/huangsam/scholar/internal/contract"
	"github.com/huangsam/scholar/internal/dataset"
	"github.com/huangsam/scholar/internal/logger"
	"github.com/huangsam/scholar/internal/outwriter"
	"github.com/huangsam/scholar/schema"
	"go.uber.org/zap"
)

// ExecutorFunc defines the function signature for executing different CLI modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// RankedOutput is the result of a full scoring pass over a dataset.
type RankedOutput struct {
	Ranked   []schema.RankedApplicant
	Duration time.Duration
	RunID    int64 // 0 when no history was recorded
}

// ExecuteRank scores the dataset and prints the ranked applicants.
// It serves as the main entry point for the 'rank' mode.
func ExecuteRank(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	output, err := GetRankedResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	ranked := algo.TopN(algo.FilterByTier(output.Ranked, cfg.Tiers...), cfg.ResultLimit)
	return outwriter.NewOutWriter().WriteRanking(ranked, cfg, output.Duration)
}

// ExecuteExplain scores the dataset and prints the breakdown of one applicant,
// selected by ID or by rank.
func ExecuteExplain(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if err := validateApplicantSelector(cfg); err != nil {
		return err
	}
	output, err := GetRankedResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	applicant, err := SelectApplicant(output.Ranked, cfg.ApplicantID, cfg.ApplicantRank)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteExplain(applicant, cfg)
}

// ExecuteSummary scores the dataset and prints the tier distribution.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	output, err := GetRankedResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSummary(algo.Summarize(output.Ranked), cfg)
}

// ExecuteEnhance fills the missing auxiliary fields of the dataset and
// prints or saves the enhanced records. Nothing is scored.
func ExecuteEnhance(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	records, err := GetEnhancedRecords(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteEnhanced(records, cfg)
}

// ExecuteWeights prints the active scoring formulas. No dataset is needed.
func ExecuteWeights(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	engine := cfg.Engine
	if engine == nil {
		engine = algo.DefaultConfiguration()
	}
	return outwriter.NewOutWriter().WriteWeights(engine, cfg)
}

// GetEnhancedRecords loads the dataset and enhances it, using the dataset
// cache when one is configured and the run is seeded.
func GetEnhancedRecords(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.EnhancedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		return nil, err
	}
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetDatasetStore()
	}
	records, err := cachedEnhance(ds, cfg.Seed, store)
	if err != nil {
		return nil, err
	}
	logger.L().Debug("dataset enhanced", zap.Int("records", len(records)), zap.Bool("cached", store != nil && cfg.Seed != nil))
	return records, nil
}

// GetRankedResults runs the full pipeline: load, enhance, score, record and rank.
func GetRankedResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*RankedOutput, error) {
	start := time.Now()
	engine := cfg.Engine
	if engine == nil {
		return nil, &schema.InvalidConfigurationError{Field: "engine", Reason: "scoring configuration is not set"}
	}

	records, err := GetEnhancedRecords(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	breakdowns, err := algo.Score(records, engine)
	if err != nil {
		return nil, err
	}
	ranked := algo.RankApplicants(breakdowns, records)
	logger.L().Info("scoring complete",
		zap.String("dataset", cfg.DatasetPath),
		zap.Int("applicants", len(ranked)),
		zap.Duration("elapsed", time.Since(start)))

	output := &RankedOutput{Ranked: ranked}
	if mgr != nil && !shouldSkipHistory(ctx) {
		ctx = recordHistory(ctx, cfg, mgr.GetHistoryStore(), start, ranked)
		output.RunID, _ = getRunID(ctx)
	}
	output.Duration = time.Since(start)
	return output, nil
}

// SelectApplicant finds one applicant by ID, or by rank when no ID is given.
func SelectApplicant(ranked []schema.RankedApplicant, id string, rank int) (schema.RankedApplicant, error) {
	if id != "" {
		return algo.FindByID(ranked, id)
	}
	return algo.FindByRank(ranked, rank)
}

// validateApplicantSelector requires exactly one of --id and --rank.
func validateApplicantSelector(cfg *contract.Config) error {
	switch {
	case cfg.ApplicantID == "" && cfg.ApplicantRank <= 0:
		return &schema.InvalidConfigurationError{Field: "id/rank", Reason: "one of --id or --rank is required"}
	case cfg.ApplicantID != "" && cfg.ApplicantRank > 0:
		return &schema.InvalidConfigurationError{Field: "id/rank", Reason: "--id and --rank are mutually exclusive"}
	}
	return nil
}

// recordHistory stores the scoring run in the history store. Failures are
// reported as warnings and never fail the scoring pass.
func recordHistory(ctx context.Context, cfg *contract.Config, store contract.HistoryStore, start time.Time, ranked []schema.RankedApplicant) context.Context {
	if store == nil {
		return ctx
	}
	runID, err := store.BeginRun(start, cfg.DatasetPath, runParams(cfg))
	if err != nil {
		contract.LogWarn("Run history initialization failed", err)
		return ctx
	}
	ctx = withRunID(ctx, runID)

	scoredAt := time.Now()
	records := make([]schema.ApplicantScoreRecord, len(ranked))
	for i, r := range ranked {
		records[i] = schema.NewApplicantScoreRecord(runID, scoredAt, r)
	}
	if err := store.RecordApplicantScores(runID, records); err != nil {
		contract.LogWarn("Failed to record applicant scores", err)
	}
	if err := store.EndRun(runID, time.Now(), len(ranked)); err != nil {
		contract.LogWarn("Failed to finalize run history", err)
	}
	logger.L().Debug("run recorded", zap.Int64("run_id", runID), zap.Int("applicants", len(ranked)))
	return ctx
}

// runParams captures the engine configuration and seed for run tracking.
func runParams(cfg *contract.Config) map[string]any {
	params := cfg.Engine.Params()
	if cfg.Seed != nil {
		params["seed"] = *cfg.Seed
	}
	return params
}
