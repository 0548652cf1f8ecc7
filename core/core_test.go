package core

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/huangsam/scholar/core/algo"
	"github.com/huangsam/scholar/internal/contract"
	"github.com/huangsam/scholar/internal/iocache"
	"github.com/huangsam/scholar/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// completeCSV supplies every field, so no values are drawn.
const completeCSV = `id,performance_index,previous_scores,extracurricular_activities,practice_papers_count,family_income,parent_education,attendance_percentage,previous_scholarship
s-002,70,75,0,4,60000,Undergraduate,85,No
s-001,95,92,1,9,18000,High School,98,Yes
s-003,30,40,0,0,190000,Postgraduate,62,No
`

// partialCSV leaves every auxiliary field to the enhancer.
const partialCSV = `id,performance_index,previous_scores
a,91,99
b,65,82
c,45,51
d,36,52
`

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newConfig returns a config that writes JSON to a temp file.
func newConfig(t *testing.T, datasetPath string) *contract.Config {
	t.Helper()
	return &contract.Config{
		DatasetPath:    datasetPath,
		Engine:         algo.DefaultConfiguration(),
		Precision:      2,
		Output:         schema.JSONOut,
		OutputFile:     filepath.Join(t.TempDir(), "out.json"),
		Width:          120,
		CacheBackend:   schema.NoneBackend,
		HistoryBackend: schema.NoneBackend,
	}
}

// noStores returns a manager without any configured store.
func noStores() *iocache.MockCacheManager {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(nil)
	mgr.On("GetHistoryStore").Return(nil)
	return mgr
}

func decodeOutput[T any](t *testing.T, path string) T {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestExecuteRank(t *testing.T) {
	cfg := newConfig(t, writeDataset(t, "students.csv", completeCSV))
	mgr := noStores()

	require.NoError(t, ExecuteRank(context.Background(), cfg, mgr))

	ranked := decodeOutput[[]schema.RankedApplicant](t, cfg.OutputFile)
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"s-001", "s-002", "s-003"}, []string{ranked[0].ApplicantID, ranked[1].ApplicantID, ranked[2].ApplicantID})
	for i, r := range ranked {
		assert.Equal(t, i+1, r.Rank)
	}
	assert.Equal(t, schema.FullTier, ranked[0].Tier)
	assert.InDelta(t, 10000, ranked[0].AwardAmount, 1e-9)
	assert.Equal(t, schema.NotEligibleTier, ranked[2].Tier)
	mgr.AssertExpectations(t)
}

func TestExecuteRank_FilterAndLimit(t *testing.T) {
	tests := []struct {
		name     string
		tiers    []schema.Tier
		limit    int
		expected []string
	}{
		{"limit only", nil, 2, []string{"s-001", "s-002"}},
		{"tier filter", []schema.Tier{schema.PartialTier, schema.NotEligibleTier}, 0, []string{"s-002", "s-003"}},
		{"tier filter and limit", []schema.Tier{schema.PartialTier, schema.NotEligibleTier}, 1, []string{"s-002"}},
		{"full only", []schema.Tier{schema.FullTier}, 0, []string{"s-001"}},
	}
	path := writeDataset(t, "students.csv", completeCSV)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfig(t, path)
			cfg.Tiers = tt.tiers
			cfg.ResultLimit = tt.limit
			require.NoError(t, ExecuteRank(context.Background(), cfg, noStores()))

			ranked := decodeOutput[[]schema.RankedApplicant](t, cfg.OutputFile)
			ids := make([]string, len(ranked))
			for i, r := range ranked {
				ids[i] = r.ApplicantID
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestExecuteRank_Errors(t *testing.T) {
	t.Run("missing dataset", func(t *testing.T) {
		cfg := newConfig(t, filepath.Join(t.TempDir(), "missing.csv"))
		assert.Error(t, ExecuteRank(context.Background(), cfg, noStores()))
	})

	t.Run("missing required value", func(t *testing.T) {
		cfg := newConfig(t, writeDataset(t, "students.csv", "id,performance_index,previous_scores\na,,50\n"))
		err := ExecuteRank(context.Background(), cfg, noStores())
		assert.True(t, errors.Is(err, schema.ErrMissingRequiredField))
	})

	t.Run("row number collides with explicit id", func(t *testing.T) {
		cfg := newConfig(t, writeDataset(t, "students.csv", "id,performance_index,previous_scores\n,90,80\n1,40,50\n"))
		err := ExecuteRank(context.Background(), cfg, noStores())
		assert.True(t, errors.Is(err, schema.ErrDuplicateApplicantID))
	})

	t.Run("non-finite value", func(t *testing.T) {
		cfg := newConfig(t, writeDataset(t, "students.csv", "id,performance_index,previous_scores,family_income\na,NaN,80,Inf\nb,90,70,30000\nc,40,60,90000\n"))
		err := ExecuteRank(context.Background(), cfg, noStores())
		assert.True(t, errors.Is(err, schema.ErrInvalidDataset))
	})

	t.Run("no engine", func(t *testing.T) {
		cfg := newConfig(t, writeDataset(t, "students.csv", completeCSV))
		cfg.Engine = nil
		err := ExecuteRank(context.Background(), cfg, noStores())
		assert.True(t, errors.Is(err, schema.ErrInvalidConfiguration))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		cfg := newConfig(t, writeDataset(t, "students.csv", completeCSV))
		assert.ErrorIs(t, ExecuteRank(ctx, cfg, noStores()), context.Canceled)
	})
}

func TestExecuteExplain(t *testing.T) {
	path := writeDataset(t, "students.csv", completeCSV)

	tests := []struct {
		name       string
		id         string
		rank       int
		expectedID string
		errTarget  error
	}{
		{name: "by id", id: "s-002", expectedID: "s-002"},
		{name: "by rank", rank: 1, expectedID: "s-001"},
		{name: "unknown id", id: "s-404", errTarget: schema.ErrApplicantNotFound},
		{name: "rank out of range", rank: 4, errTarget: schema.ErrApplicantNotFound},
		{name: "no selector", errTarget: schema.ErrInvalidConfiguration},
		{name: "both selectors", id: "s-001", rank: 1, errTarget: schema.ErrInvalidConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfig(t, path)
			cfg.ApplicantID = tt.id
			cfg.ApplicantRank = tt.rank
			err := ExecuteExplain(context.Background(), cfg, noStores())
			if tt.errTarget != nil {
				assert.ErrorIs(t, err, tt.errTarget)
				return
			}
			require.NoError(t, err)

			out := decodeOutput[map[string]any](t, cfg.OutputFile)
			assert.Equal(t, tt.expectedID, out["applicant_id"])
		})
	}
}

func TestExecuteSummary(t *testing.T) {
	cfg := newConfig(t, writeDataset(t, "students.csv", completeCSV))
	require.NoError(t, ExecuteSummary(context.Background(), cfg, noStores()))

	summary := decodeOutput[schema.Summary](t, cfg.OutputFile)
	assert.Equal(t, 3, summary.TotalApplicants)
	assert.Equal(t, 1, summary.Tier(schema.FullTier).Count)
	assert.Equal(t, 1, summary.Tier(schema.PartialTier).Count)
	assert.Equal(t, 1, summary.Tier(schema.NotEligibleTier).Count)
	assert.InDelta(t, 15000, summary.TotalAwarded, 1e-9)
}

func TestExecuteEnhance(t *testing.T) {
	seed := uint64(42)
	cfg := newConfig(t, writeDataset(t, "students.csv", partialCSV))
	cfg.Seed = &seed
	require.NoError(t, ExecuteEnhance(context.Background(), cfg, noStores()))

	records := decodeOutput[[]schema.EnhancedRecord](t, cfg.OutputFile)
	require.Len(t, records, 4)
	for _, r := range records {
		assert.NotEmpty(t, r.Synthesized)
		assert.GreaterOrEqual(t, r.FamilyIncome, 0.0)
	}

	// Same seed, same draws.
	again := newConfig(t, cfg.DatasetPath)
	again.Seed = &seed
	require.NoError(t, ExecuteEnhance(context.Background(), again, noStores()))
	assert.Equal(t, records, decodeOutput[[]schema.EnhancedRecord](t, again.OutputFile))
}

func TestExecuteWeights(t *testing.T) {
	cfg := newConfig(t, "")
	cfg.Output = schema.TextOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "weights.txt")
	require.NoError(t, ExecuteWeights(context.Background(), cfg, nil))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "0.40*academic+0.40*financial+0.20*engagement")

	// A missing engine falls back to the defaults.
	cfg.Engine = nil
	require.NoError(t, ExecuteWeights(context.Background(), cfg, nil))
}

func TestGetRankedResults_RecordsHistory(t *testing.T) {
	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.Anything, mock.Anything, mock.MatchedBy(func(p map[string]any) bool {
		return p["seed"] == uint64(7) && p["academic_weight"] == 0.4
	})).Return(int64(11), nil)
	history.On("RecordApplicantScores", int64(11), mock.MatchedBy(func(r []schema.ApplicantScoreRecord) bool {
		return len(r) == 3 && r[0].ApplicantID == "s-001" && r[0].Rank == 1 && r[0].Tier == string(schema.FullTier)
	})).Return(nil)
	history.On("EndRun", int64(11), mock.Anything, 3).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)

	seed := uint64(7)
	cfg := newConfig(t, writeDataset(t, "students.csv", completeCSV))
	cfg.Seed = &seed

	output, err := GetRankedResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.Equal(t, int64(11), output.RunID)
	assert.Len(t, output.Ranked, 3)
	history.AssertExpectations(t)
	mgr.AssertExpectations(t)
}

func TestGetRankedResults_HistoryFailureIsNotFatal(t *testing.T) {
	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("database is locked"))

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(nil)
	mgr.On("GetHistoryStore").Return(history)

	cfg := newConfig(t, writeDataset(t, "students.csv", completeCSV))
	output, err := GetRankedResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.Zero(t, output.RunID)
	assert.Len(t, output.Ranked, 3)
	history.AssertNotCalled(t, "RecordApplicantScores", mock.Anything, mock.Anything)
	history.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetRankedResults_WithoutHistory(t *testing.T) {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(nil)

	cfg := newConfig(t, writeDataset(t, "students.csv", completeCSV))
	output, err := GetRankedResults(WithoutHistory(context.Background()), cfg, mgr)
	require.NoError(t, err)
	assert.Len(t, output.Ranked, 3)
	mgr.AssertNotCalled(t, "GetHistoryStore")
}

func TestGetRankedResults_NilManager(t *testing.T) {
	cfg := newConfig(t, writeDataset(t, "students.csv", completeCSV))
	output, err := GetRankedResults(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Len(t, output.Ranked, 3)
}

func TestGetRankedResults_EmptyDataset(t *testing.T) {
	cfg := newConfig(t, writeDataset(t, "students.csv", "id,performance_index,previous_scores\n"))
	output, err := GetRankedResults(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, output.Ranked)
}

func TestSelectApplicant(t *testing.T) {
	ranked := []schema.RankedApplicant{
		{Rank: 1, ScoreBreakdown: schema.ScoreBreakdown{ApplicantID: "x"}},
		{Rank: 2, ScoreBreakdown: schema.ScoreBreakdown{ApplicantID: "y"}},
	}
	got, err := SelectApplicant(ranked, "y", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Rank)

	got, err = SelectApplicant(ranked, "", 1)
	require.NoError(t, err)
	assert.Equal(t, "x", got.ApplicantID)

	_, err = SelectApplicant(ranked, "", 0)
	assert.ErrorIs(t, err, schema.ErrApplicantNotFound)
}
