package algo

import (
	"errors"
	"testing"

	"github.com/huangsam/scholar/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfiguration_Defaults(t *testing.T) {
	cfg := DefaultConfiguration()

	assert.InDelta(t, 0.4, cfg.CategoryWeight(schema.AcademicCategory), 1e-9)
	assert.InDelta(t, 0.4, cfg.CategoryWeight(schema.FinancialCategory), 1e-9)
	assert.InDelta(t, 0.2, cfg.CategoryWeight(schema.EngagementCategory), 1e-9)
	assert.InDelta(t, 0.6, cfg.SubFactorWeight(schema.AcademicCategory, schema.PerformanceIndexKey), 1e-9)
	assert.InDelta(t, 0.7, cfg.SubFactorWeight(schema.FinancialCategory, schema.FamilyIncomeKey), 1e-9)
	assert.Equal(t, 80.0, cfg.Thresholds().Full)
	assert.Equal(t, 60.0, cfg.Thresholds().Partial)
	assert.Equal(t, 10000.0, cfg.Awards().Full)
}

func TestNewConfiguration_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(w *schema.Weights, th *schema.Thresholds, a *schema.Awards)
		wantField string
	}{
		{
			name: "category weights do not sum to one",
			mutate: func(w *schema.Weights, _ *schema.Thresholds, _ *schema.Awards) {
				w.Category[schema.AcademicCategory] = 0.5
			},
			wantField: "category weights",
		},
		{
			name: "academic sub-weights do not sum to one",
			mutate: func(w *schema.Weights, _ *schema.Thresholds, _ *schema.Awards) {
				w.SubFactor[schema.AcademicCategory][schema.PreviousScoresKey] = 0.5
			},
			wantField: "academic sub-factor weights",
		},
		{
			name: "engagement sub-weights do not sum to one",
			mutate: func(w *schema.Weights, _ *schema.Thresholds, _ *schema.Awards) {
				w.SubFactor[schema.EngagementCategory][schema.AttendanceKey] = 0.2
			},
			wantField: "engagement sub-factor weights",
		},
		{
			name: "sub-factor in the wrong category",
			mutate: func(w *schema.Weights, _ *schema.Thresholds, _ *schema.Awards) {
				w.SubFactor[schema.AcademicCategory][schema.FamilyIncomeKey] = 0
			},
			wantField: "academic sub-factor weights",
		},
		{
			name: "missing category",
			mutate: func(w *schema.Weights, _ *schema.Thresholds, _ *schema.Awards) {
				delete(w.Category, schema.EngagementCategory)
				w.Category[schema.AcademicCategory] = 0.6
			},
			wantField: "category weights",
		},
		{
			name: "negative weight",
			mutate: func(w *schema.Weights, _ *schema.Thresholds, _ *schema.Awards) {
				w.Category[schema.AcademicCategory] = -0.2
				w.Category[schema.FinancialCategory] = 1.0
			},
			wantField: "academic weight",
		},
		{
			name: "partial equals full",
			mutate: func(_ *schema.Weights, th *schema.Thresholds, _ *schema.Awards) {
				th.Partial = 80
			},
			wantField: "thresholds",
		},
		{
			name: "partial above full",
			mutate: func(_ *schema.Weights, th *schema.Thresholds, _ *schema.Awards) {
				th.Full = 50
			},
			wantField: "thresholds",
		},
		{
			name: "threshold out of range",
			mutate: func(_ *schema.Weights, th *schema.Thresholds, _ *schema.Awards) {
				th.Full = 120
			},
			wantField: "full threshold",
		},
		{
			name: "negative award",
			mutate: func(_ *schema.Weights, _ *schema.Thresholds, a *schema.Awards) {
				a.Partial = -1
			},
			wantField: "partial award",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, th, a := schema.DefaultWeights(), schema.DefaultThresholds(), schema.DefaultAwards()
			tt.mutate(&w, &th, &a)

			cfg, err := NewConfiguration(w, th, a)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, errors.Is(err, schema.ErrInvalidConfiguration))

			var cfgErr *schema.InvalidConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestNewConfiguration_Tolerance(t *testing.T) {
	w := schema.DefaultWeights()
	w.Category[schema.AcademicCategory] = 0.4005
	_, err := NewConfiguration(w, schema.DefaultThresholds(), schema.DefaultAwards())
	assert.NoError(t, err, "drift within 1e-3 should be accepted")

	w.Category[schema.AcademicCategory] = 0.402
	_, err = NewConfiguration(w, schema.DefaultThresholds(), schema.DefaultAwards())
	assert.Error(t, err, "drift beyond 1e-3 should be rejected")
}

func TestNewConfiguration_MissingSubFactorDefaultsToZero(t *testing.T) {
	w := schema.DefaultWeights()
	delete(w.SubFactor[schema.FinancialCategory], schema.PreviousScholarshipKey)

	cfg, err := NewConfiguration(w, schema.DefaultThresholds(), schema.DefaultAwards())
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.SubFactorWeight(schema.FinancialCategory, schema.PreviousScholarshipKey))
}

func TestConfiguration_IsImmutable(t *testing.T) {
	w := schema.DefaultWeights()
	cfg, err := NewConfiguration(w, schema.DefaultThresholds(), schema.DefaultAwards())
	require.NoError(t, err)

	w.Category[schema.AcademicCategory] = 0.9
	got := cfg.Weights()
	got.Category[schema.FinancialCategory] = 0.9

	assert.InDelta(t, 0.4, cfg.CategoryWeight(schema.AcademicCategory), 1e-9)
	assert.InDelta(t, 0.4, cfg.CategoryWeight(schema.FinancialCategory), 1e-9)
}

func TestConfiguration_Classify(t *testing.T) {
	w := schema.DefaultWeights()
	w.Category = map[schema.Category]float64{
		schema.AcademicCategory:   0.5,
		schema.FinancialCategory:  0.3,
		schema.EngagementCategory: 0.2,
	}
	cfg, err := NewConfiguration(w, schema.Thresholds{Full: 85, Partial: 65}, schema.DefaultAwards())
	require.NoError(t, err)

	tests := []struct {
		score     float64
		wantTier  schema.Tier
		wantAward float64
	}{
		{100, schema.FullTier, 10000},
		{85, schema.FullTier, 10000},
		{84, schema.PartialTier, 5000},
		{65, schema.PartialTier, 5000},
		{64.99, schema.NotEligibleTier, 0},
		{0, schema.NotEligibleTier, 0},
	}
	for _, tt := range tests {
		tier, award := cfg.Classify(tt.score)
		assert.Equal(t, tt.wantTier, tier, "score %.2f", tt.score)
		assert.Equal(t, tt.wantAward, award, "score %.2f", tt.score)
	}
}

func TestConfiguration_Params(t *testing.T) {
	params := DefaultConfiguration().Params()
	assert.Equal(t, 80.0, params["full_threshold"])
	assert.Equal(t, 0.4, params["academic_weight"])
	assert.Equal(t, 0.7, params["family_income_weight"])
}
