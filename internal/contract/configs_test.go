package contract

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/huangsam/scholar/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns the raw input viper produces when nothing is overridden.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		DatasetPathStr:   "students.csv",
		Precision:        DefaultPrecision,
		Output:           string(schema.TextOut),
		Color:            "yes",
		CacheBackend:     string(schema.NoneBackend),
		HistoryBackend:   string(schema.NoneBackend),
		FullThreshold:    schema.DefaultFullThreshold,
		PartialThreshold: schema.DefaultPartialThreshold,
		FullAward:        schema.DefaultFullAward,
		PartialAward:     schema.DefaultPartialAward,
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "parquet without file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "parquet with file", mutate: func(in *ConfigRawInput) {
			in.Output = "parquet"
			in.OutputFile = "out.parquet"
		}},
		{name: "negative limit", mutate: func(in *ConfigRawInput) { in.Limit = -1 }, expectError: true},
		{name: "precision too high", mutate: func(in *ConfigRawInput) { in.Precision = 9 }, expectError: true},
		{name: "negative rank", mutate: func(in *ConfigRawInput) { in.Rank = -3 }, expectError: true},
		{name: "bad color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "bad seed", mutate: func(in *ConfigRawInput) { in.Seed = "-4" }, expectError: true},
		{name: "bad tier", mutate: func(in *ConfigRawInput) { in.Tier = "gold" }, expectError: true},
		{name: "bad log level", mutate: func(in *ConfigRawInput) { in.LogLevel = "trace" }, expectError: true},
		{name: "bad log format", mutate: func(in *ConfigRawInput) { in.LogFormat = "xml" }, expectError: true},
		{name: "thresholds inverted", mutate: func(in *ConfigRawInput) { in.PartialThreshold = 90 }, expectError: true},
		{name: "negative award", mutate: func(in *ConfigRawInput) { in.PartialAward = -1 }, expectError: true},
		{name: "category weights do not sum", mutate: func(in *ConfigRawInput) {
			in.CategoryWeightsStr = "academic:0.5"
		}, expectError: true},
		{name: "category weights override", mutate: func(in *ConfigRawInput) {
			in.CategoryWeightsStr = "academic:0.5,financial:0.3,engagement:0.2"
		}},
		{name: "unknown sub-factor", mutate: func(in *ConfigRawInput) {
			in.AcademicWeightsStr = "gpa:1.0"
		}, expectError: true},
		{name: "malformed weights", mutate: func(in *ConfigRawInput) {
			in.FinancialWeightsStr = "family_income=0.7"
		}, expectError: true},
		{name: "invalid cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: true},
		{name: "mysql without connection", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "mysql" }, expectError: true},
		{name: "empty backends default to none", mutate: func(in *ConfigRawInput) {
			in.CacheBackend = ""
			in.HistoryBackend = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, in)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, cfg.Engine)
		})
	}
}

func TestProcessAndValidate_Values(t *testing.T) {
	in := validInput()
	in.Seed = "42"
	in.Tier = "full, partial,full"
	in.Limit = 25
	in.Color = "no"
	in.Output = "JSON"
	in.CategoryWeightsStr = "academic:0.5,financial:0.3,engagement:0.2"
	in.FinancialWeightsStr = "family_income:0.6,parent_education:0.2,previous_scholarship:0.2"
	in.FullThreshold = 85
	in.PartialThreshold = 65

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, in))

	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(42), *cfg.Seed)
	assert.Equal(t, []schema.Tier{schema.FullTier, schema.PartialTier}, cfg.Tiers)
	assert.Equal(t, 25, cfg.ResultLimit)
	assert.False(t, cfg.UseColors)
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, schema.NoneBackend, cfg.CacheBackend)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.True(t, filepath.IsAbs(cfg.DatasetPath))

	assert.InDelta(t, 0.5, cfg.Engine.CategoryWeight(schema.AcademicCategory), 1e-9)
	assert.InDelta(t, 0.2, cfg.Engine.SubFactorWeight(schema.FinancialCategory, schema.PreviousScholarshipKey), 1e-9)
	assert.InDelta(t, 0.6, cfg.Engine.SubFactorWeight(schema.AcademicCategory, schema.PerformanceIndexKey), 1e-9)
	assert.Equal(t, schema.Thresholds{Full: 85, Partial: 65}, cfg.Engine.Thresholds())
}

func TestProcessAndValidate_ConfigFileWeights(t *testing.T) {
	in := validInput()
	in.Weights = WeightsRawInput{
		Engagement: &EngagementWeightsRaw{
			Attendance:      schema.Float64Ptr(0.4),
			Extracurricular: schema.Float64Ptr(0.4),
		},
	}
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, in))
	assert.InDelta(t, 0.4, cfg.Engine.SubFactorWeight(schema.EngagementCategory, schema.AttendanceKey), 1e-9)
	assert.InDelta(t, 0.2, cfg.Engine.SubFactorWeight(schema.EngagementCategory, schema.PracticePapersKey), 1e-9)

	// A flag string takes precedence over the config file.
	in.EngagementWeightsStr = "attendance_percentage:1.0,extracurricular_activities:0,practice_papers_count:0"
	require.NoError(t, ProcessAndValidate(cfg, in))
	assert.InDelta(t, 1.0, cfg.Engine.SubFactorWeight(schema.EngagementCategory, schema.AttendanceKey), 1e-9)
}

func TestProcessAndValidate_SubFactorFlagReplacesCategory(t *testing.T) {
	in := validInput()
	in.AcademicWeightsStr = "performance_index:1"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, in))
	assert.InDelta(t, 1.0, cfg.Engine.SubFactorWeight(schema.AcademicCategory, schema.PerformanceIndexKey), 1e-9)
	assert.Zero(t, cfg.Engine.SubFactorWeight(schema.AcademicCategory, schema.PreviousScoresKey))

	// Other categories keep their defaults.
	assert.InDelta(t, 0.7, cfg.Engine.SubFactorWeight(schema.FinancialCategory, schema.FamilyIncomeKey), 1e-9)

	in.AcademicWeightsStr = "performance_index:0.5"
	assert.Error(t, ProcessAndValidate(&Config{}, in))
}

func TestProcessAndValidate_InvalidConfigurationError(t *testing.T) {
	in := validInput()
	in.CategoryWeightsStr = "academic:0.9"
	err := ProcessAndValidate(&Config{}, in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrInvalidConfiguration))
}

func TestValidateBackendConfigs_SQLiteConflict(t *testing.T) {
	in := validInput()
	in.CacheBackend = "sqlite"
	in.HistoryBackend = "sqlite"
	in.CacheDBConnect = "/tmp/shared.db"
	in.HistoryDBConnect = "/tmp/shared.db"
	assert.Error(t, ProcessAndValidate(&Config{}, in))

	in.HistoryDBConnect = "/tmp/history.db"
	assert.NoError(t, ProcessAndValidate(&Config{}, in))
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/scholar", false},
		{"mysql no tcp", schema.MySQLBackend, "user:pass@localhost/scholar", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 user=u password=p dbname=scholar", false},
		{"postgres no dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres no host", schema.PostgreSQLBackend, "dbname=scholar", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseWeightsString(t *testing.T) {
	got, err := ParseWeightsString(" Academic:0.5 , financial:0.3,engagement:0.2,")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"academic": 0.5, "financial": 0.3, "engagement": 0.2}, got)

	for _, bad := range []string{"", "academic", "academic:x", ":0.5", "a:1,a:2"} {
		_, err := ParseWeightsString(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestConfigClone(t *testing.T) {
	seed := uint64(7)
	cfg := &Config{Seed: &seed, Tiers: []schema.Tier{schema.FullTier}}
	clone := cfg.Clone()

	*clone.Seed = 99
	clone.Tiers[0] = schema.PartialTier

	assert.Equal(t, uint64(7), *cfg.Seed)
	assert.Equal(t, schema.FullTier, cfg.Tiers[0])
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "scholar"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "scholar", profile.Prefix)
}
