package contract

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/scholar/core/algo"
	"github.com/huangsam/scholar/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 0 // all applicants
	MaxResultLimit     = 1_000_000
	DefaultPrecision   = 2
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "console"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// CategoryWeightsRaw holds custom category weights. Nil fields keep their default.
type CategoryWeightsRaw struct {
	Academic   *float64 `mapstructure:"academic"`
	Financial  *float64 `mapstructure:"financial"`
	Engagement *float64 `mapstructure:"engagement"`
}

// AcademicWeightsRaw holds custom Academic Merit sub-factor weights.
type AcademicWeightsRaw struct {
	PerformanceIndex *float64 `mapstructure:"performance_index"`
	PreviousScores   *float64 `mapstructure:"previous_scores"`
}

// FinancialWeightsRaw holds custom Financial Need sub-factor weights.
type FinancialWeightsRaw struct {
	FamilyIncome        *float64 `mapstructure:"family_income"`
	ParentEducation     *float64 `mapstructure:"parent_education"`
	PreviousScholarship *float64 `mapstructure:"previous_scholarship"`
}

// EngagementWeightsRaw holds custom Engagement sub-factor weights.
type EngagementWeightsRaw struct {
	Attendance      *float64 `mapstructure:"attendance_percentage"`
	Extracurricular *float64 `mapstructure:"extracurricular_activities"`
	PracticePapers  *float64 `mapstructure:"practice_papers_count"`
}

// WeightsRawInput holds all custom weight definitions from the YAML config file.
type WeightsRawInput struct {
	Category   *CategoryWeightsRaw   `mapstructure:"category"`
	Academic   *AcademicWeightsRaw   `mapstructure:"academic"`
	Financial  *FinancialWeightsRaw  `mapstructure:"financial"`
	Engagement *EngagementWeightsRaw `mapstructure:"engagement"`
}

// Config holds the runtime configuration for a scoring run.
// This struct is the "final, validated" config.
type Config struct {
	DatasetPath string
	Seed        *uint64 // nil means fresh entropy on every run

	// Engine is the validated scoring configuration.
	Engine *algo.Configuration

	Tiers         []schema.Tier // empty means every tier
	ResultLimit   int           // 0 means all applicants
	ApplicantID   string
	ApplicantRank int

	Detail     bool
	Explain    bool
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	LogLevel  string
	LogFormat string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DatasetPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Seed             string `mapstructure:"seed"`
	OutputFile       string `mapstructure:"output-file"`
	Limit            int    `mapstructure:"limit"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	Detail           bool   `mapstructure:"detail"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	Tier             string `mapstructure:"tier"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	LogLevel         string `mapstructure:"log-level"`
	LogFormat        string `mapstructure:"log-format"`

	// --- Decision settings (flags or top-level config keys) ---
	FullThreshold    float64 `mapstructure:"full-threshold"`
	PartialThreshold float64 `mapstructure:"partial-threshold"`
	FullAward        float64 `mapstructure:"full-award"`
	PartialAward     float64 `mapstructure:"partial-award"`

	// --- Weight overrides in 'key:value,key:value' form ---
	CategoryWeightsStr   string `mapstructure:"category-weights"`
	AcademicWeightsStr   string `mapstructure:"academic-weights"`
	FinancialWeightsStr  string `mapstructure:"financial-weights"`
	EngagementWeightsStr string `mapstructure:"engagement-weights"`

	// --- Fields from rankCmd.Flags() ---
	Explain bool `mapstructure:"explain"`

	// --- Fields from explainCmd.Flags() ---
	ID   string `mapstructure:"id"`
	Rank int    `mapstructure:"rank"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct. The engine configuration
// is immutable and therefore shared.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Seed != nil {
		seed := *c.Seed
		clone.Seed = &seed
	}
	clone.Tiers = slices.Clone(c.Tiers)
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSeed(cfg, input); err != nil {
		return err
	}
	if err := processTiers(cfg, input); err != nil {
		return err
	}
	if err := processEngineConfig(cfg, input); err != nil {
		return err
	}
	return resolveDatasetPath(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseBackend resolves a backend name. An empty name resolves to NoneBackend.
func ParseBackend(name string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(name) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", name)
	}
	return backend, nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseBackend(input.CacheBackend)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	backend, err = ParseBackend(input.HistoryBackend)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// Both stores may share a server but never a SQLite file.
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if cachePath == historyPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the presentation and backend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Explain = input.Explain
	cfg.Width = input.Width
	cfg.ApplicantID = strings.TrimSpace(input.ID)
	cfg.ApplicantRank = input.Rank

	cfg.UseColors = true
	if input.Color != "" {
		colors, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		cfg.UseColors = colors
	}

	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Rank < 0 {
		return fmt.Errorf("rank must be positive (received %d)", input.Rank)
	}

	if input.Precision < 0 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 0 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}
	cfg.LogFormat = strings.ToLower(input.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return fmt.Errorf("invalid log format '%s'. must be console or json", input.LogFormat)
	}

	return validateBackendConfigs(cfg, input)
}

// processSeed parses the optional enhancement seed.
func processSeed(cfg *Config, input *ConfigRawInput) error {
	s := strings.TrimSpace(input.Seed)
	if s == "" {
		cfg.Seed = nil
		return nil
	}
	seed, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid --seed value %q: must be a non-negative integer", input.Seed)
	}
	cfg.Seed = &seed
	return nil
}

// processTiers parses the comma-separated tier filter.
func processTiers(cfg *Config, input *ConfigRawInput) error {
	cfg.Tiers = nil
	for part := range strings.SplitSeq(input.Tier, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tier, err := schema.ParseTier(part)
		if err != nil {
			return err
		}
		if !slices.Contains(cfg.Tiers, tier) {
			cfg.Tiers = append(cfg.Tiers, tier)
		}
	}
	return nil
}

// processEngineConfig merges defaults, config file weights and flag overrides,
// then builds the validated engine configuration.
func processEngineConfig(cfg *Config, input *ConfigRawInput) error {
	weights, err := ProcessWeightsRawInput(input.Weights)
	if err != nil {
		return err
	}

	overrides := []struct {
		flag string
		raw  string
		cat  schema.Category // empty for category weights
	}{
		{"--category-weights", input.CategoryWeightsStr, ""},
		{"--academic-weights", input.AcademicWeightsStr, schema.AcademicCategory},
		{"--financial-weights", input.FinancialWeightsStr, schema.FinancialCategory},
		{"--engagement-weights", input.EngagementWeightsStr, schema.EngagementCategory},
	}
	for _, o := range overrides {
		if o.raw == "" {
			continue
		}
		parsed, err := ParseWeightsString(o.raw)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", o.flag, err)
		}
		if o.cat == "" {
			for k, v := range parsed {
				weights.Category[schema.Category(k)] = v
			}
			continue
		}
		// A sub-factor flag defines the whole category; keys it omits weigh 0.
		sub := make(map[schema.SubFactorKey]float64, len(parsed))
		for k, v := range parsed {
			sub[schema.SubFactorKey(k)] = v
		}
		weights.SubFactor[o.cat] = sub
	}

	thresholds := schema.Thresholds{Full: input.FullThreshold, Partial: input.PartialThreshold}
	awards := schema.Awards{Full: input.FullAward, Partial: input.PartialAward, NotEligible: schema.DefaultNotEligibleAward}

	engine, err := algo.NewConfiguration(weights, thresholds, awards)
	if err != nil {
		return err
	}
	cfg.Engine = engine
	return nil
}

// ProcessWeightsRawInput applies the config file weights on top of the defaults.
// Sums are validated later by algo.NewConfiguration.
func ProcessWeightsRawInput(raw WeightsRawInput) (schema.Weights, error) {
	weights := schema.DefaultWeights()

	set := func(dst map[schema.SubFactorKey]float64, key schema.SubFactorKey, v *float64) {
		if v != nil {
			dst[key] = *v
		}
	}

	if c := raw.Category; c != nil {
		if c.Academic != nil {
			weights.Category[schema.AcademicCategory] = *c.Academic
		}
		if c.Financial != nil {
			weights.Category[schema.FinancialCategory] = *c.Financial
		}
		if c.Engagement != nil {
			weights.Category[schema.EngagementCategory] = *c.Engagement
		}
	}
	if a := raw.Academic; a != nil {
		sub := weights.SubFactor[schema.AcademicCategory]
		set(sub, schema.PerformanceIndexKey, a.PerformanceIndex)
		set(sub, schema.PreviousScoresKey, a.PreviousScores)
	}
	if f := raw.Financial; f != nil {
		sub := weights.SubFactor[schema.FinancialCategory]
		set(sub, schema.FamilyIncomeKey, f.FamilyIncome)
		set(sub, schema.ParentEducationKey, f.ParentEducation)
		set(sub, schema.PreviousScholarshipKey, f.PreviousScholarship)
	}
	if e := raw.Engagement; e != nil {
		sub := weights.SubFactor[schema.EngagementCategory]
		set(sub, schema.AttendanceKey, e.Attendance)
		set(sub, schema.ExtracurricularKey, e.Extracurricular)
		set(sub, schema.PracticePapersKey, e.PracticePapers)
	}

	return weights, nil
}

// ParseWeightsString parses 'key:value,key:value' into a map.
func ParseWeightsString(s string) (map[string]float64, error) {
	result := make(map[string]float64)
	for pair := range strings.SplitSeq(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q, expected key:value", pair)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return nil, fmt.Errorf("empty key in pair %q", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		if _, dup := result[key]; dup {
			return nil, fmt.Errorf("duplicate key %s", key)
		}
		result[key] = v
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no weights given")
	}
	return result, nil
}

// resolveDatasetPath checks the dataset argument and makes it absolute.
func resolveDatasetPath(cfg *Config, input *ConfigRawInput) error {
	p := strings.TrimSpace(input.DatasetPathStr)
	if p == "" {
		cfg.DatasetPath = ""
		return nil
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return fmt.Errorf("failed to resolve dataset path %q: %w", p, err)
	}
	cfg.DatasetPath = abs
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
