// Package cmd defines the command-line interface for scholar.
package cmd

import (
	"github.com/huangsam/scholar/internal/contract"
	"github.com/huangsam/scholar/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(enhanceCmd)
	rootCmd.AddCommand(weightsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("seed", "", "Seed for the enhancer so synthesized values are reproducible")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display (0 = all)")
	rootCmd.PersistentFlags().String("tier", "", "Comma-separated tiers to show: full, partial, none")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().StringP("output-file", "o", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for scores")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Float64("full-threshold", schema.DefaultFullThreshold, "Minimum final score for a full scholarship")
	rootCmd.PersistentFlags().Float64("partial-threshold", schema.DefaultPartialThreshold, "Minimum final score for a partial scholarship")
	rootCmd.PersistentFlags().Float64("full-award", schema.DefaultFullAward, "Award amount of a full scholarship")
	rootCmd.PersistentFlags().Float64("partial-award", schema.DefaultPartialAward, "Award amount of a partial scholarship")
	rootCmd.PersistentFlags().String("category-weights", "", "Category weights (format: 'academic:0.4,financial:0.4,engagement:0.2')")
	rootCmd.PersistentFlags().String("academic-weights", "", "Academic sub-factor weights; omitted keys weigh 0 (format: 'performance_index:0.6,previous_scores:0.4')")
	rootCmd.PersistentFlags().String("financial-weights", "", "Financial sub-factor weights; omitted keys weigh 0 (format: 'family_income:0.7,parent_education:0.3,previous_scholarship:0')")
	rootCmd.PersistentFlags().String("engagement-weights", "", "Engagement sub-factor weights; omitted keys weigh 0 (format: 'attendance_percentage:0.5,extracurricular_activities:0.3,practice_papers_count:0.2')")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.NoneBackend), "Dataset cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.DefaultLogFormat, "Log format: console or json")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of rankCmd to Viper
	rankCmd.Flags().Bool("detail", false, "Print per-category scores")
	rankCmd.Flags().Bool("explain", false, "Print the top contributing sub-factors of each applicant")
	if err := viper.BindPFlags(rankCmd.Flags()); err != nil {
		contract.LogFatal("Error binding rank flags", err)
	}

	// Bind all flags of explainCmd to Viper
	explainCmd.Flags().String("id", "", "Applicant identifier to explain")
	explainCmd.Flags().Int("rank", 0, "1-based rank of the applicant to explain")
	if err := viper.BindPFlags(explainCmd.Flags()); err != nil {
		contract.LogFatal("Error binding explain flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
