package schema

// Custom string types for type safety.
type (
	// SubFactorKey identifies a single attribute contributing to a category score.
	SubFactorKey string

	// Category identifies one of the three top-level scoring categories.
	Category string

	// Tier is the discrete award decision for an applicant.
	Tier string

	// ParentEducation is the highest education level of an applicant's parents.
	ParentEducation string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string
)

// Sub-factor keys used in the scoring logic.
const (
	PerformanceIndexKey    SubFactorKey = "performance_index"
	PreviousScoresKey      SubFactorKey = "previous_scores"
	FamilyIncomeKey        SubFactorKey = "family_income"        // inverted
	ParentEducationKey     SubFactorKey = "parent_education"     // inverted
	PreviousScholarshipKey SubFactorKey = "previous_scholarship" // yes = 1
	AttendanceKey          SubFactorKey = "attendance_percentage"
	ExtracurricularKey     SubFactorKey = "extracurricular_activities"
	PracticePapersKey      SubFactorKey = "practice_papers_count"
)

// All scoring categories.
const (
	AcademicCategory   Category = "academic"
	FinancialCategory  Category = "financial"
	EngagementCategory Category = "engagement"
)

// All decision tiers, best first.
const (
	FullTier        Tier = "Full Scholarship"
	PartialTier     Tier = "Partial Scholarship"
	NotEligibleTier Tier = "Not Eligible"
)

// Parent education levels in ascending order.
const (
	HighSchool    ParentEducation = "HighSchool"
	Undergraduate ParentEducation = "Undergraduate"
	Postgraduate  ParentEducation = "Postgraduate"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All storage backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// AllCategories lists the categories in display order.
var AllCategories = []Category{AcademicCategory, FinancialCategory, EngagementCategory}

// AllTiers lists the tiers from best to worst.
var AllTiers = []Tier{FullTier, PartialTier, NotEligibleTier}

// CategorySubFactors lists the sub-factors of each category in display order.
var CategorySubFactors = map[Category][]SubFactorKey{
	AcademicCategory:   {PerformanceIndexKey, PreviousScoresKey},
	FinancialCategory:  {FamilyIncomeKey, ParentEducationKey, PreviousScholarshipKey},
	EngagementCategory: {AttendanceKey, ExtracurricularKey, PracticePapersKey},
}

// InvertedSubFactors holds the sub-factors where a lower raw value means a higher score.
var InvertedSubFactors = map[SubFactorKey]struct{}{
	FamilyIncomeKey:    {},
	ParentEducationKey: {},
}

// AuxiliaryFields lists the fields the enhancer may synthesize.
var AuxiliaryFields = []SubFactorKey{FamilyIncomeKey, ParentEducationKey, AttendanceKey, PreviousScholarshipKey}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid storage backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Decision defaults.
const (
	DefaultFullThreshold    = 80.0
	DefaultPartialThreshold = 60.0
	DefaultFullAward        = 10000.0
	DefaultPartialAward     = 5000.0
	DefaultNotEligibleAward = 0.0
)

// GetDefaultCategoryWeights returns the default weight of each category.
func GetDefaultCategoryWeights() map[Category]float64 {
	return map[Category]float64{
		AcademicCategory:   0.40,
		FinancialCategory:  0.40,
		EngagementCategory: 0.20,
	}
}

// GetDefaultSubFactorWeights returns the default sub-factor weights for a category.
func GetDefaultSubFactorWeights(category Category) map[SubFactorKey]float64 {
	switch category {
	case AcademicCategory:
		return map[SubFactorKey]float64{
			PerformanceIndexKey: 0.60,
			PreviousScoresKey:   0.40,
		}
	case FinancialCategory:
		return map[SubFactorKey]float64{
			FamilyIncomeKey:        0.70,
			ParentEducationKey:     0.30,
			PreviousScholarshipKey: 0.00,
		}
	case EngagementCategory:
		return map[SubFactorKey]float64{
			AttendanceKey:      0.50,
			ExtracurricularKey: 0.30,
			PracticePapersKey:  0.20,
		}
	default:
		return map[SubFactorKey]float64{}
	}
}

// CategoryOf returns the category a sub-factor belongs to.
func CategoryOf(key SubFactorKey) (Category, bool) {
	for _, c := range AllCategories {
		for _, k := range CategorySubFactors[c] {
			if k == key {
				return c, true
			}
		}
	}
	return "", false
}
