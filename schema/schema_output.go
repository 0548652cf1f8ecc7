package schema

// RankedApplicant adds presentation data to a ScoreBreakdown.
type RankedApplicant struct {
	Rank   int            `json:"rank"`
	Record EnhancedRecord `json:"record"`
	ScoreBreakdown
}

// TierSummary aggregates the applicants of one tier.
type TierSummary struct {
	Tier       Tier    `json:"tier"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	TotalAward float64 `json:"total_award"`
}

// Summary aggregates a scored cohort.
type Summary struct {
	TotalApplicants int           `json:"total_applicants"`
	Tiers           []TierSummary `json:"tiers"`
	TotalAwarded    float64       `json:"total_awarded"`
	MeanFinalScore  float64       `json:"mean_final_score"`
}

// Tier returns the summary of the given tier.
func (s Summary) Tier(t Tier) TierSummary {
	for _, ts := range s.Tiers {
		if ts.Tier == t {
			return ts
		}
	}
	return TierSummary{Tier: t}
}

// featureExplanations holds a human-readable description of each sub-factor.
var featureExplanations = map[SubFactorKey]string{
	PerformanceIndexKey:    "Overall academic performance (0-100)",
	PreviousScoresKey:      "Historical academic achievement (0-100)",
	FamilyIncomeKey:        "Annual family income (lower = higher need)",
	ParentEducationKey:     "Highest education level of parents (lower = higher need)",
	PreviousScholarshipKey: "Previously received scholarship assistance",
	AttendanceKey:          "Class attendance rate (60-100%)",
	ExtracurricularKey:     "Participation in extracurricular activities",
	PracticePapersKey:      "Sample question papers practiced",
}

// FeatureExplanation returns the description of a sub-factor.
func FeatureExplanation(key SubFactorKey) string {
	if s, ok := featureExplanations[key]; ok {
		return s
	}
	return "Feature score"
}

// ExplainedApplicant pairs a ranked applicant with the description of every
// sub-factor in its breakdown.
type ExplainedApplicant struct {
	RankedApplicant
	Explanations map[SubFactorKey]string `json:"explanations"`
}

// NewExplainedApplicant attaches feature explanations to a ranked applicant.
func NewExplainedApplicant(a RankedApplicant) ExplainedApplicant {
	out := ExplainedApplicant{RankedApplicant: a, Explanations: make(map[SubFactorKey]string)}
	for _, cs := range a.Categories {
		for _, sf := range cs.SubFactors {
			out.Explanations[sf.Key] = FeatureExplanation(sf.Key)
		}
	}
	return out
}

// CategoryFormula describes how one category score is computed.
type CategoryFormula struct {
	Category Category                 `json:"category"`
	Name     string                   `json:"name"`
	Weight   float64                  `json:"weight"`
	Factors  []SubFactorKey           `json:"factors"`
	Weights  map[SubFactorKey]float64 `json:"weights"`
	Inverted []SubFactorKey           `json:"inverted,omitempty"`
	Formula  string                   `json:"formula"`
}

// WeightsRenderModel is the complete, processed view of an active scoring configuration.
type WeightsRenderModel struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Categories   []CategoryFormula `json:"categories"`
	FinalFormula string            `json:"final_formula"`
	Thresholds   Thresholds        `json:"thresholds"`
	Awards       Awards            `json:"awards"`
}
