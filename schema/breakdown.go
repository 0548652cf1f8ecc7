package schema

// SubFactorScore is the audit trail of one sub-factor for one applicant.
type SubFactorScore struct {
	Key          SubFactorKey `json:"key"`
	Raw          float64      `json:"raw"`
	Normalized   float64      `json:"normalized"`
	Inverted     bool         `json:"inverted"`
	Adjusted     float64      `json:"adjusted"` // normalized, or 100 - normalized when inverted
	Weight       float64      `json:"weight"`
	Contribution float64      `json:"contribution"` // weight * adjusted
}

// CategoryScore holds a category score and the sub-factors that produced it.
type CategoryScore struct {
	Category     Category         `json:"category"`
	Score        float64          `json:"score"`
	Weight       float64          `json:"weight"`
	Contribution float64          `json:"contribution"` // weight * score
	SubFactors   []SubFactorScore `json:"sub_factors"`
}

// ScoreBreakdown is the full result of scoring one applicant.
type ScoreBreakdown struct {
	ApplicantID string          `json:"applicant_id"`
	Categories  []CategoryScore `json:"categories"`
	FinalScore  float64         `json:"final_score"`
	Tier        Tier            `json:"tier"`
	AwardAmount float64         `json:"award_amount"`
}

// Category returns the score of the given category, or the zero value if absent.
func (b ScoreBreakdown) Category(c Category) CategoryScore {
	for _, cs := range b.Categories {
		if cs.Category == c {
			return cs
		}
	}
	return CategoryScore{Category: c}
}

// AcademicScore returns the Academic Merit score.
func (b ScoreBreakdown) AcademicScore() float64 { return b.Category(AcademicCategory).Score }

// FinancialScore returns the Financial Need score.
func (b ScoreBreakdown) FinancialScore() float64 { return b.Category(FinancialCategory).Score }

// EngagementScore returns the Engagement score.
func (b ScoreBreakdown) EngagementScore() float64 { return b.Category(EngagementCategory).Score }

// SubFactor returns the sub-factor score for key, if present.
func (b ScoreBreakdown) SubFactor(key SubFactorKey) (SubFactorScore, bool) {
	for _, cs := range b.Categories {
		for _, sf := range cs.SubFactors {
			if sf.Key == key {
				return sf, true
			}
		}
	}
	return SubFactorScore{}, false
}
