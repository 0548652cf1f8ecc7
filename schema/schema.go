// Package schema has the data model shared by the engine, storage and output layers.
package schema

import (
	"fmt"
	"strings"
)

// StudentRecord is one raw applicant row. Pointer fields are nil when the
// column was absent or empty in the input.
type StudentRecord struct {
	ID                        string           `json:"id"`
	PerformanceIndex          *float64         `json:"performance_index,omitempty"`
	PreviousScores            *float64         `json:"previous_scores,omitempty"`
	ExtracurricularActivities float64          `json:"extracurricular_activities"`
	PracticePapersCount       float64          `json:"practice_papers_count"`
	FamilyIncome              *float64         `json:"family_income,omitempty"`
	ParentEducation           *ParentEducation `json:"parent_education,omitempty"`
	AttendancePercentage      *float64         `json:"attendance_percentage,omitempty"`
	PreviousScholarship       *bool            `json:"previous_scholarship,omitempty"`
}

// EnhancedRecord is a StudentRecord with every auxiliary field materialized.
type EnhancedRecord struct {
	ID                        string          `json:"id"`
	PerformanceIndex          float64         `json:"performance_index"`
	PreviousScores            float64         `json:"previous_scores"`
	ExtracurricularActivities float64         `json:"extracurricular_activities"`
	PracticePapersCount       float64         `json:"practice_papers_count"`
	FamilyIncome              float64         `json:"family_income"`
	ParentEducation           ParentEducation `json:"parent_education"`
	AttendancePercentage      float64         `json:"attendance_percentage"`
	PreviousScholarship       bool            `json:"previous_scholarship"`
	Synthesized               []SubFactorKey  `json:"synthesized,omitempty"`
}

// IsSynthesized reports whether the enhancer drew the given field.
func (r EnhancedRecord) IsSynthesized(key SubFactorKey) bool {
	for _, k := range r.Synthesized {
		if k == key {
			return true
		}
	}
	return false
}

// RawValue returns the numeric value the scoring engine uses for a sub-factor.
func (r EnhancedRecord) RawValue(key SubFactorKey) float64 {
	switch key {
	case PerformanceIndexKey:
		return r.PerformanceIndex
	case PreviousScoresKey:
		return r.PreviousScores
	case FamilyIncomeKey:
		return r.FamilyIncome
	case ParentEducationKey:
		return float64(r.ParentEducation.Ordinal())
	case PreviousScholarshipKey:
		if r.PreviousScholarship {
			return 1
		}
		return 0
	case AttendanceKey:
		return r.AttendancePercentage
	case ExtracurricularKey:
		return r.ExtracurricularActivities
	case PracticePapersKey:
		return r.PracticePapersCount
	default:
		return 0
	}
}

// Ordinal returns the ordinal encoding (1..3), or 0 for an unknown level.
func (p ParentEducation) Ordinal() int {
	switch p {
	case HighSchool:
		return 1
	case Undergraduate:
		return 2
	case Postgraduate:
		return 3
	default:
		return 0
	}
}

// DisplayName returns the human-readable education level.
func (p ParentEducation) DisplayName() string {
	switch p {
	case HighSchool:
		return "High School"
	case Undergraduate:
		return "Undergraduate"
	case Postgraduate:
		return "Postgraduate"
	default:
		return string(p)
	}
}

// ParseParentEducation accepts the common spellings of each level.
func ParseParentEducation(s string) (ParentEducation, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(normalized)
	switch normalized {
	case "highschool", "1":
		return HighSchool, nil
	case "undergraduate", "2":
		return Undergraduate, nil
	case "postgraduate", "3":
		return Postgraduate, nil
	default:
		return "", fmt.Errorf("unknown parent education level %q", s)
	}
}

// ShortName returns the CLI name of a tier.
func (t Tier) ShortName() string {
	switch t {
	case FullTier:
		return "full"
	case PartialTier:
		return "partial"
	default:
		return "none"
	}
}

// ParseTier accepts either the short CLI name or the display name of a tier.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", strings.ToLower(string(FullTier)):
		return FullTier, nil
	case "partial", strings.ToLower(string(PartialTier)):
		return PartialTier, nil
	case "none", "not-eligible", "not_eligible", strings.ToLower(string(NotEligibleTier)):
		return NotEligibleTier, nil
	default:
		return "", fmt.Errorf("unknown tier %q (use full, partial or none)", s)
	}
}

// DisplayName returns the human-readable category name.
func (c Category) DisplayName() string {
	switch c {
	case AcademicCategory:
		return "Academic Merit"
	case FinancialCategory:
		return "Financial Need"
	case EngagementCategory:
		return "Engagement"
	default:
		return string(c)
	}
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 { return &v }

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool { return &v }

// EducationPtr returns a pointer to p.
func EducationPtr(p ParentEducation) *ParentEducation { return &p }
