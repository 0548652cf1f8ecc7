package schema

import "time"

// RunRecord represents a row from the scholar_runs table.
type RunRecord struct {
	RunID         int64
	RunUUID       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int64
	TotalScored   *int64
	ConfigParams  *string
	DatasetPath   string
}

// ApplicantScoreRecord represents a row from the scholar_applicant_scores table.
type ApplicantScoreRecord struct {
	RunID           int64
	ApplicantID     string
	ScoredAt        time.Time
	AcademicScore   float64
	FinancialScore  float64
	EngagementScore float64
	FinalScore      float64
	Tier            string
	AwardAmount     float64
	Rank            int32
}

// NewApplicantScoreRecord flattens a ranked applicant for storage.
func NewApplicantScoreRecord(runID int64, scoredAt time.Time, r RankedApplicant) ApplicantScoreRecord {
	return ApplicantScoreRecord{
		RunID:           runID,
		ApplicantID:     r.ApplicantID,
		ScoredAt:        scoredAt,
		AcademicScore:   r.AcademicScore(),
		FinancialScore:  r.FinancialScore(),
		EngagementScore: r.EngagementScore(),
		FinalScore:      r.FinalScore,
		Tier:            string(r.Tier),
		AwardAmount:     r.AwardAmount,
		Rank:            int32(r.Rank),
	}
}
