// Package parquet provides row types and functions for reading applicant datasets
// from and writing scholar results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/scholar/schema"
	"github.com/parquet-go/parquet-go"
)

// StudentRow is one applicant of an input or enhanced dataset.
// Auxiliary columns are optional so that raw datasets can omit them.
type StudentRow struct {
	ID                        string   `parquet:"id,optional,snappy"`
	PerformanceIndex          *float64 `parquet:"performance_index,optional,snappy"`
	PreviousScores            *float64 `parquet:"previous_scores,optional,snappy"`
	ExtracurricularActivities *float64 `parquet:"extracurricular_activities,optional,snappy"`
	PracticePapersCount       *float64 `parquet:"practice_papers_count,optional,snappy"`
	FamilyIncome              *float64 `parquet:"family_income,optional,snappy"`
	ParentEducation           *string  `parquet:"parent_education,optional,snappy"`
	AttendancePercentage      *float64 `parquet:"attendance_percentage,optional,snappy"`
	PreviousScholarship       *bool    `parquet:"previous_scholarship,optional,snappy"`
}

// RankedRow is one applicant of a ranked result set.
type RankedRow struct {
	Rank                int32   `parquet:"rank,snappy"`
	ApplicantID         string  `parquet:"applicant_id,snappy"`
	FinalScore          float64 `parquet:"final_score,snappy"`
	Tier                string  `parquet:"tier,snappy"`
	AwardAmount         float64 `parquet:"award_amount,snappy"`
	AcademicScore       float64 `parquet:"academic_score,snappy"`
	FinancialScore      float64 `parquet:"financial_score,snappy"`
	EngagementScore     float64 `parquet:"engagement_score,snappy"`
	PerformanceIndex    float64 `parquet:"performance_index,snappy"`
	PreviousScores      float64 `parquet:"previous_scores,snappy"`
	FamilyIncome        float64 `parquet:"family_income,snappy"`
	ParentEducation     string  `parquet:"parent_education,snappy"`
	PreviousScholarship bool    `parquet:"previous_scholarship,snappy"`
	Attendance          float64 `parquet:"attendance_percentage,snappy"`
	Extracurricular     float64 `parquet:"extracurricular_activities,snappy"`
	PracticePapers      float64 `parquet:"practice_papers_count,snappy"`
}

// Run represents a single scoring run with metadata.
// This struct maps to the scholar_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the globally unique identifier for this run
	RunUUID string `parquet:"run_uuid,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	// TotalScored is the number of applicants scored in this run (nullable)
	TotalScored *int64 `parquet:"total_scored,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`

	// DatasetPath is the dataset that was scored
	DatasetPath string `parquet:"dataset_path,snappy"`
}

// ApplicantScore represents the decision for a single applicant in a run.
// This struct maps to the scholar_applicant_scores database table.
type ApplicantScore struct {
	RunID           int64     `parquet:"run_id,snappy"`
	ApplicantID     string    `parquet:"applicant_id,snappy"`
	ScoredAt        time.Time `parquet:"scored_at,snappy"`
	AcademicScore   float64   `parquet:"academic_score,snappy"`
	FinancialScore  float64   `parquet:"financial_score,snappy"`
	EngagementScore float64   `parquet:"engagement_score,snappy"`
	FinalScore      float64   `parquet:"final_score,snappy"`
	Tier            string    `parquet:"tier,snappy"`
	AwardAmount     float64   `parquet:"award_amount,snappy"`
	Rank            int32     `parquet:"rank,snappy"`
}

// writeRows writes rows of a single struct type to a Parquet file.
// The schema is derived from the struct tags of T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteRankedParquet writes ranked applicants to a Parquet file.
func WriteRankedParquet(data []RankedRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteStudentsParquet writes an applicant dataset to a Parquet file.
func WriteStudentsParquet(data []StudentRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteRunsParquet writes scoring runs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteApplicantScoresParquet writes per-applicant results to a Parquet file.
func WriteApplicantScoresParquet(data []ApplicantScore, outputPath string) error {
	return writeRows(data, outputPath)
}

// ReadStudents reads an applicant dataset from the bytes of a Parquet file.
func ReadStudents(data []byte) ([]StudentRow, error) {
	rows, err := parquet.Read[StudentRow](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	return rows, nil
}

// ConvertRankedApplicants flattens ranked applicants into Parquet rows.
func ConvertRankedApplicants(ranked []schema.RankedApplicant) []RankedRow {
	result := make([]RankedRow, len(ranked))
	for i, r := range ranked {
		result[i] = RankedRow{
			Rank:                int32(r.Rank),
			ApplicantID:         r.ApplicantID,
			FinalScore:          r.FinalScore,
			Tier:                string(r.Tier),
			AwardAmount:         r.AwardAmount,
			AcademicScore:       r.AcademicScore(),
			FinancialScore:      r.FinancialScore(),
			EngagementScore:     r.EngagementScore(),
			PerformanceIndex:    r.Record.PerformanceIndex,
			PreviousScores:      r.Record.PreviousScores,
			FamilyIncome:        r.Record.FamilyIncome,
			ParentEducation:     string(r.Record.ParentEducation),
			PreviousScholarship: r.Record.PreviousScholarship,
			Attendance:          r.Record.AttendancePercentage,
			Extracurricular:     r.Record.ExtracurricularActivities,
			PracticePapers:      r.Record.PracticePapersCount,
		}
	}
	return result
}

// ConvertEnhancedRecords converts an enhanced dataset into Parquet rows.
func ConvertEnhancedRecords(records []schema.EnhancedRecord) []StudentRow {
	result := make([]StudentRow, len(records))
	for i, r := range records {
		education := string(r.ParentEducation)
		result[i] = StudentRow{
			ID:                        r.ID,
			PerformanceIndex:          schema.Float64Ptr(r.PerformanceIndex),
			PreviousScores:            schema.Float64Ptr(r.PreviousScores),
			ExtracurricularActivities: schema.Float64Ptr(r.ExtracurricularActivities),
			PracticePapersCount:       schema.Float64Ptr(r.PracticePapersCount),
			FamilyIncome:              schema.Float64Ptr(r.FamilyIncome),
			ParentEducation:           &education,
			AttendancePercentage:      schema.Float64Ptr(r.AttendancePercentage),
			PreviousScholarship:       schema.BoolPtr(r.PreviousScholarship),
		}
	}
	return result
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			RunUUID:       record.RunUUID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalScored:   record.TotalScored,
			ConfigParams:  record.ConfigParams,
			DatasetPath:   record.DatasetPath,
		}
	}
	return result
}

// ConvertApplicantScoreRecords converts schema.ApplicantScoreRecord to ApplicantScore for Parquet export.
func ConvertApplicantScoreRecords(records []schema.ApplicantScoreRecord) []ApplicantScore {
	result := make([]ApplicantScore, len(records))
	for i, record := range records {
		result[i] = ApplicantScore{
			RunID:           record.RunID,
			ApplicantID:     record.ApplicantID,
			ScoredAt:        record.ScoredAt,
			AcademicScore:   record.AcademicScore,
			FinancialScore:  record.FinancialScore,
			EngagementScore: record.EngagementScore,
			FinalScore:      record.FinalScore,
			Tier:            record.Tier,
			AwardAmount:     record.AwardAmount,
			Rank:            record.Rank,
		}
	}
	return result
}
