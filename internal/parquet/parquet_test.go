package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/scholar/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRuns() []Run {
	now := time.Now()
	end := now.Add(2 * time.Second)
	duration := end.Sub(now).Milliseconds()
	total := int64(3)
	params := `{"academic_weight":0.4}`
	return []Run{
		{RunID: 1, RunUUID: "a4c0ad4e-2b4b-4c53-9a60-6c1a4d0c8d11", StartTime: now, EndTime: &end, RunDurationMs: &duration, TotalScored: &total, ConfigParams: &params, DatasetPath: "/data/students.csv"},
		// Interrupted run: nullable fields stay nil.
		{RunID: 2, RunUUID: "0b5e2bf5-8f5a-4a6f-b8a7-0d6d2e7b1c22", StartTime: now, DatasetPath: "/data/students.csv"},
	}
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"run", new(Run), []string{"run_id", "run_uuid", "start_time", "end_time", "run_duration_ms", "total_scored", "config_params", "dataset_path"}},
		{"applicant score", new(ApplicantScore), []string{"run_id", "applicant_id", "scored_at", "academic_score", "financial_score", "engagement_score", "final_score", "tier", "award_amount", "rank"}},
		{"ranked", new(RankedRow), []string{"rank", "applicant_id", "final_score", "tier", "award_amount", "family_income", "parent_education"}},
		{"student", new(StudentRow), []string{"id", "performance_index", "previous_scores", "previous_scholarship"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			for _, col := range tt.columns {
				_, ok := s.Lookup(col)
				assert.True(t, ok, "column %s should exist", col)
			}
		})
	}
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	data := sampleRuns()
	require.NoError(t, WriteRunsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[Run](file)
	defer func() { _ = reader.Close() }()

	readData := make([]Run, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)

	assert.Equal(t, data[0].RunUUID, readData[0].RunUUID)
	require.NotNil(t, readData[0].TotalScored)
	assert.Equal(t, int64(3), *readData[0].TotalScored)
	assert.WithinDuration(t, data[0].StartTime, readData[0].StartTime, time.Nanosecond)

	assert.Nil(t, readData[1].EndTime)
	assert.Nil(t, readData[1].RunDurationMs)
	assert.Nil(t, readData[1].ConfigParams)
}

func TestWriteApplicantScoresParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "scores.parquet")
	require.NoError(t, WriteApplicantScoresParquet([]ApplicantScore{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "file should contain schema even if empty")
}

func TestWriteParquet_InvalidPath(t *testing.T) {
	assert.Error(t, WriteRunsParquet(sampleRuns(), "/nonexistent/directory/runs.parquet"))
	assert.Error(t, WriteRankedParquet(nil, "/nonexistent/directory/ranked.parquet"))
}

func TestStudentsRoundTrip(t *testing.T) {
	records := []schema.EnhancedRecord{
		{ID: "s-001", PerformanceIndex: 91, PreviousScores: 88, ExtracurricularActivities: 1, PracticePapersCount: 4,
			FamilyIncome: 32000, ParentEducation: schema.HighSchool, AttendancePercentage: 93.5, PreviousScholarship: true},
		{ID: "s-002", PerformanceIndex: 45, PreviousScores: 52, FamilyIncome: 120000,
			ParentEducation: schema.Postgraduate, AttendancePercentage: 71.2},
	}
	outputPath := filepath.Join(t.TempDir(), "students.parquet")
	require.NoError(t, WriteStudentsParquet(ConvertEnhancedRecords(records), outputPath))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	rows, err := ReadStudents(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "s-001", rows[0].ID)
	require.NotNil(t, rows[0].PerformanceIndex)
	assert.Equal(t, 91.0, *rows[0].PerformanceIndex)
	require.NotNil(t, rows[1].ParentEducation)
	assert.Equal(t, string(schema.Postgraduate), *rows[1].ParentEducation)
	require.NotNil(t, rows[1].PreviousScholarship)
	assert.False(t, *rows[1].PreviousScholarship)
}

func TestReadStudents_NotParquet(t *testing.T) {
	_, err := ReadStudents([]byte("id,performance_index\n1,90\n"))
	assert.Error(t, err)
}

func TestConvertRankedApplicants(t *testing.T) {
	ranked := []schema.RankedApplicant{{
		Rank:   1,
		Record: schema.EnhancedRecord{ID: "s-001", FamilyIncome: 40000, ParentEducation: schema.Undergraduate},
		ScoreBreakdown: schema.ScoreBreakdown{
			ApplicantID: "s-001",
			FinalScore:  84.2,
			Tier:        schema.FullTier,
			AwardAmount: 10000,
			Categories: []schema.CategoryScore{
				{Category: schema.AcademicCategory, Score: 90},
				{Category: schema.FinancialCategory, Score: 80},
				{Category: schema.EngagementCategory, Score: 81},
			},
		},
	}}
	rows := ConvertRankedApplicants(ranked)
	require.Len(t, rows, 1)
	assert.Equal(t, int32(1), rows[0].Rank)
	assert.Equal(t, "Full Scholarship", rows[0].Tier)
	assert.Equal(t, 80.0, rows[0].FinancialScore)
	assert.Equal(t, "Undergraduate", rows[0].ParentEducation)
}

func TestConvertHistoryRecords(t *testing.T) {
	now := time.Now()
	runs := ConvertRunRecords([]schema.RunRecord{{RunID: 7, RunUUID: "u", StartTime: now, DatasetPath: "d.csv"}})
	require.Len(t, runs, 1)
	assert.Equal(t, int64(7), runs[0].RunID)
	assert.Equal(t, "d.csv", runs[0].DatasetPath)

	scores := ConvertApplicantScoreRecords([]schema.ApplicantScoreRecord{{RunID: 7, ApplicantID: "s-1", Tier: "Not Eligible", Rank: 3}})
	require.Len(t, scores, 1)
	assert.Equal(t, int32(3), scores[0].Rank)
	assert.Equal(t, "Not Eligible", scores[0].Tier)
}
