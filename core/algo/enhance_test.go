package algo

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/huangsam/scholar/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawRecords builds n raw records with only the required fields set.
func rawRecords(n int) []schema.StudentRecord {
	records := make([]schema.StudentRecord, n)
	for i := range records {
		records[i] = schema.StudentRecord{
			ID:                        fmt.Sprintf("s-%03d", i+1),
			PerformanceIndex:          schema.Float64Ptr(float64(10 + (i*7)%90)),
			PreviousScores:            schema.Float64Ptr(float64(40 + (i*3)%60)),
			ExtracurricularActivities: float64(i % 2),
			PracticePapersCount:       float64(i % 10),
		}
	}
	return records
}

func seedPtr(v uint64) *uint64 { return &v }

func TestEnhance_Bounds(t *testing.T) {
	for _, seed := range []uint64{1, 42, 2024, 99999} {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			out, err := EnhanceWithSeed(rawRecords(500), seedPtr(seed))
			require.NoError(t, err)
			require.Len(t, out, 500)

			for _, r := range out {
				assert.GreaterOrEqual(t, r.FamilyIncome, MinFamilyIncome)
				assert.LessOrEqual(t, r.FamilyIncome, MaxFamilyIncome)
				assert.GreaterOrEqual(t, r.AttendancePercentage, MinAttendance)
				assert.LessOrEqual(t, r.AttendancePercentage, MaxAttendance)
				assert.Contains(t, []schema.ParentEducation{schema.HighSchool, schema.Undergraduate, schema.Postgraduate}, r.ParentEducation)
				assert.Len(t, r.Synthesized, 4)
			}
		})
	}
}

func TestEnhance_SeededIsReproducible(t *testing.T) {
	records := rawRecords(50)

	first, err := EnhanceWithSeed(records, seedPtr(42))
	require.NoError(t, err)
	second, err := EnhanceWithSeed(records, seedPtr(42))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := EnhanceWithSeed(records, seedPtr(43))
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestEnhance_UnseededVaries(t *testing.T) {
	records := rawRecords(50)

	first, err := EnhanceWithSeed(records, nil)
	require.NoError(t, err)
	second, err := EnhanceWithSeed(records, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestEnhance_KeepsSuppliedFields(t *testing.T) {
	records := []schema.StudentRecord{
		{
			ID:                   "given",
			PerformanceIndex:     schema.Float64Ptr(70),
			PreviousScores:       schema.Float64Ptr(65),
			FamilyIncome:         schema.Float64Ptr(5000), // outside the synthetic range, kept anyway
			ParentEducation:      schema.EducationPtr(schema.Postgraduate),
			AttendancePercentage: schema.Float64Ptr(55.5),
			PreviousScholarship:  schema.BoolPtr(false),
		},
		{
			ID:               "partial",
			PerformanceIndex: schema.Float64Ptr(90),
			PreviousScores:   schema.Float64Ptr(88),
			FamilyIncome:     schema.Float64Ptr(30000),
		},
	}

	out, err := EnhanceWithSeed(records, seedPtr(7))
	require.NoError(t, err)

	assert.Equal(t, 5000.0, out[0].FamilyIncome)
	assert.Equal(t, schema.Postgraduate, out[0].ParentEducation)
	assert.Equal(t, 55.5, out[0].AttendancePercentage)
	assert.False(t, out[0].PreviousScholarship)
	assert.Empty(t, out[0].Synthesized)

	assert.Equal(t, 30000.0, out[1].FamilyIncome)
	assert.False(t, out[1].IsSynthesized(schema.FamilyIncomeKey))
	assert.True(t, out[1].IsSynthesized(schema.ParentEducationKey))
	assert.True(t, out[1].IsSynthesized(schema.AttendanceKey))
	assert.True(t, out[1].IsSynthesized(schema.PreviousScholarshipKey))
}

func TestEnhance_DoesNotMutateInput(t *testing.T) {
	records := rawRecords(10)
	snapshot := make([]schema.StudentRecord, len(records))
	copy(snapshot, records)

	_, err := EnhanceWithSeed(records, seedPtr(1))
	require.NoError(t, err)
	assert.Equal(t, snapshot, records)
	for _, r := range records {
		assert.Nil(t, r.FamilyIncome)
		assert.Nil(t, r.PreviousScholarship)
	}
}

func TestEnhance_MissingRequiredField(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *schema.StudentRecord)
		wantField schema.SubFactorKey
	}{
		{"missing performance index", func(r *schema.StudentRecord) { r.PerformanceIndex = nil }, schema.PerformanceIndexKey},
		{"missing previous scores", func(r *schema.StudentRecord) { r.PreviousScores = nil }, schema.PreviousScoresKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := rawRecords(3)
			tt.mutate(&records[1])

			out, err := EnhanceWithSeed(records, seedPtr(1))
			require.Error(t, err)
			assert.Nil(t, out, "no partial output on malformed input")
			assert.True(t, errors.Is(err, schema.ErrMissingRequiredField))

			var fieldErr *schema.MissingRequiredFieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, 1, fieldErr.Index)
			assert.Equal(t, "s-002", fieldErr.ApplicantID)
			assert.Equal(t, tt.wantField, fieldErr.Field)
		})
	}
}

func TestEnhance_EmptyAndMissingIDs(t *testing.T) {
	out, err := EnhanceWithSeed(nil, seedPtr(1))
	require.NoError(t, err)
	assert.Empty(t, out)

	records := rawRecords(2)
	records[0].ID = ""
	out, err = EnhanceWithSeed(records, seedPtr(1))
	require.NoError(t, err)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "s-002", out[1].ID)
}

func TestEnhance_NonFiniteValues(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *schema.StudentRecord)
		wantField schema.SubFactorKey
	}{
		{"NaN performance index", func(r *schema.StudentRecord) { r.PerformanceIndex = schema.Float64Ptr(math.NaN()) }, schema.PerformanceIndexKey},
		{"infinite previous scores", func(r *schema.StudentRecord) { r.PreviousScores = schema.Float64Ptr(math.Inf(1)) }, schema.PreviousScoresKey},
		{"infinite income", func(r *schema.StudentRecord) { r.FamilyIncome = schema.Float64Ptr(math.Inf(1)) }, schema.FamilyIncomeKey},
		{"NaN attendance", func(r *schema.StudentRecord) { r.AttendancePercentage = schema.Float64Ptr(math.NaN()) }, schema.AttendanceKey},
		{"NaN practice papers", func(r *schema.StudentRecord) { r.PracticePapersCount = math.NaN() }, schema.PracticePapersKey},
		{"infinite extracurricular", func(r *schema.StudentRecord) { r.ExtracurricularActivities = math.Inf(-1) }, schema.ExtracurricularKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := rawRecords(3)
			tt.mutate(&records[2])

			out, err := EnhanceWithSeed(records, seedPtr(1))
			require.Error(t, err)
			assert.Nil(t, out, "no partial output on malformed input")
			assert.True(t, errors.Is(err, schema.ErrInvalidValue))

			var valueErr *schema.InvalidValueError
			require.ErrorAs(t, err, &valueErr)
			assert.Equal(t, 2, valueErr.Index)
			assert.Equal(t, "s-003", valueErr.ApplicantID)
			assert.Equal(t, tt.wantField, valueErr.Field)
		})
	}
}

func TestEnhance_DuplicateIDs(t *testing.T) {
	tests := []struct {
		name      string
		ids       []string
		wantID    string
		wantFirst int
		wantIndex int
	}{
		{"explicit duplicate", []string{"s-1", "s-2", "s-1"}, "s-1", 0, 2},
		{"row number collides with explicit id", []string{"", "1"}, "1", 0, 1},
		{"explicit id collides with later row number", []string{"3", "x", ""}, "3", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := rawRecords(len(tt.ids))
			for i, id := range tt.ids {
				records[i].ID = id
			}

			out, err := EnhanceWithSeed(records, seedPtr(1))
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, schema.ErrDuplicateApplicantID))

			var dupErr *schema.DuplicateApplicantIDError
			require.ErrorAs(t, err, &dupErr)
			assert.Equal(t, tt.wantID, dupErr.ID)
			assert.Equal(t, tt.wantFirst, dupErr.FirstIndex)
			assert.Equal(t, tt.wantIndex, dupErr.Index)
		})
	}
}

func TestEnhance_AttendanceFollowsPerformance(t *testing.T) {
	n := 2000
	low := make([]schema.StudentRecord, n)
	high := make([]schema.StudentRecord, n)
	for i := range n {
		low[i] = schema.StudentRecord{PerformanceIndex: schema.Float64Ptr(0), PreviousScores: schema.Float64Ptr(50)}
		high[i] = schema.StudentRecord{PerformanceIndex: schema.Float64Ptr(100), PreviousScores: schema.Float64Ptr(50)}
	}

	lowOut, err := EnhanceWithSeed(low, seedPtr(3))
	require.NoError(t, err)
	highOut, err := EnhanceWithSeed(high, seedPtr(3))
	require.NoError(t, err)

	mean := func(rs []schema.EnhancedRecord) float64 {
		sum := 0.0
		for _, r := range rs {
			sum += r.AttendancePercentage
		}
		return sum / float64(len(rs))
	}
	assert.Greater(t, mean(highOut), mean(lowOut)+5)
}

func TestEnhance_ScholarshipFollowsIncome(t *testing.T) {
	n := 2000
	records := make([]schema.StudentRecord, 0, 2*n)
	for range n {
		records = append(records,
			schema.StudentRecord{PerformanceIndex: schema.Float64Ptr(50), PreviousScores: schema.Float64Ptr(50), FamilyIncome: schema.Float64Ptr(MinFamilyIncome)},
			schema.StudentRecord{PerformanceIndex: schema.Float64Ptr(50), PreviousScores: schema.Float64Ptr(50), FamilyIncome: schema.Float64Ptr(MaxFamilyIncome)},
		)
	}

	out, err := EnhanceWithSeed(records, seedPtr(11))
	require.NoError(t, err)

	lowIncome, highIncome := 0, 0
	for _, r := range out {
		if !r.PreviousScholarship {
			continue
		}
		if r.FamilyIncome == MinFamilyIncome {
			lowIncome++
		} else {
			highIncome++
		}
	}
	// Lowest income always qualifies, highest income has 30% odds.
	assert.Equal(t, n, lowIncome)
	assert.InDelta(t, 0.3*float64(n), float64(highIncome), 0.06*float64(n))
}

func TestDrawEducation_Distribution(t *testing.T) {
	rng := NewRand(seedPtr(5))
	counts := map[schema.ParentEducation]int{}
	n := 10000
	for range n {
		counts[drawEducation(rng)]++
	}
	assert.InDelta(t, 0.4, float64(counts[schema.HighSchool])/float64(n), 0.03)
	assert.InDelta(t, 0.4, float64(counts[schema.Undergraduate])/float64(n), 0.03)
	assert.InDelta(t, 0.2, float64(counts[schema.Postgraduate])/float64(n), 0.03)
}

func BenchmarkEnhance(b *testing.B) {
	records := rawRecords(1000)
	for b.Loop() {
		_, _ = EnhanceWithSeed(records, seedPtr(42))
	}
}
