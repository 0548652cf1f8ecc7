package algo

import (
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/huangsam/scholar/schema"
)

// Bounds and distribution parameters of the synthesized fields.
const (
	MinFamilyIncome = 15000.0
	MaxFamilyIncome = 200000.0
	MinAttendance   = 60.0
	MaxAttendance   = 100.0

	incomeLogMean      = 10.5 // median around 36k
	incomeLogSigma     = 0.8
	attendanceMean     = 80.0
	attendanceStdDev   = 10.0
	attendanceBoost    = 15.0 // added at performance_index = 100
	scholarshipBase    = 1.0
	scholarshipFalloff = 0.7 // probability drop from lowest to highest income
	maxResamples       = 16
)

// educationLevels and educationWeights define the parent education draw.
var (
	educationLevels  = []schema.ParentEducation{schema.HighSchool, schema.Undergraduate, schema.Postgraduate}
	educationWeights = []float64{0.4, 0.4, 0.2}
)

// NewRand returns a PCG-backed source. A nil seed draws fresh entropy.
func NewRand(seed *uint64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
}

// EnhanceWithSeed enhances records using a source built from seed.
func EnhanceWithSeed(records []schema.StudentRecord, seed *uint64) ([]schema.EnhancedRecord, error) {
	return Enhance(records, NewRand(seed))
}

// Enhance fills the auxiliary fields absent from each record. Supplied fields
// are kept as-is and the input slice is never modified. Every record is
// checked before any value is drawn, so a malformed batch produces no output.
func Enhance(records []schema.StudentRecord, rng *rand.Rand) ([]schema.EnhancedRecord, error) {
	if err := validateRecords(records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []schema.EnhancedRecord{}, nil
	}

	out := make([]schema.EnhancedRecord, len(records))
	for i, r := range records {
		e := schema.EnhancedRecord{
			ID:                        applicantID(r, i),
			PerformanceIndex:          *r.PerformanceIndex,
			PreviousScores:            *r.PreviousScores,
			ExtracurricularActivities: r.ExtracurricularActivities,
			PracticePapersCount:       r.PracticePapersCount,
		}

		if r.FamilyIncome != nil {
			e.FamilyIncome = *r.FamilyIncome
		} else {
			e.FamilyIncome = drawIncome(rng)
			e.Synthesized = append(e.Synthesized, schema.FamilyIncomeKey)
		}

		if r.ParentEducation != nil {
			e.ParentEducation = *r.ParentEducation
		} else {
			e.ParentEducation = drawEducation(rng)
			e.Synthesized = append(e.Synthesized, schema.ParentEducationKey)
		}

		if r.AttendancePercentage != nil {
			e.AttendancePercentage = *r.AttendancePercentage
		} else {
			e.AttendancePercentage = drawAttendance(rng, e.PerformanceIndex)
			e.Synthesized = append(e.Synthesized, schema.AttendanceKey)
		}

		out[i] = e
	}

	// Scholarship odds depend on where each income sits within the cohort,
	// so they are drawn once every income is known.
	lo, hi := incomeRange(out)
	for i, r := range records {
		if r.PreviousScholarship != nil {
			out[i].PreviousScholarship = *r.PreviousScholarship
			continue
		}
		out[i].PreviousScholarship = drawScholarship(rng, out[i].FamilyIncome, lo, hi)
		out[i].Synthesized = append(out[i].Synthesized, schema.PreviousScholarshipKey)
	}

	return out, nil
}

// validateRecords reports the first record lacking a field scoring depends on,
// holding a non-finite number, or resolving to an already used ID.
func validateRecords(records []schema.StudentRecord) error {
	seen := make(map[string]int, len(records))
	for i, r := range records {
		if r.PerformanceIndex == nil {
			return &schema.MissingRequiredFieldError{Index: i, ApplicantID: r.ID, Field: schema.PerformanceIndexKey}
		}
		if r.PreviousScores == nil {
			return &schema.MissingRequiredFieldError{Index: i, ApplicantID: r.ID, Field: schema.PreviousScoresKey}
		}
		if err := checkFinite(i, r); err != nil {
			return err
		}
		id := applicantID(r, i)
		if first, dup := seen[id]; dup {
			return &schema.DuplicateApplicantIDError{ID: id, FirstIndex: first, Index: i}
		}
		seen[id] = i
	}
	return nil
}

// checkFinite rejects NaN and infinite values in the numeric fields a record supplies.
func checkFinite(i int, r schema.StudentRecord) error {
	fields := []struct {
		key schema.SubFactorKey
		v   *float64
	}{
		{schema.PerformanceIndexKey, r.PerformanceIndex},
		{schema.PreviousScoresKey, r.PreviousScores},
		{schema.ExtracurricularKey, &r.ExtracurricularActivities},
		{schema.PracticePapersKey, &r.PracticePapersCount},
		{schema.FamilyIncomeKey, r.FamilyIncome},
		{schema.AttendanceKey, r.AttendancePercentage},
	}
	for _, f := range fields {
		if f.v != nil && (math.IsNaN(*f.v) || math.IsInf(*f.v, 0)) {
			return &schema.InvalidValueError{Index: i, ApplicantID: r.ID, Field: f.key, Value: *f.v}
		}
	}
	return nil
}

// applicantID returns the record ID, or its 1-based row number when it has none.
func applicantID(r schema.StudentRecord, i int) string {
	if r.ID == "" {
		return strconv.Itoa(i + 1)
	}
	return r.ID
}

// drawIncome samples a log-normal income, resampling out-of-range draws.
func drawIncome(rng *rand.Rand) float64 {
	var v float64
	for range maxResamples {
		v = math.Exp(incomeLogMean + incomeLogSigma*rng.NormFloat64())
		if v >= MinFamilyIncome && v <= MaxFamilyIncome {
			break
		}
	}
	return math.Trunc(clamp(v, MinFamilyIncome, MaxFamilyIncome))
}

// drawEducation samples a parent education level by weight.
func drawEducation(rng *rand.Rand) schema.ParentEducation {
	u := rng.Float64()
	acc := 0.0
	for i, w := range educationWeights {
		acc += w
		if u < acc {
			return educationLevels[i]
		}
	}
	return educationLevels[len(educationLevels)-1]
}

// drawAttendance samples attendance shifted upward by performance.
func drawAttendance(rng *rand.Rand, performanceIndex float64) float64 {
	boost := performanceIndex / 100 * attendanceBoost
	var v float64
	for range maxResamples {
		v = attendanceMean + attendanceStdDev*rng.NormFloat64() + boost
		if v >= MinAttendance && v <= MaxAttendance {
			break
		}
	}
	return clamp(math.Round(clamp(v, MinAttendance, MaxAttendance)*10)/10, MinAttendance, MaxAttendance)
}

// drawScholarship samples the previous scholarship flag; lower income means higher odds.
func drawScholarship(rng *rand.Rand, income, lo, hi float64) bool {
	norm := 0.5
	if hi > lo {
		norm = (income - lo) / (hi - lo)
	}
	p := scholarshipBase - norm*scholarshipFalloff
	return rng.Float64() < p
}

func incomeRange(records []schema.EnhancedRecord) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range records {
		lo = math.Min(lo, r.FamilyIncome)
		hi = math.Max(hi, r.FamilyIncome)
	}
	return lo, hi
}
