package dataset

import (
	"fmt"

	"github.com/huangsam/scholar/internal/parquet"
	"github.com/huangsam/scholar/schema"
)

func decodeParquet(raw []byte) ([]schema.StudentRecord, error) {
	rows, err := parquet.ReadStudents(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrInvalidDataset, err)
	}

	records := make([]schema.StudentRecord, len(rows))
	var hasPerformance, hasPrevious bool
	for i, row := range rows {
		rec := schema.StudentRecord{
			ID:                   row.ID,
			PerformanceIndex:     row.PerformanceIndex,
			PreviousScores:       row.PreviousScores,
			FamilyIncome:         row.FamilyIncome,
			AttendancePercentage: row.AttendancePercentage,
			PreviousScholarship:  row.PreviousScholarship,
		}
		if row.ExtracurricularActivities != nil {
			rec.ExtracurricularActivities = *row.ExtracurricularActivities
		}
		if row.PracticePapersCount != nil {
			rec.PracticePapersCount = *row.PracticePapersCount
		}
		if row.ParentEducation != nil && *row.ParentEducation != "" {
			p, err := schema.ParseParentEducation(*row.ParentEducation)
			if err != nil {
				return nil, rowError(i+1, string(schema.ParentEducationKey), err)
			}
			rec.ParentEducation = &p
		}
		if column, err := checkRecord(rec); err != nil {
			return nil, rowError(i+1, column, err)
		}
		hasPerformance = hasPerformance || row.PerformanceIndex != nil
		hasPrevious = hasPrevious || row.PreviousScores != nil
		records[i] = rec
	}

	if len(records) > 0 {
		if !hasPerformance {
			return nil, missingColumnError(schema.PerformanceIndexKey)
		}
		if !hasPrevious {
			return nil, missingColumnError(schema.PreviousScoresKey)
		}
	}
	return records, nil
}

// WriteParquet writes an enhanced dataset to a Parquet file at path.
func WriteParquet(path string, records []schema.EnhancedRecord) error {
	return parquet.WriteStudentsParquet(parquet.ConvertEnhancedRecords(records), path)
}
