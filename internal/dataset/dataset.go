// Package dataset loads applicant datasets from CSV, JSON and Parquet files and
// writes enhanced datasets back out.
package dataset

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/scholar/internal/logger"
	"github.com/huangsam/scholar/schema"
	"go.uber.org/zap"
)

// Format is the on-disk encoding of a dataset.
type Format string

// Supported dataset formats.
const (
	CSVFormat     Format = "csv"
	JSONFormat    Format = "json"
	ParquetFormat Format = "parquet"
)

// idColumn is the canonical name of the applicant identifier column.
const idColumn = "id"

// columnAliases maps accepted header spellings to canonical column names.
var columnAliases = map[string]string{
	"id":         idColumn,
	"ID":         idColumn,
	"student_id": idColumn,
	"Student ID": idColumn,

	"performance_index": string(schema.PerformanceIndexKey),
	"Performance Index": string(schema.PerformanceIndexKey),

	"previous_scores": string(schema.PreviousScoresKey),
	"Previous Scores": string(schema.PreviousScoresKey),

	"extracurricular_activities": string(schema.ExtracurricularKey),
	"Extracurricular Activities": string(schema.ExtracurricularKey),

	"practice_papers_count":            string(schema.PracticePapersKey),
	"Sample Question Papers Practiced": string(schema.PracticePapersKey),

	"family_income":         string(schema.FamilyIncomeKey),
	"parent_education":      string(schema.ParentEducationKey),
	"attendance_percentage": string(schema.AttendanceKey),
	"previous_scholarship":  string(schema.PreviousScholarshipKey),
}

// requiredColumns must be present in every dataset.
var requiredColumns = []schema.SubFactorKey{schema.PerformanceIndexKey, schema.PreviousScoresKey}

// Dataset is a loaded applicant dataset together with the bytes it was read from.
type Dataset struct {
	Path    string
	Format  Format
	Raw     []byte
	Records []schema.StudentRecord
}

// FormatFromPath picks the dataset format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSVFormat, nil
	case ".json":
		return JSONFormat, nil
	case ".parquet":
		return ParquetFormat, nil
	default:
		return "", fmt.Errorf("%w: unsupported file extension %q (use .csv, .json or .parquet)", schema.ErrInvalidDataset, filepath.Ext(path))
	}
}

// Load reads and decodes the dataset at path.
func Load(path string) (*Dataset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	records, err := Decode(raw, format)
	if err != nil {
		return nil, err
	}
	logger.L().Debug("dataset loaded",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("records", len(records)))
	return &Dataset{Path: path, Format: format, Raw: raw, Records: records}, nil
}

// Decode parses raw dataset bytes in the given format.
func Decode(raw []byte, format Format) ([]schema.StudentRecord, error) {
	switch format {
	case CSVFormat:
		return decodeCSV(raw)
	case JSONFormat:
		return decodeJSON(raw)
	case ParquetFormat:
		return decodeParquet(raw)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", schema.ErrInvalidDataset, format)
	}
}

// applyCell sets one canonical column of a record from its textual cell value.
// Empty cells leave optional fields absent.
func applyCell(rec *schema.StudentRecord, column, cell string) error {
	cell = strings.TrimSpace(cell)
	switch column {
	case idColumn:
		rec.ID = cell
	case string(schema.PerformanceIndexKey):
		return parseOptionalFloat(cell, &rec.PerformanceIndex)
	case string(schema.PreviousScoresKey):
		return parseOptionalFloat(cell, &rec.PreviousScores)
	case string(schema.FamilyIncomeKey):
		return parseOptionalFloat(cell, &rec.FamilyIncome)
	case string(schema.AttendanceKey):
		return parseOptionalFloat(cell, &rec.AttendancePercentage)
	case string(schema.ExtracurricularKey):
		v, err := parseYesNoOrNumber(cell)
		if err != nil {
			return err
		}
		rec.ExtracurricularActivities = v
	case string(schema.PracticePapersKey):
		if cell == "" {
			return nil
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", cell)
		}
		rec.PracticePapersCount = v
	case string(schema.ParentEducationKey):
		if cell == "" {
			return nil
		}
		p, err := schema.ParseParentEducation(cell)
		if err != nil {
			return err
		}
		rec.ParentEducation = &p
	case string(schema.PreviousScholarshipKey):
		if cell == "" {
			return nil
		}
		b, err := parseYesNo(cell)
		if err != nil {
			return err
		}
		rec.PreviousScholarship = &b
	}
	return nil
}

func parseOptionalFloat(cell string, dst **float64) error {
	if cell == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", cell)
	}
	*dst = &v
	return nil
}

// nonNegativeColumns reject values below zero in every input format.
var nonNegativeColumns = map[schema.SubFactorKey]bool{
	schema.PerformanceIndexKey: true,
	schema.PreviousScoresKey:   true,
	schema.ExtracurricularKey:  true,
	schema.PracticePapersKey:   true,
}

// checkRecord rejects non-finite numbers, and negative values in the columns
// that cannot go below zero. It returns the offending column.
func checkRecord(rec schema.StudentRecord) (string, error) {
	values := []struct {
		key schema.SubFactorKey
		v   *float64
	}{
		{schema.PerformanceIndexKey, rec.PerformanceIndex},
		{schema.PreviousScoresKey, rec.PreviousScores},
		{schema.ExtracurricularKey, &rec.ExtracurricularActivities},
		{schema.PracticePapersKey, &rec.PracticePapersCount},
		{schema.FamilyIncomeKey, rec.FamilyIncome},
		{schema.AttendanceKey, rec.AttendancePercentage},
	}
	for _, f := range values {
		if f.v == nil {
			continue
		}
		if math.IsNaN(*f.v) || math.IsInf(*f.v, 0) {
			return string(f.key), fmt.Errorf("not a finite number: %v", *f.v)
		}
		if nonNegativeColumns[f.key] && *f.v < 0 {
			return string(f.key), fmt.Errorf("must not be negative: %v", *f.v)
		}
	}
	return "", nil
}

func parseYesNo(cell string) (bool, error) {
	switch strings.ToLower(cell) {
	case "yes", "y", "true", "1":
		return true, nil
	case "no", "n", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected Yes or No, got %q", cell)
	}
}

// parseYesNoOrNumber accepts Yes/No flags as 1/0 and plain counts. Empty means 0.
func parseYesNoOrNumber(cell string) (float64, error) {
	if cell == "" {
		return 0, nil
	}
	if v, err := strconv.ParseFloat(cell, 64); err == nil {
		return v, nil
	}
	b, err := parseYesNo(cell)
	if err != nil {
		return 0, err
	}
	if b {
		return 1, nil
	}
	return 0, nil
}

func rowError(row int, column string, err error) error {
	return fmt.Errorf("%w: row %d column %s: %v", schema.ErrInvalidDataset, row, column, err)
}

func missingColumnError(column schema.SubFactorKey) error {
	return fmt.Errorf("%w: required column %s is missing", schema.ErrInvalidDataset, column)
}
