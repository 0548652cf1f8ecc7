package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/scholar/schema"
)

var utf8BOM = []byte("\xef\xbb\xbf")

func decodeCSV(raw []byte) ([]schema.StudentRecord, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", schema.ErrInvalidDataset)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrInvalidDataset, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = columnAliases[strings.TrimSpace(h)] // unknown headers map to ""
	}
	for _, req := range requiredColumns {
		if !slices.Contains(columns, string(req)) {
			return nil, missingColumnError(req)
		}
	}

	var records []schema.StudentRecord
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", schema.ErrInvalidDataset, err)
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}
		var rec schema.StudentRecord
		for i, column := range columns {
			if column == "" || i >= len(fields) {
				continue
			}
			if err := applyCell(&rec, column, fields[i]); err != nil {
				return nil, rowError(row, header[i], err)
			}
		}
		if column, err := checkRecord(rec); err != nil {
			return nil, rowError(row, column, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// csvHeader is the column order of enhanced CSV output.
var csvHeader = []string{
	idColumn,
	string(schema.PerformanceIndexKey),
	string(schema.PreviousScoresKey),
	string(schema.ExtracurricularKey),
	string(schema.PracticePapersKey),
	string(schema.FamilyIncomeKey),
	string(schema.ParentEducationKey),
	string(schema.AttendanceKey),
	string(schema.PreviousScholarshipKey),
	"synthesized",
}

// WriteCSV writes an enhanced dataset as CSV. The output can be loaded again.
func WriteCSV(w io.Writer, records []schema.EnhancedRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, r := range records {
		synthesized := make([]string, len(r.Synthesized))
		for i, k := range r.Synthesized {
			synthesized[i] = string(k)
		}
		row := []string{
			r.ID,
			formatFloat(r.PerformanceIndex),
			formatFloat(r.PreviousScores),
			formatFloat(r.ExtracurricularActivities),
			formatFloat(r.PracticePapersCount),
			formatFloat(r.FamilyIncome),
			string(r.ParentEducation),
			formatFloat(r.AttendancePercentage),
			yesNo(r.PreviousScholarship),
			strings.Join(synthesized, ";"),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
