package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/scholar/schema"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed student.schema.json
var studentSchema []byte

// validateJSON checks a JSON dataset against the embedded applicant schema.
func validateJSON(raw []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(studentSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: %v", schema.ErrInvalidDataset, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: schema validation failed: %s", schema.ErrInvalidDataset, strings.Join(errs, "; "))
	}
	return nil
}

func decodeJSON(raw []byte) ([]schema.StudentRecord, error) {
	if err := validateJSON(raw); err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var objects []map[string]any
	if err := decoder.Decode(&objects); err != nil {
		return nil, fmt.Errorf("%w: %v", schema.ErrInvalidDataset, err)
	}

	seen := make(map[string]bool)
	records := make([]schema.StudentRecord, 0, len(objects))
	for i, obj := range objects {
		var rec schema.StudentRecord
		for key, value := range obj {
			column, ok := columnAliases[key]
			if !ok {
				continue
			}
			seen[column] = true
			if err := applyCell(&rec, column, jsonCell(value)); err != nil {
				return nil, rowError(i+1, key, err)
			}
		}
		if column, err := checkRecord(rec); err != nil {
			return nil, rowError(i+1, column, err)
		}
		records = append(records, rec)
	}

	if len(records) > 0 {
		for _, req := range requiredColumns {
			if !seen[string(req)] {
				return nil, missingColumnError(req)
			}
		}
	}
	return records, nil
}

// jsonCell renders a decoded JSON value as the textual cell applyCell expects.
func jsonCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case json.Number:
		return t.String()
	case bool:
		return yesNo(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// WriteJSON writes an enhanced dataset as an indented JSON array.
func WriteJSON(w io.Writer, records []schema.EnhancedRecord) error {
	if records == nil {
		records = []schema.EnhancedRecord{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	return nil
}
