package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for matching with errors.Is.
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidDataset       = errors.New("invalid dataset")
	ErrApplicantNotFound    = errors.New("applicant not found")
	ErrInvalidValue         = errors.New("invalid value")
	ErrDuplicateApplicantID = errors.New("duplicate applicant id")
)

// MissingRequiredFieldError reports a raw record that lacks a field scoring depends on.
type MissingRequiredFieldError struct {
	Index       int // zero-based position in the input batch
	ApplicantID string
	Field       SubFactorKey
}

func (e *MissingRequiredFieldError) Error() string {
	if e.ApplicantID != "" {
		return fmt.Sprintf("record %d (applicant %s): missing required field %s", e.Index+1, e.ApplicantID, e.Field)
	}
	return fmt.Sprintf("record %d: missing required field %s", e.Index+1, e.Field)
}

// Is makes errors.Is(err, ErrMissingRequiredField) match.
func (e *MissingRequiredFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// InvalidConfigurationError reports a configuration rejected before any scoring work.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidConfiguration) match.
func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// InvalidValueError reports a supplied numeric field that is NaN or infinite.
type InvalidValueError struct {
	Index       int // zero-based position in the input batch
	ApplicantID string
	Field       SubFactorKey
	Value       float64
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("record %d: field %s is not a finite number (%v)", e.Index+1, e.Field, e.Value)
}

// Is makes errors.Is(err, ErrInvalidValue) match.
func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

// DuplicateApplicantIDError reports two records resolving to the same identifier.
// Records without an ID resolve to their 1-based row number.
type DuplicateApplicantIDError struct {
	ID         string
	FirstIndex int
	Index      int
}

func (e *DuplicateApplicantIDError) Error() string {
	return fmt.Sprintf("records %d and %d share applicant id %q", e.FirstIndex+1, e.Index+1, e.ID)
}

// Is makes errors.Is(err, ErrDuplicateApplicantID) match.
func (e *DuplicateApplicantIDError) Is(target error) bool {
	return target == ErrDuplicateApplicantID
}
