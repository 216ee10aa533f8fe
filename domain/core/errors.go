package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrSchoolNotFound   = fmt.Errorf("%w: school", ErrNotFound)
	ErrSurveyNotFound   = fmt.Errorf("%w: survey", ErrNotFound)
	ErrQuestionNotFound = fmt.Errorf("%w: question", ErrNotFound)
	ErrAnalysisNotFound = fmt.Errorf("%w: analysis", ErrNotFound)

	// Survey state errors
	ErrSurveyNotReady = errors.New("survey not ready for analysis")
	ErrSurveyClosed   = errors.New("survey is closed")
	ErrNoQuestions    = errors.New("survey has no questions")

	// Ingestion errors
	ErrEmptyWorkbook     = errors.New("workbook contains no data")
	ErrNoQuestionColumns = errors.New("no question columns found")
	ErrTooFewResponses   = errors.New("too few responses for meaningful analysis")
	ErrUnsupportedFile   = errors.New("unsupported file type")
)

// NewNotFoundError builds a not-found error with resource context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// NewValidationError builds a field-level validation error
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}
