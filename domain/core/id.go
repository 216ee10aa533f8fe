package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	SchoolID   ID
	SurveyID   ID
	QuestionID ID
	ResponseID ID
	AnalysisID ID
)

// String conversions for domain IDs
func (id SchoolID) String() string   { return ID(id).String() }
func (id SurveyID) String() string   { return ID(id).String() }
func (id QuestionID) String() string { return ID(id).String() }
func (id ResponseID) String() string { return ID(id).String() }
func (id AnalysisID) String() string { return ID(id).String() }

// ParseSchoolID parses a string into SchoolID
func ParseSchoolID(s string) (SchoolID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("school ID cannot be empty")
	}
	return SchoolID(s), nil
}

// ParseSurveyID parses a string into SurveyID
func ParseSurveyID(s string) (SurveyID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("survey ID cannot be empty")
	}
	return SurveyID(s), nil
}

// ParseQuestionID parses a string into QuestionID
func ParseQuestionID(s string) (QuestionID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("question ID cannot be empty")
	}
	return QuestionID(s), nil
}

// ParseAnalysisID parses a string into AnalysisID
func ParseAnalysisID(s string) (AnalysisID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("analysis ID cannot be empty")
	}
	return AnalysisID(s), nil
}
