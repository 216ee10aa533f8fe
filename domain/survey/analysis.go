package survey

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"surveyscope/domain/core"
)

// JSONDocument wraps raw JSON for JSONB columns that the service writes as
// typed structures but reads back verbatim (statistics, interpretations).
type JSONDocument json.RawMessage

// Value implements driver.Valuer.
func (d JSONDocument) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return []byte(d), nil
}

// Scan implements sql.Scanner.
func (d *JSONDocument) Scan(src interface{}) error {
	if src == nil {
		*d = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		*d = append((*d)[:0], v...)
		return nil
	case string:
		*d = JSONDocument(v)
		return nil
	}
	return fmt.Errorf("cannot scan %T into JSONDocument", src)
}

// MarshalJSON emits the raw document unchanged.
func (d JSONDocument) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return []byte(d), nil
}

// UnmarshalJSON stores the raw document unchanged.
func (d *JSONDocument) UnmarshalJSON(data []byte) error {
	*d = append((*d)[:0], data...)
	return nil
}

// Analysis is the stored result of one analysis run. A survey has at most
// one analysis; a new run replaces the prior result in full.
type Analysis struct {
	ID              core.AnalysisID `db:"id" json:"id"`
	SurveyID        core.SurveyID   `db:"survey_id" json:"surveyId"`
	StatisticalData JSONDocument    `db:"statistical_data" json:"statisticalData,omitempty"`
	Interpretations JSONDocument    `db:"interpretations" json:"interpretations,omitempty"`
	OverallSummary  string          `db:"overall_summary" json:"overallSummary"`
	Strengths       StringList      `db:"strengths" json:"strengths"`
	Improvements    StringList      `db:"improvements" json:"improvements"`
	Recommendations StringList      `db:"recommendations" json:"recommendations"`
	PresentationURL string          `db:"presentation_url" json:"presentationUrl"`
	ReportURL       string          `db:"report_url" json:"reportUrl"`
	Status          AnalysisStatus  `db:"status" json:"status"`
	ErrorMessage    string          `db:"error_message" json:"errorMessage,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
	CompletedAt     *time.Time      `db:"completed_at" json:"completedAt,omitempty"`
}
