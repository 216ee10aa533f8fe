package survey

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"surveyscope/domain/core"
)

// QuestionType is the closed enumeration of supported question archetypes.
// Once a question is created its type is fixed and determines which
// statistics are computed for its responses.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	LikertScale    QuestionType = "likert_scale"
	Rating         QuestionType = "rating"
	Text           QuestionType = "text"
	// YesNo is assigned only by type inference during spreadsheet ingestion;
	// the authoring flow never creates it directly.
	YesNo QuestionType = "yes_no"
)

// IsCategorical reports whether statistics for this type are computed over
// discrete option labels.
func (t QuestionType) IsCategorical() bool {
	return t == MultipleChoice || t == LikertScale || t == YesNo
}

// Valid reports whether t is one of the defined question types.
func (t QuestionType) Valid() bool {
	switch t {
	case MultipleChoice, LikertScale, Rating, Text, YesNo:
		return true
	}
	return false
}

// SurveyStatus tracks a survey through its lifecycle.
type SurveyStatus string

const (
	StatusDraft    SurveyStatus = "draft"
	StatusActive   SurveyStatus = "active"
	StatusClosed   SurveyStatus = "closed"
	StatusAnalyzed SurveyStatus = "analyzed"
)

// AnalysisStatus tracks a background analysis run.
type AnalysisStatus string

const (
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisCompleted  AnalysisStatus = "completed"
	AnalysisFailed     AnalysisStatus = "failed"
)

// School represents an educational institution that owns surveys.
type School struct {
	ID                        core.SchoolID `db:"id" json:"id"`
	Name                      string        `db:"name" json:"name"`
	PrincipalName             string        `db:"principal_name" json:"principalName"`
	AcademicDeputyName        string        `db:"academic_deputy_name" json:"academicDeputyName"`
	AdministrativeDeputyName  string        `db:"administrative_deputy_name" json:"administrativeDeputyName"`
	AcademicYear              string        `db:"academic_year" json:"academicYear"`
	CreatedAt                 time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt                 time.Time     `db:"updated_at" json:"updatedAt"`
}

// Survey holds survey metadata. Questions and responses are stored separately.
type Survey struct {
	ID             core.SurveyID `db:"id" json:"id"`
	SchoolID       core.SchoolID `db:"school_id" json:"schoolId"`
	Title          string        `db:"title" json:"title"`
	Description    string        `db:"description" json:"description"`
	Purpose        string        `db:"purpose" json:"purpose"`
	TargetAudience string        `db:"target_audience" json:"targetAudience"`
	Status         SurveyStatus  `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updatedAt"`
	ClosedAt       *time.Time    `db:"closed_at" json:"closedAt,omitempty"`
}

// StringList is an ordered list of strings stored as JSONB.
type StringList []string

// OptionList is the ordered list of a question's option labels.
type OptionList = StringList

// Value implements driver.Valuer for JSONB storage.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB storage.
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("cannot scan %T into StringList", src)
}

// Question is one survey question. Options are required for categorical
// types and absent for text and rating questions.
type Question struct {
	ID         core.QuestionID `db:"id" json:"id"`
	SurveyID   core.SurveyID   `db:"survey_id" json:"surveyId"`
	Text       string          `db:"question_text" json:"questionText"`
	Type       QuestionType    `db:"question_type" json:"questionType"`
	Options    OptionList      `db:"options" json:"options,omitempty"`
	IsRequired bool            `db:"is_required" json:"isRequired"`
	OrderIndex int             `db:"order_index" json:"orderIndex"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// Response is one respondent's stored answer to one question. Exactly one of
// the answer columns is populated depending on the question type.
type Response struct {
	ID           core.ResponseID `db:"id" json:"id"`
	SurveyID     core.SurveyID   `db:"survey_id" json:"surveyId"`
	QuestionID   core.QuestionID `db:"question_id" json:"questionId"`
	RespondentID string          `db:"respondent_id" json:"respondentId"`
	AnswerText   *string         `db:"answer_text" json:"answerText,omitempty"`
	AnswerOption *string         `db:"answer_option" json:"answerOption,omitempty"`
	AnswerValue  *float64        `db:"answer_value" json:"answerValue,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
}

// Answer returns the raw answer value for statistics, preferring the option
// label, then the numeric value, then free text.
func (r Response) Answer() Answer {
	switch {
	case r.AnswerOption != nil && *r.AnswerOption != "":
		return TextAnswer(*r.AnswerOption)
	case r.AnswerValue != nil:
		return NumberAnswer(*r.AnswerValue)
	case r.AnswerText != nil:
		return TextAnswer(*r.AnswerText)
	}
	return NoAnswer()
}

// AnswerKind discriminates the raw representations of an Answer.
type AnswerKind int

const (
	AnswerNull AnswerKind = iota
	AnswerText
	AnswerNumber
)

// Answer is a single raw answer value as ingested from a spreadsheet cell or
// a stored response: free text, an option label, or a number. A null or
// empty-string answer means "no answer" and is excluded from all statistics.
type Answer struct {
	Kind   AnswerKind
	Text   string
	Number float64
}

// NoAnswer returns the null answer.
func NoAnswer() Answer { return Answer{Kind: AnswerNull} }

// TextAnswer wraps a string value.
func TextAnswer(s string) Answer { return Answer{Kind: AnswerText, Text: s} }

// NumberAnswer wraps a numeric value.
func NumberAnswer(f float64) Answer { return Answer{Kind: AnswerNumber, Number: f} }

// IsNull reports whether the answer counts as "no answer".
func (a Answer) IsNull() bool {
	return a.Kind == AnswerNull || (a.Kind == AnswerText && a.Text == "")
}

// Label returns the trimmed string form of the answer, used as the frequency
// bucket key. Numbers format without trailing zeros ("5", not "5.0").
func (a Answer) Label() string {
	if a.Kind == AnswerNumber {
		return strconv.FormatFloat(a.Number, 'f', -1, 64)
	}
	return strings.TrimSpace(a.Text)
}

// Numeric attempts to coerce the answer to a number.
func (a Answer) Numeric() (float64, bool) {
	switch a.Kind {
	case AnswerNumber:
		return a.Number, true
	case AnswerText:
		f, err := strconv.ParseFloat(strings.TrimSpace(a.Text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
